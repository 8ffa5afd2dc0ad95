package bizerror

import "errors"

var (
	ErrNotFound        = errors.New("record not found")
	ErrConflict        = errors.New("stale revision")
	ErrNotItemOwner    = errors.New("not assigned to this item")
	ErrUnauthenticated = errors.New("unauthenticated")

	ErrNoChefAvailable      = errors.New("no chef available for station")
	ErrCompositeNotRoutable = errors.New("composite product is not routable")
	ErrStationMissing       = errors.New("product has no required station")
	ErrCompositeCycle       = errors.New("composite product references itself")
)
