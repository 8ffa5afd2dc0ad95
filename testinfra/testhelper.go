package testinfra

import (
	"cocina/domain"
	"cocina/session"

	"github.com/fundwit/go-commons/types"
)

// BuildSecCtx builds the security context of a requesting chef.
func BuildSecCtx(chefID types.ID, name string) *session.Context {
	return &session.Context{
		Token:    "test-token",
		Identity: session.Identity{ID: chefID, Name: name},
	}
}

// BuildChef returns an unsaved chef record with sensible defaults.
func BuildChef(id types.ID, name string, station domain.Station, efficiency float64) domain.Chef {
	return domain.Chef{ID: id, Name: name, Account: name, Station: station, Efficiency: efficiency}
}

// BuildLeafProduct returns an unsaved leaf product record.
func BuildLeafProduct(id types.ID, name string, prepMinutes float64, station domain.Station, prerequisiteID types.ID) domain.Product {
	return domain.Product{
		ID: id, Name: name, PreparationTime: prepMinutes, Station: station,
		PrerequisiteProductID: prerequisiteID, VisibleToClient: true,
	}
}
