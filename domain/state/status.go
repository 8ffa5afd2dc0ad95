package state

// Status is the shared lifecycle enum for orders and order items.
// Orders walk PENDING -> PREPARING -> COMPLETED; REVOKED is observed from
// outside (order cancellation) and treated as terminal, it is never
// produced by this service.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPreparing Status = "PREPARING"
	StatusCompleted Status = "COMPLETED"
	StatusRevoked   Status = "REVOKED"
)

type Transition struct {
	Name string
	From Status
	To   Status
}

var Transitions = []Transition{
	{Name: "begin-preparing", From: StatusPending, To: StatusPreparing},
	{Name: "finish", From: StatusPreparing, To: StatusCompleted},
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusCompleted, StatusRevoked:
		return true
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusRevoked
}

// CanTransit reports whether from -> to is a legal order transition.
func CanTransit(from, to Status) bool {
	for _, t := range Transitions {
		if t.From == from && t.To == to {
			return true
		}
	}
	return false
}

// ActiveStatuses are the statuses visible on the kitchen board.
func ActiveStatuses() []Status {
	return []Status{StatusPending, StatusPreparing}
}
