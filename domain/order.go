package domain

import (
	"cocina/domain/state"

	"github.com/fundwit/go-commons/types"
)

type Order struct {
	ID     types.ID     `json:"id" gorm:"primary_key"`
	Status state.Status `json:"status"`
	// Version guards every persisted update of the record (optimistic locking).
	Version    int             `json:"version"`
	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

func (r *Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	ID      types.ID `json:"id" gorm:"primary_key"`
	OrderID types.ID `json:"orderId"`

	ProductID   types.ID `json:"productId"`
	ProductName string   `json:"productName"`
	// PreparationTime is minutes per unit, copied from the product at placement.
	PreparationTime       float64  `json:"preparationTime"`
	PrerequisiteProductID types.ID `json:"prerequisiteProductId"`
	Station               Station  `json:"station"`
	Quantity              int      `json:"quantity"`

	Status         state.Status `json:"status"`
	Version        int          `json:"version"`
	AssignedChefID types.ID     `json:"assignedChefId"`

	// critical path annotations, recomputed on every estimation run
	EarlyStart  float64 `json:"earlyStart" gorm:"-"`
	EarlyFinish float64 `json:"earlyFinish" gorm:"-"`
	LateStart   float64 `json:"lateStart" gorm:"-"`
	LateFinish  float64 `json:"lateFinish" gorm:"-"`
	Slack       float64 `json:"slack" gorm:"-"`
}

func (r *OrderItem) TableName() string {
	return "order_items"
}

// TotalMinutes is the estimated effort of the whole line.
func (r *OrderItem) TotalMinutes() float64 {
	return r.PreparationTime * float64(r.Quantity)
}

type OrderDetail struct {
	Order

	Items []*OrderItem `json:"items" gorm:"-"`
}

type OrderLine struct {
	ProductID types.ID `json:"productId" validate:"required"`
	Quantity  int      `json:"quantity" validate:"required,min=1"`
}

type OrderCreation struct {
	Lines []OrderLine `json:"lines" validate:"required,min=1,dive"`
}
