package domain

import (
	"github.com/fundwit/go-commons/types"
)

type Station string

const (
	StationGrill    Station = "GRILL"
	StationSauce    Station = "SAUCE"
	StationSousChef Station = "SOUS_CHEF"
	StationMainChef Station = "MAIN_CHEF"
	StationPastry   Station = "PASTRY"
)

// Product is a catalog entry. A leaf product has its own preparation time,
// a required station and optionally a prerequisite product; a composite
// product has neither and is expanded into its leaf children before any
// item is created from it.
type Product struct {
	ID        types.ID `json:"id" gorm:"primary_key"`
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	Composite bool     `json:"composite"`

	// leaf-only fields, zero valued on composites
	PreparationTime       float64  `json:"preparationTime"`
	Station               Station  `json:"station"`
	PrerequisiteProductID types.ID `json:"prerequisiteProductId"`

	VisibleToClient bool `json:"visibleToClient"`
}

func (r *Product) TableName() string {
	return "products"
}

// ProductComponent is a membership row of a composite product.
type ProductComponent struct {
	ParentID types.ID `json:"parentId" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	ChildID  types.ID `json:"childId" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
}

func (r *ProductComponent) TableName() string {
	return "product_components"
}
