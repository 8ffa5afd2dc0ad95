package product

import (
	"cocina/bizerror"
	"cocina/domain"
	"cocina/persistence"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

var (
	FindProductFunc = FindProduct
	ChildrenOfFunc  = ChildrenOf
)

func FindProduct(id types.ID) (*domain.Product, error) {
	db := persistence.ActiveDataSourceManager.GormDB()
	record := domain.Product{}
	if err := db.Where(&domain.Product{ID: id}).First(&record).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// ChildrenOf returns the direct children of a composite product.
func ChildrenOf(id types.ID) ([]domain.Product, error) {
	db := persistence.ActiveDataSourceManager.GormDB()
	var components []domain.ProductComponent
	if err := db.Where(&domain.ProductComponent{ParentID: id}).Find(&components).Error; err != nil {
		return nil, err
	}
	children := make([]domain.Product, 0, len(components))
	for _, component := range components {
		child, err := FindProductFunc(component.ChildID)
		if err != nil {
			return nil, err
		}
		children = append(children, *child)
	}
	return children, nil
}

// ExpandLines flattens composite products into their leaf lines, so that
// only leaf products ever become order items. Child quantities multiply
// with the parent line's quantity.
func ExpandLines(lines []domain.OrderLine) ([]domain.OrderLine, error) {
	expanded := []domain.OrderLine{}
	for _, line := range lines {
		leafLines, err := expandLine(line, map[types.ID]bool{})
		if err != nil {
			return nil, err
		}
		expanded = append(expanded, leafLines...)
	}
	return expanded, nil
}

func expandLine(line domain.OrderLine, visiting map[types.ID]bool) ([]domain.OrderLine, error) {
	if visiting[line.ProductID] {
		return nil, bizerror.ErrCompositeCycle
	}
	record, err := FindProductFunc(line.ProductID)
	if err != nil {
		return nil, err
	}
	if !record.Composite {
		return []domain.OrderLine{line}, nil
	}

	visiting[line.ProductID] = true
	defer delete(visiting, line.ProductID)

	children, err := ChildrenOfFunc(line.ProductID)
	if err != nil {
		return nil, err
	}
	expanded := []domain.OrderLine{}
	for _, child := range children {
		childLines, err := expandLine(domain.OrderLine{ProductID: child.ID, Quantity: line.Quantity}, visiting)
		if err != nil {
			return nil, err
		}
		expanded = append(expanded, childLines...)
	}
	return expanded, nil
}
