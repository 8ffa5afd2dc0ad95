package product_test

import (
	"cocina/bizerror"
	"cocina/domain"
	"cocina/product"
	"testing"

	"github.com/fundwit/go-commons/types"
	. "github.com/onsi/gomega"
)

func stubCatalog(products map[types.ID]domain.Product, children map[types.ID][]types.ID) func() {
	originFind := product.FindProductFunc
	originChildren := product.ChildrenOfFunc
	product.FindProductFunc = func(id types.ID) (*domain.Product, error) {
		record, found := products[id]
		if !found {
			return nil, bizerror.ErrNotFound
		}
		return &record, nil
	}
	product.ChildrenOfFunc = func(id types.ID) ([]domain.Product, error) {
		result := []domain.Product{}
		for _, childID := range children[id] {
			result = append(result, products[childID])
		}
		return result, nil
	}
	return func() {
		product.FindProductFunc = originFind
		product.ChildrenOfFunc = originChildren
	}
}

func TestExpandLines(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should keep leaf lines untouched", func(t *testing.T) {
		restore := stubCatalog(map[types.ID]domain.Product{
			1: {ID: 1, Name: "Fries", Station: domain.StationGrill, PreparationTime: 3},
		}, nil)
		defer restore()

		lines, err := product.ExpandLines([]domain.OrderLine{{ProductID: 1, Quantity: 2}})
		Expect(err).To(BeNil())
		Expect(lines).To(Equal([]domain.OrderLine{{ProductID: 1, Quantity: 2}}))
	})

	t.Run("should flatten nested composites into leaves", func(t *testing.T) {
		restore := stubCatalog(map[types.ID]domain.Product{
			10: {ID: 10, Name: "Burger Combo", Composite: true},
			11: {ID: 11, Name: "Burger", Composite: true},
			12: {ID: 12, Name: "Patty", PreparationTime: 5, Station: domain.StationGrill},
			13: {ID: 13, Name: "Bun", PreparationTime: 1, Station: domain.StationSousChef},
			14: {ID: 14, Name: "Fries", PreparationTime: 3, Station: domain.StationGrill},
		}, map[types.ID][]types.ID{
			10: {11, 14},
			11: {12, 13},
		})
		defer restore()

		lines, err := product.ExpandLines([]domain.OrderLine{{ProductID: 10, Quantity: 2}})
		Expect(err).To(BeNil())
		Expect(lines).To(Equal([]domain.OrderLine{
			{ProductID: 12, Quantity: 2},
			{ProductID: 13, Quantity: 2},
			{ProductID: 14, Quantity: 2},
		}))
	})

	t.Run("should fail on self referential composite", func(t *testing.T) {
		restore := stubCatalog(map[types.ID]domain.Product{
			20: {ID: 20, Name: "Ouroboros", Composite: true},
		}, map[types.ID][]types.ID{
			20: {20},
		})
		defer restore()

		lines, err := product.ExpandLines([]domain.OrderLine{{ProductID: 20, Quantity: 1}})
		Expect(lines).To(BeNil())
		Expect(err).To(Equal(bizerror.ErrCompositeCycle))
	})

	t.Run("should fail on unknown product", func(t *testing.T) {
		restore := stubCatalog(nil, nil)
		defer restore()

		lines, err := product.ExpandLines([]domain.OrderLine{{ProductID: 999, Quantity: 1}})
		Expect(lines).To(BeNil())
		Expect(err).To(Equal(bizerror.ErrNotFound))
	})
}
