package dispatch_test

import (
	"cocina/bizerror"
	"cocina/chefs"
	"cocina/domain"
	"cocina/event"
	"cocina/kitchen/dispatch"
	"cocina/kitchen/estimate"
	"cocina/kitchen/queue"
	"cocina/kitchen/routing"
	"cocina/product"
	"testing"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/assert"
)

func restoreAll() func() {
	originRoster := chefs.AllChefsFunc
	originFind := product.FindProductFunc
	originRoute := routing.RouteFunc
	originEstimate := estimate.EstimateCompletionTimeFunc
	return func() {
		chefs.AllChefsFunc = originRoster
		product.FindProductFunc = originFind
		routing.RouteFunc = originRoute
		estimate.EstimateCompletionTimeFunc = originEstimate
		dispatch.Registry().Clear()
	}
}

func TestInitAndReinitQueues(t *testing.T) {
	defer restoreAll()()

	chefs.AllChefsFunc = func() ([]domain.Chef, error) {
		return []domain.Chef{{ID: 1}, {ID: 2}, {ID: 3}}, nil
	}
	assert.NoError(t, dispatch.ReinitQueues())
	assert.Equal(t, 3, dispatch.Registry().Size())

	// reinitialization replaces, it does not merge
	dispatch.QueueForChef(types.ID(9))
	assert.Equal(t, 4, dispatch.Registry().Size())
	chefs.AllChefsFunc = func() ([]domain.Chef, error) {
		return []domain.Chef{{ID: 1}}, nil
	}
	assert.NoError(t, dispatch.ReinitQueues())
	assert.Equal(t, 1, dispatch.Registry().Size())
}

func TestQueueForChefCreatesOnFirstAccess(t *testing.T) {
	defer restoreAll()()
	dispatch.Registry().Clear()

	q := dispatch.QueueForChef(types.ID(42))
	assert.NotNil(t, q)
	assert.Same(t, q, dispatch.QueueForChef(types.ID(42)))
}

func TestQueueSnapshot(t *testing.T) {
	defer restoreAll()()
	dispatch.Registry().Clear()

	empty := dispatch.QueueSnapshot(types.ID(5))
	assert.Empty(t, empty.Items)
	assert.Equal(t, 0.0, empty.TotalEstimatedMinutes)

	q := dispatch.QueueForChef(types.ID(5))
	q.Add(&domain.OrderItem{ID: 1, PreparationTime: 4, Quantity: 2})
	snapshot := dispatch.QueueSnapshot(types.ID(5))
	assert.Len(t, snapshot.Items, 1)
	assert.Equal(t, 8.0, snapshot.TotalEstimatedMinutes)

	// the snapshot is a copy, mutating it does not touch the queue
	snapshot.Items[0] = nil
	assert.NotNil(t, q.Items()[0])
}

func TestDispatchSurvivesEstimatorPanic(t *testing.T) {
	defer restoreAll()()

	estimate.EstimateCompletionTimeFunc = func(order *domain.OrderDetail) float64 {
		panic("estimator blew up")
	}
	product.FindProductFunc = func(id types.ID) (*domain.Product, error) {
		return &domain.Product{ID: id, Name: "Patty", Station: domain.StationGrill}, nil
	}
	routed := 0
	routing.RouteFunc = func(order *domain.OrderDetail, item *domain.OrderItem, record *domain.Product,
		registry *queue.Registry, tx *gorm.DB, deferred *event.Deferred) (*domain.Chef, error) {
		routed++
		return &domain.Chef{ID: 1}, nil
	}

	order := &domain.OrderDetail{Order: domain.Order{ID: 1}}
	dispatch.Dispatch(order, &domain.OrderItem{ID: 10, ProductID: 500}, nil, nil)
	assert.Equal(t, 1, routed, "dispatch must proceed when estimation fails")
}

func TestDispatchIsolatesRoutingFailures(t *testing.T) {
	defer restoreAll()()

	estimate.EstimateCompletionTimeFunc = func(order *domain.OrderDetail) float64 { return 0 }
	product.FindProductFunc = func(id types.ID) (*domain.Product, error) {
		return &domain.Product{ID: id, Name: "Patty", Station: domain.StationGrill}, nil
	}
	attempts := 0
	routing.RouteFunc = func(order *domain.OrderDetail, item *domain.OrderItem, record *domain.Product,
		registry *queue.Registry, tx *gorm.DB, deferred *event.Deferred) (*domain.Chef, error) {
		attempts++
		if attempts == 1 {
			return nil, bizerror.ErrNoChefAvailable
		}
		return &domain.Chef{ID: 1}, nil
	}

	order := &domain.OrderDetail{Order: domain.Order{ID: 1}}
	// the first item fails to route, the sibling still dispatches
	dispatch.Dispatch(order, &domain.OrderItem{ID: 10, ProductID: 500}, nil, nil)
	dispatch.Dispatch(order, &domain.OrderItem{ID: 11, ProductID: 500}, nil, nil)
	assert.Equal(t, 2, attempts)
}

func TestDispatchSkipsUnknownProduct(t *testing.T) {
	defer restoreAll()()

	estimate.EstimateCompletionTimeFunc = func(order *domain.OrderDetail) float64 { return 0 }
	product.FindProductFunc = func(id types.ID) (*domain.Product, error) {
		return nil, bizerror.ErrNotFound
	}
	routing.RouteFunc = func(order *domain.OrderDetail, item *domain.OrderItem, record *domain.Product,
		registry *queue.Registry, tx *gorm.DB, deferred *event.Deferred) (*domain.Chef, error) {
		t.Fatal("route must not be called for an unresolvable product")
		return nil, nil
	}

	order := &domain.OrderDetail{Order: domain.Order{ID: 1}}
	dispatch.Dispatch(order, &domain.OrderItem{ID: 10, ProductID: 999}, nil, nil)
}
