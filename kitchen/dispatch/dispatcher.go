package dispatch

import (
	"cocina/chefs"
	"cocina/common"
	"cocina/domain"
	"cocina/event"
	"cocina/kitchen/estimate"
	"cocina/kitchen/queue"
	"cocina/kitchen/routing"
	"cocina/product"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

var (
	registry = &queue.Registry{}

	DispatchFunc = Dispatch
)

// InitQueues populates the registry from the current chef roster. Called
// once at startup; chefs joining later still get a queue lazily through
// QueueForChef.
func InitQueues() error {
	common.Log.Info("initializing chef work queues")
	roster, err := chefs.AllChefsFunc()
	if err != nil {
		return err
	}
	for _, chef := range roster {
		registry.Put(chef.ID, queue.New())
		common.Log.Debugf("created queue for chef %v", chef.ID)
	}
	return nil
}

// ReinitQueues drops every queue and repopulates from the roster, for test
// isolation and roster changes. Not a merge: queued items are discarded.
func ReinitQueues() error {
	registry.Clear()
	return InitQueues()
}

func Registry() *queue.Registry {
	return registry
}

// Dispatch estimates the whole order and routes the single item. Both
// steps are insulated: an estimator panic and a routing failure are logged
// and leave sibling items unaffected, the item simply stays unrouted.
func Dispatch(order *domain.OrderDetail, item *domain.OrderItem, tx *gorm.DB, deferred *event.Deferred) {
	func() {
		defer func() {
			if r := recover(); r != nil {
				common.Log.Warnf("estimation failed for order %v, proceeding with previous slack values: %v", order.ID, r)
			}
		}()
		estimate.EstimateCompletionTimeFunc(order)
	}()

	record, err := product.FindProductFunc(item.ProductID)
	if err != nil {
		common.Log.Errorf("failed to resolve product %v of item %v: %v", item.ProductID, item.ID, err)
		return
	}
	if _, err := routing.RouteFunc(order, item, record, registry, tx, deferred); err != nil {
		common.Log.Errorf("failed to dispatch item %v of order %v, item remains unrouted: %v", item.ID, order.ID, err)
	}
}

// QueueForChef creates an empty queue on first access so late-joining
// chefs are usable immediately.
func QueueForChef(chefID types.ID) *queue.WorkQueue {
	return registry.LoadOrCreate(chefID)
}

// QueueSnapshot returns a read-only view of one chef's queue. Items and
// total are read independently and may skew under concurrent routing.
func QueueSnapshot(chefID types.ID) domain.ChefQueueSnapshot {
	workQueue, found := registry.Get(chefID)
	if !found {
		return domain.ChefQueueSnapshot{Items: []*domain.OrderItem{}}
	}
	return domain.ChefQueueSnapshot{
		Items:                 workQueue.Items(),
		TotalEstimatedMinutes: workQueue.TotalEstimatedMinutes(),
	}
}
