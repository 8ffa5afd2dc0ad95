package routing

import (
	"cocina/bizerror"
	"cocina/chefs"
	"cocina/common"
	"cocina/domain"
	"cocina/domain/state"
	"cocina/event"
	"cocina/kitchen/queue"
	"math"
	"sort"

	"github.com/jinzhu/gorm"
)

// UrgencyWeight scales how strongly low slack pulls an item towards a
// chef who can start it sooner.
const UrgencyWeight = 5.0

var RouteFunc = Route

// Route picks the least-loaded capable chef for the item and enqueues it.
// The score per candidate is effective load (queued minutes divided by the
// chef's efficiency) minus an urgency bonus derived from the item's slack;
// the minimum score wins, equal scores go to the lower chef id. On success
// the item becomes PREPARING and an assignment event is recorded; the
// event reaches the handlers after the enclosing transaction commits, or
// immediately when no unit of work is active.
func Route(order *domain.OrderDetail, item *domain.OrderItem, product *domain.Product,
	registry *queue.Registry, tx *gorm.DB, deferred *event.Deferred) (*domain.Chef, error) {

	if product.Composite {
		common.Log.Errorf("attempted to route composite product %s, composites must be expanded before dispatch", product.Name)
		return nil, bizerror.ErrCompositeNotRoutable
	}
	if product.Station == "" {
		common.Log.Warnf("product %s has no required station", product.Name)
		return nil, bizerror.ErrStationMissing
	}

	candidates, err := chefs.FindChefsByStationFunc(product.Station)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		common.Log.Errorf("no chef staffed for station %s", product.Station)
		return nil, bizerror.ErrNoChefAvailable
	}
	// deterministic tie-break: candidates scored in ascending id order, a
	// strict improvement is required to displace the current best
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })

	var best *domain.Chef
	bestScore := math.MaxFloat64
	for i := range candidates {
		chef := &candidates[i]
		efficiency := chef.Efficiency
		if efficiency <= 0 {
			efficiency = 1.0
		}
		workQueue := registry.LoadOrCreate(chef.ID)

		effectiveLoad := workQueue.TotalEstimatedMinutes() / efficiency
		adjustedSlack := math.Max(0, item.Slack)
		urgencyBonus := UrgencyWeight / (1.0 + adjustedSlack)
		score := effectiveLoad - urgencyBonus

		common.Log.Debugf("chef %v (%s): load=%.2f eff=%.2f score=%.2f",
			chef.ID, product.Station, workQueue.TotalEstimatedMinutes(), efficiency, score)

		if score < bestScore {
			bestScore = score
			best = chef
		}
	}

	targetQueue := registry.LoadOrCreate(best.ID)
	targetQueue.Add(item)
	item.Status = state.StatusPreparing
	item.AssignedChefID = best.ID

	common.Log.Infof("item %s assigned to chef %v, new queue load %.2f minutes",
		item.ProductName, best.ID, targetQueue.TotalEstimatedMinutes())

	record, err := event.CreateEvent("ORDER_ITEM", item.ID, event.CategoryItemAssigned, event.KitchenUpdate{
		OrderID:          order.ID,
		ItemID:           item.ID,
		Status:           state.StatusPreparing,
		ChefID:           best.ID,
		ChefName:         best.Name,
		Station:          best.Station,
		ProductName:      product.Name,
		ProjectedMinutes: item.TotalMinutes(),
	}, best.ID, best.Name, tx)
	if err != nil {
		return nil, err
	}
	if deferred != nil {
		deferred.Add(record)
	} else {
		event.InvokeHandlersFunc(record)
	}

	return best, nil
}
