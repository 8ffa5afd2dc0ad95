package estimate

import (
	"cocina/common"
	"cocina/domain"

	"github.com/fundwit/go-commons/types"
)

// SlackTolerance is the slack below which an item counts as critical.
const SlackTolerance = 0.001

var EstimateCompletionTimeFunc = EstimateCompletionTime

// EstimateCompletionTime computes the critical-path completion time of the
// order in minutes and annotates every item with its early/late start and
// finish times and slack. Dependencies come from each item's prerequisite
// product, resolved against the items actually present in this order; a
// prerequisite that is not part of the order is ignored. When the
// dependency graph cannot be ordered (a cycle), the estimate degrades to
// the plain sum of item durations and the annotations are zeroed.
func EstimateCompletionTime(order *domain.OrderDetail) float64 {
	items := order.Items
	if len(items) == 0 {
		return 0.0
	}

	byProduct := map[types.ID]*domain.OrderItem{}
	for _, item := range items {
		if item.ProductID != 0 {
			byProduct[item.ProductID] = item
		}
	}

	// dependency graph: edge from prerequisite item to dependent item
	successors := map[*domain.OrderItem][]*domain.OrderItem{}
	predecessorCount := map[*domain.OrderItem]int{}
	for _, item := range items {
		successors[item] = nil
		predecessorCount[item] = 0
	}
	for _, item := range items {
		if item.PrerequisiteProductID == 0 {
			continue
		}
		prerequisite, found := byProduct[item.PrerequisiteProductID]
		if !found {
			continue
		}
		successors[prerequisite] = append(successors[prerequisite], item)
		predecessorCount[item]++
	}

	// Kahn's algorithm
	frontier := []*domain.OrderItem{}
	for _, item := range items {
		if predecessorCount[item] == 0 {
			frontier = append(frontier, item)
		}
	}
	topological := make([]*domain.OrderItem, 0, len(items))
	for len(frontier) > 0 {
		current := frontier[0]
		frontier = frontier[1:]
		topological = append(topological, current)
		for _, successor := range successors[current] {
			predecessorCount[successor]--
			if predecessorCount[successor] == 0 {
				frontier = append(frontier, successor)
			}
		}
	}

	if len(topological) != len(items) {
		common.Log.Errorf("dependency cycle detected in order %v, falling back to duration sum", order.ID)
		sum := 0.0
		for _, item := range items {
			// stale annotations from an earlier run are not authoritative
			item.EarlyStart, item.EarlyFinish, item.LateStart, item.LateFinish, item.Slack = 0, 0, 0, 0, 0
			sum += item.TotalMinutes()
		}
		return sum
	}

	// forward pass
	totalTime := 0.0
	for _, item := range topological {
		earliest := 0.0
		if item.PrerequisiteProductID != 0 {
			if prerequisite, found := byProduct[item.PrerequisiteProductID]; found {
				earliest = prerequisite.EarlyFinish
			}
		}
		item.EarlyStart = earliest
		item.EarlyFinish = item.EarlyStart + item.TotalMinutes()
		if item.EarlyFinish > totalTime {
			totalTime = item.EarlyFinish
		}
	}

	// backward pass
	for i := len(topological) - 1; i >= 0; i-- {
		item := topological[i]
		latest := totalTime
		for _, successor := range successors[item] {
			if successor.LateStart < latest {
				latest = successor.LateStart
			}
		}
		item.LateFinish = latest
		item.LateStart = item.LateFinish - item.TotalMinutes()
	}

	common.Log.Infof("critical path analysis of order %v: %.2f minutes total", order.ID, totalTime)
	for _, item := range topological {
		item.Slack = item.LateStart - item.EarlyStart
		if item.Slack < SlackTolerance {
			common.Log.Debugf("item %s (%.2f min) is critical", item.ProductName, item.TotalMinutes())
		}
	}

	return totalTime
}
