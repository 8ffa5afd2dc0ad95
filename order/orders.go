package order

import (
	"cocina/bizerror"
	"cocina/common"
	"cocina/domain"
	"cocina/domain/state"
	"cocina/event"
	"cocina/idgen"
	"cocina/kitchen/dispatch"
	"cocina/kitchen/estimate"
	"cocina/persistence"
	"cocina/product"
	"cocina/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	orderIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	PlaceOrderFunc        = PlaceOrder
	DetailOrderFunc       = DetailOrder
	CompleteOrderItemFunc = CompleteOrderItem
	ActiveOrdersFunc      = ActiveOrders
	EstimateOrderFunc     = EstimateOrder
)

// PlaceOrder creates the order and its leaf items in one unit of work,
// dispatches every item to the kitchen and moves the order to PREPARING.
// Composite products are expanded before any item exists, so they never
// reach the dispatcher. Events fire only after the transaction commits.
func PlaceOrder(creation *domain.OrderCreation, sec *session.Context) (*domain.OrderDetail, error) {
	lines, err := product.ExpandLines(creation.Lines)
	if err != nil {
		return nil, err
	}

	db := persistence.ActiveDataSourceManager.GormDB()
	deferred := &event.Deferred{}
	var detail *domain.OrderDetail

	err1 := db.Transaction(func(tx *gorm.DB) error {
		now := types.CurrentTimestamp()
		detail = &domain.OrderDetail{Order: domain.Order{
			ID:         idgen.NextID(orderIdWorker),
			Status:     state.StatusPending,
			Version:    1,
			CreateTime: now,
		}}
		if err := tx.Create(&detail.Order).Error; err != nil {
			return err
		}

		for _, line := range lines {
			record, err := product.FindProductFunc(line.ProductID)
			if err != nil {
				return err
			}
			detail.Items = append(detail.Items, &domain.OrderItem{
				ID:                    idgen.NextID(orderIdWorker),
				OrderID:               detail.ID,
				ProductID:             record.ID,
				ProductName:           record.Name,
				PreparationTime:       record.PreparationTime,
				PrerequisiteProductID: record.PrerequisiteProductID,
				Station:               record.Station,
				Quantity:              line.Quantity,
				Status:                state.StatusPending,
				Version:               1,
			})
		}

		// each item's dispatch is fault isolated: a routing failure leaves
		// that item PENDING and unrouted without touching its siblings
		for _, item := range detail.Items {
			dispatch.DispatchFunc(detail, item, tx, deferred)
		}
		for _, item := range detail.Items {
			if err := tx.Create(item).Error; err != nil {
				return err
			}
		}

		if err := transitOrder(tx, &detail.Order, state.StatusPreparing); err != nil {
			return err
		}

		record, err := event.CreateEvent("ORDER", detail.ID, event.CategoryOrderPlaced, event.KitchenUpdate{
			OrderID: detail.ID,
			Status:  state.StatusPreparing,
		}, sec.Identity.ID, sec.Identity.Name, tx)
		if err != nil {
			return err
		}
		deferred.Add(record)
		return nil
	})
	if err1 != nil {
		return nil, err1
	}

	common.Log.Infof("order %v placed with %d items", detail.ID, len(detail.Items))
	deferred.Invoke()
	return detail, nil
}

// transitOrder applies a legal status transition under the optimistic
// version guard. A concurrent writer causes ErrConflict, never a silently
// lost transition.
func transitOrder(tx *gorm.DB, record *domain.Order, to state.Status) error {
	if !state.CanTransit(record.Status, to) {
		return bizerror.ErrConflict
	}
	query := tx.Model(&domain.Order{}).Where("id = ? AND version = ?", record.ID, record.Version).
		Updates(map[string]interface{}{"status": to, "version": record.Version + 1})
	if query.Error != nil {
		return query.Error
	}
	if query.RowsAffected != 1 {
		return bizerror.ErrConflict
	}
	record.Status = to
	record.Version++
	return nil
}

func DetailOrder(id types.ID) (*domain.OrderDetail, error) {
	db := persistence.ActiveDataSourceManager.GormDB()
	detail := domain.OrderDetail{}
	if err := db.Where(&domain.Order{ID: id}).First(&detail.Order).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}
	var items []domain.OrderItem
	if err := db.Where(&domain.OrderItem{OrderID: id}).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	for i := range items {
		detail.Items = append(detail.Items, &items[i])
	}
	return &detail, nil
}

// EstimateOrder recomputes the critical path of a stored order without
// dispatching anything, for preview.
func EstimateOrder(id types.ID) (float64, *domain.OrderDetail, error) {
	detail, err := DetailOrderFunc(id)
	if err != nil {
		return 0, nil, err
	}
	total := estimate.EstimateCompletionTimeFunc(detail)
	return total, detail, nil
}

// ActiveOrders lists the orders still on the kitchen board, oldest first.
func ActiveOrders() ([]domain.OrderDetail, error) {
	db := persistence.ActiveDataSourceManager.GormDB()
	var records []domain.Order
	statuses := state.ActiveStatuses()
	if err := db.Where("status in (?)", statuses).Order("create_time ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	details := make([]domain.OrderDetail, 0, len(records))
	for _, record := range records {
		var items []domain.OrderItem
		if err := db.Where(&domain.OrderItem{OrderID: record.ID}).Order("id ASC").Find(&items).Error; err != nil {
			return nil, err
		}
		detail := domain.OrderDetail{Order: record}
		for i := range items {
			detail.Items = append(detail.Items, &items[i])
		}
		details = append(details, detail)
	}
	return details, nil
}

// CompleteOrderItem marks the item COMPLETED on behalf of the requesting
// chef. Only the assigned chef may complete an assigned item; an already
// completed item is an idempotent no-op returning the item unchanged; a
// stale item revision surfaces as ErrConflict so the caller can retry.
// When the last remaining item of the order completes, the order itself
// moves to COMPLETED under the same optimistic guard.
func CompleteOrderItem(itemID types.ID, sec *session.Context) (*domain.OrderItem, error) {
	requestingChefID := sec.Identity.ID
	db := persistence.ActiveDataSourceManager.GormDB()
	deferred := &event.Deferred{}
	var updated domain.OrderItem

	err1 := db.Transaction(func(tx *gorm.DB) error {
		item := domain.OrderItem{}
		if err := tx.Where(&domain.OrderItem{ID: itemID}).First(&item).Error; err != nil {
			if gorm.IsRecordNotFoundError(err) {
				return bizerror.ErrNotFound
			}
			return err
		}

		if item.AssignedChefID != 0 && item.AssignedChefID != requestingChefID {
			common.Log.Warnf("chef %v attempted to complete item %v assigned to chef %v",
				requestingChefID, itemID, item.AssignedChefID)
			return bizerror.ErrNotItemOwner
		}

		if item.Status == state.StatusCompleted {
			common.Log.Infof("item %v already completed, skipping", itemID)
			updated = item
			return nil
		}

		query := tx.Model(&domain.OrderItem{}).Where("id = ? AND version = ?", item.ID, item.Version).
			Updates(map[string]interface{}{"status": state.StatusCompleted, "version": item.Version + 1})
		if query.Error != nil {
			return query.Error
		}
		if query.RowsAffected != 1 {
			return bizerror.ErrConflict
		}
		item.Status = state.StatusCompleted
		item.Version++
		updated = item

		common.Log.Infof("item %v (%s) completed by chef %v", item.ID, item.ProductName, requestingChefID)
		record, err := event.CreateEvent("ORDER_ITEM", item.ID, event.CategoryItemCompleted, event.KitchenUpdate{
			OrderID:     item.OrderID,
			ItemID:      item.ID,
			Status:      state.StatusCompleted,
			ChefID:      requestingChefID,
			ProductName: item.ProductName,
		}, requestingChefID, sec.Identity.Name, tx)
		if err != nil {
			return err
		}
		deferred.Add(record)

		// recheck siblings at this moment so concurrent completions are
		// tolerated without a global lock
		var siblings []domain.OrderItem
		if err := tx.Where(&domain.OrderItem{OrderID: item.OrderID}).Find(&siblings).Error; err != nil {
			return err
		}
		allOthersComplete := true
		for _, sibling := range siblings {
			if sibling.ID != item.ID && sibling.Status != state.StatusCompleted {
				allOthersComplete = false
				break
			}
		}

		parent := domain.Order{}
		if err := tx.Where(&domain.Order{ID: item.OrderID}).First(&parent).Error; err != nil {
			return err
		}
		if allOthersComplete && parent.Status == state.StatusPreparing {
			common.Log.Infof("all items of order %v complete, finishing order", parent.ID)
			if err := transitOrder(tx, &parent, state.StatusCompleted); err != nil {
				return err
			}
			record, err := event.CreateEvent("ORDER", parent.ID, event.CategoryOrderCompleted, event.KitchenUpdate{
				OrderID: parent.ID,
				Status:  state.StatusCompleted,
			}, requestingChefID, sec.Identity.Name, tx)
			if err != nil {
				return err
			}
			deferred.Add(record)
		} else if parent.Status == state.StatusCompleted {
			common.Log.Infof("order %v is already completed, ignoring completion signal", parent.ID)
		}
		return nil
	})
	if err1 != nil {
		return nil, err1
	}

	deferred.Invoke()
	return &updated, nil
}
