package event

import (
	"cocina/domain"
	"cocina/domain/state"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/fundwit/go-commons/types"
)

const (
	CategoryOrderPlaced    = "ORDER_PLACED"
	CategoryItemAssigned   = "ITEM_ASSIGNED"
	CategoryItemCompleted  = "ITEM_COMPLETED"
	CategoryOrderCompleted = "ORDER_COMPLETED"
)

type Category string

type Event struct {
	SourceID   types.ID `json:"sourceId"`
	SourceType string   `json:"sourceType"`

	Category Category      `json:"category"`
	Payload  KitchenUpdate `json:"payload" sql:"type:TEXT"`

	ActorID   types.ID `json:"actorId"`
	ActorName string   `json:"actorName"`
}

type EventRecord struct {
	Event

	ID        types.ID        `json:"id" gorm:"primary_key"`
	Timestamp types.Timestamp `json:"timestamp" sql:"type:DATETIME(6)"`
	Synced    bool            `json:"synced"`
}

func (r *EventRecord) TableName() string {
	return "events"
}

// KitchenUpdate is the payload pushed to the kitchen display when an item
// is assigned or completed, or when an order changes status.
type KitchenUpdate struct {
	OrderID types.ID     `json:"orderId"`
	ItemID  types.ID     `json:"itemId,omitempty"`
	Status  state.Status `json:"status"`

	ChefID   types.ID       `json:"chefId,omitempty"`
	ChefName string         `json:"chefName,omitempty"`
	Station  domain.Station `json:"station,omitempty"`

	ProductName      string  `json:"productName,omitempty"`
	ProjectedMinutes float64 `json:"projectedMinutes,omitempty"`
}

func (t KitchenUpdate) Value() (driver.Value, error) {
	jsonBytes, err := json.Marshal(&t)
	if err != nil {
		return nil, err
	}
	return string(jsonBytes), nil
}

func (t *KitchenUpdate) Scan(v interface{}) error {
	jsonString, ok := v.(string)
	if !ok {
		jsonByte, ok := v.([]byte)
		if !ok {
			return fmt.Errorf("type is neither string nor []byte: %T %v", v, v)
		}
		jsonString = string(jsonByte)
	}
	return json.Unmarshal([]byte(jsonString), t)
}
