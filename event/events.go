package event

import (
	"cocina/idgen"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var eventIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

// CreateEvent builds an event record and persists it through db when db is
// not nil. Persistence happens inside the caller's transaction; invoking
// the handlers stays the caller's responsibility and must follow commit.
func CreateEvent(sourceType string, sourceID types.ID, category Category, payload KitchenUpdate,
	actorID types.ID, actorName string, db *gorm.DB) (*EventRecord, error) {

	record := EventRecord{
		Event: Event{
			SourceType: sourceType,
			SourceID:   sourceID,
			Category:   category,
			Payload:    payload,
			ActorID:    actorID,
			ActorName:  actorName,
		},
		ID:        idgen.NextID(eventIdWorker),
		Synced:    false,
		Timestamp: types.CurrentTimestamp(),
	}
	if db == nil {
		return &record, nil
	}
	if err := EventPersistCreateFunc(&record, db); err != nil {
		return nil, err
	}
	return &record, nil
}
