package domain

import (
	"github.com/fundwit/go-commons/types"
)

// Chef is a staffed kitchen resource. Efficiency is a speed multiplier,
// 1.0 is baseline, greater is faster.
type Chef struct {
	ID      types.ID `json:"id" gorm:"primary_key"`
	Name    string   `json:"name"`
	Account string   `json:"account"`
	Station Station  `json:"station"`

	Efficiency float64 `json:"efficiency"`
}

func (r *Chef) TableName() string {
	return "chefs"
}

// ChefQueueSnapshot is the read-only introspection view of one work queue.
// Items and TotalEstimatedMinutes are taken independently and may skew
// slightly under concurrent enqueue/dequeue.
type ChefQueueSnapshot struct {
	Items                 []*OrderItem `json:"items"`
	TotalEstimatedMinutes float64      `json:"totalEstimatedMinutes"`
}
