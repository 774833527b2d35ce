package models

import (
	"time"
)

// Run development statuses.
const (
	RunStatusDraft     = "draft"
	RunStatusShown     = "shown"
	RunStatusDone      = "done"
	RunStatusCancelled = "cancelled"
)

// Run is one scheduled occurrence of an event. Revenue, Costs, Balance
// and Tax are derived by the run accounting aggregator.
type Run struct {
	ID            int64     `json:"id" db:"id"`
	EventID       int64     `json:"event_id" db:"event_id"`
	AssociationID int64     `json:"association_id" db:"association_id"`
	Status        string    `json:"status" db:"status"`
	Start         time.Time `json:"start" db:"start"`
	Revenue       float64   `json:"revenue" db:"revenue"`
	Costs         float64   `json:"costs" db:"costs"`
	Balance       float64   `json:"balance" db:"balance"`
	Tax           float64   `json:"tax" db:"tax"`
}

// Association is the organisation running events.
type Association struct {
	ID      int64     `json:"id" db:"id"`
	Name    string    `json:"name" db:"name"`
	Created time.Time `json:"created" db:"created"`
}
