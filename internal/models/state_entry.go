package models

import (
	"time"

	"gorm.io/datatypes"
)

// StateEntry is one named slot of local client state when it is kept in a SQL database.
type StateEntry struct {
	Key       string         `gorm:"primaryKey;size:191" json:"key"`
	Value     datatypes.JSON `gorm:"type:json" json:"value"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TableName pins the table name used by the state store.
func (StateEntry) TableName() string { return "state_entries" }
