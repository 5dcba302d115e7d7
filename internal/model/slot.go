package model

import "time"

// Slot is one named value of the durable key-value store.
type Slot struct {
	Key       string `gorm:"primaryKey;column:slot_key"`
	Value     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
