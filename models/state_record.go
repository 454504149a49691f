package models

import "time"

// StateRecord is one named durable record in the SQL-backed store.
type StateRecord struct {
	Key       string    `gorm:"primaryKey;size:64" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (StateRecord) TableName() string {
	return "state_records"
}
