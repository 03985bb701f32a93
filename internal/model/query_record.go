package model

import (
	"time"
)

// QueryRecord is one persisted question/answer pair. Records are immutable
// once created: they are inserted by the query endpoint, read back by the
// history endpoint, and only ever deleted in bulk per user.
type QueryRecord struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	Board     string    `gorm:"size:50;not null" json:"board"`
	Question  string    `gorm:"type:text;not null" json:"query"`
	Answer    string    `gorm:"type:text;not null" json:"response"`
	Visual    string    `gorm:"size:512" json:"visual,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (QueryRecord) TableName() string {
	return "query_records"
}
