package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SearchLog is an append-only record of a public search.
type SearchLog struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Query        *string   `gorm:"column:search_query;index" json:"query"`
	LGA          *string   `gorm:"column:lga;index" json:"lga"`
	Category     *string   `gorm:"index" json:"category"` // comma-joined
	Verified     *bool     `json:"verified"`
	ResultsCount int64     `gorm:"not null" json:"results_count"`
	UserAgent    string    `gorm:"type:text" json:"user_agent"`
	IPAddress    string    `gorm:"type:varchar(64)" json:"ip_address"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}

func (SearchLog) TableName() string {
	return "search_logs"
}

func (l *SearchLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
