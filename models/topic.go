package models

import "time"

// TopicUsage tracks how often each content type was chosen and how it performed.
// One row per content type.
type TopicUsage struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	ContentType   string     `gorm:"size:32;uniqueIndex;not null" json:"content_type"`
	UsageCount    int        `gorm:"default:0" json:"usage_count"`
	SuccessRate   float64    `gorm:"default:1" json:"success_rate"`
	AvgEngagement float64    `gorm:"default:0" json:"avg_engagement"`
	LastUsed      *time.Time `json:"last_used,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Setting is a small key/value row for agent state that must survive restarts,
// such as the last price-mention timestamp.
type Setting struct {
	Key       string    `gorm:"primaryKey;size:64" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
