package models

import (
	"time"

	"gorm.io/datatypes"
)

// WebhookEvent records a processed delivery by its svix message id so that
// redeliveries of the same message short-circuit.
type WebhookEvent struct {
	ID        string         `gorm:"column:id;type:text;primaryKey" json:"id"` // svix message id
	EventType string         `gorm:"column:event_type;type:text" json:"event_type"`
	Payload   datatypes.JSON `gorm:"column:payload;type:jsonb" json:"payload"`

	ReceivedAt time.Time `gorm:"column:received_at;type:timestamptz" json:"received_at"`
}

func (WebhookEvent) TableName() string { return "webhook_events" }
