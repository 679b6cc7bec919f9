package notifications

import "time"

type Notification struct {
	ID          string     `json:"id"`
	Recipient   string     `json:"recipient"`
	Type        string     `json:"type"`
	Subject     string     `json:"subject"`
	Link        string     `json:"link"`
	DeliveredAt *time.Time `json:"deliveredAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}
