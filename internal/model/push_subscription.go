package model

import "time"

// PushSubscription holds the information for a browser push subscription
// used for street-cleaning alerts.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	Signs []*Sign `gorm:"many2many:subscription_sign_mapping;"`
}
