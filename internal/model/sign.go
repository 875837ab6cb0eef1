package model

import "time"

// Sign represents one physical curb regulation sign.
type Sign struct {
	ID          int64     `gorm:"primaryKey" json:"id"` // Upstream object ID
	Street      string    `gorm:"size:256;index;not null" json:"street_name"`
	FromStreet  string    `gorm:"size:256" json:"from_street,omitempty"`
	ToStreet    string    `gorm:"size:256" json:"to_street,omitempty"`
	Side        string    `gorm:"size:32" json:"side"`
	Borough     string    `gorm:"size:64;index" json:"borough,omitempty"`
	Description string    `gorm:"size:512;not null" json:"description"`
	Latitude    float64   `gorm:"index" json:"latitude"`
	Longitude   float64   `gorm:"index" json:"longitude"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}
