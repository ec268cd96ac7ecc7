package models

import "time"

// Client entity
type Client struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:255;not null;index" json:"name"`
	// Normalized form only (digits plus optional leading +). Uniqueness is
	// enforced among active clients via a partial index, so archiving a
	// client frees its number for reuse.
	PhoneNumber string `gorm:"size:20;not null;index:idx_clients_active_phone,unique,where:is_archived = false" json:"phone_number"`
	Email       string `gorm:"size:255;index" json:"email"`
	Address     string `gorm:"type:text" json:"address"`
	Notes       string `gorm:"type:text" json:"notes"`
	IsArchived  bool   `gorm:"not null;default:false;index" json:"is_archived"`

	Logs []ClientLog `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClientLog is the append-only audit trail of a client. Entries are only
// ever created, in the same transaction as the mutation they document.
type ClientLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ClientID    uint      `gorm:"not null;index" json:"client_id"`
	Action      string    `gorm:"size:50;not null" json:"action"` // created, updated, archived, merged, ...
	Details     string    `gorm:"type:text" json:"details"`
	PerformedBy string    `gorm:"size:255;not null" json:"performed_by"`
	CreatedAt   time.Time `json:"created_at"`
}
