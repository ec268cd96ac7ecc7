package models

import "time"

// Reserved schema extensions. Migrated but not yet exposed through any
// endpoint; prices/amounts are stored as formatted strings.

type Service struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	BasePrice   string `gorm:"size:20" json:"base_price"`
	IsActive    bool   `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Job struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	ClientID      uint       `gorm:"not null;index" json:"client_id"`
	Client        Client     `gorm:"foreignKey:ClientID" json:"-"`
	ServiceID     *uint      `gorm:"index" json:"service_id"`
	Service       *Service   `gorm:"foreignKey:ServiceID" json:"-"`
	Title         string     `gorm:"size:255;not null" json:"title"`
	Description   string     `gorm:"type:text" json:"description"`
	Status        string     `gorm:"size:50;not null;default:'pending'" json:"status"` // pending, in_progress, completed, cancelled
	Price         string     `gorm:"size:20" json:"price"`
	ScheduledDate *time.Time `json:"scheduled_date"`
	CompletedDate *time.Time `json:"completed_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Invoice struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	ClientID      uint       `gorm:"not null;index" json:"client_id"`
	Client        Client     `gorm:"foreignKey:ClientID" json:"-"`
	JobID         *uint      `gorm:"index" json:"job_id"`
	Job           *Job       `gorm:"foreignKey:JobID" json:"-"`
	InvoiceNumber string     `gorm:"size:50;not null;uniqueIndex" json:"invoice_number"`
	Amount        string     `gorm:"size:20;not null" json:"amount"`
	Status        string     `gorm:"size:50;not null;default:'draft'" json:"status"` // draft, sent, paid, overdue, cancelled
	SentDate      *time.Time `json:"sent_date"`
	DueDate       *time.Time `json:"due_date"`
	PaidDate      *time.Time `json:"paid_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
