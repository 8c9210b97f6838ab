package model

import (
	"time"
)

// Order statuses. Only completed orders count toward the first-time-user check.
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

type Order struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	PlanID    string    `gorm:"size:50" json:"plan_id"`
	Amount    float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status    string    `gorm:"size:20;default:pending;index" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}
