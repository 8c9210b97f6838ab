package repository

import (
	"gorm.io/gorm"

	"github.com/woofadaar/server/internal/model"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(order *model.Order) error {
	return r.db.Create(order).Error
}

func (r *OrderRepository) GetByID(id int64) (*model.Order, error) {
	var order model.Order
	err := r.db.Where("id = ?", id).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) UpdateStatus(id int64, status string) error {
	return r.db.Model(&model.Order{}).Where("id = ?", id).
		Update("status", status).Error
}

// CountCompletedByUser backs the first-time-user check.
func (r *OrderRepository) CountCompletedByUser(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Order{}).
		Where("user_id = ? AND status = ?", userID, model.OrderStatusCompleted).
		Count(&count).Error
	return count, err
}
