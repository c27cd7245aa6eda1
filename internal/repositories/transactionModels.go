package repositories

import (
	"SpotTradeBot/internal/models"
	"errors"

	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create adds a new order record to the database
func (r *OrderRepository) Create(order *models.OrderRecord) error {
	if order == nil {
		return errors.New("order cannot be nil")
	}
	return r.db.Create(order).Error
}

// FindByClientOrderID retrieves an order record by its client order ID
func (r *OrderRepository) FindByClientOrderID(clientOrderID string) (*models.OrderRecord, error) {
	if clientOrderID == "" {
		return nil, errors.New("invalid client order id")
	}
	var order models.OrderRecord
	err := r.db.Where("client_order_id = ?", clientOrderID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

// Update modifies an existing order record
func (r *OrderRepository) Update(order *models.OrderRecord) error {
	if order == nil {
		return errors.New("order cannot be nil")
	}
	return r.db.Save(order).Error
}

// Upsert creates the record for a client order ID or updates the existing one
func (r *OrderRepository) Upsert(order *models.OrderRecord) error {
	existing, err := r.FindByClientOrderID(order.ClientOrderID)
	if err != nil {
		return err
	}
	if existing == nil {
		return r.Create(order)
	}
	order.ID = existing.ID
	if order.Attempts == 0 {
		order.Attempts = existing.Attempts
	}
	order.CreatedAt = existing.CreatedAt
	return r.Update(order)
}
