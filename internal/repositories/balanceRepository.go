package repositories

import (
	"SpotTradeBot/internal/models"
	"errors"

	"gorm.io/gorm"
)

type BalanceRepository struct {
	db *gorm.DB
}

// NewBalanceRepository creates a new instance of BalanceRepository
func NewBalanceRepository(db *gorm.DB) *BalanceRepository {
	return &BalanceRepository{db: db}
}

// CreateBatch stores several snapshots in one transaction
func (r *BalanceRepository) CreateBatch(balances []models.Balance) error {
	if len(balances) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&balances).Error
	})
}

// FindLatestByAsset retrieves the newest snapshot for an asset
func (r *BalanceRepository) FindLatestByAsset(asset string) (*models.Balance, error) {
	if asset == "" {
		return nil, errors.New("invalid asset")
	}
	var balance models.Balance
	err := r.db.Where("asset = ?", asset).Order("last_updated DESC").First(&balance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &balance, err
}
