package repositories

import (
	"SpotTradeBot/internal/models"
	"errors"
	"time"

	"gorm.io/gorm"
)

type TradeRepository struct {
	db *gorm.DB
}

// NewTradeRepository creates a new instance of TradeRepository
func NewTradeRepository(db *gorm.DB) *TradeRepository {
	return &TradeRepository{db: db}
}

// Create adds a new closed trade to the database
func (r *TradeRepository) Create(trade *models.TradeRecord) error {
	if trade == nil {
		return errors.New("trade cannot be nil")
	}
	return r.db.Create(trade).Error
}

// FindBySymbol retrieves all closed trades for a symbol, newest first
func (r *TradeRepository) FindBySymbol(symbol string) ([]models.TradeRecord, error) {
	if symbol == "" {
		return nil, errors.New("invalid symbol")
	}
	var trades []models.TradeRecord
	err := r.db.Where("symbol = ?", symbol).Order("close_time DESC").Find(&trades).Error
	return trades, err
}

// GetTotalPnL sums realized PnL of trades closed within a time range
func (r *TradeRepository) GetTotalPnL(symbol string, start, end time.Time) (float64, error) {
	var totalPnL float64
	err := r.db.Model(&models.TradeRecord{}).
		Where("symbol = ? AND close_time BETWEEN ? AND ?", symbol, start, end).
		Select("COALESCE(SUM(pnl), 0) as total_pnl").
		Scan(&totalPnL).Error
	return totalPnL, err
}
