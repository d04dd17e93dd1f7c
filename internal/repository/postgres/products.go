package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Thyago-vibe/posto-mobile/internal/domain/models"
)

// GetProduct fetches one product, nil when absent.
func (r *Repository) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &product, nil
}

// AdjustStock shifts the product's stock by delta (negative for sales).
func (r *Repository) AdjustStock(ctx context.Context, productID uint, delta int) error {
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", delta)).Error
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	return nil
}

// InsertSale records a product sale.
func (r *Repository) InsertSale(ctx context.Context, sale *models.ProductSale) error {
	if err := r.db.WithContext(ctx).Create(sale).Error; err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// InsertStockMovement appends an entry to the stock ledger.
func (r *Repository) InsertStockMovement(ctx context.Context, movement *models.StockMovement) error {
	if err := r.db.WithContext(ctx).Create(movement).Error; err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListOperatorSales returns the operator's sales in [from, to), newest
// first, with the product preloaded for display.
func (r *Repository) ListOperatorSales(ctx context.Context, operatorID uint, from, to time.Time) ([]models.ProductSale, error) {
	var sales []models.ProductSale
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("operator_id = ? AND sold_at >= ? AND sold_at < ?", operatorID, from, to).
		Order("sold_at DESC").
		Find(&sales).Error
	if err != nil {
		return nil, fmt.Errorf("list operator sales: %w", err)
	}
	return sales, nil
}
