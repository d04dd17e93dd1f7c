package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Thyago-vibe/posto-mobile/internal/domain/models"
)

// ErrProductUnavailable is returned when the product does not exist or is
// no longer for sale.
var ErrProductUnavailable = errors.New("product unavailable")

// ProductStore persists products, sales and the stock ledger.
type ProductStore interface {
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	AdjustStock(ctx context.Context, productID uint, delta int) error
	InsertSale(ctx context.Context, sale *models.ProductSale) error
	InsertStockMovement(ctx context.Context, movement *models.StockMovement) error
	ListOperatorSales(ctx context.Context, operatorID uint, from, to time.Time) ([]models.ProductSale, error)
}

// Service records forecourt product sales and keeps the stock ledger in
// step with them.
type Service struct {
	store    ProductStore
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires the sales service.
func NewService(store ProductStore, location *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.Local
	}
	return &Service{store: store, location: location, logger: logger, now: time.Now}
}

// RecordSaleInput carries one sale from the mobile client.
type RecordSaleInput struct {
	OperatorID uint            `json:"operator_id"`
	ProductID  uint            `json:"product_id"`
	StationID  uint            `json:"station_id"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

// RecordSale persists the sale, decrements the product's stock and appends
// an immutable OUT movement to the stock ledger. The sale itself is the
// authoritative record; a ledger failure is logged, not propagated.
func (s *Service) RecordSale(ctx context.Context, input RecordSaleInput) (*models.ProductSale, error) {
	if input.Quantity <= 0 {
		return nil, errors.New("quantity must be positive")
	}

	product, err := s.store.GetProduct(ctx, input.ProductID)
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	if product == nil || !product.Active {
		return nil, ErrProductUnavailable
	}

	unitPrice := input.UnitPrice
	if !unitPrice.IsPositive() {
		unitPrice = product.SalePrice
	}

	sale := &models.ProductSale{
		StationID:  input.StationID,
		OperatorID: input.OperatorID,
		ProductID:  product.ID,
		Quantity:   input.Quantity,
		UnitPrice:  unitPrice,
		Total:      unitPrice.Mul(decimal.NewFromInt(int64(input.Quantity))),
		SoldAt:     s.now().In(s.location),
	}
	if err := s.store.InsertSale(ctx, sale); err != nil {
		return nil, fmt.Errorf("insert sale: %w", err)
	}

	if err := s.store.AdjustStock(ctx, product.ID, -input.Quantity); err != nil {
		s.logger.Error("failed decrementing stock after sale",
			zap.Uint("product_id", product.ID),
			zap.Uint("sale_id", sale.ID),
			zap.Error(err))
		return sale, nil
	}

	movement := &models.StockMovement{
		ProductID:   product.ID,
		Type:        models.StockMovementOut,
		Quantity:    input.Quantity,
		Note:        fmt.Sprintf("mobile sale %d", sale.ID),
		Responsible: fmt.Sprintf("operator %d", input.OperatorID),
	}
	if err := s.store.InsertStockMovement(ctx, movement); err != nil {
		s.logger.Error("failed recording stock movement",
			zap.Uint("product_id", product.ID),
			zap.Uint("sale_id", sale.ID),
			zap.Error(err))
	}

	return sale, nil
}

// TodaySales lists the operator's sales for the current local day, newest
// first.
func (s *Service) TodaySales(ctx context.Context, operatorID uint) ([]models.ProductSale, error) {
	now := s.now().In(s.location)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
	end := start.Add(24 * time.Hour)
	return s.store.ListOperatorSales(ctx, operatorID, start, end)
}
