package sales

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thyago-vibe/posto-mobile/internal/domain/models"
)

type fakeProductStore struct {
	products       map[uint]*models.Product
	sales          []*models.ProductSale
	movements      []*models.StockMovement
	stockDeltas    map[uint]int
	adjustStockErr error
	movementErr    error
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{
		products: map[uint]*models.Product{
			1: {ID: 1, StationID: 1, Name: "Motor Oil 1L", SalePrice: decimal.NewFromInt(45), Stock: 10, Active: true},
			2: {ID: 2, StationID: 1, Name: "Discontinued", SalePrice: decimal.NewFromInt(5), Active: false},
		},
		stockDeltas: map[uint]int{},
	}
}

func (f *fakeProductStore) GetProduct(_ context.Context, id uint) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (f *fakeProductStore) AdjustStock(_ context.Context, productID uint, delta int) error {
	if f.adjustStockErr != nil {
		return f.adjustStockErr
	}
	f.stockDeltas[productID] += delta
	return nil
}

func (f *fakeProductStore) InsertSale(_ context.Context, sale *models.ProductSale) error {
	sale.ID = uint(len(f.sales) + 1)
	f.sales = append(f.sales, sale)
	return nil
}

func (f *fakeProductStore) InsertStockMovement(_ context.Context, movement *models.StockMovement) error {
	if f.movementErr != nil {
		return f.movementErr
	}
	f.movements = append(f.movements, movement)
	return nil
}

func (f *fakeProductStore) ListOperatorSales(_ context.Context, operatorID uint, from, to time.Time) ([]models.ProductSale, error) {
	var out []models.ProductSale
	for _, s := range f.sales {
		if s.OperatorID == operatorID && !s.SoldAt.Before(from) && s.SoldAt.Before(to) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func TestRecordSale(t *testing.T) {
	store := newFakeProductStore()
	svc := NewService(store, time.UTC, nil)

	sale, err := svc.RecordSale(context.Background(), RecordSaleInput{
		OperatorID: 10,
		ProductID:  1,
		StationID:  1,
		Quantity:   3,
	})
	require.NoError(t, err)

	// Unit price defaults to the product's sale price.
	assert.True(t, sale.UnitPrice.Equal(decimal.NewFromInt(45)))
	assert.True(t, sale.Total.Equal(decimal.NewFromInt(135)))

	assert.Equal(t, -3, store.stockDeltas[1])
	require.Len(t, store.movements, 1)
	assert.Equal(t, models.StockMovementOut, store.movements[0].Type)
	assert.Equal(t, 3, store.movements[0].Quantity)
}

func TestRecordSaleExplicitPrice(t *testing.T) {
	store := newFakeProductStore()
	svc := NewService(store, time.UTC, nil)

	sale, err := svc.RecordSale(context.Background(), RecordSaleInput{
		OperatorID: 10,
		ProductID:  1,
		Quantity:   2,
		UnitPrice:  decimal.NewFromInt(40),
	})
	require.NoError(t, err)
	assert.True(t, sale.Total.Equal(decimal.NewFromInt(80)))
}

func TestRecordSaleRejections(t *testing.T) {
	store := newFakeProductStore()
	svc := NewService(store, time.UTC, nil)

	_, err := svc.RecordSale(context.Background(), RecordSaleInput{ProductID: 1, Quantity: 0})
	assert.Error(t, err)

	_, err = svc.RecordSale(context.Background(), RecordSaleInput{ProductID: 999, Quantity: 1})
	assert.ErrorIs(t, err, ErrProductUnavailable)

	_, err = svc.RecordSale(context.Background(), RecordSaleInput{ProductID: 2, Quantity: 1})
	assert.ErrorIs(t, err, ErrProductUnavailable)

	assert.Empty(t, store.sales)
}

func TestRecordSaleStockFailureStillSucceeds(t *testing.T) {
	store := newFakeProductStore()
	store.adjustStockErr = errors.New("backend unavailable")
	svc := NewService(store, time.UTC, nil)

	sale, err := svc.RecordSale(context.Background(), RecordSaleInput{ProductID: 1, Quantity: 1})
	require.NoError(t, err, "the sale itself is the authoritative record")
	assert.NotNil(t, sale)
	assert.Empty(t, store.movements, "no ledger entry without the stock change")
}

func TestTodaySales(t *testing.T) {
	store := newFakeProductStore()
	svc := NewService(store, time.UTC, nil)
	svc.now = func() time.Time {
		return time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)
	}

	store.sales = []*models.ProductSale{
		{ID: 1, OperatorID: 10, SoldAt: time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)},
		{ID: 2, OperatorID: 10, SoldAt: time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)},
		{ID: 3, OperatorID: 11, SoldAt: time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)},
	}

	sales, err := svc.TodaySales(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, uint(1), sales[0].ID)
}
