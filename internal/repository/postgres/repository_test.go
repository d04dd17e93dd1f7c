package postgres

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Thyago-vibe/posto-mobile/internal/domain/models"
	"github.com/Thyago-vibe/posto-mobile/internal/service/closing"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:repo_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	return New(db)
}

func seedStation(t *testing.T, repo *Repository) {
	t.Helper()
	db := repo.db

	require.NoError(t, db.Create(&models.Station{ID: 1, Name: "Posto Central", Active: true}).Error)
	require.NoError(t, db.Create(&[]models.Shift{
		{ID: 1, StationID: 1, Name: "Morning", StartTime: "06:00", EndTime: "14:00"},
		{ID: 2, StationID: 1, Name: "Night", StartTime: "22:00", EndTime: "06:00"},
	}).Error)
	require.NoError(t, db.Create(&models.User{ID: 1, Name: "Owner", Email: "owner@posto.test", Role: models.RoleAdmin}).Error)
	require.NoError(t, db.Create(&models.Operator{ID: 10, StationID: 1, Name: "Carlos", Active: true}).Error)
}

func TestClosingUniqueTuple(t *testing.T) {
	repo := newTestRepo(t)
	seedStation(t, repo)
	ctx := context.Background()

	first := &models.Closing{Date: "2026-08-30", ShiftID: 1, StationID: 1, UserID: 1, Status: models.ClosingStatusClosed}
	require.NoError(t, repo.CreateClosing(ctx, first))

	dup := &models.Closing{Date: "2026-08-30", ShiftID: 1, StationID: 1, UserID: 1, Status: models.ClosingStatusClosed}
	err := repo.CreateClosing(ctx, dup)
	require.Error(t, err)
	assert.ErrorIs(t, err, closing.ErrDuplicateKey)

	// A different shift on the same day is a different closing.
	other := &models.Closing{Date: "2026-08-30", ShiftID: 2, StationID: 1, UserID: 1, Status: models.ClosingStatusClosed}
	assert.NoError(t, repo.CreateClosing(ctx, other))
}

func TestFindClosing(t *testing.T) {
	repo := newTestRepo(t)
	seedStation(t, repo)
	ctx := context.Background()

	missing, err := repo.FindClosing(ctx, "2026-08-30", 1, 1)
	require.NoError(t, err)
	assert.Nil(t, missing)

	created := &models.Closing{Date: "2026-08-30", ShiftID: 1, StationID: 1, UserID: 1, Status: models.ClosingStatusClosed}
	require.NoError(t, repo.CreateClosing(ctx, created))

	found, err := repo.FindClosing(ctx, "2026-08-30", 1, 1)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)
}

func TestOperatorClosingUniquePair(t *testing.T) {
	repo := newTestRepo(t)
	seedStation(t, repo)
	ctx := context.Background()

	parent := &models.Closing{Date: "2026-08-30", ShiftID: 1, StationID: 1, UserID: 1, Status: models.ClosingStatusClosed}
	require.NoError(t, repo.CreateClosing(ctx, parent))

	child := &models.OperatorClosing{ClosingID: parent.ID, OperatorID: 10, StationID: 1, Cash: decimal.NewFromInt(100)}
	require.NoError(t, repo.InsertOperatorClosing(ctx, child))

	dup := &models.OperatorClosing{ClosingID: parent.ID, OperatorID: 10, StationID: 1}
	err := repo.InsertOperatorClosing(ctx, dup)
	assert.ErrorIs(t, err, closing.ErrDuplicateKey)

	// Overwrite is the sanctioned path after a duplicate.
	child.Cash = decimal.NewFromInt(250)
	require.NoError(t, repo.UpdateOperatorClosing(ctx, child))

	reread, err := repo.FindOperatorClosing(ctx, parent.ID, 10)
	require.NoError(t, err)
	require.NotNil(t, reread)
	assert.True(t, reread.Cash.Equal(decimal.NewFromInt(250)))

	children, err := repo.ListOperatorClosings(ctx, parent.ID)
	require.NoError(t, err)
	assert.Len(t, children, 1)
}

func TestUpdateClosingAggregate(t *testing.T) {
	repo := newTestRepo(t)
	seedStation(t, repo)
	ctx := context.Background()

	parent := &models.Closing{Date: "2026-08-30", ShiftID: 1, StationID: 1, UserID: 1, Status: models.ClosingStatusClosed}
	require.NoError(t, repo.CreateClosing(ctx, parent))

	agg := closing.ClosingAggregate{
		TotalDeclared: decimal.NewFromInt(500),
		TotalReceived: decimal.NewFromInt(480),
		Variance:      decimal.NewFromInt(20),
		Notes:         "pump 2 ran dry",
	}
	require.NoError(t, repo.UpdateClosingAggregate(ctx, parent.ID, agg))

	reread, err := repo.FindClosing(ctx, "2026-08-30", 1, 1)
	require.NoError(t, err)
	require.NotNil(t, reread)
	assert.True(t, reread.TotalDeclared.Equal(decimal.NewFromInt(500)))
	assert.True(t, reread.TotalReceived.Equal(decimal.NewFromInt(480)))
	assert.True(t, reread.Variance.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, "pump 2 ran dry", reread.Notes)
}

func TestListTodayClosingIDs(t *testing.T) {
	repo := newTestRepo(t)
	seedStation(t, repo)
	ctx := context.Background()

	require.NoError(t, repo.CreateClosing(ctx, &models.Closing{Date: "2026-08-30", ShiftID: 1, StationID: 1, UserID: 1, Status: models.ClosingStatusClosed}))
	require.NoError(t, repo.CreateClosing(ctx, &models.Closing{Date: "2026-08-30", ShiftID: 2, StationID: 1, UserID: 1, Status: models.ClosingStatusClosed}))
	require.NoError(t, repo.CreateClosing(ctx, &models.Closing{Date: "2026-08-29", ShiftID: 1, StationID: 1, UserID: 1, Status: models.ClosingStatusClosed}))

	ids, err := repo.ListTodayClosingIDs(ctx, "2026-08-30")
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}

func TestReplaceLines(t *testing.T) {
	repo := newTestRepo(t)
	seedStation(t, repo)
	ctx := context.Background()

	parent := &models.Closing{Date: "2026-08-30", ShiftID: 1, StationID: 1, UserID: 1, Status: models.ClosingStatusClosed}
	require.NoError(t, repo.CreateClosing(ctx, parent))
	child := &models.OperatorClosing{ClosingID: parent.ID, OperatorID: 10, StationID: 1}
	require.NoError(t, repo.InsertOperatorClosing(ctx, child))

	first := []models.CreditNoteLine{
		{OperatorClosingID: child.ID, OperatorID: 10, ClientID: 100, Amount: decimal.NewFromInt(30), Status: models.CreditNoteStatusPending, Date: "2026-08-30"},
		{OperatorClosingID: child.ID, OperatorID: 10, ClientID: 101, Amount: decimal.NewFromInt(20), Status: models.CreditNoteStatusPending, Date: "2026-08-30"},
	}
	require.NoError(t, repo.ReplaceLines(ctx, child.ID, first))

	second := []models.CreditNoteLine{
		{OperatorClosingID: child.ID, OperatorID: 10, ClientID: 100, Amount: decimal.NewFromInt(55), Status: models.CreditNoteStatusPending, Date: "2026-08-30"},
	}
	require.NoError(t, repo.ReplaceLines(ctx, child.ID, second))

	var lines []models.CreditNoteLine
	require.NoError(t, repo.db.Where("operator_closing_id = ?", child.ID).Find(&lines).Error)
	require.Len(t, lines, 1, "resubmission must rewrite the whole set")
	assert.True(t, lines[0].Amount.Equal(decimal.NewFromInt(55)))

	// An empty resubmission clears the lines.
	require.NoError(t, repo.ReplaceLines(ctx, child.ID, nil))
	require.NoError(t, repo.db.Where("operator_closing_id = ?", child.ID).Find(&lines).Error)
	assert.Empty(t, lines)
}

func TestListOperatorHistory(t *testing.T) {
	repo := newTestRepo(t)
	seedStation(t, repo)
	ctx := context.Background()

	dates := []string{"2026-08-28", "2026-08-29", "2026-08-30"}
	for i, date := range dates {
		parent := &models.Closing{Date: date, ShiftID: 1, StationID: 1, UserID: 1, Status: models.ClosingStatusClosed}
		require.NoError(t, repo.CreateClosing(ctx, parent))
		child := &models.OperatorClosing{
			ClosingID:    parent.ID,
			OperatorID:   10,
			StationID:    1,
			Cash:         decimal.NewFromInt(int64(100 + i)),
			MeterReading: decimal.NewFromInt(int64(100 + i)),
			Variance:     decimal.NewFromInt(int64(i)),
		}
		require.NoError(t, repo.InsertOperatorClosing(ctx, child))
	}

	entries, err := repo.ListOperatorHistory(ctx, 10, 1, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "2026-08-30", entries[0].Date)
	assert.Equal(t, "Morning", entries[0].ShiftName)
	assert.True(t, entries[0].Divergent)
	assert.True(t, entries[0].TotalDeclared.Equal(decimal.NewFromInt(102)))

	assert.Equal(t, "2026-08-29", entries[1].Date)

	// Another operator sees nothing.
	other, err := repo.ListOperatorHistory(ctx, 99, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestDirectoryLookups(t *testing.T) {
	repo := newTestRepo(t)
	seedStation(t, repo)
	ctx := context.Background()

	require.NoError(t, repo.db.Create(&[]models.Client{
		{ID: 100, StationID: 1, Name: "Maria Silva", Active: true},
		{ID: 101, StationID: 1, Name: "Jose Santos", Active: true, Blocked: true},
		{ID: 102, StationID: 1, Name: "Old Client", Active: false},
	}).Error)
	require.NoError(t, repo.db.Create(&models.Operator{ID: 11, StationID: 1, Name: "Retired", Active: false}).Error)
	require.NoError(t, repo.db.Create(&models.Station{ID: 2, Name: "Closed Branch", Active: false}).Error)

	shifts, err := repo.ListShifts(ctx, 1)
	require.NoError(t, err)
	require.Len(t, shifts, 2)
	assert.Equal(t, "Morning", shifts[0].Name, "shifts must come back ordered by start time")

	clients, err := repo.ListClients(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, clients, 2, "inactive clients are excluded")

	operators, err := repo.ListOperators(ctx, 1)
	require.NoError(t, err)
	require.Len(t, operators, 1, "inactive operators are excluded")
	assert.Equal(t, "Carlos", operators[0].Name)

	stations, err := repo.ListStations(ctx)
	require.NoError(t, err)
	require.Len(t, stations, 1, "inactive stations are excluded")
	assert.Equal(t, "Posto Central", stations[0].Name)

	station, err := repo.GetStation(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, station)
	assert.Equal(t, "Posto Central", station.Name)

	noStation, err := repo.GetStation(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, noStation)

	found, err := repo.SearchClients(ctx, 1, "maria", 0)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Maria Silva", found[0].Name)

	operator, err := repo.GetOperator(ctx, 10)
	require.NoError(t, err)
	require.NotNil(t, operator)

	missing, err := repo.GetOperator(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.SetCurrentShift(ctx, 10, 2))
	operator, err = repo.GetOperator(ctx, 10)
	require.NoError(t, err)
	require.NotNil(t, operator.CurrentShiftID)
	assert.Equal(t, uint(2), *operator.CurrentShiftID)
}

func TestUserLookups(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user, err := repo.FirstUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	require.NoError(t, repo.db.Create(&[]models.User{
		{ID: 1, Name: "Staff", Email: "staff@posto.test", Role: models.RoleStaff},
		{ID: 2, Name: "Owner", Email: "owner@posto.test", Role: models.RoleAdmin},
	}).Error)

	admin, err := repo.FirstUserByRole(ctx, models.RoleAdmin)
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, uint(2), admin.ID)

	byEmail, err := repo.GetUserByEmail(ctx, "staff@posto.test")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, uint(1), byEmail.ID)

	first, err := repo.FirstUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, uint(1), first.ID)
}

func TestProductSalesAndStock(t *testing.T) {
	repo := newTestRepo(t)
	seedStation(t, repo)
	ctx := context.Background()

	require.NoError(t, repo.db.Create(&models.Product{
		ID: 1, StationID: 1, Name: "Motor Oil 1L", SalePrice: decimal.NewFromInt(45), Stock: 10, Active: true,
	}).Error)

	require.NoError(t, repo.AdjustStock(ctx, 1, -3))

	product, err := repo.GetProduct(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, 7, product.Stock)
}
