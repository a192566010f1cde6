package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"mcc-backend/internal/model"
	"mcc-backend/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// --- fakes ---

type fakeCalcRepo struct {
	records  []model.Calculation
	stats    repository.Stats
	failNext bool
	nextID   uint
}

func (f *fakeCalcRepo) Create(_ context.Context, calc *model.Calculation) error {
	if f.failNext {
		return errors.New("connection refused")
	}
	f.nextID++
	calc.ID = f.nextID
	calc.CreatedAt = time.Now()
	f.records = append(f.records, *calc)
	return nil
}

func (f *fakeCalcRepo) List(_ context.Context, page, limit int) ([]model.Calculation, int64, error) {
	total := int64(len(f.records))
	start := (page - 1) * limit
	if start >= len(f.records) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(f.records) {
		end = len(f.records)
	}
	return f.records[start:end], total, nil
}

func (f *fakeCalcRepo) ListAll(_ context.Context) ([]model.Calculation, error) {
	return f.records, nil
}

func (f *fakeCalcRepo) GetStats(_ context.Context, _ time.Time) (repository.Stats, error) {
	return f.stats, nil
}

type fakeFormulaRepo struct {
	formulas map[uint]model.PricingFormula
}

func (f *fakeFormulaRepo) Create(_ context.Context, formula *model.PricingFormula) error {
	return nil
}

func (f *fakeFormulaRepo) Update(_ context.Context, formula *model.PricingFormula) error {
	return nil
}

func (f *fakeFormulaRepo) FindByID(_ context.Context, id uint) (*model.PricingFormula, error) {
	formula, ok := f.formulas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &formula, nil
}

func (f *fakeFormulaRepo) ListActive(_ context.Context) ([]model.PricingFormula, error) {
	return nil, nil
}

func (f *fakeFormulaRepo) List(_ context.Context, page, limit int) ([]model.PricingFormula, int64, error) {
	return nil, 0, nil
}

type fakeNotifier struct {
	payloads []interface{}
}

func (f *fakeNotifier) BroadcastJSON(v interface{}) {
	f.payloads = append(f.payloads, v)
}

func floatPtr(v float64) *float64 { return &v }
func uintPtr(v uint) *uint        { return &v }

func newTestService() (*fakeCalcRepo, *fakeFormulaRepo, *fakeNotifier, CalculationService) {
	calcRepo := &fakeCalcRepo{}
	formulaRepo := &fakeFormulaRepo{formulas: map[uint]model.PricingFormula{}}
	notifier := &fakeNotifier{}
	svc := NewCalculationService(calcRepo, formulaRepo, notifier)
	return calcRepo, formulaRepo, notifier, svc
}

// --- tests ---

func TestCalculate_WorkedExample(t *testing.T) {
	calcRepo, _, notifier, svc := newTestService()

	res, err := svc.Calculate(context.Background(), CalculateRequest{
		Product:    "Vino Tinto",
		BasePrice:  floatPtr(100),
		ExciseRate: floatPtr(30),
		VATRate:    floatPtr(16),
		MarginRate: floatPtr(40),
	}, "admin")
	require.NoError(t, err)

	assert.InDelta(t, 30.00, res.ExciseAmount, 1e-9)
	assert.InDelta(t, 20.80, res.VATAmount, 1e-9)
	assert.InDelta(t, 150.80, res.TotalCost, 1e-9)
	assert.InDelta(t, 60.32, res.Profit, 1e-9)
	assert.InDelta(t, 211.12, res.FinalPrice, 1e-9)
	assert.InDelta(t, 40, res.MarginPercent, 1e-9)

	// Exactly one immutable record, attributed to the caller
	require.Len(t, calcRepo.records, 1)
	record := calcRepo.records[0]
	assert.Equal(t, "Vino Tinto", record.Product)
	assert.Equal(t, "admin", record.Username)
	assert.True(t, record.FinalPrice.Equal(decimal.RequireFromString("211.12")))
	assert.True(t, record.Profit.Equal(decimal.RequireFromString("60.32")))

	// The record was pushed to the live feed
	assert.Len(t, notifier.payloads, 1)
}

func TestCalculate_DefaultRates(t *testing.T) {
	calcRepo, _, _, svc := newTestService()

	// exciseRate defaults to 0, vatRate to 16, marginRate to 30
	res, err := svc.Calculate(context.Background(), CalculateRequest{
		Product:   "Arroz",
		BasePrice: floatPtr(100),
	}, "usuario1")
	require.NoError(t, err)

	assert.InDelta(t, 0, res.ExciseAmount, 1e-9)
	assert.InDelta(t, 16, res.VATAmount, 1e-9)
	assert.InDelta(t, 116, res.TotalCost, 1e-9)
	assert.InDelta(t, 34.80, res.Profit, 1e-9)
	assert.InDelta(t, 150.80, res.FinalPrice, 1e-9)

	require.Len(t, calcRepo.records, 1)
	assert.True(t, calcRepo.records[0].VATRate.Equal(decimal.NewFromInt(16)))
	assert.True(t, calcRepo.records[0].MarginRate.Equal(decimal.NewFromInt(30)))
}

func TestCalculate_RatesFromFormula(t *testing.T) {
	calcRepo, formulaRepo, _, svc := newTestService()
	formulaRepo.formulas[3] = model.PricingFormula{
		ID:         3,
		Name:       "Bebidas Alcohólicas",
		ExciseRate: decimal.RequireFromString("30"),
		VATRate:    decimal.RequireFromString("16"),
		MarginRate: decimal.RequireFromString("40"),
		Active:     true,
	}

	res, err := svc.Calculate(context.Background(), CalculateRequest{
		Product:   "Vino Tinto",
		BasePrice: floatPtr(100),
		FormulaID: uintPtr(3),
	}, "admin")
	require.NoError(t, err)

	assert.InDelta(t, 211.12, res.FinalPrice, 1e-9)
	require.Len(t, calcRepo.records, 1)
	assert.True(t, calcRepo.records[0].ExciseRate.Equal(decimal.NewFromInt(30)))
}

func TestCalculate_ExplicitRateOverridesFormula(t *testing.T) {
	_, formulaRepo, _, svc := newTestService()
	formulaRepo.formulas[1] = model.PricingFormula{
		ID:         1,
		Name:       "Fórmula General",
		ExciseRate: decimal.Zero,
		VATRate:    decimal.RequireFromString("16"),
		MarginRate: decimal.RequireFromString("30"),
		Active:     true,
	}

	res, err := svc.Calculate(context.Background(), CalculateRequest{
		Product:    "Arroz",
		BasePrice:  floatPtr(50),
		FormulaID:  uintPtr(1),
		VATRate:    floatPtr(0),
		MarginRate: floatPtr(20),
	}, "admin")
	require.NoError(t, err)

	assert.InDelta(t, 60.00, res.FinalPrice, 1e-9)
}

func TestCalculate_UnknownFormula(t *testing.T) {
	calcRepo, _, _, svc := newTestService()

	_, err := svc.Calculate(context.Background(), CalculateRequest{
		Product:   "Arroz",
		BasePrice: floatPtr(50),
		FormulaID: uintPtr(99),
	}, "admin")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, calcRepo.records)
}

func TestCalculate_InactiveFormulaIsNotFound(t *testing.T) {
	calcRepo, formulaRepo, _, svc := newTestService()
	formulaRepo.formulas[7] = model.PricingFormula{ID: 7, Name: "Retirada", Active: false}

	_, err := svc.Calculate(context.Background(), CalculateRequest{
		Product:   "Arroz",
		BasePrice: floatPtr(50),
		FormulaID: uintPtr(7),
	}, "admin")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, calcRepo.records)
}

func TestCalculate_RejectsNonPositiveBasePrice(t *testing.T) {
	calcRepo, _, notifier, svc := newTestService()

	for _, base := range []float64{0, -10} {
		_, err := svc.Calculate(context.Background(), CalculateRequest{
			Product:   "Arroz",
			BasePrice: floatPtr(base),
		}, "admin")
		assert.ErrorIs(t, err, ErrValidation)
	}

	// Failed calculations never append to the audit log
	assert.Empty(t, calcRepo.records)
	assert.Empty(t, notifier.payloads)
}

func TestCalculate_RejectsNegativeMargin(t *testing.T) {
	calcRepo, _, _, svc := newTestService()

	_, err := svc.Calculate(context.Background(), CalculateRequest{
		Product:    "Arroz",
		BasePrice:  floatPtr(100),
		MarginRate: floatPtr(-5),
	}, "admin")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, calcRepo.records)
}

func TestCalculate_StorageFailure(t *testing.T) {
	calcRepo, _, notifier, svc := newTestService()
	calcRepo.failNext = true

	_, err := svc.Calculate(context.Background(), CalculateRequest{
		Product:   "Arroz",
		BasePrice: floatPtr(100),
	}, "admin")
	assert.ErrorIs(t, err, ErrStorage)
	assert.Empty(t, notifier.payloads)
}

func TestHistory_Pagination(t *testing.T) {
	_, _, _, svc := newTestService()
	for i := 0; i < 25; i++ {
		_, err := svc.Calculate(context.Background(), CalculateRequest{
			Product:   fmt.Sprintf("Producto %d", i),
			BasePrice: floatPtr(10),
		}, "admin")
		require.NoError(t, err)
	}

	res, err := svc.History(context.Background(), 2, 10)
	require.NoError(t, err)

	assert.Len(t, res.Records, 10)
	assert.Equal(t, int64(25), res.Total)
	assert.Equal(t, 3, res.TotalPages)
	assert.Equal(t, 2, res.Page)
}
