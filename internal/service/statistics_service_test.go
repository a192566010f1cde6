package service

import (
	"context"
	"testing"

	"mcc-backend/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStats(t *testing.T) {
	calcRepo := &fakeCalcRepo{stats: repository.Stats{
		TotalCalculations: 42,
		TotalProfit:       decimal.RequireFromString("1234.567"),
		TodayCount:        5,
		TopProduct:        "Vino Tinto",
	}}
	svc := NewStatisticsService(calcRepo)

	res, err := svc.GetStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(42), res.TotalCalculations)
	assert.InDelta(t, 1234.57, res.TotalProfit, 1e-9)
	assert.Equal(t, int64(5), res.TodayCount)
	assert.Equal(t, "Vino Tinto", res.TopProduct)
}

func TestGetStats_EmptyHistory(t *testing.T) {
	svc := NewStatisticsService(&fakeCalcRepo{})

	res, err := svc.GetStats(context.Background())
	require.NoError(t, err)

	assert.Zero(t, res.TotalCalculations)
	assert.Zero(t, res.TotalProfit)
	assert.Empty(t, res.TopProduct)
}
