package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"mcc-backend/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestHistoryExcel(t *testing.T) {
	calcRepo := &fakeCalcRepo{records: []model.Calculation{
		{
			ID:         1,
			Product:    "Vino Tinto",
			BasePrice:  decimal.RequireFromString("100"),
			ExciseRate: decimal.RequireFromString("30"),
			VATRate:    decimal.RequireFromString("16"),
			MarginRate: decimal.RequireFromString("40"),
			FinalPrice: decimal.RequireFromString("211.12"),
			Profit:     decimal.RequireFromString("60.32"),
			Username:   "admin",
			CreatedAt:  time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		},
	}}
	audit := &fakeAuditRepo{}
	svc := NewExportService(calcRepo, audit)

	filename, data, err := svc.HistoryExcel(context.Background(), testActorID)
	require.NoError(t, err)

	assert.Contains(t, filename, "historial_calculos_")
	assert.Contains(t, filename, ".xlsx")

	xl, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer xl.Close()

	rows, err := xl.GetRows("Historial")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "product", rows[0][1])
	assert.Equal(t, "final_price", rows[0][6])
	assert.Equal(t, "Vino Tinto", rows[1][1])
	assert.Equal(t, "211.12", rows[1][6])
	assert.Equal(t, "admin", rows[1][8])

	// The export itself lands in the audit trail
	require.Len(t, audit.entries, 1)
	assert.Equal(t, model.ActionExportHistory, audit.entries[0].Action)
}

func TestHistoryExcel_EmptyHistory(t *testing.T) {
	svc := NewExportService(&fakeCalcRepo{}, &fakeAuditRepo{})

	_, data, err := svc.HistoryExcel(context.Background(), testActorID)
	require.NoError(t, err)

	xl, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer xl.Close()

	rows, err := xl.GetRows("Historial")
	require.NoError(t, err)
	require.Len(t, rows, 1) // header only
}
