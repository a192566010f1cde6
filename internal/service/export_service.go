package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"mcc-backend/internal/model"
	"mcc-backend/internal/repository"

	"github.com/xuri/excelize/v2"
)

// ExportService turns the full calculation history into a downloadable
// spreadsheet.
type ExportService interface {
	HistoryExcel(ctx context.Context, actorID string) (filename string, data []byte, err error)
}

type exportService struct {
	calcRepo  repository.CalculationRepository
	auditRepo repository.AuditRepository
}

func NewExportService(calcRepo repository.CalculationRepository, auditRepo repository.AuditRepository) ExportService {
	return &exportService{calcRepo: calcRepo, auditRepo: auditRepo}
}

func (s *exportService) HistoryExcel(ctx context.Context, actorID string) (string, []byte, error) {
	records, err := s.calcRepo.ListAll(ctx)
	if err != nil {
		log.Printf("export: failed to fetch calculation history: %v", err)
		return "", nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	sheet := "Historial"
	xl.SetSheetName(xl.GetSheetName(0), sheet)

	header := []string{"id", "product", "base_price", "excise_rate", "vat_rate", "margin_rate", "final_price", "profit", "user", "timestamp"}
	_ = xl.SetSheetRow(sheet, "A1", &header)

	for i, r := range records {
		row := []string{
			strconv.FormatUint(uint64(r.ID), 10),
			r.Product,
			r.BasePrice.String(),
			r.ExciseRate.String(),
			r.VATRate.String(),
			r.MarginRate.String(),
			r.FinalPrice.StringFixed(2),
			r.Profit.StringFixed(2),
			r.Username,
			r.CreatedAt.UTC().Format(time.RFC3339),
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, i+2)
		_ = xl.SetSheetRow(sheet, cellRef, &row)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		log.Printf("export: failed to write workbook: %v", err)
		return "", nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	// Best-effort audit entry; the download itself already succeeded
	_ = writeAudit(ctx, s.auditRepo, actorID, model.ActionExportHistory, "", "historial", map[string]int{"records": len(records)})

	filename := fmt.Sprintf("historial_calculos_%s.xlsx", time.Now().Format("2006-01-02"))
	return filename, buf.Bytes(), nil
}
