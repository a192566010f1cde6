package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"mcc-backend/internal/repository"
)

type StatsResponse struct {
	TotalCalculations int64   `json:"totalCalculations"`
	TotalProfit       float64 `json:"totalProfit"`
	TodayCount        int64   `json:"todayCount"`
	TopProduct        string  `json:"topProduct"`
}

type StatisticsService interface {
	GetStats(ctx context.Context) (StatsResponse, error)
}

type statisticsService struct {
	calcRepo repository.CalculationRepository
	now      func() time.Time
}

func NewStatisticsService(calcRepo repository.CalculationRepository) StatisticsService {
	return &statisticsService{calcRepo: calcRepo, now: time.Now}
}

// GetStats aggregates the calculation history: record count, profit sum,
// count for the current date and the most frequently calculated product.
func (s *statisticsService) GetStats(ctx context.Context) (StatsResponse, error) {
	stats, err := s.calcRepo.GetStats(ctx, s.now())
	if err != nil {
		log.Printf("stats: failed to aggregate calculations: %v", err)
		return StatsResponse{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	return StatsResponse{
		TotalCalculations: stats.TotalCalculations,
		TotalProfit:       stats.TotalProfit.Round(2).InexactFloat64(),
		TodayCount:        stats.TodayCount,
		TopProduct:        stats.TopProduct,
	}, nil
}
