package services

import (
	"context"
	"fmt"

	"pdf-desk/cmd/internal/pdfapi"
)

// StatsService 는 홈 화면 카운터와 상태 확인을 담당한다.
type StatsService struct {
	client *pdfapi.Client
}

func NewStatsService(client *pdfapi.Client) *StatsService {
	return &StatsService{client: client}
}

// Home 은 문서 수와 요약 수를 가져온다.
func (s *StatsService) Home(ctx context.Context) (HomeStats, error) {
	docs, err := s.client.CountDocuments(ctx)
	if err != nil {
		return HomeStats{}, fmt.Errorf("count documents: %w", err)
	}
	sums, err := s.client.CountSummaries(ctx)
	if err != nil {
		return HomeStats{}, fmt.Errorf("count summaries: %w", err)
	}
	return HomeStats{TotalDocuments: docs, TotalSummaries: sums}, nil
}

// Health 는 백엔드 상태를 확인한다.
func (s *StatsService) Health(ctx context.Context) (pdfapi.HealthStatus, error) {
	return s.client.Health(ctx)
}
