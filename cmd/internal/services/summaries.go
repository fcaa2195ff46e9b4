package services

import (
	"context"
	"math"
	"strings"
	"time"

	"pdf-desk/cmd/internal/logger"
	"pdf-desk/cmd/internal/pagination"
	"pdf-desk/cmd/internal/pdfapi"
)

// SummariesPerPage 는 요약 목록 화면의 페이지 크기다.
const SummariesPerPage = 12

// FilterAll 은 스타일/언어 필터를 적용하지 않는다는 값이다.
const FilterAll = "all"

type SummaryService struct {
	client       *pdfapi.Client
	itemsPerPage int
	now          func() time.Time
}

func NewSummaryService(client *pdfapi.Client, itemsPerPage int) *SummaryService {
	if itemsPerPage <= 0 {
		itemsPerPage = SummariesPerPage
	}
	return &SummaryService{client: client, itemsPerPage: itemsPerPage, now: time.Now}
}

// ListSummariesInput 의 Style/Language 는 받아온 페이지 안에서만 거른다.
// 빈 값이나 "all" 이면 거르지 않는다.
type ListSummariesInput struct {
	Page         int
	ItemsPerPage int
	SortBy       string
	Order        string
	Search       string
	Style        string
	Language     string
}

func (s *SummaryService) List(ctx context.Context, in ListSummariesInput) (SummaryListView, error) {
	page, ipp := pagination.Normalize(in.Page, in.ItemsPerPage, s.itemsPerPage)
	resp, err := s.client.ListSummaries(ctx, pdfapi.ListParams{
		Page:         page,
		ItemsPerPage: ipp,
		SortBy:       in.SortBy,
		Order:        in.Order,
		Search:       in.Search,
	})
	if err != nil {
		return SummaryListView{}, err
	}

	now := s.now()
	items := make([]SummaryView, 0, len(resp.Data))
	for _, sum := range resp.Data {
		if !matches(sum.Style, in.Style) || !matches(sum.Language, in.Language) {
			continue
		}
		items = append(items, summaryView(sum, now))
	}
	return SummaryListView{
		ListView: newListView(items, pagination.From(resp), "summaries"),
		Stats:    pageStats(items),
	}, nil
}

func matches(value, filter string) bool {
	if filter == "" || strings.EqualFold(filter, FilterAll) {
		return true
	}
	return strings.EqualFold(value, filter)
}

func pageStats(items []SummaryView) SummaryPageStats {
	st := SummaryPageStats{Total: len(items)}
	words := 0
	for _, it := range items {
		switch strings.ToLower(it.Language) {
		case string(pdfapi.LanguageEnglish):
			st.English++
		case string(pdfapi.LanguageIndonesian):
			st.Indonesian++
		}
		words += it.WordCount
	}
	if len(items) > 0 {
		st.AvgWords = int(math.Round(float64(words) / float64(len(items))))
	}
	return st
}

func (s *SummaryService) Detail(ctx context.Context, id uint) (SummaryView, error) {
	sum, err := s.client.GetSummary(ctx, id)
	if err != nil {
		return SummaryView{}, err
	}
	return summaryView(sum, s.now()), nil
}

func (s *SummaryService) Delete(ctx context.Context, id uint, confirm Confirmation) error {
	if !confirm {
		return ErrNotConfirmed
	}
	if _, err := s.client.DeleteSummary(ctx, id); err != nil {
		return err
	}
	logger.InfoWithFields("summary deleted", logger.Fields{"summary_id": id})
	return nil
}

// BulkDelete 는 확인된 경우에만 최대 100개의 요약을 한 번에 삭제한다.
func (s *SummaryService) BulkDelete(ctx context.Context, ids []uint, confirm Confirmation) (pdfapi.BulkDeleteResponse, error) {
	if !confirm {
		return pdfapi.BulkDeleteResponse{}, ErrNotConfirmed
	}
	res, err := s.client.BulkDeleteSummaries(ctx, ids)
	if err != nil {
		return pdfapi.BulkDeleteResponse{}, err
	}
	logger.InfoWithFields("summaries bulk deleted", logger.Fields{
		"requested": len(ids),
		"deleted":   res.DeletedCount,
	})
	return res, nil
}

// DeleteAndRefresh 는 삭제 후 같은 조건으로 요약 목록을 다시 가져온다.
func (s *SummaryService) DeleteAndRefresh(ctx context.Context, id uint, confirm Confirmation, in ListSummariesInput) (SummaryListView, error) {
	if err := s.Delete(ctx, id, confirm); err != nil {
		return SummaryListView{}, err
	}
	return s.refresh(ctx, in)
}

// BulkDeleteAndRefresh 는 일괄 삭제 후 목록을 다시 가져온다.
func (s *SummaryService) BulkDeleteAndRefresh(ctx context.Context, ids []uint, confirm Confirmation, in ListSummariesInput) (pdfapi.BulkDeleteResponse, SummaryListView, error) {
	res, err := s.BulkDelete(ctx, ids, confirm)
	if err != nil {
		return pdfapi.BulkDeleteResponse{}, SummaryListView{}, err
	}
	view, err := s.refresh(ctx, in)
	return res, view, err
}

func (s *SummaryService) refresh(ctx context.Context, in ListSummariesInput) (SummaryListView, error) {
	view, err := s.List(ctx, in)
	if err != nil {
		return SummaryListView{}, err
	}
	if pastLastPage(view.Window) {
		in.Page = view.Window.TotalPages
		return s.List(ctx, in)
	}
	return view, nil
}

// Stats 는 백엔드 집계 통계(/summaries/stats)다.
func (s *SummaryService) Stats(ctx context.Context) (pdfapi.SummaryStats, error) {
	return s.client.SummaryStats(ctx)
}
