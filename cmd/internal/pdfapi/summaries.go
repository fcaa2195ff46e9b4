package pdfapi

import (
	"context"
	"errors"
	"net/http"
)

// MaxBulkDelete 는 백엔드가 허용하는 일괄 삭제 최대 개수다.
const MaxBulkDelete = 100

var ErrInvalidBulkDelete = errors.New("bulk delete requires between 1 and 100 ids")

// ListSummaries 는 GET /summaries 를 호출한다. style/language/pdf 필터는 값이 있을 때만 보낸다.
func (c *Client) ListSummaries(ctx context.Context, params ListParams) (Page[Summary], error) {
	var out Page[Summary]
	err := c.do(ctx, c.base, "pdfapi ListSummaries", http.MethodGet, "/summaries", params.Query(), nil, &out)
	return out, err
}

func (c *Client) GetSummary(ctx context.Context, id uint) (Summary, error) {
	var out Summary
	err := c.do(ctx, c.base, "pdfapi GetSummary", http.MethodGet, summaryPath(id), nil, nil, &out)
	return out, err
}

func (c *Client) DeleteSummary(ctx context.Context, id uint) (MessageResponse, error) {
	var out MessageResponse
	err := c.do(ctx, c.base, "pdfapi DeleteSummary", http.MethodDelete, summaryPath(id), nil, nil, &out)
	return out, err
}

// BulkDeleteSummaries 는 DELETE /summaries/bulk 를 호출한다.
// 개수 제한을 벗어나면 요청을 보내지 않고 ErrInvalidBulkDelete 를 반환한다.
func (c *Client) BulkDeleteSummaries(ctx context.Context, ids []uint) (BulkDeleteResponse, error) {
	if len(ids) == 0 || len(ids) > MaxBulkDelete {
		return BulkDeleteResponse{}, ErrInvalidBulkDelete
	}
	in := struct {
		IDs []uint `json:"ids"`
	}{IDs: ids}

	var out BulkDeleteResponse
	err := c.do(ctx, c.base, "pdfapi BulkDeleteSummaries", http.MethodDelete, "/summaries/bulk", nil, in, &out)
	return out, err
}

func (c *Client) CountSummaries(ctx context.Context) (int64, error) {
	var out CountResponse
	err := c.do(ctx, c.base, "pdfapi CountSummaries", http.MethodGet, "/summaries/count", nil, nil, &out)
	return out.Count, err
}

func (c *Client) SummaryStats(ctx context.Context) (SummaryStats, error) {
	var out SummaryStats
	err := c.do(ctx, c.base, "pdfapi SummaryStats", http.MethodGet, "/summaries/stats", nil, nil, &out)
	return out, err
}
