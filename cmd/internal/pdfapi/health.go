package pdfapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

func (c *Client) Ping(ctx context.Context) (Pong, error) {
	var out Pong
	err := c.do(ctx, c.base, "pdfapi Ping", http.MethodGet, "/ping", nil, nil, &out)
	return out, err
}

// Health 는 GET /health 를 호출한다.
// 백엔드가 503 과 함께 상태 본문(status, database, error)을 주면
// 그 내용을 HealthStatus 로 채우고 *APIError 도 함께 반환한다.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	const op = "pdfapi Health"

	req, err := c.base.NewRequest(ctx, http.MethodGet, "/health", nil, nil)
	if err != nil {
		return HealthStatus{}, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.base.Do(req)
	if err != nil {
		return HealthStatus{}, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	var out HealthStatus
	if resp.StatusCode != http.StatusServiceUnavailable {
		err := decodeResponse(op, resp, &out)
		return out, err
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := errorFromBody(op, resp.StatusCode, raw, fallbackNetworkMessage)
	if json.Unmarshal(raw, &out) != nil {
		out = HealthStatus{}
	}
	return out, apiErr
}
