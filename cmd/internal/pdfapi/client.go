package pdfapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"pdf-desk/cmd/internal/httpclient"
)

// Client 는 PDF 관리 백엔드(Go API) HTTP API 를 호출하는 얇은 클라이언트다.
//
// - 모든 호출은 요청 1회로 끝난다. 재시도, 백오프, 캐시는 하지 않는다.
// - 2xx 가 아닌 응답은 *APIError 로 변환된다.
// - 요약 생성/채팅/업로드는 백엔드가 AI 처리를 마칠 때까지 블로킹되므로 긴 타임아웃 클라이언트를 쓴다.
type Client struct {
	base      *httpclient.BaseClient
	long      *httpclient.BaseClient
	secondary string
}

type Config struct {
	BaseURL string
	// SecondaryBaseURL 은 Python 서비스 주소다. 현재 이 주소로 나가는 호출은 없다.
	SecondaryBaseURL string
	Timeout          time.Duration
	LongTimeout      time.Duration
	// Transport 는 테스트 등에서 교체할 때만 지정한다.
	Transport http.RoundTripper
}

const (
	defaultBaseURL     = "http://localhost:8080"
	defaultLongTimeout = 5 * time.Minute
)

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.LongTimeout == 0 {
		cfg.LongTimeout = defaultLongTimeout
	}
	short := httpclient.New(httpclient.Config{Timeout: cfg.Timeout, Transport: cfg.Transport, UserAgent: "pdf-desk"})
	long := httpclient.New(httpclient.Config{Timeout: cfg.LongTimeout, Transport: cfg.Transport, UserAgent: "pdf-desk"})
	return &Client{
		base:      httpclient.NewBaseClientWithClient(short, cfg.BaseURL),
		long:      httpclient.NewBaseClientWithClient(long, cfg.BaseURL),
		secondary: cfg.SecondaryBaseURL,
	}
}

func (c *Client) BaseURL() string {
	return c.base.BaseURL
}

func (c *Client) SecondaryBaseURL() string {
	return c.secondary
}

// ListParams 는 목록 API 공통 쿼리다. 0/빈 값 필터는 쿼리에서 제외된다.
type ListParams struct {
	Page         int
	ItemsPerPage int
	SortBy       string
	Order        string
	Search       string
	Style        string
	Language     string
	PDFID        uint
}

const (
	DefaultPage         = 1
	DefaultItemsPerPage = 10
	DefaultSort         = "created_at"
	DefaultOrder        = "desc"
)

func (p ListParams) Query() url.Values {
	q := url.Values{}

	page := p.Page
	if page <= 0 {
		page = DefaultPage
	}
	ipp := p.ItemsPerPage
	if ipp <= 0 {
		ipp = DefaultItemsPerPage
	}
	sortBy := p.SortBy
	if sortBy == "" {
		sortBy = DefaultSort
	}
	order := p.Order
	if order == "" {
		order = DefaultOrder
	}

	q.Set("page", strconv.Itoa(page))
	q.Set("itemsperpage", strconv.Itoa(ipp))
	q.Set("sort", sortBy)
	q.Set("order", order)
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Style != "" {
		q.Set("style", p.Style)
	}
	if p.Language != "" {
		q.Set("language", p.Language)
	}
	if p.PDFID != 0 {
		q.Set("pdf", strconv.FormatUint(uint64(p.PDFID), 10))
	}
	return q
}

// do 는 JSON 요청/응답 한 번을 수행한다. in 이 nil 이면 바디 없이 보낸다.
func (c *Client) do(ctx context.Context, base *httpclient.BaseClient, op, method, relPath string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := base.NewRequest(ctx, method, relPath, query, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := base.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	return decodeResponse(op, resp, out)
}

func decodeResponse(op string, resp *http.Response, out any) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(op, resp, fallbackNetworkMessage)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func documentPath(id uint, rest ...string) string {
	p := "/pdf/" + strconv.FormatUint(uint64(id), 10)
	for _, r := range rest {
		p += "/" + r
	}
	return p
}

func summaryPath(id uint) string {
	return "/summaries/" + strconv.FormatUint(uint64(id), 10)
}
