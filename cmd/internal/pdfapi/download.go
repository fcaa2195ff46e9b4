package pdfapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
)

// Download 는 GET /pdf/{id}/download 의 원본 응답이다.
// JSON 으로 해석하지 않으며 호출자가 Body 를 읽고 Close 해야 한다.
type Download struct {
	Response *http.Response
}

var dispositionFilename = regexp.MustCompile(`filename="(.+)"`)

// Filename 은 Content-Disposition 의 filename="..." 값을 돌려준다. 없으면 fallback 을 쓴다.
func (d *Download) Filename(fallback string) string {
	if d == nil || d.Response == nil {
		return fallback
	}
	return FilenameFromDisposition(d.Response.Header.Get("Content-Disposition"), fallback)
}

func FilenameFromDisposition(header, fallback string) string {
	if header == "" {
		return fallback
	}
	m := dispositionFilename.FindStringSubmatch(header)
	if m == nil {
		return fallback
	}
	return m[1]
}

func (d *Download) Body() io.ReadCloser {
	return d.Response.Body
}

func (d *Download) ContentLength() int64 {
	return d.Response.ContentLength
}

func (d *Download) Close() error {
	return d.Response.Body.Close()
}

// DownloadDocument 는 원본 PDF 스트림을 연다. 실패 시 메시지 기본값은 "Download failed" 다.
func (c *Client) DownloadDocument(ctx context.Context, id uint) (*Download, error) {
	const op = "pdfapi DownloadDocument"

	req, err := c.long.NewRequest(ctx, http.MethodGet, documentPath(id, "download"), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	resp, err := c.long.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, decodeError(op, resp, fallbackDownloadMessage)
	}
	return &Download{Response: resp}, nil
}
