package pdfapi

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// ListDocuments 는 GET /pdf 를 호출한다.
func (c *Client) ListDocuments(ctx context.Context, params ListParams) (Page[Document], error) {
	var out Page[Document]
	err := c.do(ctx, c.base, "pdfapi ListDocuments", http.MethodGet, "/pdf", params.Query(), nil, &out)
	return out, err
}

// GetDocument 는 요약 목록이 포함된 단일 문서를 조회한다.
func (c *Client) GetDocument(ctx context.Context, id uint) (Document, error) {
	var out Document
	err := c.do(ctx, c.base, "pdfapi GetDocument", http.MethodGet, documentPath(id), nil, nil, &out)
	return out, err
}

// ListDocumentSummaries 는 한 문서의 요약 이력을 조회한다.
func (c *Client) ListDocumentSummaries(ctx context.Context, id uint, params ListParams) (Page[Summary], error) {
	var out Page[Summary]
	err := c.do(ctx, c.base, "pdfapi ListDocumentSummaries", http.MethodGet, documentPath(id, "summaries"), params.Query(), nil, &out)
	return out, err
}

// UploadDocument 는 multipart(file, title?) 로 PDF 를 업로드한다.
// 바디는 io.Pipe 로 스트리밍되며 진행률 추적은 호출자가 r 을 감싸서 처리한다.
func (c *Client) UploadDocument(ctx context.Context, filename string, r io.Reader, title string) (Document, error) {
	const op = "pdfapi UploadDocument"

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, r); err != nil {
			pw.CloseWithError(err)
			return
		}
		if title != "" {
			if err := mw.WriteField("title", title); err != nil {
				pw.CloseWithError(err)
				return
			}
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := c.long.NewRequest(ctx, http.MethodPost, "/pdf/upload", nil, pr)
	if err != nil {
		pr.Close()
		return Document{}, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.long.Do(req)
	if err != nil {
		pr.Close()
		return Document{}, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	var out Document
	if err := decodeResponse(op, resp, &out); err != nil {
		return Document{}, err
	}
	return out, nil
}

// CreateDocument 는 파일 없이 문서 레코드만 생성한다 (POST /pdf).
func (c *Client) CreateDocument(ctx context.Context, in CreateDocumentRequest) (Document, error) {
	var out Document
	err := c.do(ctx, c.base, "pdfapi CreateDocument", http.MethodPost, "/pdf", nil, in, &out)
	return out, err
}

func (c *Client) DeleteDocument(ctx context.Context, id uint) (MessageResponse, error) {
	var out MessageResponse
	err := c.do(ctx, c.base, "pdfapi DeleteDocument", http.MethodDelete, documentPath(id), nil, nil, &out)
	return out, err
}

// GenerateSummary 는 요약 생성을 요청하고 완료될 때까지 기다린다. 폴링이나 스트리밍은 없다.
func (c *Client) GenerateSummary(ctx context.Context, id uint, in SummarizeRequest) (SummarizeResult, error) {
	if !in.Style.Valid() {
		return SummarizeResult{}, fmt.Errorf("pdfapi GenerateSummary: invalid style %q", in.Style)
	}
	if !in.Language.Valid() {
		return SummarizeResult{}, fmt.Errorf("pdfapi GenerateSummary: invalid language %q", in.Language)
	}
	var out SummarizeResult
	err := c.do(ctx, c.long, "pdfapi GenerateSummary", http.MethodPost, documentPath(id, "summarize"), nil, in, &out)
	return out, err
}

func (c *Client) CountDocuments(ctx context.Context) (int64, error) {
	var out CountResponse
	err := c.do(ctx, c.base, "pdfapi CountDocuments", http.MethodGet, "/pdf/count", nil, nil, &out)
	return out.Count, err
}
