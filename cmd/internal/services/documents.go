package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pdf-desk/cmd/internal/logger"
	"pdf-desk/cmd/internal/pagination"
	"pdf-desk/cmd/internal/pdfapi"
	"pdf-desk/cmd/internal/upload"
)

const (
	// DocumentsPerPage 는 문서 목록 화면의 페이지 크기다.
	DocumentsPerPage = 12
	// SelectionPerPage 는 학습용 문서 선택 목록의 페이지 크기다.
	SelectionPerPage = 10
	// HistoryPerPage 는 요약 이력 목록의 페이지 크기다.
	HistoryPerPage = 10
)

// DocumentService 는 문서 목록/상세/업로드/삭제/다운로드/요약 생성 화면 로직을 담당한다.
type DocumentService struct {
	client       *pdfapi.Client
	itemsPerPage int
	now          func() time.Time
}

func NewDocumentService(client *pdfapi.Client, itemsPerPage int) *DocumentService {
	if itemsPerPage <= 0 {
		itemsPerPage = DocumentsPerPage
	}
	return &DocumentService{client: client, itemsPerPage: itemsPerPage, now: time.Now}
}

type ListDocumentsInput struct {
	Page         int
	ItemsPerPage int
	SortBy       string
	Order        string
	Search       string
}

func (s *DocumentService) params(in ListDocumentsInput, def int) pdfapi.ListParams {
	page, ipp := pagination.Normalize(in.Page, in.ItemsPerPage, def)
	return pdfapi.ListParams{
		Page:         page,
		ItemsPerPage: ipp,
		SortBy:       in.SortBy,
		Order:        in.Order,
		Search:       in.Search,
	}
}

// List 는 문서 목록 한 페이지를 가져온다.
func (s *DocumentService) List(ctx context.Context, in ListDocumentsInput) (DocumentListView, error) {
	return s.list(ctx, s.params(in, s.itemsPerPage))
}

// Selectable 은 학습 세션에 추가할 문서를 고르는 목록이다 (페이지당 10개).
func (s *DocumentService) Selectable(ctx context.Context, search string, page int) (DocumentListView, error) {
	return s.list(ctx, s.params(ListDocumentsInput{Page: page, Search: search}, SelectionPerPage))
}

func (s *DocumentService) list(ctx context.Context, params pdfapi.ListParams) (DocumentListView, error) {
	resp, err := s.client.ListDocuments(ctx, params)
	if err != nil {
		return DocumentListView{}, err
	}
	now := s.now()
	cards := make([]DocumentCard, 0, len(resp.Data))
	for _, d := range resp.Data {
		cards = append(cards, documentCard(d, now))
	}
	return newListView(cards, pagination.From(resp), "documents"), nil
}

// Detail 은 문서 상세와 요약 목록을 가져온다.
func (s *DocumentService) Detail(ctx context.Context, id uint) (DocumentDetailView, error) {
	d, err := s.client.GetDocument(ctx, id)
	if err != nil {
		return DocumentDetailView{}, err
	}
	now := s.now()
	out := DocumentDetailView{
		Document:      documentCard(d, now),
		Summaries:     make([]SummaryView, 0, len(d.Summaries)),
		LatestSummary: latestSummary(d),
	}
	for _, sum := range d.Summaries {
		v := summaryView(sum, now)
		v.DocumentName = d.DisplayName()
		v.Filename = d.Filename
		out.Summaries = append(out.Summaries, v)
	}
	return out, nil
}

// Upload 는 로컬 PDF 를 검증한 뒤 업로드한다. progress 는 nil 이어도 된다.
func (s *DocumentService) Upload(ctx context.Context, path, title string, progress upload.ProgressFunc) (DocumentCard, error) {
	info, err := upload.Validate(path)
	if err != nil {
		return DocumentCard{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return DocumentCard{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if progress != nil {
		r = upload.NewProgressReader(f, info.Size, progress)
	}
	return s.send(ctx, info, r, title)
}

// UploadBytes 는 이미 메모리에 있는 파일(게이트웨이 multipart)을 검증 후 업로드한다.
func (s *DocumentService) UploadBytes(ctx context.Context, filename string, data []byte, title string) (DocumentCard, error) {
	info, err := upload.ValidateBytes(filename, data)
	if err != nil {
		return DocumentCard{}, err
	}
	return s.send(ctx, info, bytes.NewReader(data), title)
}

func (s *DocumentService) send(ctx context.Context, info upload.Info, r io.Reader, title string) (DocumentCard, error) {
	doc, err := s.client.UploadDocument(ctx, info.Filename, r, title)
	if err != nil {
		return DocumentCard{}, err
	}
	logger.InfoWithFields("document uploaded", logger.Fields{
		"pdf_id":     doc.ID,
		"filename":   info.Filename,
		"file_size":  info.Size,
		"page_count": info.PageCount,
	})
	return documentCard(doc, s.now()), nil
}

// Delete 는 확인된 경우에만 문서를 삭제한다.
func (s *DocumentService) Delete(ctx context.Context, id uint, confirm Confirmation) error {
	if !confirm {
		return ErrNotConfirmed
	}
	if _, err := s.client.DeleteDocument(ctx, id); err != nil {
		return err
	}
	logger.InfoWithFields("document deleted", logger.Fields{"pdf_id": id})
	return nil
}

// DeleteAndRefresh 는 삭제 후 같은 조건으로 목록을 다시 가져온다.
// 현재 페이지가 비게 되면 마지막 페이지를 다시 조회한다.
func (s *DocumentService) DeleteAndRefresh(ctx context.Context, id uint, confirm Confirmation, in ListDocumentsInput) (DocumentListView, error) {
	if err := s.Delete(ctx, id, confirm); err != nil {
		return DocumentListView{}, err
	}
	view, err := s.List(ctx, in)
	if err != nil {
		return DocumentListView{}, err
	}
	if pastLastPage(view.Window) {
		in.Page = view.Window.TotalPages
		return s.List(ctx, in)
	}
	return view, nil
}

// pastLastPage 는 삭제로 현재 페이지가 사라졌는지 본다.
func pastLastPage(w pagination.Window) bool {
	return w.TotalPages > 0 && w.Page > w.TotalPages
}

// DownloadFile 은 다운로드 스트림과 저장할 파일명이다. 호출자가 Close 해야 한다.
type DownloadFile struct {
	Filename string
	Size     int64
	Body     io.ReadCloser
}

// Download 는 문서 원본을 연다. 응답에 파일명이 없으면 "<name>.pdf" 를 쓴다.
func (s *DocumentService) Download(ctx context.Context, id uint, name string) (*DownloadFile, error) {
	dl, err := s.client.DownloadDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	fallback := fmt.Sprintf("document-%d.pdf", id)
	if name != "" {
		fallback = safeFilename(name+".pdf", fallback)
	}
	return &DownloadFile{
		Filename: safeFilename(dl.Filename(fallback), fallback),
		Size:     dl.ContentLength(),
		Body:     dl.Body(),
	}, nil
}

// safeFilename 은 서버가 준 파일명에서 디렉터리 부분을 떼어낸다.
// 제목에 "../" 같은 경로가 들어 있어도 저장 위치를 벗어나지 않는다.
func safeFilename(name, fallback string) string {
	base := filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	switch base {
	case "", ".", "..", "/":
		return fallback
	}
	return base
}

// GenerateSummary 는 요약을 생성하고 끝날 때까지 기다린다.
// style/language 가 비어 있으면 general/english 를 쓴다.
func (s *DocumentService) GenerateSummary(ctx context.Context, id uint, style pdfapi.Style, language pdfapi.Language) (pdfapi.SummarizeResult, error) {
	if style == "" {
		style = pdfapi.StyleGeneral
	}
	if language == "" {
		language = pdfapi.LanguageEnglish
	}
	started := time.Now()
	res, err := s.client.GenerateSummary(ctx, id, pdfapi.SummarizeRequest{Style: style, Language: language})
	if err != nil {
		return pdfapi.SummarizeResult{}, err
	}
	logger.InfoWithFields("summary generated", logger.Fields{
		"pdf_id":     id,
		"style":      style,
		"language":   language,
		"elapsed_ms": time.Since(started).Milliseconds(),
	})
	return res, nil
}

// History 는 한 문서의 요약 이력을 페이지 단위(10개)로 가져온다.
func (s *DocumentService) History(ctx context.Context, id uint, page int, order string) (ListView[SummaryView], error) {
	page, _ = pagination.Normalize(page, HistoryPerPage, HistoryPerPage)
	resp, err := s.client.ListDocumentSummaries(ctx, id, pdfapi.ListParams{
		Page:         page,
		ItemsPerPage: HistoryPerPage,
		Order:        order,
	})
	if err != nil {
		return ListView[SummaryView]{}, err
	}
	now := s.now()
	items := make([]SummaryView, 0, len(resp.Data))
	for _, sum := range resp.Data {
		items = append(items, summaryView(sum, now))
	}
	return newListView(items, pagination.From(resp), "summaries"), nil
}
