// Package pdfapitest 는 테스트용 인메모리 PDF 관리 백엔드를 제공한다.
// 실제 백엔드의 엔드포인트, 응답 형식, 에러 형식을 흉내 낸다.
package pdfapitest

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"pdf-desk/cmd/internal/pdfapi"
)

// Call 은 백엔드가 받은 요청 한 건이다.
type Call struct {
	Method string
	Path   string
	Query  string
}

type Server struct {
	*httptest.Server

	mu        sync.Mutex
	docs      map[uint]*pdfapi.Document
	files     map[uint][]byte
	summaries map[uint]*pdfapi.Summary
	nextDoc   uint
	nextSum   uint
	calls     []Call
	lastChat  map[string]any

	// ChatReply 가 비어 있지 않으면 /chat 응답으로 사용된다.
	ChatReply string
	// FailChat 이 true 면 /chat 이 500 을 돌려준다.
	FailChat bool
	// DatabaseDown 이 true 면 /health 가 503 과 unhealthy 상태를 돌려준다.
	DatabaseDown bool
	// Now 는 생성 시각을 정한다.
	Now func() time.Time
}

func New() *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{
		docs:      map[uint]*pdfapi.Document{},
		files:     map[uint][]byte{},
		summaries: map[uint]*pdfapi.Summary{},
		Now:       time.Now,
	}
	s.Server = httptest.NewServer(s.router())
	return s
}

// AddDocument 는 문서를 추가하고 id 를 반환한다.
func (s *Server) AddDocument(title string, fileSize int64, pages int) uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextDoc++
	now := s.Now()
	s.docs[s.nextDoc] = &pdfapi.Document{
		ID:        s.nextDoc,
		Title:     title,
		Filename:  fmt.Sprintf("%d.pdf", s.nextDoc),
		FileSize:  fileSize,
		PageCount: pages,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.files[s.nextDoc] = []byte("%PDF-1.4 " + title)
	return s.nextDoc
}

// AddSummary 는 문서에 요약을 추가하고 문서의 최신 요약 필드를 갱신한다.
func (s *Server) AddSummary(docID uint, style pdfapi.Style, lang pdfapi.Language, content string) uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addSummaryLocked(docID, string(style), string(lang), content, 1.5)
}

func (s *Server) addSummaryLocked(docID uint, style, lang, content string, took float64) uint {
	s.nextSum++
	now := s.Now()
	sum := &pdfapi.Summary{
		ID:          s.nextSum,
		Style:       style,
		Content:     content,
		PDFID:       docID,
		Language:    lang,
		SummaryTime: took,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.summaries[sum.ID] = sum
	if d, ok := s.docs[docID]; ok {
		d.Summary = content
		d.Style = style
		d.Language = lang
		d.SummaryTime = took
		d.SummaryVersion++
	}
	return sum.ID
}

// Calls 는 지금까지 받은 요청 목록의 복사본이다.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallCount 는 method/path 가 일치하는 요청 수다.
func (s *Server) CallCount(method, path string) int {
	n := 0
	for _, c := range s.Calls() {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

// LastChat 은 마지막 /chat 요청 바디다.
func (s *Server) LastChat() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastChat
}

func (s *Server) record(c *gin.Context) {
	s.mu.Lock()
	s.calls = append(s.calls, Call{Method: c.Request.Method, Path: c.Request.URL.Path, Query: c.Request.URL.RawQuery})
	s.mu.Unlock()
	c.Next()
}

func (s *Server) router() *gin.Engine {
	r := gin.New()
	r.Use(s.record)

	r.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "pong"}) })
	r.GET("/health", s.health)

	r.GET("/pdf", s.listDocuments)
	r.POST("/pdf", s.createDocument)
	r.GET("/pdf/count", s.countDocuments)
	r.POST("/pdf/upload", s.upload)
	r.GET("/pdf/:id", s.getDocument)
	r.DELETE("/pdf/:id", s.deleteDocument)
	r.GET("/pdf/:id/download", s.download)
	r.GET("/pdf/:id/summaries", s.documentSummaries)
	r.POST("/pdf/:id/summarize", s.summarize)

	r.GET("/summaries", s.listSummaries)
	r.GET("/summaries/count", s.countSummaries)
	r.GET("/summaries/stats", s.stats)
	r.DELETE("/summaries/bulk", s.bulkDelete)
	r.GET("/summaries/:id", s.getSummary)
	r.DELETE("/summaries/:id", s.deleteSummary)

	r.POST("/chat", s.chat)
	return r
}

func parseID(c *gin.Context) (uint, bool) {
	n, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "Invalid id"})
		return 0, false
	}
	return uint(n), true
}

func pageParams(c *gin.Context) (int, int, string) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	ipp, _ := strconv.Atoi(c.DefaultQuery("itemsperpage", "10"))
	if page < 1 {
		page = 1
	}
	if ipp < 1 || ipp > 100 {
		ipp = 10
	}
	return page, ipp, c.DefaultQuery("order", "desc")
}

func paginate[T any](items []T, page, ipp int) pdfapi.Page[T] {
	total := len(items)
	start := (page - 1) * ipp
	if start > total {
		start = total
	}
	end := start + ipp
	if end > total {
		end = total
	}
	data := make([]T, 0, end-start)
	data = append(data, items[start:end]...)
	return pdfapi.Page[T]{
		Data:         data,
		Page:         page,
		ItemsPerPage: ipp,
		TotalPages:   (total + ipp - 1) / ipp,
		TotalItems:   int64(total),
	}
}

func (s *Server) health(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.DatabaseDown {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
			"error":    "dial tcp 127.0.0.1:5432: connect: connection refused",
		})
		return
	}
	c.JSON(http.StatusOK, pdfapi.HealthStatus{
		Status:         "healthy",
		Database:       "connected",
		TotalPDFs:      int64(len(s.docs)),
		TotalSummaries: int64(len(s.summaries)),
		Version:        "1.0.0",
	})
}

// documentLocked 는 요약 목록을 채운 문서 복사본을 만든다.
func (s *Server) documentLocked(id uint) pdfapi.Document {
	d := *s.docs[id]
	d.Summaries = []pdfapi.Summary{}
	for _, sum := range s.sortedSummariesLocked("asc") {
		if sum.PDFID == id {
			d.Summaries = append(d.Summaries, sum)
		}
	}
	return d
}

func (s *Server) sortedSummariesLocked(order string) []pdfapi.Summary {
	out := make([]pdfapi.Summary, 0, len(s.summaries))
	for _, sum := range s.summaries {
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool {
		if order == "asc" {
			return out[i].ID < out[j].ID
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (s *Server) listDocuments(c *gin.Context) {
	page, ipp, order := pageParams(c)
	search := strings.ToLower(c.Query("search"))

	s.mu.Lock()
	ids := make([]uint, 0, len(s.docs))
	for id, d := range s.docs {
		if search != "" && !strings.Contains(strings.ToLower(d.Title), search) && !strings.Contains(strings.ToLower(d.Filename), search) {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if order == "asc" {
			return ids[i] < ids[j]
		}
		return ids[i] > ids[j]
	})
	docs := make([]pdfapi.Document, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, s.documentLocked(id))
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, paginate(docs, page, ipp))
}

func (s *Server) getDocument(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.docs[id]; !exists {
		c.JSON(http.StatusNotFound, gin.H{"message": "PDF not found"})
		return
	}
	c.JSON(http.StatusOK, s.documentLocked(id))
}

func (s *Server) createDocument(c *gin.Context) {
	var req pdfapi.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body: " + err.Error()})
		return
	}
	id := s.AddDocument(req.Title, req.FileSize, req.PageCount)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[id].Filename = req.Filename
	c.JSON(http.StatusCreated, s.documentLocked(id))
}

func (s *Server) upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "File is required"})
		return
	}
	if !strings.EqualFold(filepath.Ext(fh.Filename), ".pdf") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_file", "message": "Only PDF files are allowed"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "message": "Failed to save file"})
		return
	}
	defer f.Close()
	data, _ := io.ReadAll(f)

	title := c.PostForm("title")
	if title == "" {
		title = strings.TrimSuffix(fh.Filename, filepath.Ext(fh.Filename))
	}
	id := s.AddDocument(title, int64(len(data)), 1)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[id] = data
	c.JSON(http.StatusCreated, s.documentLocked(id))
}

func (s *Server) deleteDocument(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.docs[id]; !exists {
		c.JSON(http.StatusNotFound, gin.H{"message": "PDF not found"})
		return
	}
	delete(s.docs, id)
	delete(s.files, id)
	for sid, sum := range s.summaries {
		if sum.PDFID == id {
			delete(s.summaries, sid)
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "PDF deleted successfully"})
}

func (s *Server) download(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	s.mu.Lock()
	d, exists := s.docs[id]
	var data []byte
	var title string
	if exists {
		data = s.files[id]
		title = d.Title
	}
	s.mu.Unlock()
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "PDF not found"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", title+".pdf"))
	c.Data(http.StatusOK, "application/pdf", data)
}

func (s *Server) documentSummaries(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	page, ipp, order := pageParams(c)
	s.mu.Lock()
	var out []pdfapi.Summary
	for _, sum := range s.sortedSummariesLocked(order) {
		if sum.PDFID == id {
			out = append(out, sum)
		}
	}
	s.mu.Unlock()
	c.JSON(http.StatusOK, paginate(out, page, ipp))
}

func (s *Server) summarize(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req pdfapi.SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "Invalid request body"})
		return
	}
	if !req.Style.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_style", "message": "Invalid summary style"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, exists := s.docs[id]
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "PDF not found"})
		return
	}
	content := fmt.Sprintf("%s summary of %s", req.Style, d.Title)
	s.addSummaryLocked(id, string(req.Style), string(req.Language), content, 2.5)

	var out pdfapi.SummarizeResult
	out.Title = d.Title
	out.Summary.MainSummary = content
	out.Summary.WordCount = len(strings.Fields(content))
	out.Language = string(req.Language)
	out.Style = string(req.Style)
	out.ProcessingInfo.ProcessingTimeSeconds = 2.5
	out.Status = "success"
	c.JSON(http.StatusOK, out)
}

func (s *Server) countDocuments(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, pdfapi.CountResponse{Count: int64(len(s.docs))})
}

func (s *Server) countSummaries(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, pdfapi.CountResponse{Count: int64(len(s.summaries))})
}

func (s *Server) stats(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := pdfapi.SummaryStats{
		TotalSummaries: int64(len(s.summaries)),
		ByStyle:        map[string]int64{},
		ByLanguage:     map[string]int64{},
		TotalPDFs:      int64(len(s.docs)),
	}
	var total float64
	for _, sum := range s.summaries {
		out.ByStyle[sum.Style]++
		out.ByLanguage[sum.Language]++
		total += sum.SummaryTime
	}
	if len(s.summaries) > 0 {
		out.AvgSummaryTime = total / float64(len(s.summaries))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) listSummaries(c *gin.Context) {
	page, ipp, order := pageParams(c)
	search := strings.ToLower(c.Query("search"))
	style := strings.ToLower(c.Query("style"))
	lang := strings.ToLower(c.Query("language"))
	pdfID, _ := strconv.ParseUint(c.Query("pdf"), 10, 64)

	s.mu.Lock()
	var out []pdfapi.Summary
	for _, sum := range s.sortedSummariesLocked(order) {
		if search != "" && !strings.Contains(strings.ToLower(sum.Content), search) && !strings.Contains(sum.Style, search) {
			continue
		}
		if style != "" && !strings.Contains(sum.Style, style) {
			continue
		}
		if lang != "" && !strings.Contains(sum.Language, lang) {
			continue
		}
		if pdfID != 0 && sum.PDFID != uint(pdfID) {
			continue
		}
		if d, ok := s.docs[sum.PDFID]; ok {
			sum.PDF = &pdfapi.DocumentInfo{ID: d.ID, Title: d.Title, Filename: d.Filename, FileSize: d.FileSize, PageCount: d.PageCount}
		}
		out = append(out, sum)
	}
	s.mu.Unlock()
	c.JSON(http.StatusOK, paginate(out, page, ipp))
}

func (s *Server) getSummary(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sum, exists := s.summaries[id]
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"message": "Summary not found"})
		return
	}
	out := *sum
	if d, ok := s.docs[sum.PDFID]; ok {
		out.PDF = &pdfapi.DocumentInfo{ID: d.ID, Title: d.Title, Filename: d.Filename, FileSize: d.FileSize, PageCount: d.PageCount}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) deleteSummary(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.summaries[id]; !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "Summary not found"})
		return
	}
	delete(s.summaries, id)
	c.JSON(http.StatusOK, gin.H{"message": "Summary deleted successfully"})
}

func (s *Server) bulkDelete(c *gin.Context) {
	var req struct {
		IDs []uint `json:"ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "No IDs provided"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, id := range req.IDs {
		if _, ok := s.summaries[id]; ok {
			delete(s.summaries, id)
			n++
		}
	}
	c.JSON(http.StatusOK, pdfapi.BulkDeleteResponse{
		Message:      fmt.Sprintf("Successfully deleted %d summaries", n),
		DeletedCount: n,
	})
}

func (s *Server) chat(c *gin.Context) {
	var req map[string]any
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	s.mu.Lock()
	s.lastChat = req
	fail := s.FailChat
	reply := s.ChatReply
	s.mu.Unlock()

	if fail {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "backend_error", "message": "Python backend error"})
		return
	}
	if reply == "" {
		reply = fmt.Sprintf("**echo**: %v", req["message"])
	}
	c.JSON(http.StatusOK, pdfapi.ChatReply{Reply: reply, ProcessingTime: 0.2, Status: "success"})
}

// Client 는 이 서버를 바라보는 pdfapi 클라이언트를 만든다.
func (s *Server) Client() *pdfapi.Client {
	return pdfapi.New(pdfapi.Config{BaseURL: s.URL, Timeout: 5 * time.Second, LongTimeout: 5 * time.Second})
}
