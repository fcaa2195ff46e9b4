// Package study 는 선택한 문서들을 범위로 AI 와 대화하는 학습 세션을 관리한다.
package study

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"pdf-desk/cmd/internal/logger"
	"pdf-desk/cmd/internal/markdown"
	"pdf-desk/cmd/internal/pdfapi"
)

// FallbackReply 는 채팅 호출이 실패했을 때 대화에 추가되는 AI 메시지다.
const FallbackReply = "Sorry, I encountered an error processing your request. Please try again."

var (
	// ErrNothingToSend 는 입력이 비었거나 선택된 문서가 없을 때 반환된다. 아무 일도 일어나지 않는다.
	ErrNothingToSend = errors.New("study: message is empty or no documents are selected")
	// ErrNeedsSummary 는 추가하려는 문서에 요약이 하나도 없을 때 반환된다.
	ErrNeedsSummary = errors.New("study: document has no summaries")
	ErrBusy         = errors.New("study: a message is already being sent")
)

// NeedsSummaryError 는 ErrNeedsSummary 에 해당 문서를 담는다. 호출자는 요약 생성을 안내한다.
type NeedsSummaryError struct {
	Document pdfapi.Document
}

func (e *NeedsSummaryError) Error() string {
	return fmt.Sprintf("study: %q has no summaries yet", e.Document.DisplayName())
}

func (e *NeedsSummaryError) Unwrap() error {
	return ErrNeedsSummary
}

// MissingSummariesError 는 전송 시점에 요약이 없는 선택 문서 목록이다.
type MissingSummariesError struct {
	Documents []pdfapi.Document
}

func (e *MissingSummariesError) Error() string {
	names := make([]string, 0, len(e.Documents))
	for _, d := range e.Documents {
		names = append(names, d.DisplayName())
	}
	return "study: documents need summaries before chatting: " + strings.Join(names, ", ")
}

// Backend 는 세션이 사용하는 백엔드 호출이다. *pdfapi.Client 가 구현한다.
type Backend interface {
	GetDocument(ctx context.Context, id uint) (pdfapi.Document, error)
	SendChat(ctx context.Context, message string, history []pdfapi.HistoryEntry, pdfIDs []uint) (pdfapi.ChatReply, error)
}

// Message 는 대화의 한 줄이다. HTML 은 AI 메시지에만 채워진다.
type Message struct {
	ID        int64         `json:"id"`
	Type      pdfapi.Author `json:"type"`
	Content   string        `json:"content"`
	HTML      string        `json:"html,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// Session 은 한 사용자의 학습 대화 상태다. 동시 사용에 안전하다.
type Session struct {
	backend Backend
	now     func() time.Time

	mu       sync.Mutex
	selected []pdfapi.Document
	messages []Message
	sending  bool
	lastID   int64
}

type Option func(*Session)

// WithClock 은 메시지 시각/ID 에 쓰는 시계를 바꾼다.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func NewSession(backend Backend, opts ...Option) *Session {
	s := &Session{backend: backend, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add 는 문서를 대화 범위에 추가한다.
//
// 이미 선택된 문서면 아무것도 하지 않는다. 상세 조회 결과 요약이 없으면 추가하지 않고
// *NeedsSummaryError 를 돌려준다. 문서가 없으면(404) 에러, 그 밖의 조회 실패면
// 넘겨받은 doc 을 그대로 추가한다.
func (s *Session) Add(ctx context.Context, doc pdfapi.Document) error {
	if s.isSelected(doc.ID) {
		return nil
	}

	detail, err := s.backend.GetDocument(ctx, doc.ID)
	if errors.Is(err, pdfapi.ErrNotFound) {
		return fmt.Errorf("study: add document %d: %w", doc.ID, err)
	}
	if err != nil {
		logger.WarnWithFields("study document lookup failed, adding as listed", logger.Fields{
			"pdf_id": doc.ID,
			"error":  err.Error(),
		})
		s.appendSelected(doc)
		return nil
	}
	if !detail.HasSummaries() {
		return &NeedsSummaryError{Document: detail}
	}
	s.appendSelected(detail)
	return nil
}

// Refresh 는 요약이 새로 생성된 문서를 다시 조회해 선택 목록에 반영한다.
func (s *Session) Refresh(ctx context.Context, id uint) (pdfapi.Document, error) {
	detail, err := s.backend.GetDocument(ctx, id)
	if err != nil {
		return pdfapi.Document{}, fmt.Errorf("study: refresh document %d: %w", id, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.selected {
		if s.selected[i].ID == id {
			s.selected[i] = detail
			return detail, nil
		}
	}
	s.selected = append(s.selected, detail)
	return detail, nil
}

func (s *Session) isSelected(id uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.selected {
		if d.ID == id {
			return true
		}
	}
	return false
}

func (s *Session) appendSelected(doc pdfapi.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.selected {
		if d.ID == doc.ID {
			return
		}
	}
	s.selected = append(s.selected, doc)
}

// Remove 는 문서를 대화 범위에서 뺀다. 없는 id 는 무시한다.
func (s *Session) Remove(id uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.selected[:0]
	for _, d := range s.selected {
		if d.ID != id {
			out = append(out, d)
		}
	}
	s.selected = out
}

func (s *Session) Selected() []pdfapi.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]pdfapi.Document, len(s.selected))
	copy(out, s.selected)
	return out
}

func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Sending 은 응답을 기다리는 중인지 여부다.
func (s *Session) Sending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sending
}

// Missing 은 선택된 문서 중 요약이 없는 것들이다.
func (s *Session) Missing() []pdfapi.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.missingLocked()
}

func (s *Session) missingLocked() []pdfapi.Document {
	var out []pdfapi.Document
	for _, d := range s.selected {
		if !d.HasSummaries() {
			out = append(out, d)
		}
	}
	return out
}

// nextIDLocked 는 밀리초 시각 기반이지만 항상 증가하는 메시지 id 를 만든다.
func (s *Session) nextIDLocked(t time.Time) int64 {
	id := t.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *Session) appendLocked(author pdfapi.Author, content string) Message {
	t := s.now()
	m := Message{
		ID:        s.nextIDLocked(t),
		Type:      author,
		Content:   content,
		Timestamp: t,
	}
	if author == pdfapi.AuthorAI {
		m.HTML = markdown.ToHTML(content)
	}
	s.messages = append(s.messages, m)
	return m
}

// Send 는 text 를 선택 문서 범위로 AI 에게 보낸다.
//
// 입력이 공백뿐이거나 선택 문서가 없으면 ErrNothingToSend, 요약 없는 문서가 있으면
// *MissingSummariesError 를 반환하며 두 경우 모두 백엔드를 호출하지 않는다.
// 그 외에는 사용자 메시지를 먼저 대화에 추가하고, 이전 대화를 이력으로 보낸다.
// 채팅 호출이 실패하면 FallbackReply 를 AI 메시지로 추가하고 에러를 함께 반환한다.
func (s *Session) Send(ctx context.Context, text string) (Message, error) {
	s.mu.Lock()
	if strings.TrimSpace(text) == "" || len(s.selected) == 0 {
		s.mu.Unlock()
		return Message{}, ErrNothingToSend
	}
	if missing := s.missingLocked(); len(missing) > 0 {
		s.mu.Unlock()
		return Message{}, &MissingSummariesError{Documents: missing}
	}
	if s.sending {
		s.mu.Unlock()
		return Message{}, ErrBusy
	}

	history := make([]pdfapi.HistoryEntry, 0, len(s.messages))
	for _, m := range s.messages {
		history = append(history, pdfapi.HistoryEntry{Author: m.Type, Content: m.Content})
	}
	ids := make([]uint, 0, len(s.selected))
	for _, d := range s.selected {
		ids = append(ids, d.ID)
	}
	s.appendLocked(pdfapi.AuthorUser, text)
	s.sending = true
	s.mu.Unlock()

	reply, err := s.backend.SendChat(ctx, text, history, ids)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sending = false
	if err != nil {
		logger.ErrorWithFields("study chat failed", logger.Fields{
			"pdf_ids": ids,
			"error":   err.Error(),
		})
		return s.appendLocked(pdfapi.AuthorAI, FallbackReply), fmt.Errorf("study: send: %w", err)
	}
	return s.appendLocked(pdfapi.AuthorAI, reply.Reply), nil
}

// Reset 은 대화 내용만 지운다. 선택 문서는 유지된다.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}
