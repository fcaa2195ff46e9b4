package pdfapi

import (
	"context"
	"net/http"
)

// Author 는 study 화면에서 메시지를 쓴 쪽이다.
type Author string

const (
	AuthorUser Author = "user"
	AuthorAI   Author = "ai"
)

// HistoryEntry 는 채팅 이력의 한 항목이다.
type HistoryEntry struct {
	Author  Author
	Content string
}

type chatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Message string     `json:"message"`
	History []chatTurn `json:"history"`
	PDFIDs  []uint     `json:"pdf_ids"`
}

type ChatReply struct {
	Reply          string  `json:"reply"`
	ProcessingTime float64 `json:"processing_time"`
	Status         string  `json:"status"`
}

// roleFor 는 클라이언트 작성자 표기를 백엔드 역할(user/model)로 바꾼다.
func roleFor(a Author) string {
	if a == AuthorUser {
		return "user"
	}
	return "model"
}

// SendChat 은 현재 메시지와 이전 이력, 대화 범위에 있는 문서 id 목록을 POST /chat 으로 보낸다.
func (c *Client) SendChat(ctx context.Context, message string, history []HistoryEntry, pdfIDs []uint) (ChatReply, error) {
	in := chatRequest{
		Message: message,
		History: make([]chatTurn, 0, len(history)),
		PDFIDs:  pdfIDs,
	}
	if in.PDFIDs == nil {
		in.PDFIDs = []uint{}
	}
	for _, h := range history {
		in.History = append(in.History, chatTurn{Role: roleFor(h.Author), Content: h.Content})
	}

	var out ChatReply
	err := c.do(ctx, c.long, "pdfapi SendChat", http.MethodPost, "/chat", nil, in, &out)
	return out, err
}
