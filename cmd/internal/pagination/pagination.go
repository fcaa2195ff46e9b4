// Package pagination 은 목록 화면의 페이지 버튼과 "Showing a to b of n" 라벨을 계산한다.
package pagination

import (
	"fmt"

	"pdf-desk/cmd/internal/pdfapi"
)

// MaxButtons 는 한 번에 보여주는 페이지 번호 버튼 수다.
const MaxButtons = 5

// Window 는 백엔드 페이지 응답의 위치 정보다.
type Window struct {
	Page         int   `json:"page"`
	ItemsPerPage int   `json:"itemsPerPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
}

// From 은 pdfapi.Page 의 페이지 정보만 꺼낸다.
func From[T any](p pdfapi.Page[T]) Window {
	return Window{
		Page:         p.Page,
		ItemsPerPage: p.ItemsPerPage,
		TotalPages:   p.TotalPages,
		TotalItems:   p.TotalItems,
	}
}

// Range 는 현재 페이지에 보이는 항목의 1 기반 시작/끝 번호다. 항목이 없으면 (0, 0).
func (w Window) Range() (first, last int64) {
	if w.TotalItems <= 0 || w.Page <= 0 || w.ItemsPerPage <= 0 {
		return 0, 0
	}
	first = int64(w.Page-1)*int64(w.ItemsPerPage) + 1
	last = int64(w.Page) * int64(w.ItemsPerPage)
	if last > w.TotalItems {
		last = w.TotalItems
	}
	if first > last {
		return 0, 0
	}
	return first, last
}

// Pages 는 max(1, page-2) 부터 최대 n 개의 페이지 번호를 돌려준다. TotalPages 를 넘는 번호는 빠진다.
func (w Window) Pages(n int) []int {
	if n <= 0 {
		n = MaxButtons
	}
	start := w.Page - 2
	if start < 1 {
		start = 1
	}
	out := make([]int, 0, n)
	for p := start; p < start+n && p <= w.TotalPages; p++ {
		out = append(out, p)
	}
	return out
}

func (w Window) HasPrev() bool {
	return w.Page > 1
}

func (w Window) HasNext() bool {
	return w.Page < w.TotalPages
}

// Label 은 "Showing 13 to 24 of 50 documents" 형태의 문구다.
func (w Window) Label(noun string) string {
	first, last := w.Range()
	s := fmt.Sprintf("Showing %d to %d of %d", first, last, w.TotalItems)
	if noun != "" {
		s += " " + noun
	}
	return s
}

// Normalize 는 사용자가 넘긴 page/itemsPerPage 를 유효 범위로 맞춘다.
// itemsPerPage 는 1..100 이며 벗어나면 def 를 쓴다.
func Normalize(page, itemsPerPage, def int) (int, int) {
	if page < 1 {
		page = 1
	}
	if itemsPerPage < 1 || itemsPerPage > 100 {
		itemsPerPage = def
	}
	return page, itemsPerPage
}
