package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pdf-desk/cmd/internal/pdfapi"
)

func TestWindowRange(t *testing.T) {
	w := Window{Page: 2, ItemsPerPage: 12, TotalPages: 5, TotalItems: 50}
	first, last := w.Range()
	assert.EqualValues(t, 13, first)
	assert.EqualValues(t, 24, last)

	w.Page = 5
	first, last = w.Range()
	assert.EqualValues(t, 49, first)
	assert.EqualValues(t, 50, last)

	first, last = Window{Page: 1, ItemsPerPage: 12}.Range()
	assert.Zero(t, first)
	assert.Zero(t, last)
}

func TestWindowPages(t *testing.T) {
	testCases := []struct {
		name  string
		page  int
		total int
		want  []int
	}{
		{name: "first page", page: 1, total: 10, want: []int{1, 2, 3, 4, 5}},
		{name: "middle", page: 6, total: 10, want: []int{4, 5, 6, 7, 8}},
		{name: "near end", page: 9, total: 10, want: []int{7, 8, 9, 10}},
		{name: "few pages", page: 1, total: 2, want: []int{1, 2}},
		{name: "empty", page: 1, total: 0, want: []int{}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			w := Window{Page: testCase.page, TotalPages: testCase.total}
			assert.Equal(t, testCase.want, w.Pages(MaxButtons))
		})
	}
}

func TestWindowLabelAndNav(t *testing.T) {
	w := From(pdfapi.Page[pdfapi.Document]{Page: 2, ItemsPerPage: 12, TotalPages: 5, TotalItems: 50})
	assert.Equal(t, "Showing 13 to 24 of 50 documents", w.Label("documents"))
	assert.True(t, w.HasPrev())
	assert.True(t, w.HasNext())

	w.Page = 5
	assert.False(t, w.HasNext())
}

func TestNormalize(t *testing.T) {
	page, ipp := Normalize(0, 0, 12)
	assert.Equal(t, 1, page)
	assert.Equal(t, 12, ipp)

	page, ipp = Normalize(3, 500, 10)
	assert.Equal(t, 3, page)
	assert.Equal(t, 10, ipp)
}
