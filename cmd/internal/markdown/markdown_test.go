package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHTML(t *testing.T) {
	testCases := []struct {
		name     string
		source   string
		contains []string
		excludes []string
	}{
		{
			name:     "emphasis",
			source:   "**Key point**: photosynthesis",
			contains: []string{"<strong>Key point</strong>"},
		},
		{
			name:     "hard line breaks",
			source:   "line one\nline two",
			contains: []string{"line one<br"},
		},
		{
			name:     "gfm table",
			source:   "| a | b |\n|---|---|\n| 1 | 2 |",
			contains: []string{"<table>", "<td>1</td>"},
		},
		{
			name:     "script stripped",
			source:   "hello <script>alert(1)</script>",
			excludes: []string{"<script>", "alert(1)</script>"},
		},
		{
			name:     "javascript link stripped",
			source:   "[click](javascript:alert(1))",
			excludes: []string{"javascript:"},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			out := ToHTML(testCase.source)
			for _, want := range testCase.contains {
				assert.Contains(t, out, want)
			}
			for _, bad := range testCase.excludes {
				assert.NotContains(t, out, bad)
			}
		})
	}
}

func TestPlainText(t *testing.T) {
	out := PlainText(ToHTML("# Title\n\nFirst paragraph.\n\n- one\n- two"))
	assert.Equal(t, "Title\n\nFirst paragraph.\n\n- one\n- two", out)
}

func TestPlainTextLineBreaks(t *testing.T) {
	assert.Equal(t, "a\nb", PlainText("<p>a<br>b</p>"))
}
