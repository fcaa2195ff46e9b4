// Package markdown 은 AI 응답(마크다운)을 안전한 HTML 과 터미널용 텍스트로 변환한다.
package markdown

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	// GFM + 줄바꿈을 <br> 로 취급
	md = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	policy = bluemonday.UGCPolicy()
)

// ToHTML 은 마크다운을 HTML 로 렌더링한 뒤 UGC 정책으로 정리한다.
// 변환에 실패하면 원문을 이스케이프한 문단을 돌려준다.
func ToHTML(source string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "<p>" + policy.Sanitize(source) + "</p>"
	}
	return policy.Sanitize(buf.String())
}

var blockElements = map[string]bool{
	"p": true, "div": true, "pre": true, "blockquote": true, "table": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "li": true, "hr": true,
}

// PlainText 는 HTML 을 터미널에 출력할 텍스트로 바꾼다.
// 블록 요소 사이는 줄바꿈으로, 목록 항목은 "- " 로 시작한다.
func PlainText(htmlText string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return htmlText
	}
	w := &textWriter{lineStart: true}
	w.walk(doc.Find("body"))
	return tidy(w.b.String())
}

type textWriter struct {
	b         strings.Builder
	lineStart bool
}

func (w *textWriter) newline() {
	w.b.WriteString("\n")
	w.lineStart = true
}

// text 는 HTML 공백 규칙대로 줄바꿈을 공백으로 취급한다.
func (w *textWriter) text(s string) {
	s = strings.ReplaceAll(s, "\n", " ")
	if w.lineStart {
		s = strings.TrimLeft(s, " \t")
	}
	if s == "" {
		return
	}
	w.b.WriteString(s)
	w.lineStart = false
}

func (w *textWriter) walk(sel *goquery.Selection) {
	sel.Contents().Each(func(_ int, s *goquery.Selection) {
		name := goquery.NodeName(s)
		switch {
		case name == "#text":
			w.text(s.Text())
		case name == "br":
			w.newline()
		case name == "pre":
			w.newline()
			w.b.WriteString(strings.TrimRight(s.Text(), "\n"))
			w.newline()
		case name == "li":
			w.newline()
			w.b.WriteString("- ")
			w.lineStart = true
			w.walk(s)
		case name == "td" || name == "th":
			w.walk(s)
			w.b.WriteString("\t")
		case blockElements[name]:
			w.newline()
			w.walk(s)
			w.newline()
		default:
			w.walk(s)
		}
	})
}

// tidy 는 줄 끝 공백을 지우고 빈 줄을 최대 하나로 줄인다.
func tidy(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
