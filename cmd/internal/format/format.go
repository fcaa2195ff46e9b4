// Package format 은 화면 표시용 문자열 포맷 함수를 모아둔다.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FileSize 는 바이트 수를 1024 단위로 읽기 쉬운 문자열로 바꾼다.
// 소수점은 최대 2자리이며 뒤쪽 0 은 버린다. 예: 1536 -> "1.5 KB"
func FileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	v := float64(bytes)
	i := 0
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[i]
}

// DateLayout 은 7일 이상 지난 날짜의 표기 형식이다.
const DateLayout = "1/2/2006"

// RelativeDate 는 t 와 now 의 날짜(로컬 자정 기준) 차이를 사람이 읽는 표현으로 바꾼다.
// 차이는 절댓값이라 미래 날짜도 "N days ago" 로 표시된다.
func RelativeDate(t, now time.Time) string {
	t = t.In(now.Location())
	d1 := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	d2 := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	days := int(math.Abs(d2.Sub(d1).Hours()) / 24)
	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	}
	return t.Format(DateLayout)
}

// Date 는 백엔드가 준 RFC3339 문자열을 RelativeDate 로 표시한다.
func Date(s string) string {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return "Invalid Date"
	}
	return RelativeDate(t, time.Now())
}

const (
	PreviewLength = 150
	NoPreview     = "No preview available"
)

// Preview 는 본문 앞부분 n 글자만 잘라 "..." 를 붙인다. 본문이 비면 NoPreview.
func Preview(content string, n int) string {
	if content == "" {
		return NoPreview
	}
	if utf8.RuneCountInString(content) <= n {
		return content
	}
	r := []rune(content)
	return string(r[:n]) + "..."
}

// WordCount 는 공백으로 구분된 단어 수다.
func WordCount(content string) int {
	return len(strings.Fields(content))
}

// Duration 은 요약 소요 시간(초)을 "12.3s" 형태로 표시한다.
func Duration(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	return strconv.FormatFloat(seconds, 'f', 1, 64) + "s"
}

// Tone 은 상태 배지 색상 분류다.
type Tone string

const (
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
	ToneError   Tone = "error"
	ToneNeutral Tone = "neutral"
)

// StatusTone 은 처리 상태 문자열을 배지 색상 분류로 바꾼다.
func StatusTone(status string) Tone {
	switch strings.ToLower(status) {
	case "processed", "success", "healthy":
		return ToneSuccess
	case "processing":
		return ToneWarning
	case "failed", "unhealthy", "error":
		return ToneError
	}
	return ToneNeutral
}
