package trace

import (
	"context"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-Id"
	HeaderSpanID    = "X-Span-Id"
)

type ctxKey struct{}

// Info 는 하나의 사용자 동작(게이트웨이 요청 또는 CLI 명령)에 대한 트레이싱 정보다.
// 백엔드 호출마다 span 이 1,2,3,... 으로 증가한다.
type Info struct {
	RequestID string
	span      atomic.Int64
}

// GenerateID 는 하이픈 없는 uuid 문자열을 반환한다.
func GenerateID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// WithRequest 는 requestID 로 새 트레이스를 시작한 컨텍스트를 반환한다.
// requestID 가 비어 있으면 새로 생성한다.
func WithRequest(ctx context.Context, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if requestID == "" {
		requestID = GenerateID()
	}
	return context.WithValue(ctx, ctxKey{}, &Info{RequestID: requestID})
}

func fromContext(ctx context.Context) *Info {
	if ctx == nil {
		return nil
	}
	info, _ := ctx.Value(ctxKey{}).(*Info)
	return info
}

func RequestID(ctx context.Context) string {
	if info := fromContext(ctx); info != nil {
		return info.RequestID
	}
	return ""
}

// CurrentSpan 은 증가 없이 현재 span 값을 반환한다.
func CurrentSpan(ctx context.Context) string {
	info := fromContext(ctx)
	if info == nil {
		return "0"
	}
	return strconv.FormatInt(info.span.Load(), 10)
}

// NextSpan 은 span 을 1 증가시키고 (requestID, spanID) 를 반환한다.
// 트레이스가 없는 컨텍스트에서는 일회성 ID 와 span 1 을 돌려준다.
func NextSpan(ctx context.Context) (string, string) {
	info := fromContext(ctx)
	if info == nil {
		return GenerateID(), "1"
	}
	return info.RequestID, strconv.FormatInt(info.span.Add(1), 10)
}
