// Package search 는 입력이 잦은 검색어를 일정 시간 모아서 한 번만 조회하는 디바운서를 제공한다.
//
// 마지막 입력 후 delay 동안 추가 입력이 없을 때 한 번 조회한다.
// 새 입력이 들어오면 대기 중인 타이머와 진행 중인 요청 컨텍스트를 모두 취소한다.
// 요청마다 단조 증가 토큰을 붙이고, 최신 토큰의 결과만 전달한다.
// 늦게 도착한 이전 응답이 새 결과를 덮어쓰지 않는다.
package search

import (
	"context"
	"sync"
	"time"

	"pdf-desk/cmd/internal/logger"
)

// DefaultDelay 는 검색 입력 디바운스 기본값이다.
const DefaultDelay = 500 * time.Millisecond

type FetchFunc[Q, T any] func(ctx context.Context, query Q) (T, error)

// Result 는 조회 한 번의 결과다. Seq 는 Submit 순서대로 증가한다.
type Result[Q, T any] struct {
	Seq   uint64
	Query Q
	Value T
	Err   error
}

type Debouncer[Q, T any] struct {
	parent  context.Context
	delay   time.Duration
	fetch   FetchFunc[Q, T]
	deliver func(Result[Q, T])

	mu     sync.Mutex
	seq    uint64
	timer  *time.Timer
	cancel context.CancelFunc
	closed bool

	// deliverMu 는 deliver 호출을 직렬화한다.
	deliverMu sync.Mutex
	delivered uint64
}

// New 는 디바운서를 만든다. ctx 가 끝나면 진행 중인 조회도 취소된다.
// deliver 는 디바운서 내부 고루틴에서 한 번에 하나씩 호출된다.
func New[Q, T any](ctx context.Context, delay time.Duration, fetch FetchFunc[Q, T], deliver func(Result[Q, T])) *Debouncer[Q, T] {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer[Q, T]{
		parent:  ctx,
		delay:   delay,
		fetch:   fetch,
		deliver: deliver,
	}
}

// Submit 은 query 를 예약한다. 이전 예약과 진행 중인 조회는 무효가 된다.
func (d *Debouncer[Q, T]) Submit(query Q) uint64 {
	return d.schedule(query, d.delay)
}

// SubmitNow 는 대기 없이 바로 조회한다. 페이지 이동처럼 즉시 반영해야 하는 경우에 쓴다.
func (d *Debouncer[Q, T]) SubmitNow(query Q) uint64 {
	return d.schedule(query, 0)
}

func (d *Debouncer[Q, T]) schedule(query Q, delay time.Duration) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return 0
	}
	d.seq++
	seq := d.seq
	d.stopLocked()

	d.timer = time.AfterFunc(delay, func() { d.run(seq, query) })
	return seq
}

// stopLocked 는 대기 중인 타이머와 진행 중인 조회를 취소한다. d.mu 를 잡은 상태에서 호출한다.
func (d *Debouncer[Q, T]) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

func (d *Debouncer[Q, T]) run(seq uint64, query Q) {
	d.mu.Lock()
	if d.closed || seq != d.seq {
		d.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(d.parent)
	d.cancel = cancel
	d.mu.Unlock()

	value, err := d.fetch(ctx, query)
	cancel()

	d.deliverMu.Lock()
	defer d.deliverMu.Unlock()

	if !d.isLatest(seq) || seq <= d.delivered {
		logger.DebugWithFields("stale search result dropped", logger.Fields{"seq": seq})
		return
	}
	d.delivered = seq
	d.deliver(Result[Q, T]{Seq: seq, Query: query, Value: value, Err: err})
}

func (d *Debouncer[Q, T]) isLatest(seq uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.closed && seq == d.seq
}

// Close 는 예약과 진행 중인 조회를 취소하고 이후 Submit 을 무시한다.
func (d *Debouncer[Q, T]) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.stopLocked()
}
