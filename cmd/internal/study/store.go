package study

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"pdf-desk/cmd/internal/logger"
)

// Store 는 게이트웨이에서 사용하는 인메모리 세션 저장소다.
// 세션은 프로세스 재시작 시 사라지며 idle 시간이 지나면 정리된다.
type Store struct {
	backend Backend
	idle    time.Duration
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*storeEntry
}

type storeEntry struct {
	session  *Session
	lastUsed time.Time
}

func NewStore(backend Backend, idle time.Duration) *Store {
	if idle <= 0 {
		idle = time.Hour
	}
	return &Store{
		backend:  backend,
		idle:     idle,
		now:      time.Now,
		sessions: map[string]*storeEntry{},
	}
}

// Create 는 새 세션을 만들고 id 를 돌려준다.
func (st *Store) Create() (string, *Session) {
	id := uuid.NewString()
	sess := NewSession(st.backend, WithClock(st.now))

	st.mu.Lock()
	st.sessions[id] = &storeEntry{session: sess, lastUsed: st.now()}
	st.mu.Unlock()
	return id, sess
}

// Get 은 세션을 찾고 마지막 사용 시각을 갱신한다.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	e, ok := st.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastUsed = st.now()
	return e.session, true
}

func (st *Store) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return false
	}
	delete(st.sessions, id)
	return true
}

func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Prune 은 idle 시간을 넘긴 세션을 제거하고 제거한 개수를 반환한다.
// 응답 대기 중인 세션은 남겨둔다.
func (st *Store) Prune() int {
	cutoff := st.now().Add(-st.idle)

	st.mu.Lock()
	defer st.mu.Unlock()
	n := 0
	for id, e := range st.sessions {
		if e.lastUsed.Before(cutoff) && !e.session.Sending() {
			delete(st.sessions, id)
			n++
		}
	}
	return n
}

// Run 은 ctx 가 끝날 때까지 interval 마다 Prune 한다.
func (st *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := st.Prune(); n > 0 {
				logger.InfoWithFields("idle study sessions pruned", logger.Fields{
					"pruned":    n,
					"remaining": st.Len(),
				})
			}
		}
	}
}
