package grid

import (
	"fmt"
	"sync"
	"time"

	"github.com/asaidimu/go-gridview/core/table"
	"github.com/google/uuid"
)

// DefaultSessionID is the session used when a client does not identify
// itself, covering the single-user dashboard case.
const DefaultSessionID = "default"

// Session owns the state of one query session: the materialized ResultTable,
// the column descriptors inferred from it once at load time, and the last
// computed view retained for export. All access is serialized behind the
// session's lock so the search/filter/sort/window sequence always observes a
// consistent snapshot, even with two browser tabs racing on the same session.
type Session struct {
	ID string

	mu       sync.RWMutex
	report   string
	table    *table.ResultTable
	columns  []ColumnDescriptor
	view     *View
	loadedAt time.Time
}

// Load replaces the session's table wholesale with a fresh query result and
// derives the column descriptor feed for it. Any previously retained view is
// discarded along with the old table.
func (s *Session) Load(report string, t *table.ResultTable, opts InferOptions) []ColumnDescriptor {
	columns := InferColumns(t, opts)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.report = report
	s.table = t
	s.columns = columns
	s.view = nil
	s.loadedAt = time.Now()
	return columns
}

// Columns returns the descriptor feed of the current table, or nil when no
// query has been run.
func (s *Session) Columns() []ColumnDescriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.columns
}

// Report returns the report kind of the currently loaded table.
func (s *Session) Report() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report
}

// Rows serves one row-window request against the session's table. The fully
// filtered and sorted view is recomputed for every request and retained as
// the session's view state for export; it is never reused stale across
// changed inputs.
func (s *Session) Rows(engine *Engine, req *RowWindowRequest) (*RowWindowResponse, []*FilterEvaluationError, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.table == nil {
		return nil, nil, fmt.Errorf("no query has been run for session %q", s.ID)
	}

	resp, view, skips := engine.Serve(s.table, req)
	s.view = view
	return resp, skips, nil
}

// CurrentView returns the report kind and the last computed view, which is
// what export snapshots. ok is false when no query has been run or no window
// has been requested yet.
func (s *Session) CurrentView() (string, *View, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.view == nil {
		return s.report, nil, false
	}
	return s.report, s.view, true
}

// SessionStore hands out sessions by id, creating them on first use. State is
// scoped per session rather than process-wide so concurrent clients cannot
// race on each other's tables.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

// Get returns the session with the given id, creating it if needed. An empty
// id resolves to the default session.
func (st *SessionStore) Get(id string) *Session {
	if id == "" {
		id = DefaultSessionID
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.sessions[id]; ok {
		return s
	}
	s := &Session{ID: id}
	st.sessions[id] = s
	return s
}

// New creates a session with a generated id.
func (st *SessionStore) New() *Session {
	return st.Get(uuid.NewString())
}
