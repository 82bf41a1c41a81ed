package screen

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/cancha-platform/cancha-admin/internal/cancha"
)

// ListState holds the rows currently shown on an entity list together
// with the query that produced them. Fetches are stamped with a monotonic
// sequence number so that a slow response can never overwrite the result
// of a later request.
type ListState struct {
	mu  sync.Mutex
	seq uint64

	query cancha.PageQuery
	rows  []cancha.Row
	total int
	err   string
}

// Snapshot is an immutable copy of the list state for rendering.
type Snapshot struct {
	Query cancha.PageQuery
	Rows  []cancha.Row
	Total int
	Err   string
}

// Begin stamps a new fetch and returns its sequence number. Every fetch
// must call Begin before going to the network and hand the number back to
// Apply or Fail.
func (l *ListState) Begin() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++

	return l.seq
}

// Apply installs a fetch result. Results from superseded fetches are
// dropped so the screen always shows the latest request.
func (l *ListState) Apply(seq uint64, query cancha.PageQuery, page cancha.ResultPage) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if seq != l.seq {
		return false
	}

	l.query = query
	l.rows = page.Rows
	l.total = page.Total
	l.err = ""

	return true
}

// Fail records a fetch failure. The rows are cleared so the screen never
// shows data that no longer matches the query, and the message stays
// until the next successful fetch.
func (l *ListState) Fail(seq uint64, query cancha.PageQuery, msg string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if seq != l.seq {
		return false
	}

	l.query = query
	l.rows = nil
	l.total = 0
	l.err = msg

	return true
}

// Snapshot copies the current state for rendering.
func (l *ListState) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows := make([]cancha.Row, len(l.rows))
	copy(rows, l.rows)

	return Snapshot{
		Query: l.query,
		Rows:  rows,
		Total: l.total,
		Err:   l.err,
	}
}

// Fetch runs one paginated fetch against the backend and installs the
// outcome, honoring the stale-response guard. It returns the snapshot the
// caller should render.
func (l *ListState) Fetch(ctx context.Context, client *cancha.Client, res cancha.Resource, query cancha.PageQuery) Snapshot {
	query = query.Normalize(0)

	seq := l.Begin()

	page, err := client.FetchPage(ctx, res, query)
	if err != nil {
		log.Error().Err(err).
			Str("resource", res.BasePath).
			Int("page", query.Page).
			Msg("list fetch failed")

		l.Fail(seq, query, cancha.Message(err, "No se pudieron cargar los datos"))

		return l.Snapshot()
	}

	l.Apply(seq, query, page)

	return l.Snapshot()
}
