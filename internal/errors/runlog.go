package errors

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// RunLog accumulates row-level rejects and computation-level notes for one
// pipeline run. Report builders may run concurrently after the cleaning
// barrier, so note recording is guarded by a mutex.
type RunLog struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	RowsSeen     int      `json:"rows_seen"`
	RowsRetained int      `json:"rows_retained"`
	Rejects      []Reject `json:"rejects"`
	Notes        []string `json:"notes"`

	mu sync.Mutex
}

// NewRunLog creates a RunLog with a fresh run ID.
func NewRunLog() *RunLog {
	return &RunLog{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Rejects:   []Reject{},
		Notes:     []string{},
	}
}

// AddReject records a dropped row.
func (l *RunLog) AddReject(row int, reason RejectReason, detail string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Rejects = append(l.Rejects, Reject{Row: row, Reason: reason, Detail: detail})
}

// AddNote records a computation-level note (for example a degenerate
// division resolved by policy).
func (l *RunLog) AddNote(note string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Notes = append(l.Notes, note)
}

// RejectCount returns the number of rejected rows recorded so far.
func (l *RunLog) RejectCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.Rejects)
}

// CountByReason returns the number of rejects recorded for one reason.
func (l *RunLog) CountByReason(reason RejectReason) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, r := range l.Rejects {
		if r.Reason == reason {
			n++
		}
	}
	return n
}

// Finish stamps the completion time.
func (l *RunLog) Finish() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.FinishedAt = time.Now().UTC()
}
