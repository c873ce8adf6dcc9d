package ingest

import (
	"sync"
	"time"

	"github.com/aristath/bourseiq/internal/events"
)

// progressThrottleInterval bounds how often ReportWithDetails actually emits.
const progressThrottleInterval = 100 * time.Millisecond

// ProgressReporter emits lifecycle and progress events for one WorkItem onto
// the shared event bus, so the websocket stream can show live ingestion
// status alongside workflow node events.
type ProgressReporter struct {
	bus      *events.Manager
	workID   string
	workType string
	subject  string

	mu         sync.Mutex
	lastReport time.Time
}

// NewProgressReporter builds a reporter for one work item. bus may be nil,
// in which case all Report* calls are no-ops.
func NewProgressReporter(bus *events.Manager, workID, workType, subject string) *ProgressReporter {
	return &ProgressReporter{bus: bus, workID: workID, workType: workType, subject: subject}
}

func (r *ProgressReporter) fields(extra map[string]interface{}) map[string]interface{} {
	data := map[string]interface{}{
		"work_id":   r.workID,
		"work_type": r.workType,
	}
	if r.subject != "" {
		data["subject"] = r.subject
	}
	for k, v := range extra {
		data[k] = v
	}
	return data
}

// ReportWithDetails emits a throttled progress update.
func (r *ProgressReporter) ReportWithDetails(current, total int, message string, details map[string]interface{}) {
	if r == nil || r.bus == nil {
		return
	}
	r.mu.Lock()
	if time.Since(r.lastReport) < progressThrottleInterval {
		r.mu.Unlock()
		return
	}
	r.lastReport = time.Now()
	r.mu.Unlock()

	r.bus.Emit(events.DocumentRefreshStarted, "ingest", r.fields(map[string]interface{}{
		"current": current,
		"total":   total,
		"message": message,
		"details": details,
	}))
}

func (r *ProgressReporter) emitStarted() {
	if r == nil || r.bus == nil {
		return
	}
	r.bus.Emit(events.DocumentRefreshStarted, "ingest", r.fields(nil))
}

func (r *ProgressReporter) emitCompleted(duration time.Duration) {
	if r == nil || r.bus == nil {
		return
	}
	r.bus.Emit(events.DocumentRefreshCompleted, "ingest", r.fields(map[string]interface{}{
		"duration_ms": duration.Milliseconds(),
	}))
}

func (r *ProgressReporter) emitFailed(err error, duration time.Duration, retries int) {
	if r == nil || r.bus == nil {
		return
	}
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	r.bus.Emit(events.DocumentRefreshFailed, "ingest", r.fields(map[string]interface{}{
		"error":       errMsg,
		"duration_ms": duration.Milliseconds(),
		"retries":     retries,
	}))
}
