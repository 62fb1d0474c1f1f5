package audit

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/remodern-labs/remodern/tool"
)

// recordTimeout bounds each audit write so a slow disk cannot stall the
// invocation path it observes.
const recordTimeout = 2 * time.Second

// Recorder adapts the Store to the registry's observer seam. Recording
// failures are logged and dropped; auditing never fails an invocation.
type Recorder struct {
	store  *Store
	logger *slog.Logger
}

// NewRecorder wraps a store as a tool.Observer.
func NewRecorder(store *Store, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Recorder{store: store, logger: logger}
}

// ObserveInvoke persists one invocation observation.
func (r *Recorder) ObserveInvoke(observation tool.InvokeObservation) {
	if r == nil || r.store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	err := r.store.Record(ctx, Entry{
		ID:         observation.InvocationID,
		ToolName:   observation.ToolName,
		Success:    observation.Success,
		ErrorCode:  observation.ErrorCode,
		DurationMS: observation.DurationMS,
		StartedAt:  time.Now().UTC(),
	})
	if err != nil {
		r.logger.Warn("audit record failed", "tool", observation.ToolName, "error", err)
	}
}

var _ tool.Observer = (*Recorder)(nil)
