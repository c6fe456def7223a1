package crawler

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"willaykuna/internal/models"
)

// ExtractedAtLayout renders the run timestamp with microseconds and a numeric offset.
const ExtractedAtLayout = "2006-01-02T15:04:05.000000-07:00"

const idStampLayout = "200601021504"

// RunContext carries the per-run state of one extraction: its timestamp, identity and id counter.
// It is not safe for concurrent use.
type RunContext struct {
	RunID       string
	Timestamp   time.Time
	SourceName  string
	ImageCredit string

	stamp   string
	counter int
}

// NewRunContext starts a run at now. now should already be in the source timezone.
func NewRunContext(now time.Time, sourceName, imageCredit string) *RunContext {
	return &RunContext{
		RunID:       uuid.NewString(),
		Timestamp:   now,
		SourceName:  sourceName,
		ImageCredit: imageCredit,
		stamp:       now.Format(idStampLayout),
	}
}

// NextID returns the next record id: YYYYMMDDHHMM followed by a 7-digit counter starting at 1.
func (r *RunContext) NextID() (models.RecordID, error) {
	r.counter++

	raw := fmt.Sprintf("%s%07d", r.stamp, r.counter)

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("record id %s overflows: %w", raw, err)
	}

	return models.RecordID(v), nil
}

// Issued reports how many ids have been handed out.
func (r *RunContext) Issued() int {
	return r.counter
}

// ExtractedAt is the extraction timestamp stamped on every record of this run.
func (r *RunContext) ExtractedAt() string {
	return r.Timestamp.Format(ExtractedAtLayout)
}
