package ingest

import (
	"time"

	"github.com/okian/benchmatrix/internal/domain/admission"
)

// Pass outcomes.
const (
	StatusOK      = "ok"
	StatusPartial = "partial"
	StatusFailed  = "failed"
)

// SourceReport describes what happened to one benchmark source.
type SourceReport struct {
	ID       string        `json:"id" yaml:"id"`
	Name     string        `json:"name" yaml:"name"`
	File     string        `json:"file" yaml:"file"`
	Rows     int           `json:"rows" yaml:"rows"`
	Admitted int           `json:"admitted" yaml:"admitted"`
	Rejected int           `json:"rejected" yaml:"rejected"`
	Invalid  int           `json:"invalid" yaml:"invalid"`
	Duration time.Duration `json:"duration" yaml:"duration"`
	Error    string        `json:"error,omitempty" yaml:"error,omitempty"`
	Err      error         `json:"-" yaml:"-"`
}

// OK reports whether the source loaded.
func (r SourceReport) OK() bool { return r.Err == nil }

// Report summarizes one ingestion pass.
type Report struct {
	PassID   string              `json:"pass_id" yaml:"pass_id"`
	Started  time.Time           `json:"started" yaml:"started"`
	Finished time.Time           `json:"finished" yaml:"finished"`
	Sources  []SourceReport      `json:"sources" yaml:"sources"`
	Families []admission.Counter `json:"families" yaml:"families"`
}

// Succeeded returns the number of sources that loaded.
func (r Report) Succeeded() int {
	n := 0
	for _, s := range r.Sources {
		if s.OK() {
			n++
		}
	}
	return n
}

// Status classifies the pass.
func (r Report) Status() string {
	switch n := r.Succeeded(); {
	case n == 0:
		return StatusFailed
	case n < len(r.Sources):
		return StatusPartial
	default:
		return StatusOK
	}
}

// Duration returns the wall time of the pass.
func (r Report) Duration() time.Duration { return r.Finished.Sub(r.Started) }
