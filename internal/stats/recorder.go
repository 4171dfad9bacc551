// Package stats aggregates timings from repeated requests.
package stats

import (
	"sort"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	// Recordable range in microseconds: 1µs to 1 hour, 3 significant figures
	histogramMin     = 1
	histogramMax     = 3600000000
	histogramSigFigs = 3
)

// Recorder collects response timings and outcomes.
//
// Recorder is safe for concurrent use.
type Recorder struct {
	mu       sync.Mutex
	hist     *hdrhistogram.Histogram
	success  int64
	failed   int64
	statuses map[int]int64
	started  time.Time
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{
		hist:     hdrhistogram.New(histogramMin, histogramMax, histogramSigFigs),
		statuses: make(map[int]int64),
		started:  time.Now(),
	}
}

// Record adds one response. status is 0 when no status line was seen.
func (r *Recorder) Record(elapsed time.Duration, status int, ok bool) {
	us := elapsed.Microseconds()
	if us < histogramMin {
		us = histogramMin
	}
	if us > histogramMax {
		us = histogramMax
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Out of range values are clamped above so this cannot fail
	_ = r.hist.RecordValue(us)
	if ok {
		r.success++
	} else {
		r.failed++
	}
	if status > 0 {
		r.statuses[status]++
	}
}

// Summary is a point-in-time view of a Recorder
type Summary struct {
	Count    int64         `json:"count" yaml:"count"`
	Success  int64         `json:"success" yaml:"success"`
	Failed   int64         `json:"failed" yaml:"failed"`
	Min      time.Duration `json:"min" yaml:"min"`
	Max      time.Duration `json:"max" yaml:"max"`
	Mean     time.Duration `json:"mean" yaml:"mean"`
	P50      time.Duration `json:"p50" yaml:"p50"`
	P90      time.Duration `json:"p90" yaml:"p90"`
	P99      time.Duration `json:"p99" yaml:"p99"`
	Wall     time.Duration `json:"wall" yaml:"wall"`
	Statuses []StatusCount `json:"statuses" yaml:"statuses"`
}

// StatusCount is the number of responses that carried a status code
type StatusCount struct {
	Code  int   `json:"code" yaml:"code"`
	Count int64 `json:"count" yaml:"count"`
}

// Summary computes percentiles over everything recorded so far
func (r *Recorder) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Summary{
		Count:    r.hist.TotalCount(),
		Success:  r.success,
		Failed:   r.failed,
		Wall:     time.Since(r.started),
		Statuses: make([]StatusCount, 0, len(r.statuses)),
	}
	if s.Count > 0 {
		s.Min = micros(r.hist.Min())
		s.Max = micros(r.hist.Max())
		s.Mean = time.Duration(r.hist.Mean() * float64(time.Microsecond))
		s.P50 = micros(r.hist.ValueAtQuantile(50))
		s.P90 = micros(r.hist.ValueAtQuantile(90))
		s.P99 = micros(r.hist.ValueAtQuantile(99))
	}

	for code, n := range r.statuses {
		s.Statuses = append(s.Statuses, StatusCount{Code: code, Count: n})
	}
	sort.Slice(s.Statuses, func(i, j int) bool { return s.Statuses[i].Code < s.Statuses[j].Code })

	return s
}

func micros(v int64) time.Duration {
	return time.Duration(v) * time.Microsecond
}
