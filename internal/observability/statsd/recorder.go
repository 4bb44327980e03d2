package statsd

import (
	"maps"
	"sync"
	"time"
)

// Sample is one metric captured by a Recorder.
type Sample struct {
	Name     string
	Value    int64
	Duration time.Duration
	Tags     map[string]string
}

// Recorder is an in-memory Sink for tests and local inspection.
type Recorder struct {
	mu      sync.Mutex
	counts  []Sample
	timings []Sample
}

var _ Sink = (*Recorder)(nil)

// Count records a counter sample.
func (r *Recorder) Count(name string, value int64, tags map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts = append(r.counts, Sample{Name: name, Value: value, Tags: maps.Clone(tags)})
}

// Timing records a timing sample.
func (r *Recorder) Timing(name string, value time.Duration, tags map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timings = append(r.timings, Sample{Name: name, Duration: value, Tags: maps.Clone(tags)})
}

// Counts returns the recorded counters named name.
func (r *Recorder) Counts(name string) []Sample {
	r.mu.Lock()
	defer r.mu.Unlock()
	return filterSamples(r.counts, name)
}

// Timings returns the recorded timings named name.
func (r *Recorder) Timings(name string) []Sample {
	r.mu.Lock()
	defer r.mu.Unlock()
	return filterSamples(r.timings, name)
}

func filterSamples(in []Sample, name string) []Sample {
	var out []Sample
	for _, s := range in {
		if s.Name == name {
			out = append(out, s)
		}
	}
	return out
}
