// Package metrics is a thin facade between the pipeline and a metrics
// backend. The core code calls the package-level functions and stays free of
// vendor-specific types; a backend (Datadog, or a fake in tests) is installed
// once at startup with SetBackend. The default backend discards everything.
package metrics

import "sync/atomic"

// Labels attach dimensions to a metric sample.
type Labels map[string]string

// Backend receives metric samples. Implementations must be safe for
// concurrent use.
type Backend interface {
	IncCounter(name string, delta float64, labels Labels)
	ObserveHistogram(name string, value float64, labels Labels)
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}

// holder keeps the stored concrete type constant so atomic.Value accepts
// backends of different dynamic types.
type holder struct {
	b Backend
}

var current atomic.Value // holder

func init() {
	current.Store(holder{b: nopBackend{}})
}

// SetBackend installs the process-wide backend. Passing nil restores the
// discarding default.
func SetBackend(b Backend) {
	if b == nil {
		b = nopBackend{}
	}
	current.Store(holder{b: b})
}

func backend() Backend {
	return current.Load().(holder).b
}

// IncCounter adds delta to the named counter.
func IncCounter(name string, delta float64, labels Labels) {
	backend().IncCounter(name, delta, labels)
}

// ObserveHistogram records one sample of the named distribution.
func ObserveHistogram(name string, value float64, labels Labels) {
	backend().ObserveHistogram(name, value, labels)
}
