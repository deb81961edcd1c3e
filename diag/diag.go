// Package diag carries non-fatal notices produced while compiling and
// assembling routes.
//
// Diagnostics are a side channel: nothing in the route compiler or the
// assembler changes behaviour based on whether they are collected. Plug a
// Sink into the components that accept one and log, count or assert on the
// events as needed:
//
//	rec := &diag.Recorder{}
//	routes := fsrouter.CreateRoutes(file, mod, fsrouter.WithSink(rec))
//	for _, e := range rec.Events() {
//	    fmt.Println(e.Level, e.Kind, e.Message)
//	}
package diag

import (
	"fmt"
	"sync"
)

// Level is the severity of a diagnostic event.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
)

// String returns the lowercase name of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Kind categorizes diagnostic events.
type Kind string

const (
	// Pattern compilation
	KindNotRouteFile    Kind = "not_route_file"
	KindSegmentCompiled Kind = "segment_compiled"

	// Route assembly
	KindHandlerNotCallable   Kind = "handler_not_callable"
	KindDonorPathIgnored     Kind = "donor_path_ignored"
	KindDonorMethodsIgnored  Kind = "donor_methods_ignored"
	KindDefaultMethodOverlap Kind = "default_method_overlap"

	// Dispatch
	KindPanicRecovered Kind = "panic_recovered"
)

// Event is a single diagnostic notice.
type Event struct {
	Level   Level
	Kind    Kind
	File    string         // originating relative path, if any
	Message string
	Fields  map[string]any // structured context
}

// String formats the event the way the CLI prints it.
func (e Event) String() string {
	if e.File == "" {
		return fmt.Sprintf("%s: %s", e.Level, e.Message)
	}
	return fmt.Sprintf("%s: [%s] %s", e.Level, e.File, e.Message)
}

// Sink receives diagnostic events.
// Implementations must be safe for concurrent use.
type Sink interface {
	Emit(Event)
}

// SinkFunc is a function adapter for Sink.
type SinkFunc func(Event)

func (f SinkFunc) Emit(e Event) {
	f(e)
}

// Nop drops every event.
var Nop Sink = SinkFunc(func(Event) {})

// OrNop returns s, or Nop when s is nil.
func OrNop(s Sink) Sink {
	if s == nil {
		return Nop
	}
	return s
}

// Recorder is a Sink that keeps every event in memory.
// The zero value is ready to use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Emit implements Sink.
func (r *Recorder) Emit(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Events returns a copy of the recorded events in emission order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Kinds returns the kinds of the recorded events in emission order.
func (r *Recorder) Kinds() []Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Kind, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Kind)
	}
	return out
}

// Filter returns the recorded events of the given kind.
func (r *Recorder) Filter(kind Kind) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Reset discards all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

// MinLevel wraps s so that events below min are dropped.
func MinLevel(s Sink, min Level) Sink {
	s = OrNop(s)
	return SinkFunc(func(e Event) {
		if e.Level >= min {
			s.Emit(e)
		}
	})
}

// Tee fans every event out to all sinks.
func Tee(sinks ...Sink) Sink {
	return SinkFunc(func(e Event) {
		for _, s := range sinks {
			if s != nil {
				s.Emit(e)
			}
		}
	})
}
