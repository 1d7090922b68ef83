package timeline

import (
	"iter"
	"sync"
)

// Stream is a forward-only, single-use sequence of events. The first
// iteration consumes it; later iterations yield nothing. Callers that need
// several passes must Collect first.
type Stream struct {
	mu  sync.Mutex
	seq iter.Seq[Event]
}

// NewStream wraps seq.
func NewStream(seq iter.Seq[Event]) *Stream {
	return &Stream{seq: seq}
}

// Empty returns a stream with no events.
func Empty() *Stream {
	return &Stream{}
}

// All returns the sequence. Only the first range over it produces events.
func (s *Stream) All() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		s.mu.Lock()
		seq := s.seq
		s.seq = nil
		s.mu.Unlock()
		if seq == nil {
			return
		}
		for event := range seq {
			if !yield(event) {
				return
			}
		}
	}
}

// Collect drains the stream into a slice.
func (s *Stream) Collect() []Event {
	var events []Event
	for event := range s.All() {
		events = append(events, event)
	}
	return events
}

// concat chains streams in order.
func concat(streams []*Stream) *Stream {
	return NewStream(func(yield func(Event) bool) {
		for _, stream := range streams {
			for event := range stream.All() {
				if !yield(event) {
					return
				}
			}
		}
	})
}
