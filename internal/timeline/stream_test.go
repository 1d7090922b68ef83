package timeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func eventsFrom(keys ...string) *Stream {
	return NewStream(func(yield func(Event) bool) {
		for _, k := range keys {
			if !yield(Event{Category: CategoryChangeset, Payload: CommitEvent{Hash: k, Subject: k}}) {
				return
			}
		}
	})
}

func hashesOf(events []Event) []string {
	var hashes []string
	for _, e := range events {
		if c, ok := e.Payload.(CommitEvent); ok {
			hashes = append(hashes, c.Hash)
		}
	}
	return hashes
}

func TestStream_SingleUse(t *testing.T) {
	stream := eventsFrom("a", "b")

	if diff := cmp.Diff([]string{"a", "b"}, hashesOf(stream.Collect())); diff != "" {
		t.Errorf("first pass mismatch (-want +got):\n%s", diff)
	}
	if again := stream.Collect(); len(again) != 0 {
		t.Errorf("second pass yielded %d events, want none", len(again))
	}
}

func TestStream_EarlyStopConsumes(t *testing.T) {
	stream := eventsFrom("a", "b", "c")
	for range stream.All() {
		break
	}
	if rest := stream.Collect(); len(rest) != 0 {
		t.Errorf("stream should be spent after a partial pass, got %d events", len(rest))
	}
}

func TestEmpty(t *testing.T) {
	if events := Empty().Collect(); len(events) != 0 {
		t.Errorf("Empty() yielded %d events", len(events))
	}
}

type staticSource struct {
	keys []string
	err  error
}

func (s staticSource) Events(context.Context, Query) (*Stream, error) {
	if s.err != nil {
		return nil, s.err
	}
	return eventsFrom(s.keys...), nil
}

func TestRegistry_Events(t *testing.T) {
	boom := errors.New("boom")
	r := NewRegistry(false)
	r.Register("git", staticSource{keys: []string{"a", "b"}})
	r.Register("broken", staticSource{err: boom})
	r.RegisterNative("native", staticSource{keys: []string{"n"}})

	stream, err := r.Events(context.Background(), Query{})
	if !errors.Is(err, boom) {
		t.Errorf("Events() error = %v, want it to carry %v", err, boom)
	}
	if diff := cmp.Diff([]string{"a", "b", "n"}, hashesOf(stream.Collect())); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"git", "broken", "native"}, r.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_SuppressNative(t *testing.T) {
	r := NewRegistry(true)
	r.RegisterNative("native", staticSource{keys: []string{"n"}})
	r.Register("git", staticSource{keys: []string{"g"}})

	stream, err := r.Events(context.Background(), Query{})
	if err != nil {
		t.Fatalf("Events() error = %v", err)
	}
	if diff := cmp.Diff([]string{"g"}, hashesOf(stream.Collect())); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"git"}, r.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_Empty(t *testing.T) {
	stream, err := NewRegistry(false).Events(context.Background(), Query{Start: new(time.Time)})
	if err != nil {
		t.Fatalf("Events() error = %v", err)
	}
	if events := stream.Collect(); len(events) != 0 {
		t.Errorf("got %d events, want none", len(events))
	}
}
