package sink

import (
	"context"
	"slices"
	"sync"
)

// Recorder keeps every published event in memory.
type Recorder struct {
	mux    sync.Mutex
	events []*Event
	// OnEvent, when set, runs after an event is recorded, outside the recorder lock.
	OnEvent func(event *Event)
}

func (r *Recorder) Publish(_ context.Context, event *Event) error {
	r.mux.Lock()
	r.events = append(r.events, event)
	onEvent := r.OnEvent
	r.mux.Unlock()
	if onEvent != nil {
		onEvent(event)
	}
	return nil
}

// Events returns recorded events, optionally filtered by name.
func (r *Recorder) Events(names ...string) []*Event {
	r.mux.Lock()
	defer r.mux.Unlock()
	ret := make([]*Event, 0, len(r.events))
	for _, event := range r.events {
		if len(names) == 0 || slices.Contains(names, event.Name) {
			ret = append(ret, event)
		}
	}
	return ret
}

// Reset clears recorded events.
func (r *Recorder) Reset() {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.events = nil
}

// NewRecorder creates a recorder and the sink feeding it
func NewRecorder() (*Recorder, Sink) {
	recorder := &Recorder{}
	return recorder, New(recorder)
}
