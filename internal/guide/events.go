package guide

import (
	"log"
	"sync/atomic"
	"time"
)

// EventType identifies generator lifecycle events.
type EventType string

const (
	// EventStarted fires once when generation begins.
	EventStarted EventType = "generation_started"
	// EventChunked fires when the worksheet is split to fit the token budget.
	EventChunked EventType = "worksheet_chunked"
	// EventModelCall fires before each model request.
	EventModelCall EventType = "model_call"
	// EventRetry fires before the backoff sleep when a transient failure
	// will be retried.
	EventRetry EventType = "model_retry"
	// EventFallback fires when the primary model is abandoned for the
	// fallback model.
	EventFallback EventType = "model_fallback"
	// EventChunkCompleted fires after each chunk's response arrives.
	EventChunkCompleted EventType = "chunk_completed"
	// EventSectionsMissing fires when the merged guide lacks required
	// sections.
	EventSectionsMissing EventType = "sections_missing"
	// EventCompleted fires once when the guide document is ready.
	EventCompleted EventType = "generation_completed"
	// EventFailed fires once when generation is abandoned.
	EventFailed EventType = "generation_failed"
)

// Event carries progress information out of the generator.
type Event struct {
	// Type identifies the event.
	Type EventType
	// RunID groups all events of one Generate call.
	RunID string
	// Service is the service name the guide is for.
	Service string
	// Model is the model in use when the event fired, if any.
	Model string
	// Attempt is the 1-based attempt number for call and retry events.
	Attempt int
	// Chunk and Chunks report chunked progress; both are 0 when the
	// worksheet was not split.
	Chunk  int
	Chunks int
	// Message is a human-readable description.
	Message string
	// Err carries the failure for retry, fallback, and failed events.
	Err error
	// InputTokens and OutputTokens report usage for completion events.
	InputTokens  int64
	OutputTokens int64
	// Cost is the estimated USD cost for completion events.
	Cost float64
	// Timestamp records when the event fired.
	Timestamp time.Time
}

// EventEmitter delivers generator events without blocking generation.
type EventEmitter struct {
	events  chan Event
	dropped atomic.Uint64
}

// NewEventEmitter creates an emitter with the given buffer size. Sizes
// below 1 get a default of 64.
func NewEventEmitter(buffer int) *EventEmitter {
	if buffer < 1 {
		buffer = 64
	}
	return &EventEmitter{events: make(chan Event, buffer)}
}

// Emit delivers an event, waiting briefly if the buffer is full before
// dropping it.
func (e *EventEmitter) Emit(event Event) {
	select {
	case e.events <- event:
		return
	default:
	}

	select {
	case e.events <- event:
	case <-time.After(100 * time.Millisecond):
		n := e.dropped.Add(1)
		if n%10 == 1 {
			log.Printf("guide: dropped %d events, consumer too slow", n)
		}
	}
}

// Events returns the receive side of the event stream.
func (e *EventEmitter) Events() <-chan Event {
	return e.events
}

// Dropped reports how many events were discarded.
func (e *EventEmitter) Dropped() uint64 {
	return e.dropped.Load()
}

// Close closes the event stream. Emit must not be called after Close.
func (e *EventEmitter) Close() {
	close(e.events)
}
