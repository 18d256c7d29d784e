// ABOUTME: Warning and error messages posted to the hosting application.
// ABOUTME: Provides the MessageSink interface and a thread-safe recorder.

package autodetect

import "sync"

// MessageKind classifies a host message.
type MessageKind int

const (
	MessageWarning MessageKind = iota + 1
	MessageError
)

func (k MessageKind) String() string {
	switch k {
	case MessageWarning:
		return "warning"
	case MessageError:
		return "error"
	default:
		return "unknown"
	}
}

// Message is a warning or error the source reports to its host.
type Message struct {
	Kind   MessageKind
	Source string
	Err    error
}

// MessageSink receives host messages. Post must not call back into the Source.
type MessageSink interface {
	Post(msg Message)
}

type discardSink struct{}

func (discardSink) Post(Message) {}

// MessageRecorder is a MessageSink that keeps every message it receives.
type MessageRecorder struct {
	mu       sync.Mutex
	messages []Message
}

// Post implements MessageSink.
func (r *MessageRecorder) Post(msg Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

// Messages returns a copy of the recorded messages in post order.
func (r *MessageRecorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}

// Count returns how many messages of the given kind were recorded.
func (r *MessageRecorder) Count(kind MessageKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, m := range r.messages {
		if m.Kind == kind {
			n++
		}
	}
	return n
}

// Reset drops all recorded messages.
func (r *MessageRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = nil
}
