package pubsub

import (
	"fmt"
	"sync"
)

// Mock records published events in memory. It is safe for concurrent use.
// SendMessage rejects an event whose type does not belong to its topic, and
// ProcessMessage decodes msgpack like the real client unless ProcessMessageFunc
// is set.
type Mock struct {
	mu        sync.Mutex
	published []Published

	SendMessageFunc    func(topic EventType, data any) error
	ProcessMessageFunc func(data []byte, returnValue any) error
}

// Published is one event handed to SendMessage.
type Published struct {
	Topic EventType
	Event any
}

var _ PubSubClient = (*Mock)(nil)

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SendMessage(topic EventType, data any) error {
	if err := checkTopic(topic, data); err != nil {
		return err
	}
	m.mu.Lock()
	m.published = append(m.published, Published{Topic: topic, Event: data})
	m.mu.Unlock()
	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(topic, data)
	}
	return nil
}

func (m *Mock) ProcessMessage(data []byte, returnValue any) error {
	if m.ProcessMessageFunc != nil {
		return m.ProcessMessageFunc(data, returnValue)
	}
	return decode(data, returnValue)
}

// Published returns every event sent so far, oldest first.
func (m *Mock) Published() []Published {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Published(nil), m.published...)
}

// RoundsPaired returns the round-paired events sent so far.
func (m *Mock) RoundsPaired() []RoundPairedEvent {
	var events []RoundPairedEvent
	for _, p := range m.Published() {
		if e, ok := p.Event.(RoundPairedEvent); ok {
			events = append(events, e)
		}
	}
	return events
}

// MatchesReported returns the match-reported events sent so far.
func (m *Mock) MatchesReported() []MatchReportedEvent {
	var events []MatchReportedEvent
	for _, p := range m.Published() {
		if e, ok := p.Event.(MatchReportedEvent); ok {
			events = append(events, e)
		}
	}
	return events
}

func checkTopic(topic EventType, data any) error {
	switch data.(type) {
	case RoundPairedEvent:
		if topic == EventRoundPaired {
			return nil
		}
	case MatchReportedEvent:
		if topic == EventMatchReported {
			return nil
		}
	}
	return fmt.Errorf("event %T does not belong on topic %q", data, topic)
}
