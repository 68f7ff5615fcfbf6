package pubsub

import (
	"testing"

	"github.com/mauv0809/swiss-tribble/internal/swiss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestProcessMessage_RoundPairedEvent(t *testing.T) {
	event := RoundPairedEvent{
		EventID:      "evt-1",
		TournamentID: 3,
		Round:        2,
		Pairings: []swiss.Pairing{
			{A: swiss.Player{ID: 5, Name: "Eve"}, B: swiss.Bye},
			{A: swiss.Player{ID: 1, Name: "Ada"}, B: swiss.Player{ID: 2, Name: "Bob"}},
		},
	}
	data, err := msgpack.Marshal(event)
	require.NoError(t, err)

	var got RoundPairedEvent
	require.NoError(t, NewNop().ProcessMessage(data, &got))
	assert.Equal(t, event, got)
	assert.True(t, got.Pairings[0].IsBye())
}

func TestProcessMessage_InvalidPayload(t *testing.T) {
	var got MatchReportedEvent
	err := NewNop().ProcessMessage([]byte{0xc1}, &got)
	assert.Error(t, err)
}

func TestNopSendMessage(t *testing.T) {
	err := NewNop().SendMessage(EventMatchReported, MatchReportedEvent{EventID: "evt-2", Winner: 1, Loser: 2})
	assert.NoError(t, err)

	err = NewNop().SendMessage(EventMatchReported, make(chan int))
	assert.Error(t, err, "unencodable payloads are reported even when publishing is disabled")
}

func TestMockSortsEventsByType(t *testing.T) {
	m := NewMock()
	require.NoError(t, m.SendMessage(EventRoundPaired, RoundPairedEvent{EventID: "r1", Round: 1}))
	require.NoError(t, m.SendMessage(EventMatchReported, MatchReportedEvent{EventID: "m1", Winner: 1, Loser: 2}))

	assert.Len(t, m.Published(), 2)
	require.Len(t, m.RoundsPaired(), 1)
	assert.Equal(t, "r1", m.RoundsPaired()[0].EventID)
	require.Len(t, m.MatchesReported(), 1)
	assert.Equal(t, swiss.PlayerID(2), m.MatchesReported()[0].Loser)
}

func TestMockRejectsEventOnWrongTopic(t *testing.T) {
	m := NewMock()
	err := m.SendMessage(EventRoundPaired, MatchReportedEvent{EventID: "m1"})
	assert.Error(t, err)
	assert.Empty(t, m.Published())
}
