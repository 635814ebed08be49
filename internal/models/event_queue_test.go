package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventQueueOrdersByTimeThenInsertion(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	eq := NewEventQueue()

	eq.Enqueue(&Event{Time: start.Add(2 * time.Hour), Type: "c"})
	eq.Enqueue(&Event{Time: start, Type: "a1"})
	eq.Enqueue(&Event{Time: start.Add(time.Hour), Type: "b"})
	eq.Enqueue(&Event{Time: start, Type: "a2"})
	eq.Enqueue(&Event{Time: start, Type: "a3"})
	require.Equal(t, 5, eq.Len())

	var got []string
	for _, e := range eq.DequeueUntil(start.Add(time.Hour)) {
		got = append(got, e.Type)
	}
	assert.Equal(t, []string{"a1", "a2", "a3", "b"}, got)

	last := eq.Dequeue()
	require.NotNil(t, last)
	assert.Equal(t, "c", last.Type)
	assert.Nil(t, eq.Dequeue())
}
