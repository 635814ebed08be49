package models

import (
	"container/heap"
	"sync"
	"time"
)

// Event is a simulation output waiting to be written.
type Event struct {
	Time  time.Time
	Type  string
	Topic string
	Data  interface{}

	seq uint64
}

// EventQueue orders events by time; events with equal times keep their enqueue order.
type EventQueue struct {
	events  eventHeap
	nextSeq uint64
	mutex   sync.Mutex
}

type eventHeap []*Event

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	if h[i].Time.Equal(h[j].Time) {
		return h[i].seq < h[j].seq
	}
	return h[i].Time.Before(h[j].Time)
}
func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x interface{}) {
	*h = append(*h, x.(*Event))
}

func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return x
}

func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

func (eq *EventQueue) Enqueue(event *Event) {
	eq.mutex.Lock()
	defer eq.mutex.Unlock()
	event.seq = eq.nextSeq
	eq.nextSeq++
	heap.Push(&eq.events, event)
}

// Dequeue removes and returns the earliest event, or nil when empty.
func (eq *EventQueue) Dequeue() *Event {
	eq.mutex.Lock()
	defer eq.mutex.Unlock()
	if len(eq.events) == 0 {
		return nil
	}
	return heap.Pop(&eq.events).(*Event)
}

func (eq *EventQueue) Len() int {
	eq.mutex.Lock()
	defer eq.mutex.Unlock()
	return len(eq.events)
}

// DequeueUntil removes every event at or before t, earliest first.
func (eq *EventQueue) DequeueUntil(t time.Time) []*Event {
	eq.mutex.Lock()
	defer eq.mutex.Unlock()

	var batch []*Event
	for len(eq.events) > 0 && !eq.events[0].Time.After(t) {
		batch = append(batch, heap.Pop(&eq.events).(*Event))
	}
	return batch
}
