// Package pq provides a generic max-priority queue.
package pq

import "container/heap"

// MaxQueue pops the element with the highest priority first. Priority is
// defined by less: less(a, b) reports whether a ranks below b.
type MaxQueue[T any] struct {
	h items[T]
}

// New creates an empty queue ordered by less
func New[T any](less func(a, b T) bool) *MaxQueue[T] {
	return &MaxQueue[T]{h: items[T]{less: less}}
}

// Len returns the number of queued elements
func (q *MaxQueue[T]) Len() int { return len(q.h.data) }

// Push adds x to the queue
func (q *MaxQueue[T]) Push(x T) {
	heap.Push(&q.h, x)
}

// PopMax removes and returns the highest ranked element. ok is false when
// the queue is empty.
func (q *MaxQueue[T]) PopMax() (x T, ok bool) {
	if len(q.h.data) == 0 {
		return x, false
	}
	return heap.Pop(&q.h).(T), true
}

// Peek returns the highest ranked element without removing it
func (q *MaxQueue[T]) Peek() (x T, ok bool) {
	if len(q.h.data) == 0 {
		return x, false
	}
	return q.h.data[0], true
}

// items implements heap.Interface sorted by descending priority (max-heap).
type items[T any] struct {
	data []T
	less func(a, b T) bool
}

func (h items[T]) Len() int           { return len(h.data) }
func (h items[T]) Less(i, j int) bool { return h.less(h.data[j], h.data[i]) }
func (h items[T]) Swap(i, j int)      { h.data[i], h.data[j] = h.data[j], h.data[i] }

func (h *items[T]) Push(x any) {
	h.data = append(h.data, x.(T))
}

func (h *items[T]) Pop() any {
	old := h.data
	n := len(old)
	x := old[n-1]
	var zero T
	old[n-1] = zero
	h.data = old[:n-1]
	return x
}
