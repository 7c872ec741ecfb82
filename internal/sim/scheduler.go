package sim

import "container/heap"

// Scheduler merges order arrivals and limit-order expirations into one
// chronological stream. It is a min-priority queue keyed on
// (timestamp, insertion sequence), so an expiration scheduled before a
// later arrival always dispatches first.
type Scheduler struct {
	queue eventQueue
	seq   uint64
}

func NewScheduler() *Scheduler {
	s := &Scheduler{}
	heap.Init(&s.queue)
	return s
}

// Schedule inserts an event in O(log n).
func (s *Scheduler) Schedule(ev Event) {
	ev.seq = s.seq
	s.seq++
	heap.Push(&s.queue, ev)
}

// Next removes and returns the earliest event. The second return is
// false once no events remain.
func (s *Scheduler) Next() (Event, bool) {
	if s.queue.Len() == 0 {
		return Event{}, false
	}
	return heap.Pop(&s.queue).(Event), true
}

func (s *Scheduler) Len() int { return s.queue.Len() }

// eventQueue implements heap.Interface over pending events.
type eventQueue []Event

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].Time != q[j].Time {
		return q[i].Time < q[j].Time
	}
	return q[i].seq < q[j].seq
}

func (q eventQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
}

func (q *eventQueue) Push(x any) {
	*q = append(*q, x.(Event))
}

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	ev := old[n-1]
	*q = old[0 : n-1]
	return ev
}
