// README: Discrete-event scheduler; a binary min-heap over event time.
package scheduler

import "container/heap"

const defaultCapacity = 100

// Scheduler yields events in ascending time. Events with equal time come out
// in the order they were inserted.
type Scheduler struct {
	queue     eventQueue
	inserted  int
	processed int
	nextSeq   uint64
}

// New returns an empty scheduler whose backing array starts at capacityHint
// and doubles as needed.
func New(capacityHint int) *Scheduler {
	if capacityHint <= 0 {
		capacityHint = defaultCapacity
	}
	return &Scheduler{queue: make(eventQueue, 0, capacityHint)}
}

// Init empties the queue and resets the counters.
func (s *Scheduler) Init() {
	for i := range s.queue {
		s.queue[i] = Event{}
	}
	s.queue = s.queue[:0]
	s.inserted = 0
	s.processed = 0
	s.nextSeq = 0
}

func (s *Scheduler) Insert(ev Event) {
	ev.seq = s.nextSeq
	s.nextSeq++
	heap.Push(&s.queue, ev)
	s.inserted++
}

// ExtractMin removes and returns the earliest event. The second result is
// false when the scheduler is empty.
func (s *Scheduler) ExtractMin() (Event, bool) {
	if len(s.queue) == 0 {
		return Event{}, false
	}
	ev := heap.Pop(&s.queue).(Event)
	s.processed++
	return ev, true
}

// PeekTime returns the time of the earliest event without removing it.
func (s *Scheduler) PeekTime() (float64, bool) {
	if len(s.queue) == 0 {
		return 0, false
	}
	return s.queue[0].Time, true
}

func (s *Scheduler) Empty() bool    { return len(s.queue) == 0 }
func (s *Scheduler) Len() int       { return len(s.queue) }
func (s *Scheduler) Inserted() int  { return s.inserted }
func (s *Scheduler) Processed() int { return s.processed }

// Finalize discards every pending event and returns how many were dropped.
// Counters are kept so they can be reported after the run.
func (s *Scheduler) Finalize() int {
	n := len(s.queue)
	for i := range s.queue {
		s.queue[i] = Event{}
	}
	s.queue = s.queue[:0]
	return n
}
