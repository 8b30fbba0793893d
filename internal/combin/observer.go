// Package combin enumerates, counts, ranks and unranks k-combinations of an
// n-element index universe in lexicographic order.
// This file contains the Observer pattern used by callers to report
// per-worker enumeration progress. The engine itself never notifies.
package combin

import "sync"

// ProgressUpdate carries the progress of one worker. It is sent over a
// channel from the sweep workers to the terminal display.
type ProgressUpdate struct {
	// WorkerIndex identifies the worker, matching Range.Worker.
	WorkerIndex int
	// Value is the fraction of the worker's range emitted so far, in [0, 1].
	Value float64
}

// ProgressReporter is the callback a single worker uses to publish its
// progress without knowing who listens.
type ProgressReporter func(progress float64)

// ProgressObserver receives progress notifications.
type ProgressObserver interface {
	// Update is called when a worker's progress changes.
	//
	// Parameters:
	//   - worker: The worker index.
	//   - progress: The normalized progress value (0.0 to 1.0).
	Update(worker int, progress float64)
}

// ProgressSubject manages observer registration and notification for
// progress events. It is safe for concurrent use, so every worker of a sweep
// can notify through the same subject.
type ProgressSubject struct {
	observers []ProgressObserver
	mu        sync.RWMutex
}

// NewProgressSubject creates a subject with no observers.
func NewProgressSubject() *ProgressSubject {
	return &ProgressSubject{
		observers: make([]ProgressObserver, 0),
	}
}

// Register adds an observer. Observers are notified in registration order.
// A nil observer is ignored.
func (s *ProgressSubject) Register(observer ProgressObserver) {
	if observer == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, observer)
}

// Unregister removes an observer. Unknown or nil observers are ignored.
func (s *ProgressSubject) Unregister(observer ProgressObserver) {
	if observer == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, o := range s.observers {
		if o == observer {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

// Notify sends a progress update to all registered observers synchronously.
func (s *ProgressSubject) Notify(worker int, progress float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, observer := range s.observers {
		observer.Update(worker, progress)
	}
}

// ObserverCount returns the number of registered observers.
func (s *ProgressSubject) ObserverCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.observers)
}

// AsProgressReporter binds the subject to one worker index.
//
// Parameters:
//   - worker: The worker index to include in notifications.
//
// Returns:
//   - ProgressReporter: A callback that notifies every observer.
func (s *ProgressSubject) AsProgressReporter(worker int) ProgressReporter {
	return func(progress float64) {
		s.Notify(worker, progress)
	}
}
