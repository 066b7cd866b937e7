package beatsaver

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Task is the handle of an async operation. It resolves exactly once; the
// finished callback runs on whichever goroutine resolves it, usually one
// owned by the transport.
type Task[T any] struct {
	id       string
	once     sync.Once
	done     chan struct{}
	value    T
	ok       bool
	finished func(T, bool)
}

func newTask[T any](finished func(T, bool)) *Task[T] {
	return &Task[T]{
		id:       newTaskID(),
		done:     make(chan struct{}),
		finished: finished,
	}
}

func newTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// ID returns the task identifier used in log lines
func (t *Task[T]) ID() string {
	return t.id
}

// Done is closed once the task has resolved
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task resolves
func (t *Task[T]) Wait() (T, bool) {
	<-t.done
	return t.value, t.ok
}

// WaitContext blocks until the task resolves or ctx ends. The underlying
// request keeps running when ctx ends first.
func (t *Task[T]) WaitContext(ctx context.Context) (T, bool, error) {
	select {
	case <-t.done:
		return t.value, t.ok, nil
	case <-ctx.Done():
		var zero T
		return zero, false, ctx.Err()
	}
}

// Result returns the resolved value without blocking. resolved is false
// while the task is pending.
func (t *Task[T]) Result() (value T, ok bool, resolved bool) {
	select {
	case <-t.done:
		return t.value, t.ok, true
	default:
		var zero T
		return zero, false, false
	}
}

// resolve stores the outcome and runs the finished callback. It reports
// false when the task had already resolved.
func (t *Task[T]) resolve(value T, ok bool) bool {
	resolved := false
	t.once.Do(func() {
		t.value = value
		t.ok = ok
		resolved = true
		close(t.done)
		if t.finished != nil {
			t.finished(value, ok)
		}
	})
	return resolved
}
