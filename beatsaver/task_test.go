package beatsaver

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTask_ResolvesOnce(t *testing.T) {
	var calls int
	task := newTask(func(v int, ok bool) {
		calls++
	})

	if _, _, resolved := task.Result(); resolved {
		t.Error("New task should be pending")
	}

	if !task.resolve(7, true) {
		t.Error("First resolve should succeed")
	}
	if task.resolve(8, false) {
		t.Error("Second resolve should be ignored")
	}

	value, ok := task.Wait()
	if value != 7 || !ok {
		t.Errorf("Expected (7, true), got (%d, %v)", value, ok)
	}
	if calls != 1 {
		t.Errorf("Expected one finished call, got %d", calls)
	}
}

func TestTask_ConcurrentResolve(t *testing.T) {
	var mu sync.Mutex
	var calls int
	task := newTask(func(v int, ok bool) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			task.resolve(n, true)
		}(i)
	}
	wg.Wait()

	if calls != 1 {
		t.Errorf("Expected one finished call, got %d", calls)
	}
}

func TestTask_WaitContext(t *testing.T) {
	task := newTask[string](nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, _, err := task.WaitContext(ctx); err != context.DeadlineExceeded {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}

	go task.resolve("cover", true)

	value, ok, err := task.WaitContext(context.Background())
	if err != nil || !ok || value != "cover" {
		t.Errorf("Unexpected result: %q, %v, %v", value, ok, err)
	}
}

func TestTask_ID(t *testing.T) {
	a := newTask[int](nil)
	b := newTask[int](nil)

	if a.ID() == b.ID() {
		t.Error("Task IDs should be unique")
	}

	id, err := uuid.Parse(a.ID())
	if err != nil {
		t.Fatalf("Task ID is not a UUID: %v", err)
	}
	if id.Version() != 7 {
		t.Errorf("Expected UUIDv7, got version %d", id.Version())
	}
}
