package events

import (
	"context"
	"sync"
	"testing"
	"time"
)

type userAdded struct {
	Name string
}

type userRemoved struct {
	Name string
}

type namedEvent interface {
	EventName() string
}

type renameEvent struct {
	From, To string
}

func (renameEvent) EventName() string { return "rename" }

func TestDispatchOnlyMatchingType(t *testing.T) {
	d := NewDispatcher(nil)

	var added, removed int
	if _, err := d.Subscribe(func(userAdded) { added++ }); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if _, err := d.Subscribe(func(userRemoved) { removed++ }); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	if err := d.Dispatch(context.Background(), userAdded{Name: "a"}); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if added != 1 || removed != 0 {
		t.Errorf("added = %d, removed = %d, want 1, 0", added, removed)
	}
}

func TestDispatchPriorityOrder(t *testing.T) {
	d := NewDispatcher(nil)

	var order []string
	d.Subscribe(func(userAdded) { order = append(order, "late") }, WithPriority(10))
	d.Subscribe(func(userAdded) { order = append(order, "early") }, WithPriority(-10))
	d.Subscribe(func(userAdded) { order = append(order, "mid-a") })
	d.Subscribe(func(userAdded) { order = append(order, "mid-b") })

	d.Dispatch(context.Background(), userAdded{})

	want := []string{"early", "mid-a", "mid-b", "late"}
	if len(order) != len(want) {
		t.Fatalf("invoked %d listeners, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestDispatchInterfaceListener(t *testing.T) {
	d := NewDispatcher(nil)

	var names []string
	d.Subscribe(func(e namedEvent) { names = append(names, e.EventName()) })

	d.Dispatch(context.Background(), renameEvent{From: "a", To: "b"})
	d.Dispatch(context.Background(), userAdded{}) // does not implement namedEvent

	if len(names) != 1 || names[0] != "rename" {
		t.Errorf("interface listener saw %v, want [rename]", names)
	}
}

func TestDispatchFilter(t *testing.T) {
	d := NewDispatcher(nil)

	var got []string
	d.Subscribe(func(e userAdded) { got = append(got, e.Name) }, WithFilter(func(e any) bool {
		return e.(userAdded).Name != "skip"
	}))

	d.Dispatch(context.Background(), userAdded{Name: "keep"})
	d.Dispatch(context.Background(), userAdded{Name: "skip"})

	if len(got) != 1 || got[0] != "keep" {
		t.Errorf("filtered listener saw %v, want [keep]", got)
	}
}

func TestDispatchContextHandler(t *testing.T) {
	d := NewDispatcher(nil)

	type key struct{}
	var got any
	d.Subscribe(func(ctx context.Context, _ userAdded) { got = ctx.Value(key{}) })

	ctx := context.WithValue(context.Background(), key{}, "v")
	d.Dispatch(ctx, userAdded{})

	if got != "v" {
		t.Errorf("context value = %v, want v", got)
	}
}

func TestSubscribeRejectsBadHandlers(t *testing.T) {
	d := NewDispatcher(nil)

	bad := []any{
		nil,
		42,
		func() {},
		func(a, b userAdded) {},
		func(userAdded) error { return nil },
	}
	for _, h := range bad {
		if _, err := d.Subscribe(h); err == nil {
			t.Errorf("Subscribe(%T) = nil error, want error", h)
		}
	}
}

func TestUnsubscribeIdempotent(t *testing.T) {
	d := NewDispatcher(nil)

	var n int
	unsub, err := d.Subscribe(func(userAdded) { n++ })
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if d.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", d.Len())
	}

	unsub()
	unsub()

	if d.Len() != 0 {
		t.Errorf("Len() after unsubscribe = %d, want 0", d.Len())
	}
	d.Dispatch(context.Background(), userAdded{})
	if n != 0 {
		t.Errorf("listener invoked %d times after unsubscribe, want 0", n)
	}
}

func TestDispatchNilEvent(t *testing.T) {
	d := NewDispatcher(nil)
	if err := d.Dispatch(context.Background(), nil); err == nil {
		t.Error("Dispatch(nil) = nil error, want error")
	}
}

func TestListenerPanicIsContained(t *testing.T) {
	d := NewDispatcher(nil)

	var after int
	d.Subscribe(func(userAdded) { panic("listener bug") }, WithPriority(0))
	d.Subscribe(func(userAdded) { after++ }, WithPriority(1))

	if err := d.Dispatch(context.Background(), userAdded{}); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if after != 1 {
		t.Errorf("listener after panicking one invoked %d times, want 1", after)
	}
}

func TestPoolExecutorDeliversAll(t *testing.T) {
	pool := NewPoolExecutor(4, 16)
	defer pool.Close()

	d := NewDispatcher(pool)

	var mu sync.Mutex
	seen := make(map[string]int)
	var wg sync.WaitGroup

	d.Subscribe(func(e userAdded) {
		defer wg.Done()
		mu.Lock()
		seen[e.Name]++
		mu.Unlock()
	})

	names := []string{"a", "b", "c", "d", "e"}
	wg.Add(len(names))
	for _, name := range names {
		d.Dispatch(context.Background(), userAdded{Name: name})
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("pool dispatch did not complete in time")
	}

	for _, name := range names {
		if seen[name] != 1 {
			t.Errorf("event %q delivered %d times, want 1", name, seen[name])
		}
	}
}

func TestPoolExecutorCloseDropsNewTasks(t *testing.T) {
	pool := NewPoolExecutor(1, 1)
	pool.Close()
	pool.Close() // idempotent

	ran := false
	pool.Execute(func() { ran = true })
	if ran {
		t.Error("task ran after Close")
	}
}

func TestNotifierZeroValue(t *testing.T) {
	var n Notifier

	var got string
	if _, err := n.Subscribe(func(e userAdded) { got = e.Name }); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if err := n.Notify(context.Background(), userAdded{Name: "z"}); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if got != "z" {
		t.Errorf("notifier listener saw %q, want z", got)
	}
}
