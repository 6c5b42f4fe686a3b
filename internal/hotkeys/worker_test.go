package hotkeys

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRunner struct {
	mu      sync.Mutex
	done    []Action
	block   chan struct{}
	started chan struct{}
}

func (r *recordingRunner) Perform(ctx context.Context, a Action) error {
	if r.started != nil {
		r.started <- struct{}{}
	}
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	r.done = append(r.done, a)
	r.mu.Unlock()
	if a == ActionNone {
		panic("boom")
	}
	return nil
}

func (r *recordingRunner) performed() []Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Action(nil), r.done...)
}

func TestWorkerRunsActionsInOrder(t *testing.T) {
	r := &recordingRunner{}
	w := NewWorker(4, r, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.True(t, w.Submit(ActionFold))
	require.True(t, w.Submit(ActionBet))

	require.Eventually(t, func() bool { return len(r.performed()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []Action{ActionFold, ActionBet}, r.performed())
}

func TestWorkerSubmitDropsWhenFull(t *testing.T) {
	w := NewWorker(2, &recordingRunner{}, nil)

	assert.True(t, w.Submit(ActionFold))
	assert.True(t, w.Submit(ActionFold))

	done := make(chan bool)
	go func() { done <- w.Submit(ActionFold) }()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Submit blocked on a full queue")
	}
}

func TestWorkerFinishesRunningActionOnCancel(t *testing.T) {
	r := &recordingRunner{block: make(chan struct{}), started: make(chan struct{}, 1)}
	w := NewWorker(1, r, nil)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(stopped)
	}()

	require.True(t, w.Submit(ActionRaise))
	<-r.started
	cancel()
	close(r.block)

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
	assert.Equal(t, []Action{ActionRaise}, r.performed())
}

func TestWorkerRecoversFromPanic(t *testing.T) {
	r := &recordingRunner{}
	w := NewWorker(4, r, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	w.Submit(ActionNone)
	w.Submit(ActionFold)

	require.Eventually(t, func() bool { return len(r.performed()) == 2 }, time.Second, 5*time.Millisecond)
}
