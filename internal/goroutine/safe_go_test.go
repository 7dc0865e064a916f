package goroutine

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	mu   sync.Mutex
	msgs []string
	done chan struct{}
}

func (l *recordingLogger) Errorf(format string, args ...interface{}) {
	l.mu.Lock()
	l.msgs = append(l.msgs, fmt.Sprintf(format, args...))
	l.mu.Unlock()
	close(l.done)
}

func TestSafeGo_RecoversPanic(t *testing.T) {
	log := &recordingLogger{done: make(chan struct{})}
	rh := NewRecoveryHandler(log)

	rh.SafeGo("worker", func() { panic("boom") })

	select {
	case <-log.done:
	case <-time.After(time.Second):
		t.Fatal("panic не был залогирован")
	}
	log.mu.Lock()
	defer log.mu.Unlock()
	require.Len(t, log.msgs, 1)
	assert.Contains(t, log.msgs[0], "panic in worker: boom")
}

func TestSafeGoWithContext_PassesContext(t *testing.T) {
	rh := NewRecoveryHandler(&recordingLogger{done: make(chan struct{})})
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "value")

	got := make(chan interface{}, 1)
	rh.SafeGoWithContext(ctx, "worker", func(ctx context.Context) { got <- ctx.Value(key{}) })

	select {
	case v := <-got:
		assert.Equal(t, "value", v)
	case <-time.After(time.Second):
		t.Fatal("горутина не выполнилась")
	}
}
