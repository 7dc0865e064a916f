// Package view описывает экраны приложения и жизненный цикл их загрузки.
package view

import (
	"context"
	"sync"

	"github.com/ignatzorin/freelance-flow/internal/goroutine"
)

// Instance один смонтированный экран. Загрузки, запущенные через Go,
// отменяются при Teardown, а их поздние результаты отбрасываются.
type Instance struct {
	ctx      context.Context
	cancel   context.CancelFunc
	recovery *goroutine.RecoveryHandler

	mu       sync.Mutex
	disposed bool
	wg       sync.WaitGroup
}

// NewInstance создаёт экран, живущий не дольше parent.
func NewInstance(parent context.Context, recovery *goroutine.RecoveryHandler) *Instance {
	ctx, cancel := context.WithCancel(parent)
	return &Instance{ctx: ctx, cancel: cancel, recovery: recovery}
}

// Context контекст загрузок экрана.
func (i *Instance) Context() context.Context {
	return i.ctx
}

// Go запускает load в отдельной горутине. commit вызывается с результатом,
// только если экран ещё не разобран; вызовы commit не пересекаются с Teardown.
func (i *Instance) Go(where string, load func(ctx context.Context) (interface{}, error), commit func(result interface{}, err error)) {
	i.mu.Lock()
	if i.disposed {
		i.mu.Unlock()
		return
	}
	i.wg.Add(1)
	i.mu.Unlock()

	i.recovery.SafeGo(where, func() {
		defer i.wg.Done()

		result, err := load(i.ctx)

		i.mu.Lock()
		defer i.mu.Unlock()
		if i.disposed || i.ctx.Err() != nil {
			return
		}
		commit(result, err)
	})
}

// Teardown отменяет незавершённые загрузки. Повторный вызов ничего не делает.
func (i *Instance) Teardown() {
	i.mu.Lock()
	i.disposed = true
	i.mu.Unlock()
	i.cancel()
}

// Disposed сообщает, разобран ли экран.
func (i *Instance) Disposed() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.disposed
}

// Wait ждёт завершения всех запущенных загрузок.
func (i *Instance) Wait() {
	i.wg.Wait()
}
