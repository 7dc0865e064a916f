package goroutine

import (
	"context"
	"runtime/debug"
)

// Logger интерфейс для логирования ошибок
type Logger interface {
	Errorf(format string, args ...interface{})
}

// RecoveryHandler обрабатывает panic в горутинах
type RecoveryHandler struct {
	logger Logger
}

// NewRecoveryHandler создает новый обработчик
func NewRecoveryHandler(logger Logger) *RecoveryHandler {
	return &RecoveryHandler{logger: logger}
}

// Recover перехватывает panic текущей горутины. Вызывается через defer.
func (rh *RecoveryHandler) Recover(where string) {
	if r := recover(); r != nil {
		rh.logger.Errorf("panic in %s: %v\nStack trace:\n%s", where, r, debug.Stack())
	}
}

// SafeGo запускает горутину с обработкой panic
func (rh *RecoveryHandler) SafeGo(where string, fn func()) {
	go func() {
		defer rh.Recover(where)
		fn()
	}()
}

// SafeGoWithContext запускает горутину с контекстом и обработкой panic
func (rh *RecoveryHandler) SafeGoWithContext(ctx context.Context, where string, fn func(context.Context)) {
	go func() {
		defer rh.Recover(where)
		fn(ctx)
	}()
}
