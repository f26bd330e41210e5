package goroutine

import (
	"context"
	"runtime/debug"
)

// Logger интерфейс для логирования ошибок. *logrus.Logger ему удовлетворяет.
type Logger interface {
	Errorf(format string, args ...interface{})
}

// Runner запускает фоновую работу. Сервисы зависят от интерфейса,
// чтобы тесты могли выполнять побочные эффекты синхронно.
type Runner interface {
	Go(ctx context.Context, fn func(context.Context))
}

// RecoveryHandler обрабатывает panic в горутинах.
type RecoveryHandler struct {
	logger Logger
}

// NewRecoveryHandler создает новый обработчик.
func NewRecoveryHandler(logger Logger) *RecoveryHandler {
	return &RecoveryHandler{logger: logger}
}

// Go запускает fn в горутине с контекстом. Отмена родительского запроса
// не отменяет фоновую работу: контекст отвязывается через context.WithoutCancel.
func (rh *RecoveryHandler) Go(ctx context.Context, fn func(context.Context)) {
	detached := context.WithoutCancel(ctx)
	go func() {
		defer rh.recover()
		fn(detached)
	}()
}

func (rh *RecoveryHandler) recover() {
	if r := recover(); r != nil && rh.logger != nil {
		rh.logger.Errorf("Panic in goroutine: %v\nStack trace:\n%s", r, debug.Stack())
	}
}

// Inline выполняет работу в текущей горутине, также перехватывая panic.
type Inline struct {
	Logger Logger
}

// Go выполняет fn синхронно.
func (i Inline) Go(ctx context.Context, fn func(context.Context)) {
	defer (&RecoveryHandler{logger: i.Logger}).recover()
	fn(ctx)
}
