package async

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/umtlostfound/lostfound-backend/pkg/logger"
)

// DefaultTimeout bounds a detached side effect.
const DefaultTimeout = 10 * time.Second

// Runner executes side effects the caller does not wait on.
type Runner interface {
	Go(ctx context.Context, name string, fn func(context.Context) error)
}

// Detached runs each task on its own goroutine with a context that survives
// the request but is bounded by a timeout. Failures are logged and dropped.
type Detached struct {
	logg    *logger.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewDetached returns a Detached runner. A non-positive timeout uses DefaultTimeout.
func NewDetached(logg *logger.Logger, timeout time.Duration) *Detached {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Detached{logg: logg, timeout: timeout}
}

func (d *Detached) Go(ctx context.Context, name string, fn func(context.Context) error) {
	if ctx == nil {
		ctx = context.Background()
	}
	base := context.WithoutCancel(ctx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		taskCtx, cancel := context.WithTimeout(base, d.timeout)
		defer cancel()

		if err := run(taskCtx, fn); err != nil && d.logg != nil {
			d.logg.WarnErr(d.logg.WithField(taskCtx, "task", name), "async.task_failed", err)
		}
	}()
}

// Wait blocks until every started task has returned. Used on shutdown.
func (d *Detached) Wait() {
	d.wg.Wait()
}

func run(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx)
}

// Inline runs tasks synchronously and keeps their errors. Tests use it to
// observe side effects deterministically.
type Inline struct {
	mu     sync.Mutex
	Errors []error
	Names  []string
}

func (i *Inline) Go(ctx context.Context, name string, fn func(context.Context) error) {
	if ctx == nil {
		ctx = context.Background()
	}
	err := run(context.WithoutCancel(ctx), fn)

	i.mu.Lock()
	defer i.mu.Unlock()
	i.Names = append(i.Names, name)
	if err != nil {
		i.Errors = append(i.Errors, err)
	}
}
