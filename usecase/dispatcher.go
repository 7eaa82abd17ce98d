package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/fastygo/taskboard/domain"
)

type CommandHandler func(ctx context.Context, payload interface{}) (interface{}, error)
type QueryHandler func(ctx context.Context, params interface{}) (interface{}, error)

var ErrUnknownAction = domain.NewError(domain.ErrCodeNotFound, "Unknown action")

type entry struct {
	handler  func(ctx context.Context, payload interface{}) (interface{}, error)
	fallback string
}

// Dispatcher routes named commands and queries with untyped payloads. Invoke
// is the failure boundary: every error and panic becomes a failed Result.
type Dispatcher struct {
	cmdHandlers map[string]entry
	qryHandlers map[string]entry
	mu          sync.RWMutex
	logger      *zap.Logger
}

func NewDispatcher(logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		cmdHandlers: make(map[string]entry),
		qryHandlers: make(map[string]entry),
		logger:      logger,
	}
}

// RegisterCommand adds a mutation. fallback is the message shown when the
// handler fails with a storage or programmer error.
func (d *Dispatcher) RegisterCommand(name, fallback string, handler CommandHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cmdHandlers[name] = entry{handler: handler, fallback: fallback}
}

func (d *Dispatcher) RegisterQuery(name, fallback string, handler QueryHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.qryHandlers[name] = entry{handler: handler, fallback: fallback}
}

func (d *Dispatcher) ExecuteCommand(ctx context.Context, name string, payload interface{}) (interface{}, error) {
	d.mu.RLock()
	e, ok := d.cmdHandlers[name]
	d.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("command handler %s not registered", name)
	}
	return e.handler(ctx, payload)
}

func (d *Dispatcher) ExecuteQuery(ctx context.Context, name string, params interface{}) (interface{}, error) {
	d.mu.RLock()
	e, ok := d.qryHandlers[name]
	d.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("query handler %s not registered", name)
	}
	return e.handler(ctx, params)
}

// Invoke runs the named command or query and never returns an error or
// panics past this point.
func (d *Dispatcher) Invoke(ctx context.Context, name string, payload interface{}) (result domain.Result[interface{}]) {
	d.mu.RLock()
	e, ok := d.cmdHandlers[name]
	if !ok {
		e, ok = d.qryHandlers[name]
	}
	d.mu.RUnlock()
	if !ok {
		return domain.Fail[interface{}](ErrUnknownAction, "")
	}

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("action panicked", zap.String("action", name), zap.Any("panic", r))
			result = domain.Fail[interface{}](fmt.Errorf("panic: %v", r), e.fallback)
		}
	}()

	data, err := e.handler(ctx, payload)
	if err != nil {
		if code, _ := domain.Describe(err, e.fallback); code == domain.ErrCodeInternal {
			d.logger.Error("action failed", zap.String("action", name), zap.Error(err))
		}
		return domain.Fail[interface{}](err, e.fallback)
	}
	return domain.Ok(data)
}

// Actions lists every registered name in order.
func (d *Dispatcher) Actions() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.cmdHandlers)+len(d.qryHandlers))
	for name := range d.cmdHandlers {
		names = append(names, name)
	}
	for name := range d.qryHandlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
