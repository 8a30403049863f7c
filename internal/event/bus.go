package event

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// ErrNoHandler is returned when a command has no subscriber
var ErrNoHandler = errors.New("no handler for command")

// Command is any value dispatched through the bus
type Command any

// Bus routes typed commands to the single handler registered for each type
type Bus struct {
	mu       sync.RWMutex
	handlers map[reflect.Type]func(Command) error
}

// NewBus returns an empty bus
func NewBus() *Bus {
	return &Bus{handlers: make(map[reflect.Type]func(Command) error)}
}

// Subscribe registers handler for commands of type T, replacing any previous one
func Subscribe[T any](b *Bus, handler func(T) error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[t] = func(c Command) error {
		return handler(c.(T))
	}
}

// Dispatch delivers cmd to its handler
func (b *Bus) Dispatch(cmd Command) error {
	if cmd == nil {
		return fmt.Errorf("%w: nil", ErrNoHandler)
	}
	b.mu.RLock()
	h, ok := b.handlers[reflect.TypeOf(cmd)]
	b.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %T", ErrNoHandler, cmd)
	}
	return h(cmd)
}
