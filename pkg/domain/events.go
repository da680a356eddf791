package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventValueValidated    EventType = "value_validated"
	EventItemValidated     EventType = "item_validated"
	EventItemListValidated EventType = "item_list_validated"
)

// ValidationEvent describes one completed validation of a value, item or
// item list.
type ValidationEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	Type      EventType     `json:"type"`
	TypeName  string        `json:"type_name"`
	FieldName string        `json:"field_name,omitempty"`
	Duration  time.Duration `json:"duration"`
	// Failed lists the validator names that recorded a failure.
	Failed []string `json:"failed,omitempty"`
	Err    error    `json:"-"`
}

// LifecycleHooks defines callbacks for validator observability.
type LifecycleHooks struct {
	OnValueValidated    func(context.Context, *ValidationEvent)
	OnItemValidated     func(context.Context, *ValidationEvent)
	OnItemListValidated func(context.Context, *ValidationEvent)
}

// Emit dispatches e to the hook matching its type.
func (h LifecycleHooks) Emit(ctx context.Context, e *ValidationEvent) {
	var fn func(context.Context, *ValidationEvent)
	switch e.Type {
	case EventValueValidated:
		fn = h.OnValueValidated
	case EventItemValidated:
		fn = h.OnItemValidated
	case EventItemListValidated:
		fn = h.OnItemListValidated
	}
	if fn != nil {
		fn(ctx, e)
	}
}

// ChainHooks returns hooks that call each of hs in order.
func ChainHooks(hs ...LifecycleHooks) LifecycleHooks {
	fan := func(pick func(LifecycleHooks) func(context.Context, *ValidationEvent)) func(context.Context, *ValidationEvent) {
		var fns []func(context.Context, *ValidationEvent)
		for _, h := range hs {
			if fn := pick(h); fn != nil {
				fns = append(fns, fn)
			}
		}
		if len(fns) == 0 {
			return nil
		}
		return func(ctx context.Context, e *ValidationEvent) {
			for _, fn := range fns {
				fn(ctx, e)
			}
		}
	}
	return LifecycleHooks{
		OnValueValidated:    fan(func(h LifecycleHooks) func(context.Context, *ValidationEvent) { return h.OnValueValidated }),
		OnItemValidated:     fan(func(h LifecycleHooks) func(context.Context, *ValidationEvent) { return h.OnItemValidated }),
		OnItemListValidated: fan(func(h LifecycleHooks) func(context.Context, *ValidationEvent) { return h.OnItemListValidated }),
	}
}
