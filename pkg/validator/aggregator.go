package validator

import "errors"

// Aggregator collects the failures of independent validators into a single
// ValidationError. It is not safe for concurrent use; each validated value,
// item or list gets its own.
type Aggregator struct {
	err *ValidationError
}

// NewAggregator creates an aggregator with no recorded reasons.
func NewAggregator(kind Kind) *Aggregator {
	return &Aggregator{
		err: &ValidationError{
			Type:    kind,
			Reasons: make(map[string]error),
		},
	}
}

// Record stores failure under name. A nil failure is ignored. A second
// failure under the same name is joined with the first.
func (a *Aggregator) Record(name string, failure error) {
	if failure == nil {
		return
	}
	if prev, ok := a.err.Reasons[name]; ok {
		a.err.Reasons[name] = errors.Join(prev, failure)
		return
	}
	a.err.Reasons[name] = failure
	a.err.order = append(a.err.order, name)
}

// Run invokes fn and records its failure under name. A panic inside fn is
// recovered and recorded as a *PanicError.
func (a *Aggregator) Run(name string, fn func() error) {
	a.Record(name, call(fn))
}

func call(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	return fn()
}

// ShouldRaise reports whether any failure was recorded.
func (a *Aggregator) ShouldRaise() bool {
	return len(a.err.Reasons) > 0
}

// Err returns the aggregate, or nil when nothing failed.
func (a *Aggregator) Err() error {
	if !a.ShouldRaise() {
		return nil
	}
	return a.err
}
