package validator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/atv/pkg/processor"
	"github.com/aretw0/atv/pkg/validator"
)

type stubValidator struct {
	err   error
	calls int
}

func (s *stubValidator) ValidateValue(context.Context, any, string, string) error {
	s.calls++
	return s.err
}

func (s *stubValidator) ValidateItem(context.Context, any, string) error {
	s.calls++
	return s.err
}

func (s *stubValidator) ValidateItemList(context.Context, []any, string) error {
	s.calls++
	return s.err
}

type stubBase struct {
	forwarded []string
}

func (b *stubBase) ProcessValue(_ context.Context, value any, _, _ string) (any, error) {
	b.forwarded = append(b.forwarded, "value")
	return value, nil
}

func (b *stubBase) ProcessItem(_ context.Context, item any, _ string) (any, error) {
	b.forwarded = append(b.forwarded, "item")
	return item, nil
}

func (b *stubBase) ProcessItemList(_ context.Context, items []any, _ string) (any, error) {
	b.forwarded = append(b.forwarded, "list")
	return items, nil
}

func TestProcessor_ForwardsOnSuccess(t *testing.T) {
	v := &stubValidator{}
	base := &stubBase{}
	p := validator.NewProcessor(v, base)
	ctx := context.Background()

	res, err := p.ProcessValue(ctx, "Jane", "Contact", "firstName")
	require.NoError(t, err)
	assert.Equal(t, "Jane", res)

	_, err = p.ProcessItem(ctx, map[string]any{}, "Contact")
	require.NoError(t, err)
	_, err = p.ProcessItemList(ctx, []any{}, "Contact")
	require.NoError(t, err)

	assert.Equal(t, 3, v.calls)
	assert.Equal(t, []string{"value", "item", "list"}, base.forwarded)
}

func TestProcessor_FailureSkipsForward(t *testing.T) {
	errBad := errors.New("bad")
	v := &stubValidator{err: errBad}
	base := &stubBase{}
	p := validator.NewProcessor(v, base)
	ctx := context.Background()

	res, err := p.ProcessValue(ctx, nil, "Contact", "firstName")
	assert.Nil(t, res)
	assert.Same(t, errBad, err)

	_, err = p.ProcessItem(ctx, map[string]any{}, "Contact")
	assert.Same(t, errBad, err)
	_, err = p.ProcessItemList(ctx, nil, "Contact")
	assert.Same(t, errBad, err)

	assert.Empty(t, base.forwarded)
}

func newValidatingProcessor(opts ...validator.Option) *processor.Processor {
	return processor.New(contactTypes(), processor.WithHooks(func(base *processor.Processor) processor.Hooks {
		opts = append([]validator.Option{
			validator.WithItemValidators(map[string]validator.ItemValidator{
				"hasEmailOrPhone": hasEmailOrPhone,
			}),
		}, opts...)
		return validator.NewProcessor(validator.NewEngine(base, opts...), base)
	}))
}

func TestProcessor_Integration(t *testing.T) {
	p := newValidatingProcessor()
	ctx := context.Background()

	t.Run("valid item passes through", func(t *testing.T) {
		in := map[string]any{"firstName": "Jane", "email": "jane@example.com", "tags": []any{"a", "b"}}
		out, err := p.Process(ctx, in, "Contact")
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("item validator rejects before fields", func(t *testing.T) {
		_, err := p.Process(ctx, map[string]any{"tags": []any{1}}, "Contact")
		verr, ok := validator.AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, validator.InvalidItem, verr.Type)
		assert.Equal(t, []string{"hasEmailOrPhone"}, verr.Names())
	})

	t.Run("field failures are collected per field", func(t *testing.T) {
		_, err := p.Process(ctx, map[string]any{"phone": "555", "tags": []any{1}}, "Contact")
		var itemErr *processor.ItemError
		require.ErrorAs(t, err, &itemErr)
		assert.Len(t, itemErr.Fields, 2)
		assert.ErrorIs(t, itemErr.Fields["firstName"], validator.ErrMissingRequiredField)
		assert.ErrorIs(t, itemErr.Fields["tags"], validator.ErrLessThanMinimumNumberOfValues)
		assert.ErrorIs(t, err, validator.ErrValidation)
	})
}
