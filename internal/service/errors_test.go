package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"typed", notFound("x"), KindNotFound},
		{"wrapped typed", fmt.Errorf("outer: %w", conflict("x")), KindConflict},
		{"canceled", context.Canceled, KindCanceled},
		{"deadline", fmt.Errorf("op: %w", context.DeadlineExceeded), KindCanceled},
		{"untyped", errors.New("disk on fire"), KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestInternal_PassesTypedErrorsThrough(t *testing.T) {
	typed := notFound("listing not found")
	assert.Same(t, typed, internal("op", typed))
	assert.NoError(t, internal("op", nil))

	cause := errors.New("write failed")
	err := internal("save", cause)
	assert.Equal(t, KindInternal, KindOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "save failed", MessageOf(err))
}

func TestError_Message(t *testing.T) {
	assert.Equal(t, "NOT_FOUND: gone", notFound("gone").Error())
	err := &Error{Kind: KindInternal, Message: "save failed", Err: errors.New("io")}
	assert.Equal(t, "INTERNAL: save failed: io", err.Error())
}

func TestWrap(t *testing.T) {
	ok := Wrap(42, nil)
	assert.True(t, ok.Success)
	assert.Equal(t, 42, ok.Data)
	assert.Empty(t, ok.Kind)

	failed := Wrap(42, conflict("email already exists"))
	assert.False(t, failed.Success)
	assert.Zero(t, failed.Data)
	assert.Equal(t, "email already exists", failed.Message)
	assert.Equal(t, KindConflict, failed.Kind)

	msg := WrapMessage("", nil, ResetRequestedMessage)
	assert.True(t, msg.Success)
	assert.Equal(t, ResetRequestedMessage, msg.Message)
}
