package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "error without cause",
			err:  &AppError{Code: ErrCodeNotFound, Message: "rfp not found"},
			want: "rfp not found",
		},
		{
			name: "error with cause",
			err: &AppError{
				Code:    ErrCodeInternal,
				Message: "failed to load vendors",
				Cause:   errors.New("underlying error"),
			},
			want: "failed to load vendors: underlying error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(cause, ErrCodeInternal, "wrapped error")

	assert.ErrorIs(t, err, cause)
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "nothing"))
}

func TestConstructorsAndPredicates(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		code  ErrorCode
	}{
		{"not found", NotFoundf("rfp %d", 7), IsNotFound, ErrCodeNotFound},
		{"conflict", Conflict("vendor already approved"), IsConflict, ErrCodeConflict},
		{"validation", Validationf("bad %s", "price"), IsValidation, ErrCodeValidation},
		{"internal", Internal("boom"), IsInternal, ErrCodeInternal},
		{"timeout", Wrap(errors.New("x"), ErrCodeTimeout, "slow"), IsTimeout, ErrCodeTimeout},
		{"canceled", Wrap(errors.New("x"), ErrCodeCanceled, "stop"), IsCanceled, ErrCodeCanceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tt.err)
			assert.True(t, tt.check(wrapped))
			assert.Equal(t, tt.code, GetCode(wrapped))
		})
	}
}

func TestValidationField(t *testing.T) {
	err := ValidationField("item_price", "Quote price is required")

	assert.True(t, IsValidation(err))
	assert.Equal(t, "item_price", GetField(err))
	assert.Empty(t, GetField(errors.New("plain")))
}

func TestFromContext(t *testing.T) {
	assert.NoError(t, FromContext(nil))
	assert.True(t, IsTimeout(FromContext(context.DeadlineExceeded)))
	assert.True(t, IsCanceled(FromContext(fmt.Errorf("get: %w", context.Canceled))))

	plain := errors.New("plain")
	assert.Same(t, plain, FromContext(plain))
}

func TestPublicMessage(t *testing.T) {
	err := Wrap(errors.New("dial tcp: refused"), ErrCodeInternal, "Failed to load RFPs")

	assert.Equal(t, "Failed to load RFPs", PublicMessage(err, "fallback"))
	assert.Equal(t, "fallback", PublicMessage(errors.New("raw"), "fallback"))
}
