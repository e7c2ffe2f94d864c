package dbretry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRetryableError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
		{
			name: "deadline exceeded",
			err:  context.DeadlineExceeded,
			want: true,
		},
		{
			name: "connection reset",
			err:  errors.New("read tcp: connection reset by peer"),
			want: true,
		},
		{
			name: "connection refused",
			err:  errors.New("dial tcp: connection refused"),
			want: true,
		},
		{
			name: "plain application error",
			err:  errors.New("idea not found"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsRetryableError(tt.err))
		})
	}
}

func TestNoResultStopsOnPermanentError(t *testing.T) {
	t.Parallel()

	attempts := 0
	appErr := errors.New("constraint violation")

	err := NoResult(t.Context(), func(context.Context) error {
		attempts++
		return appErr
	})

	require.ErrorIs(t, err, appErr)
	assert.Equal(t, 1, attempts)
}

func TestNoResultRetriesTransientError(t *testing.T) {
	t.Parallel()

	attempts := 0

	err := NoResult(t.Context(), func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("connection reset by peer")
		}

		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestOperationReturnsResult(t *testing.T) {
	t.Parallel()

	result, err := Operation(t.Context(), func(context.Context) (int, error) {
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, result)
}

func TestOperationExhaustsRetries(t *testing.T) {
	t.Parallel()

	attempts := 0

	_, err := Operation(t.Context(), func(context.Context) (int, error) {
		attempts++
		return 0, errors.New("connection reset by peer")
	})

	require.Error(t, err)
	assert.True(t, IsRetryableError(err))
	assert.Equal(t, int(maxRetries)+1, attempts)
}
