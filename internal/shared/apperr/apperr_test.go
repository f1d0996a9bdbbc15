package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errSample = BusinessRule("INSUFFICIENT_POINTS", "not enough points")

func TestError_IsMatchesByCode(t *testing.T) {
	specific := errSample.WithMessage("need %d points, have %d", 100, 40)
	wrapped := fmt.Errorf("redeem: %w", specific)

	assert.True(t, errors.Is(wrapped, errSample))
	assert.False(t, errors.Is(wrapped, NotFound("USER_NOT_FOUND", "user not found")))
	assert.Equal(t, KindBusinessRule, KindOf(wrapped))
}

func TestError_WrapKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal("DB_ERROR", "query failed", nil).Wrap(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestKindOf_PlainError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	_, ok := As(errors.New("boom"))
	assert.False(t, ok)
}
