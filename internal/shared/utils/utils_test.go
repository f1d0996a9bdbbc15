package utils

import (
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhereBuilder(t *testing.T) {
	var w WhereBuilder
	assert.Equal(t, "", w.SQL())

	w.Add("user_id = ?", "u1")
	w.Add("created_at BETWEEN ? AND ?", 1, 2)
	limit := w.Next(20)

	assert.Equal(t, " WHERE user_id = $1 AND created_at BETWEEN $2 AND $3", w.SQL())
	assert.Equal(t, "$4", limit)
	assert.Equal(t, []any{"u1", 1, 2, 20}, w.Args())
}

func TestTaskRoundTrip(t *testing.T) {
	type payload struct {
		OrderID string `json:"order_id"`
	}

	task, err := NewTask("order:confirm_payment", payload{OrderID: "abc"})
	require.NoError(t, err)

	var got payload
	require.NoError(t, UnmarshalTask(task, &got))
	assert.Equal(t, "abc", got.OrderID)

	bad := asynq.NewTask("order:confirm_payment", []byte("{"))
	err = UnmarshalTask(bad, &got)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "hanif@example.com", NormalizeEmail("  Hanif@Example.COM "))
}
