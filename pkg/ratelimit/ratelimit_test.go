package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAndSetAllowsWhenDisabled(t *testing.T) {
	userID := uuid.New()

	allowed, err := CheckAndSet(context.Background(), nil, userID, "create_association", time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = CheckAndSet(context.Background(), nil, userID, "create_event", 0)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestKeyIsScopedPerUserAndAction(t *testing.T) {
	userID := uuid.New()

	assert.Equal(t, "rate_limit:user:"+userID.String()+":create_event", key(userID, "create_event"))
	assert.NotEqual(t, key(userID, "create_event"), key(uuid.New(), "create_event"))
}
