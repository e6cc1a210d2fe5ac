package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserFacing(t *testing.T) {
	assert.True(t, UserFacing(ErrWrongPassword))
	assert.True(t, UserFacing(ErrCardExhausted))
	assert.True(t, UserFacing(fmt.Errorf("joining: %w", ErrRoomFull)))

	// Stale references stay internal
	assert.False(t, UserFacing(ErrRoomNotFound))
	assert.False(t, UserFacing(ErrPlayerNotInRoom))
	assert.False(t, UserFacing(fmt.Errorf("boom")))
	assert.False(t, UserFacing(nil))
}
