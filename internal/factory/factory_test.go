package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecardgame/ecard-server/internal/model"
)

func TestNewDefaultsToMemoryStorage(t *testing.T) {
	app, err := New(Config{})
	require.NoError(t, err)

	require.NotNil(t, app.Storage)
	require.NotNil(t, app.MatchController)
	require.NotNil(t, app.RegistryController)
	require.NotNil(t, app.Hub)

	_, err = app.Storage.GetRoom(context.Background(), "nope")
	assert.ErrorIs(t, err, model.ErrRoomNotFound)
}

func TestNewRejectsUnknownStorageType(t *testing.T) {
	_, err := New(Config{StorageType: "postgres"})
	assert.Error(t, err)
}

func TestNewRedisRequiresConfig(t *testing.T) {
	_, err := New(Config{StorageType: StorageTypeRedis})
	assert.Error(t, err)
}

func TestNewTestAppUsesMocks(t *testing.T) {
	app := NewTestApp()

	require.NotNil(t, app.MockClock)
	require.NotNil(t, app.MockRandom)
	assert.Equal(t, app.MockClock.CurrentTime, app.Clock.Now())

	app.MockClock.Advance(7)
	assert.Equal(t, app.MockClock.CurrentTime, app.Clock.Now())
}
