package e2e_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecardgame/ecard-server/internal/api"
	"github.com/ecardgame/ecard-server/internal/cli"
	"github.com/ecardgame/ecard-server/internal/factory"
	"github.com/ecardgame/ecard-server/internal/model"
	"github.com/ecardgame/ecard-server/internal/testutil"
)

const eventTimeout = 5 * time.Second

// startServer assembles the full application and serves it over a test
// HTTP listener.
func startServer(t *testing.T) *httptest.Server {
	t.Helper()

	app, err := factory.New(factory.Config{
		Logger:      testutil.NopLogger(),
		StorageType: factory.StorageTypeMemory,
	})
	require.NoError(t, err)

	go app.Hub.Run()
	t.Cleanup(app.Hub.Close)

	router := api.NewRouter(api.RouterConfig{
		Logger:    testutil.NopLogger(),
		Hub:       app.Hub,
		StaticDir: t.TempDir(),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

// waitFor drains the session's event stream until one of the wanted
// events arrives.
func waitFor(t *testing.T, session *cli.Session, events ...model.EventType) cli.ServerEvent {
	t.Helper()

	timeout := time.After(eventTimeout)
	for {
		select {
		case ev, ok := <-session.Events():
			require.True(t, ok, "connection closed while waiting for %v", events)
			for _, want := range events {
				if ev.Event == string(want) {
					return ev
				}
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %v", events)
		}
	}
}

func connectAndJoin(t *testing.T, server *httptest.Server, name, role string) *cli.Session {
	t.Helper()

	session, err := cli.Connect(server.URL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	require.NoError(t, session.Join("R1", "secret", name, role))
	return session
}

func TestHealthCheck(t *testing.T) {
	server := startServer(t)

	cmd := cli.NewRootCmd()
	cmd.SetArgs([]string{"health", "--server", server.URL})
	require.NoError(t, cmd.Execute())
}

func TestFullMatch(t *testing.T) {
	server := startServer(t)

	alice := connectAndJoin(t, server, "Alice", "emperor")
	waitFor(t, alice, model.EventWaiting)

	bob := connectAndJoin(t, server, "Bob", "slave")

	// Alice leads every game with her unique card, Bob answers with a
	// citizen. The sides split the games evenly, one point apiece.
	for game := 1; game <= model.TotalGames; game++ {
		var start model.GameStartPayload
		ev := waitFor(t, alice, model.EventJoined, model.EventNewGame)
		require.NoError(t, json.Unmarshal(ev.Data, &start))
		require.Equal(t, game, start.GameNo)

		ev = waitFor(t, bob, model.EventJoined, model.EventNewGame)
		var bobStart model.GameStartPayload
		require.NoError(t, json.Unmarshal(ev.Data, &bobStart))
		require.Equal(t, start.Role.Flip(), bobStart.Role)

		lead := "emperor"
		if start.Role == model.RoleSlave {
			lead = "slave"
		}
		require.NoError(t, alice.Play(lead))
		require.NoError(t, bob.Play("citizen"))

		var result model.RoundResultPayload
		ev = waitFor(t, alice, model.EventRoundResult)
		require.NoError(t, json.Unmarshal(ev.Data, &result))
		if start.Role == model.RoleEmperor {
			assert.Equal(t, model.ResultWin, result.Result, "game %d", game)
		} else {
			assert.Equal(t, model.ResultLose, result.Result, "game %d", game)
		}
		waitFor(t, bob, model.EventRoundResult)
	}

	var over model.MatchOverPayload
	ev := waitFor(t, alice, model.EventMatchOver)
	require.NoError(t, json.Unmarshal(ev.Data, &over))
	assert.Equal(t, model.TotalGames, over.TotalGames)
	assert.Equal(t, []model.ScoreEntry{{Name: "Alice", Wins: 6}, {Name: "Bob", Wins: 6}}, over.Scores)
	assert.Nil(t, over.WinnerName)

	waitFor(t, bob, model.EventMatchOver)
}

func TestDisconnectClosesRoom(t *testing.T) {
	server := startServer(t)

	alice := connectAndJoin(t, server, "Alice", "")
	waitFor(t, alice, model.EventWaiting)

	bob := connectAndJoin(t, server, "Bob", "")
	waitFor(t, alice, model.EventJoined)
	waitFor(t, bob, model.EventJoined)

	require.NoError(t, bob.Close())

	waitFor(t, alice, model.EventOpponentLeft)
}
