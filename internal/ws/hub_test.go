package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"github.com/ecardgame/ecard-server/internal/dependencies/clock"
	"github.com/ecardgame/ecard-server/internal/dependencies/random"
	"github.com/ecardgame/ecard-server/internal/model"
	"github.com/ecardgame/ecard-server/internal/services/match"
	"github.com/ecardgame/ecard-server/internal/services/registry"
	"github.com/ecardgame/ecard-server/internal/storage/memory"
	"github.com/ecardgame/ecard-server/internal/testutil"
)

const readTimeout = 2 * time.Second

type HubSuite struct {
	suite.Suite
	storage *memory.Storage
	hub     *Hub
	server  *httptest.Server
}

func TestHubSuite(t *testing.T) {
	suite.Run(t, new(HubSuite))
}

func (s *HubSuite) SetupTest() {
	s.storage = memory.New()
	logger := testutil.NopLogger()
	matchController := match.NewController(s.storage, clock.New(), logger)
	registryController := registry.NewController(s.storage, matchController, clock.New(), logger)

	s.hub = NewHub(registryController, matchController, random.New(), logger)
	go s.hub.Run()

	s.server = httptest.NewServer(http.HandlerFunc(s.hub.ServeWS))
}

func (s *HubSuite) TearDownTest() {
	s.server.Close()
	s.hub.Close()
}

func (s *HubSuite) dial() *websocket.Conn {
	url := "ws" + strings.TrimPrefix(s.server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	return conn
}

func (s *HubSuite) send(conn *websocket.Conn, event string, data any) {
	raw, err := json.Marshal(data)
	s.Require().NoError(err)
	s.Require().NoError(conn.WriteJSON(Envelope{Event: event, Data: raw}))
}

// waitFor reads envelopes until one with the wanted event name arrives
func (s *HubSuite) waitFor(conn *websocket.Conn, event model.EventType) Envelope {
	deadline := time.Now().Add(readTimeout)
	for time.Now().Before(deadline) {
		s.Require().NoError(conn.SetReadDeadline(deadline))
		var env Envelope
		s.Require().NoError(conn.ReadJSON(&env), "waiting for %q", event)
		if env.Event == string(event) {
			return env
		}
	}
	s.Require().FailNowf("timed out", "no %q event received", string(event))
	return Envelope{}
}

func (s *HubSuite) join(conn *websocket.Conn, name, role string) {
	s.send(conn, msgJoinRoom, map[string]any{
		"roomId":     "R1",
		"password":   "p",
		"name":       name,
		"roleChoice": role,
	})
}

func (s *HubSuite) TestFirstJoinerWaitsForOpponent() {
	conn := s.dial()
	defer conn.Close()

	s.join(conn, "Alice", "emperor")

	env := s.waitFor(conn, model.EventPlayerList)
	var list model.PlayerListPayload
	s.Require().NoError(json.Unmarshal(env.Data, &list))
	s.Equal([]model.PlayerInfo{{Name: "Alice", BaseRole: model.RoleEmperor}}, list.Players)

	env = s.waitFor(conn, model.EventWaiting)
	var waiting model.WaitingPayload
	s.Require().NoError(json.Unmarshal(env.Data, &waiting))
	s.Equal(model.RoleEmperor, waiting.BaseRole)
}

func (s *HubSuite) TestSecondJoinerStartsMatchForBoth() {
	connA := s.dial()
	defer connA.Close()
	connB := s.dial()
	defer connB.Close()

	s.join(connA, "Alice", "emperor")
	s.waitFor(connA, model.EventWaiting)

	s.join(connB, "Bob", "slave")

	var start model.GameStartPayload
	env := s.waitFor(connA, model.EventJoined)
	s.Require().NoError(json.Unmarshal(env.Data, &start))
	s.Equal(model.RoomID("R1"), start.RoomID)
	s.Equal(1, start.GameNo)
	s.Equal(model.RoleEmperor, start.Role)
	s.Equal(model.Hand{model.CardEmperor: 1, model.CardCitizen: 4}, start.Deck)

	env = s.waitFor(connB, model.EventJoined)
	var startB model.GameStartPayload
	s.Require().NoError(json.Unmarshal(env.Data, &startB))
	s.Equal(model.RoleSlave, startB.Role)
	s.Equal(model.Hand{model.CardSlave: 1, model.CardCitizen: 4}, startB.Deck)

	s.waitFor(connA, model.EventGameCounter)
	s.waitFor(connB, model.EventScoreUpdate)
}

func (s *HubSuite) TestWrongPasswordReturnsErrorMessage() {
	connA := s.dial()
	defer connA.Close()
	s.join(connA, "Alice", "")
	s.waitFor(connA, model.EventWaiting)

	connB := s.dial()
	defer connB.Close()
	s.send(connB, msgJoinRoom, map[string]any{
		"roomId":   "R1",
		"password": "wrong",
		"name":     "Bob",
	})

	env := s.waitFor(connB, model.EventError)
	var message string
	s.Require().NoError(json.Unmarshal(env.Data, &message))
	s.Equal(model.ErrWrongPassword.Error(), message)
}

func (s *HubSuite) TestDoubleJoinRejected() {
	conn := s.dial()
	defer conn.Close()

	s.join(conn, "Alice", "")
	s.waitFor(conn, model.EventWaiting)

	s.join(conn, "Alice", "")
	env := s.waitFor(conn, model.EventError)
	var message string
	s.Require().NoError(json.Unmarshal(env.Data, &message))
	s.Contains(message, "already in a room")
}

func (s *HubSuite) TestPlayedRoundReachesBothPlayers() {
	connA := s.dial()
	defer connA.Close()
	connB := s.dial()
	defer connB.Close()

	s.join(connA, "Alice", "emperor")
	s.waitFor(connA, model.EventWaiting)
	s.join(connB, "Bob", "slave")
	s.waitFor(connA, model.EventJoined)
	s.waitFor(connB, model.EventJoined)

	s.send(connA, msgPlayCard, map[string]any{"card": "emperor"})
	env := s.waitFor(connA, model.EventUpdateDeck)
	var hand model.Hand
	s.Require().NoError(json.Unmarshal(env.Data, &hand))
	s.Equal(model.Hand{model.CardEmperor: 0, model.CardCitizen: 4}, hand)

	s.send(connB, msgPlayCard, map[string]any{"card": "citizen"})

	var result model.RoundResultPayload
	env = s.waitFor(connA, model.EventRoundResult)
	s.Require().NoError(json.Unmarshal(env.Data, &result))
	s.Equal(model.ResultWin, result.Result)

	env = s.waitFor(connB, model.EventRoundResult)
	s.Require().NoError(json.Unmarshal(env.Data, &result))
	s.Equal(model.ResultLose, result.Result)

	// And the next game opens for both sides
	s.waitFor(connA, model.EventNewGame)
	s.waitFor(connB, model.EventNewGame)
}

func (s *HubSuite) TestPlayBeforeJoinIsDropped() {
	conn := s.dial()
	defer conn.Close()

	s.send(conn, msgPlayCard, map[string]any{"card": "citizen"})

	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond)))
	var env Envelope
	err := conn.ReadJSON(&env)
	s.Error(err, "unbound play should produce no reply")
}

func (s *HubSuite) TestDisconnectNotifiesOpponent() {
	connA := s.dial()
	defer connA.Close()
	connB := s.dial()

	s.join(connA, "Alice", "emperor")
	s.waitFor(connA, model.EventWaiting)
	s.join(connB, "Bob", "slave")
	s.waitFor(connA, model.EventJoined)
	s.waitFor(connB, model.EventJoined)

	s.Require().NoError(connB.Close())

	s.waitFor(connA, model.EventOpponentLeft)

	s.Require().Eventually(func() bool {
		room, err := s.storage.GetRoom(context.Background(), "R1")
		return err == nil && len(room.Players) == 1 && room.Players[0].Name == "Alice"
	}, readTimeout, 20*time.Millisecond)
}

func (s *HubSuite) TestLastDisconnectDestroysRoom() {
	conn := s.dial()
	s.join(conn, "Alice", "")
	s.waitFor(conn, model.EventWaiting)

	s.Require().NoError(conn.Close())

	s.Require().Eventually(func() bool {
		exists, err := s.storage.RoomExists(context.Background(), "R1")
		return err == nil && !exists
	}, readTimeout, 20*time.Millisecond)
}
