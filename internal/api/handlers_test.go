package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/calvinwijaya/twentyone/internal/game"
	"github.com/calvinwijaya/twentyone/internal/store"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func card(rank game.Rank, suit game.Suit) game.Card {
	return game.Card{Rank: rank, Suit: suit}
}

// player 10+9, dealer 10+9, then a seven for whoever draws next
var nineteens = []game.Card{
	card(game.Ten, game.Spades), card(game.Nine, game.Hearts),
	card(game.Ten, game.Clubs), card(game.Nine, game.Diamonds),
	card(game.Seven, game.Clubs),
}

type testServer struct {
	*httptest.Server
	hub     *Hub
	store   *store.MemoryStore
	journal *store.MemoryJournal
}

func newTestServer(t *testing.T, cards ...game.Card) *testServer {
	t.Helper()
	hub := NewHub()
	go hub.Run()

	s := store.NewMemoryStore()
	j := store.NewMemoryJournal()
	h := NewHandlers(s, j, hub, game.ClassicPolicy,
		game.WithDeckOptions(game.WithStackedCards(cards...)))

	r := mux.NewRouter()
	h.RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testServer{Server: srv, hub: hub, store: s, journal: j}
}

func (ts *testServer) do(t *testing.T, method, path, body string, out interface{}) int {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (ts *testServer) newRound(t *testing.T) game.View {
	t.Helper()
	var view game.View
	status := ts.do(t, "POST", "/api/round/new", `{"playerName":"Ana"}`, &view)
	require.Equal(t, http.StatusCreated, status)
	return view
}

type actionResponse struct {
	Success bool             `json:"success"`
	Result  game.PhaseResult `json:"result"`
	Round   game.View        `json:"round"`
	Error   string           `json:"error"`
}

func TestNewRound(t *testing.T) {
	ts := newTestServer(t, nineteens...)

	view := ts.newRound(t)
	assert.NotEmpty(t, view.ID)
	assert.Equal(t, game.PhasePlayerTurn, view.Phase)
	assert.Equal(t, "Ana", view.Player.Name)
	assert.Equal(t, 19, view.Player.Total)
	assert.Len(t, view.Player.Cards, 2)
	assert.Equal(t, []game.Card{card(game.Ten, game.Clubs)}, view.Dealer.Cards)
	assert.True(t, view.Dealer.HoleCardHidden)
	assert.Nil(t, view.Dealer.Total)

	_, err := ts.store.GetRound(view.ID)
	require.NoError(t, err)
}

func TestNewRound_EmptyBody(t *testing.T) {
	ts := newTestServer(t)

	var view game.View
	status := ts.do(t, "POST", "/api/round/new", "", &view)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, game.DefaultPlayerName, view.Player.Name)
}

func TestNewRound_BadBody(t *testing.T) {
	ts := newTestServer(t)
	status := ts.do(t, "POST", "/api/round/new", "{", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAction_StandResolves(t *testing.T) {
	ts := newTestServer(t, nineteens...)
	view := ts.newRound(t)

	var out actionResponse
	status := ts.do(t, "POST", "/api/round/"+view.ID+"/action", `{"action":"Stand"}`, &out)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, out.Success)
	assert.Equal(t, game.PhaseResolved, out.Result.Phase)
	require.NotNil(t, out.Result.Result)
	assert.Equal(t, game.OutcomeDraw, out.Result.Result.Outcome)
	assert.Len(t, out.Round.Dealer.Cards, 2)
	require.NotNil(t, out.Round.Dealer.Total)
	assert.Equal(t, 19, *out.Round.Dealer.Total)

	var result game.Result
	status = ts.do(t, "GET", "/api/round/"+view.ID+"/outcome", "", &result)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, game.Result{Outcome: game.OutcomeDraw, PlayerTotal: 19, DealerTotal: 19}, result)

	status = ts.do(t, "POST", "/api/round/"+view.ID+"/action", `{"action":"hit"}`, &out)
	assert.Equal(t, http.StatusConflict, status)
}

func TestAction_Errors(t *testing.T) {
	ts := newTestServer(t, nineteens...)
	view := ts.newRound(t)
	path := "/api/round/" + view.ID + "/action"

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"bad json", path, "{", http.StatusBadRequest},
		{"unknown action", path, `{"action":"split"}`, http.StatusBadRequest},
		{"unknown round", "/api/round/nope/action", `{"action":"hit"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out actionResponse
			status := ts.do(t, "POST", tt.path, tt.body, &out)
			assert.Equal(t, tt.status, status)
			assert.NotEmpty(t, out.Error)
		})
	}

	// nothing above touched the round
	var current game.View
	require.Equal(t, http.StatusOK, ts.do(t, "GET", "/api/round/"+view.ID, "", &current))
	assert.Equal(t, game.PhasePlayerTurn, current.Phase)
	assert.Len(t, current.Player.Cards, 2)
}

func TestAction_DoubleDownOutsideWindow(t *testing.T) {
	ts := newTestServer(t,
		card(game.Two, game.Spades), card(game.Three, game.Hearts),
		card(game.Ten, game.Clubs), card(game.Seven, game.Diamonds),
		card(game.Four, game.Clubs),
	)
	view := ts.newRound(t)
	path := "/api/round/" + view.ID + "/action"

	var out actionResponse
	require.Equal(t, http.StatusOK, ts.do(t, "POST", path, `{"action":"hit"}`, &out))
	assert.False(t, out.Round.Player.CanDoubleDown)

	out = actionResponse{}
	status := ts.do(t, "POST", path, `{"action":"double down"}`, &out)
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, out.Error, "double down")

	var current game.View
	require.Equal(t, http.StatusOK, ts.do(t, "GET", "/api/round/"+view.ID, "", &current))
	assert.Equal(t, game.PhasePlayerTurn, current.Phase)
	assert.Len(t, current.Player.Cards, 3)
}

func TestOutcome_NotResolved(t *testing.T) {
	ts := newTestServer(t, nineteens...)
	view := ts.newRound(t)

	status := ts.do(t, "GET", "/api/round/"+view.ID+"/outcome", "", nil)
	assert.Equal(t, http.StatusConflict, status)
}

func TestEvents(t *testing.T) {
	ts := newTestServer(t, nineteens...)
	view := ts.newRound(t)
	require.Equal(t, http.StatusOK, ts.do(t, "POST", "/api/round/"+view.ID+"/action", `{"action":"surrender"}`, nil))

	var events []game.Event
	require.Equal(t, http.StatusOK, ts.do(t, "GET", "/api/round/"+view.ID+"/events", "", &events))
	require.NotEmpty(t, events)
	assert.Equal(t, game.EventTransition, events[0].Kind)
	assert.Equal(t, game.EventResolved, events[len(events)-1].Kind)

	var surrendered bool
	for _, ev := range events {
		if ev.Action == game.Surrender {
			surrendered = true
		}
	}
	assert.True(t, surrendered)

	assert.Equal(t, http.StatusNotFound, ts.do(t, "GET", "/api/round/nope/events", "", nil))
}

func TestAbandonAndList(t *testing.T) {
	ts := newTestServer(t, nineteens...)
	a := ts.newRound(t)
	b := ts.newRound(t)

	var list []map[string]interface{}
	require.Equal(t, http.StatusOK, ts.do(t, "GET", "/api/round/list", "", &list))
	assert.Len(t, list, 2)

	require.Equal(t, http.StatusOK, ts.do(t, "DELETE", "/api/round/"+a.ID, "", nil))
	assert.Equal(t, http.StatusNotFound, ts.do(t, "GET", "/api/round/"+a.ID, "", nil))
	assert.Equal(t, http.StatusNotFound, ts.do(t, "DELETE", "/api/round/"+a.ID, "", nil))

	list = nil
	require.Equal(t, http.StatusOK, ts.do(t, "GET", "/api/round/list", "", &list))
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0]["id"])
}

func dialRound(t *testing.T, ts *testServer, roundID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?roundId=" + roundID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	var welcome Message
	require.NoError(t, conn.ReadJSON(&welcome))
	require.Equal(t, "welcome", welcome.Type)

	require.Eventually(t, func() bool { return ts.hub.Watchers(roundID) == 1 }, time.Second, 10*time.Millisecond)
	return conn
}

func readUpdate(t *testing.T, conn *websocket.Conn) (string, game.View) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var raw struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&raw))

	var view game.View
	if raw.Type == "roundUpdate" {
		require.NoError(t, json.Unmarshal(raw.Data, &view))
	}
	return raw.Type, view
}

func TestWebSocket_PushesUpdates(t *testing.T) {
	ts := newTestServer(t, nineteens...)
	view := ts.newRound(t)
	conn := dialRound(t, ts, view.ID)

	require.Equal(t, http.StatusOK, ts.do(t, "POST", "/api/round/"+view.ID+"/action", `{"action":"stand"}`, nil))

	kind, update := readUpdate(t, conn)
	assert.Equal(t, "roundUpdate", kind)
	assert.Equal(t, view.ID, update.ID)
	assert.Equal(t, game.PhaseResolved, update.Phase)
}

func TestWebSocket_PlaysActions(t *testing.T) {
	ts := newTestServer(t, nineteens...)
	view := ts.newRound(t)
	conn := dialRound(t, ts, view.ID)

	require.NoError(t, conn.WriteJSON(Message{Type: "action", Data: "juggle"}))
	kind, _ := readUpdate(t, conn)
	assert.Equal(t, "error", kind)

	require.NoError(t, conn.WriteJSON(Message{Type: "action", Data: "hit"}))
	kind, update := readUpdate(t, conn)
	assert.Equal(t, "roundUpdate", kind)
	assert.Equal(t, game.PhaseResolved, update.Phase)
	require.NotNil(t, update.Result)
	assert.Equal(t, game.OutcomePlayerBust, update.Result.Outcome)
}
