package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/calvinwijaya/twentyone/internal/game"
	"github.com/calvinwijaya/twentyone/internal/store"
	"github.com/gorilla/mux"
)

// Handlers contains all the API handlers
type Handlers struct {
	store   store.Store
	journal store.Journal
	hub     *Hub
	policy  game.DealerPolicy

	// roundOptions are appended to every new round; tests use them to stack decks
	roundOptions []game.RoundOption
}

// NewHandlers creates a new instance of Handlers
func NewHandlers(store store.Store, journal store.Journal, hub *Hub, policy game.DealerPolicy, opts ...game.RoundOption) *Handlers {
	h := &Handlers{
		store:        store,
		journal:      journal,
		hub:          hub,
		policy:       policy,
		roundOptions: opts,
	}
	if hub != nil {
		hub.onMessage = h.handleSocketMessage
	}
	return h
}

// RegisterRoutes registers all API routes
func (h *Handlers) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/round/new", h.NewRound).Methods("POST")
	r.HandleFunc("/api/round/list", h.ListRounds).Methods("GET")
	r.HandleFunc("/api/round/{id}/action", h.Action).Methods("POST")
	r.HandleFunc("/api/round/{id}/outcome", h.Outcome).Methods("GET")
	r.HandleFunc("/api/round/{id}/events", h.Events).Methods("GET")
	r.HandleFunc("/api/round/{id}", h.GetRound).Methods("GET")
	r.HandleFunc("/api/round/{id}", h.AbandonRound).Methods("DELETE")

	// WebSocket endpoint
	if h.hub != nil {
		r.HandleFunc("/ws", h.hub.WebSocketHandler)
	}
}

// response helper function to send JSON responses
func response(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// error response helper function
func errorResponse(w http.ResponseWriter, status int, message string) {
	response(w, status, map[string]string{"error": message})
}

// statusFor maps engine and store errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrRoundNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrInvalidAction):
		return http.StatusBadRequest
	case game.IsFatal(err):
		return http.StatusInternalServerError
	case errors.Is(err, game.ErrDoubleDownIneligible),
		errors.Is(err, game.ErrNotPlayerTurn),
		errors.Is(err, game.ErrRoundResolved),
		errors.Is(err, game.ErrNotResolved):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// record sends a round event to the journal
func (h *Handlers) record(ev game.Event) {
	if h.journal == nil {
		return
	}
	if err := h.journal.Record(ev); err != nil {
		log.Printf("Failed to journal event %s/%d: %v", ev.RoundID, ev.Seq, err)
	}
}

// NewRound deals a fresh round
func (h *Handlers) NewRound(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerName string `json:"playerName"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	opts := []game.RoundOption{
		game.WithPolicy(h.policy),
		game.WithPlayerName(req.PlayerName),
		game.WithObserver(h.record),
	}
	round, err := game.NewRound(append(opts, h.roundOptions...)...)
	if err != nil {
		log.Printf("Failed to deal round: %v", err)
		errorResponse(w, http.StatusInternalServerError, "Failed to deal round")
		return
	}

	if err := h.store.SaveRound(round); err != nil {
		errorResponse(w, http.StatusInternalServerError, "Failed to save round")
		return
	}

	response(w, http.StatusCreated, round.View())
}

// Action applies one player action to a round
func (h *Handlers) Action(w http.ResponseWriter, r *http.Request) {
	roundID := mux.Vars(r)["id"]

	var req struct {
		Action string `json:"action"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	action, err := game.ParseAction(req.Action)
	if err != nil {
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	result, view, err := h.apply(roundID, action)
	if err != nil {
		errorResponse(w, statusFor(err), err.Error())
		return
	}

	response(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"result":  result,
		"round":   view,
	})
}

// apply runs an action under the round's lock and broadcasts the new state
func (h *Handlers) apply(roundID string, action game.Action) (game.PhaseResult, game.View, error) {
	var (
		result game.PhaseResult
		view   game.View
		played bool
	)

	err := h.store.WithRound(roundID, func(round *game.Round) error {
		var err error
		result, err = round.Apply(action)
		view = round.View()
		played = err == nil || game.IsFatal(err)
		return err
	})

	if played && h.hub != nil {
		h.hub.BroadcastRoundUpdate(view)
	}
	return result, view, err
}

// GetRound returns the player's view of a round
func (h *Handlers) GetRound(w http.ResponseWriter, r *http.Request) {
	roundID := mux.Vars(r)["id"]

	var view game.View
	err := h.store.WithRound(roundID, func(round *game.Round) error {
		view = round.View()
		return nil
	})
	if err != nil {
		errorResponse(w, statusFor(err), "Round not found")
		return
	}

	response(w, http.StatusOK, view)
}

// Outcome returns the result of a resolved round
func (h *Handlers) Outcome(w http.ResponseWriter, r *http.Request) {
	roundID := mux.Vars(r)["id"]

	var result game.Result
	err := h.store.WithRound(roundID, func(round *game.Round) error {
		var err error
		result, err = round.Outcome()
		return err
	})
	if err != nil {
		errorResponse(w, statusFor(err), err.Error())
		return
	}

	response(w, http.StatusOK, result)
}

// Events returns the journal of a round
func (h *Handlers) Events(w http.ResponseWriter, r *http.Request) {
	roundID := mux.Vars(r)["id"]

	if h.journal == nil {
		errorResponse(w, http.StatusInternalServerError, "Journal not available")
		return
	}

	events, err := h.journal.Events(roundID)
	if err != nil {
		log.Printf("Error reading journal for %s: %v", roundID, err)
		errorResponse(w, http.StatusInternalServerError, "Error retrieving events")
		return
	}
	if len(events) == 0 {
		errorResponse(w, http.StatusNotFound, "Round not found")
		return
	}

	response(w, http.StatusOK, events)
}

// AbandonRound drops a round; this is how a player quits mid-round
func (h *Handlers) AbandonRound(w http.ResponseWriter, r *http.Request) {
	roundID := mux.Vars(r)["id"]

	if err := h.store.DeleteRound(roundID); err != nil {
		errorResponse(w, statusFor(err), "Round not found")
		return
	}

	if h.hub != nil {
		h.hub.BroadcastToRound(roundID, Message{
			Type:    "roundAbandoned",
			RoundID: roundID,
		})
	}

	response(w, http.StatusOK, map[string]string{
		"success": "true",
		"message": "Round abandoned",
	})
}

// ListRounds returns a summary of the live rounds
func (h *Handlers) ListRounds(w http.ResponseWriter, r *http.Request) {
	rounds, err := h.store.GetAllRounds()
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, "Error retrieving rounds")
		return
	}

	list := make([]map[string]interface{}, 0, len(rounds))
	for _, round := range rounds {
		var summary map[string]interface{}
		h.store.WithRound(round.ID, func(round *game.Round) error {
			summary = map[string]interface{}{
				"id":        round.ID,
				"phase":     round.Phase(),
				"policy":    round.Policy().Name,
				"createdAt": round.CreatedAt.Format(time.RFC3339),
			}
			return nil
		})
		if summary != nil {
			list = append(list, summary)
		}
	}

	response(w, http.StatusOK, list)
}

// handleSocketMessage lets clients play over the WebSocket as well
func (h *Handlers) handleSocketMessage(c *Client, msg Message) {
	if msg.Type != "action" {
		return
	}

	roundID := msg.RoundID
	if roundID == "" {
		roundID = c.roundID
	}

	token, _ := msg.Data.(string)
	action, err := game.ParseAction(token)
	if err == nil {
		_, _, err = h.apply(roundID, action)
	}
	if err != nil {
		c.sendMessage(Message{Type: "error", RoundID: roundID, Data: err.Error()})
	}
}
