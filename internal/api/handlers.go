package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/ankibridge/internal/bridge"
	apperrors "github.com/vytor/ankibridge/internal/errors"
	"github.com/vytor/ankibridge/internal/logger"
	"github.com/vytor/ankibridge/internal/metrics"
)

// Caller runs named bridge methods.
type Caller interface {
	Call(ctx context.Context, method string, args bridge.Args) (any, error)
}

// Pinger checks that the backing collection is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	Bridge  Caller
	DB      Pinger
	Metrics *metrics.Metrics
}

func (s *Server) call(w http.ResponseWriter, r *http.Request, method string, args bridge.Args) {
	res, err := s.Bridge.Call(r.Context(), method, args)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleBridgeCall runs any bridge method with a JSON object of arguments.
func (s *Server) handleBridgeCall(w http.ResponseWriter, r *http.Request) {
	method := chi.URLParam(r, "method")
	args, err := decodeArgs(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Debug("bridge call: %s", method)
	s.call(w, r, method, args)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.call(w, r, bridge.MethodGetStatus, nil)
}

func (s *Server) handleDecks(w http.ResponseWriter, r *http.Request) {
	s.call(w, r, bridge.MethodGetDecks, nil)
}

func (s *Server) handleNewCards(w http.ResponseWriter, r *http.Request) {
	deckID, err := pathID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	args := bridge.Args{"deckId": deckID}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			handleError(w, r, apperrors.NewBadRequestError("limit must be an integer"))
			return
		}
		args["limit"] = limit
	}
	s.call(w, r, bridge.MethodGetTodayNewCards, args)
}

func (s *Server) handleAppend(w http.ResponseWriter, r *http.Request) {
	noteID, err := pathID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	args, err := decodeArgs(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	args["noteId"] = noteID
	s.call(w, r, bridge.MethodAppendToNoteField, args)
}
