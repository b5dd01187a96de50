package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/ankibridge/internal/bridge"
	apperrors "github.com/vytor/ankibridge/internal/errors"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeArgs reads a JSON object body. An empty body yields empty Args.
// Numbers are kept as json.Number so ids survive without float rounding.
func decodeArgs(r *http.Request) (bridge.Args, error) {
	args := bridge.Args{}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(&args); err != nil {
		if errors.Is(err, io.EOF) {
			return bridge.Args{}, nil
		}
		return nil, apperrors.NewBadRequestError("request body must be a JSON object")
	}
	if args == nil {
		args = bridge.Args{}
	}
	return args, nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperrors.NewBadRequestError("invalid " + name + ": " + raw)
	}
	return id, nil
}
