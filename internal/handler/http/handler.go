package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a JSON body into dst. An empty body is accepted when
// optional is true.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, optional bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		slog.DebugContext(r.Context(), "decode request body", "error", err)
		return err
	}
	return nil
}

// queryPtr returns a pointer to the query value, or nil when absent.
func queryPtr(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}
