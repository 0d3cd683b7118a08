package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

func decodePayload[T any](r *http.Request) (T, error) {
	var v T
	err := json.NewDecoder(r.Body).Decode(&v)
	defer r.Body.Close()
	if err != nil {
		return v, fmt.Errorf("failure decoding request payload: %w", err)
	}
	return v, nil
}

// respondWithError writes a {"message": ...} body; clients surface that
// message as the error text.
func respondWithError(w http.ResponseWriter, code int, msg string, err error) {
	logMessage := fmt.Sprintf("%d %s", code, http.StatusText(code))
	if msg != "" {
		logMessage += "; " + msg
	}
	if err != nil {
		logMessage += ": " + err.Error()
	}
	slog.Error(logMessage, slog.Int("status", code))

	type errorResponse struct {
		Message string `json:"message"`
	}
	respondWithJSON(w, code, errorResponse{Message: msg})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("could not marshal JSON for response: " + err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(data); err != nil {
		slog.Error("could not write JSON response: " + err.Error())
	}
}

// dataResponse is the {success, data} envelope the user endpoints use.
type dataResponse struct {
	Success bool `json:"success"`
	Count   *int `json:"count,omitempty"`
	Data    any  `json:"data"`
}

func respondWithData(w http.ResponseWriter, code int, data any) {
	respondWithJSON(w, code, dataResponse{Success: true, Data: data})
}

func respondWithDataCount(w http.ResponseWriter, code int, count int, data any) {
	respondWithJSON(w, code, dataResponse{Success: true, Count: &count, Data: data})
}
