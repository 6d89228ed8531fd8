package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"showing-route-service/internal/api/dto"
	"showing-route-service/internal/domain"
	"showing-route-service/internal/ports"

	"github.com/rs/zerolog"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("encode failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, dto.ErrorResponse{Error: msg})
}

func writeText(w http.ResponseWriter, contentType string, body string) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, body)
}

// decodeJSON reads exactly one JSON object with no unknown fields.
func decodeJSON(r *http.Request, v any) string {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return "invalid json body"
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return "body must contain only one JSON object"
	}
	return ""
}

// writeServiceError maps planning and editing failures onto HTTP statuses.
// Anything unrecognised is treated as an upstream failure when upstream is
// set, otherwise as an internal error.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, upstream bool) {
	var (
		unresolved *domain.ErrUnresolvedAddress
		incomplete *domain.ErrIncompleteDistanceData
		badStart   *domain.ErrInvalidStartIndex
		badTarget  *domain.ErrInvalidEditTarget
		badMinutes *domain.ErrInvalidDuration
		badTime    *invalidTimeError
	)

	switch {
	case errors.As(err, &unresolved):
		writeJSON(w, r, http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error:     "could not geocode one or more addresses",
			Addresses: unresolved.Addresses,
		})
	case errors.As(err, &incomplete):
		writeError(w, r, http.StatusUnprocessableEntity, incomplete.Error())
	case errors.As(err, &badStart):
		writeError(w, r, http.StatusBadRequest, badStart.Error())
	case errors.As(err, &badTarget):
		writeError(w, r, http.StatusBadRequest, badTarget.Error())
	case errors.As(err, &badMinutes):
		writeError(w, r, http.StatusBadRequest, badMinutes.Error())
	case errors.As(err, &badTime):
		writeError(w, r, http.StatusBadRequest, badTime.Error())
	case errors.Is(err, ports.ErrScheduleNotFound):
		writeError(w, r, http.StatusNotFound, "schedule not found")
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, r, http.StatusGatewayTimeout, "route planning timed out")
	case upstream:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("route provider failed")
		writeError(w, r, http.StatusBadGateway, "route provider unavailable")
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
