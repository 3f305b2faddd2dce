package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tinytrails/backend/internal/domain"
	"github.com/tinytrails/backend/internal/upstream"
)

// Error codes carried in the envelope.
const (
	codeNotFound        = "not_found"
	codeValidation      = "validation_error"
	codeUpstream        = "upstream_error"
	codeUnavailable     = "unavailable"
	codePayloadTooLarge = "payload_too_large"
	codeInternal        = "internal_error"
)

// statusClientClosed is the nginx convention for a request the client
// abandoned before a response was ready.
const statusClientClosed = 499

// ErrorDetail is the body of an error envelope.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the JSON envelope for every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

func errorBody(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// writeJSON writes v with the given status. Encoding errors are ignored: the
// header is already sent and the client sees a truncated body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// fail maps a service error to an HTTP response. resource names what was
// being looked up and is used for the not-found message.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, resource string) {
	var se *upstream.StatusError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody(codeNotFound, resource+" not found"))
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(codeValidation, unwrapMessage(err)))
	case errors.Is(err, upstream.ErrNotConfigured):
		writeJSON(w, http.StatusServiceUnavailable, errorBody(codeUnavailable, resource+" is not configured"))
	case errors.As(err, &se):
		s.log.WarnContext(r.Context(), "upstream request failed",
			"status", se.StatusCode, "error", err, "request_id", chimiddleware.GetReqID(r.Context()))
		writeJSON(w, http.StatusBadGateway, errorBody(codeUpstream, fmt.Sprintf("%s upstream returned HTTP %d", resource, se.StatusCode)))
	case r.Context().Err() != nil:
		// The client is gone; the status only reaches the request log.
		s.log.DebugContext(r.Context(), "client closed request",
			"error", err, "request_id", chimiddleware.GetReqID(r.Context()))
		w.WriteHeader(statusClientClosed)
	case isUpstream(resource):
		s.log.WarnContext(r.Context(), "upstream request failed",
			"error", err, "request_id", chimiddleware.GetReqID(r.Context()))
		writeJSON(w, http.StatusBadGateway, errorBody(codeUpstream, resource+" upstream unreachable"))
	default:
		s.log.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err,
			"request_id", chimiddleware.GetReqID(r.Context()))
		writeJSON(w, http.StatusInternalServerError, errorBody(codeInternal, "internal server error"))
	}
}

// Upstream resource names; transport failures for these are reported as 502.
const (
	resWeather = "weather"
	resEvents  = "tourism feed"
	resMap     = "map token"
)

func isUpstream(resource string) bool {
	return resource == resWeather || resource == resEvents
}

// badParam answers 422 for a path or query parameter that failed to bind.
func badParam(w http.ResponseWriter, name string, err error) {
	writeJSON(w, http.StatusUnprocessableEntity,
		errorBody(codeValidation, fmt.Sprintf("invalid format for parameter %s: %v", name, err)))
}

// decodeBody reads a JSON request body into dst and answers the error
// itself when it returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}
	var mbe *http.MaxBytesError
	switch {
	case errors.As(err, &mbe):
		writeJSON(w, http.StatusRequestEntityTooLarge,
			errorBody(codePayloadTooLarge, fmt.Sprintf("request body exceeds %d bytes", mbe.Limit)))
	case errors.Is(err, io.EOF):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(codeValidation, "request body is required"))
	default:
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(codeValidation, "malformed JSON body: "+err.Error()))
	}
	return false
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.ActivityService.Create: validation error: name is required" → "name is required"
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if _, after, ok := strings.Cut(msg, domain.ErrValidation.Error()+": "); ok {
		return after
	}
	return msg
}
