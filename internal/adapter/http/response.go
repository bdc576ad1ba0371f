package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/adega-delivery/backend/internal/domain"
)

type ErrorResponse struct {
	Error              string   `json:"error"`
	Code               string   `json:"code,omitempty"`
	CurrentStatus      string   `json:"current_status,omitempty"`
	AllowedTransitions []string `json:"allowed_transitions,omitempty"`
}

func respondJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, ErrorResponse{Error: message})
}

// respondServiceError maps domain errors onto HTTP statuses. Invalid
// transitions return the current status and the reachable statuses so the
// client can render valid actions only.
func respondServiceError(w http.ResponseWriter, err error) {
	var transitionErr *domain.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		allowed := make([]string, len(transitionErr.Allowed))
		for i, s := range transitionErr.Allowed {
			allowed[i] = string(s)
		}
		respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:              err.Error(),
			Code:               "invalid_transition",
			CurrentStatus:      string(transitionErr.Current),
			AllowedTransitions: allowed,
		})
		return
	}

	var preconditionErr *domain.PreconditionFailedError
	if errors.As(err, &preconditionErr) {
		respondJSON(w, http.StatusConflict, ErrorResponse{
			Error:         err.Error(),
			Code:          "precondition_failed",
			CurrentStatus: string(preconditionErr.Actual),
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrMotoboyNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrIncompleteAddress):
		respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error: err.Error(),
			Code:  "incomplete_address",
		})
	case errors.Is(err, domain.ErrAddressUnresolvable):
		respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error: err.Error(),
			Code:  "address_unresolvable",
		})
	case errors.Is(err, domain.ErrInvalidFee):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
