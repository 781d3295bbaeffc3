package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/samohiani/simple-ecommerce/internal/service"
)

var validate = validator.New()

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// respondServiceError maps a service error kind to its HTTP status hint.
func respondServiceError(w http.ResponseWriter, err error) {
	if se, ok := service.AsError(err); ok {
		respondError(w, se.StatusHint(), kindCode(se.Kind), se.Message)
		return
	}
	respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
}

func kindCode(kind service.Kind) string {
	switch kind {
	case service.KindInvalidInput:
		return "invalid_input"
	case service.KindNotFound:
		return "not_found"
	case service.KindInvalidState:
		return "invalid_state"
	case service.KindUnauthorized:
		return "unauthorized"
	default:
		return "store_failure"
	}
}

// decodeAndValidate parses the JSON body into dst and runs its validation
// tags, so the services only ever see well-shaped values.
func decodeAndValidate(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New("invalid JSON body")
	}
	if err := validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("field %s failed validation on %s", fe.Field(), fe.Tag())
		}
		return err
	}
	return nil
}
