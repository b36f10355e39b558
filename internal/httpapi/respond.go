package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/fekuna/amigurumi-order-service/internal/auth"
	"github.com/fekuna/amigurumi-order-service/internal/catalog"
	"github.com/fekuna/amigurumi-order-service/internal/client"
	"github.com/fekuna/amigurumi-order-service/internal/formschema"
	"github.com/fekuna/amigurumi-order-service/internal/model"
	"github.com/fekuna/amigurumi-order-service/internal/order"
	"github.com/fekuna/amigurumi-order-service/pkg/validate"
)

const maxBodyBytes = 1 << 20

var errBadJSON = errors.New("malformed request body")

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return errBadJSON
	}
	return nil
}

// bind decodes the body into dst and validates it.
func bind(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if err := decodeJSON(w, r, dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}

// writeError maps err onto a status code and a localized message.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, id, data := classify(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	writeJSON(w, status, errorBody{
		Error:   id,
		Message: h.tr.T(r.Header.Get("Accept-Language"), id, data),
	})
}

func classify(err error) (int, string, map[string]interface{}) {
	var (
		fieldErr  *validate.FieldError
		schemaErr *formschema.FieldError
	)
	switch {
	case errors.As(err, &fieldErr):
		if fieldErr.Tag == "required" {
			return http.StatusBadRequest, "missing_field", map[string]interface{}{"Field": fieldErr.Field}
		}
		return http.StatusBadRequest, "invalid_field", map[string]interface{}{"Field": fieldErr.Field}
	case errors.As(err, &schemaErr):
		if schemaErr.Reason == "required" {
			return http.StatusBadRequest, "missing_field", map[string]interface{}{"Field": schemaErr.Key}
		}
		return http.StatusBadRequest, "invalid_field", map[string]interface{}{"Field": schemaErr.Key}
	case errors.Is(err, errBadJSON):
		return http.StatusBadRequest, "invalid_request", nil
	case errors.Is(err, catalog.ErrInvalidCategory):
		return http.StatusBadRequest, "invalid_field", map[string]interface{}{"Field": "category"}
	case errors.Is(err, formschema.ErrUnknownProductType):
		return http.StatusBadRequest, "unknown_product_type", nil
	case errors.Is(err, client.ErrUnknownReferralCode):
		return http.StatusBadRequest, "unknown_referral_code", nil
	case errors.Is(err, auth.ErrWeakPassword):
		return http.StatusBadRequest, "weak_password", nil
	case errors.Is(err, model.ErrInvalidConfig):
		return http.StatusBadRequest, "invalid_config", nil
	case errors.Is(err, order.ErrInvalidPayment):
		return http.StatusBadRequest, "invalid_payment", nil
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrUnauthenticated):
		id := "unauthenticated"
		if errors.Is(err, auth.ErrInvalidCredentials) {
			id = "invalid_credentials"
		}
		return http.StatusUnauthorized, id, nil
	case errors.Is(err, auth.ErrEmailNotConfirmed):
		return http.StatusForbidden, "email_not_confirmed", nil
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden, "forbidden", nil
	case errors.Is(err, auth.ErrEmailTaken):
		return http.StatusConflict, "email_taken", nil
	case errors.Is(err, order.ErrOrderNotFound):
		return http.StatusNotFound, "order_not_found", nil
	case errors.Is(err, order.ErrOrderBusy):
		return http.StatusConflict, "order_busy", nil
	}
	return http.StatusInternalServerError, "internal_error", nil
}
