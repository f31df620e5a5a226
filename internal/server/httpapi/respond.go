// Package httpapi implements the REST surface: routing, request/response
// schemas, authentication middleware, and the handlers for the auth and
// contact endpoints.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/contacthub/internal/common"
	"github.com/dmitrijs2005/contacthub/internal/logging"
)

const (
	headerContentType   = "Content-Type"
	contentTypeJSONUTF8 = "application/json; charset=utf-8"
)

// RespondWithJSON writes payload as a JSON body with the given status.
func RespondWithJSON(w http.ResponseWriter, status int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set(headerContentType, contentTypeJSONUTF8)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal Server Error"}`))
		return
	}
	w.Header().Set(headerContentType, contentTypeJSONUTF8)
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

// AppHandler is a handler that reports failure by returning an error instead
// of writing the error response itself.
type AppHandler func(w http.ResponseWriter, r *http.Request) error

// MakeHandler adapts an AppHandler to http.HandlerFunc. Returned errors are
// translated into `{"error": message}` JSON responses: explicit HTTPErrors
// keep their code, service sentinels map to their conventional status, and
// anything else becomes a logged 500.
func MakeHandler(logger logging.Logger, handler AppHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := handler(w, r)
		if err == nil {
			return
		}

		code, message := errorStatus(err)
		if code >= 500 {
			logger.Error(r.Context(), "request failed",
				"path", r.URL.Path, "method", r.Method, "error", err)
		} else {
			logger.Warn(r.Context(), "client error response",
				"code", code, "msg", message, "path", r.URL.Path, "method", r.Method)
		}

		RespondWithJSON(w, code, map[string]string{"error": message})
	}
}

func errorStatus(err error) (int, string) {
	var httpErr *HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code, httpErr.Message
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, msgNotFound
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict, msgConflict
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden, msgForbidden
	case errors.Is(err, common.ErrUserNotActive):
		return http.StatusUnauthorized, "Email not verified"
	case errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrRefreshTokenExpired),
		errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, msgUnauthorized
	default:
		return http.StatusInternalServerError, msgInternalServer
	}
}

// decodeJSON parses the request body into dst, limiting it to 1 MiB.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return ErrBadRequestWrap("invalid JSON body", err)
	}
	return nil
}
