package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"offplan-service/internal/contextkeys"
	"offplan-service/internal/core/domain"
	"offplan-service/internal/core/port"
)

// Envelope - общий формат ответа API
type Envelope struct {
	Status  bool                `json:"status"`
	Message string              `json:"message"`
	Data    interface{}         `json:"data"`
	Errors  map[string][]string `json:"errors"`
}

// RespondWithJSON отправляет JSON-ответ
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondOK(w http.ResponseWriter, code int, message string, data interface{}) {
	RespondWithJSON(w, code, Envelope{Status: true, Message: message, Data: data})
}

func respondFail(w http.ResponseWriter, code int, message string, errs map[string][]string) {
	RespondWithJSON(w, code, Envelope{Status: false, Message: message, Errors: errs})
}

// respondError переводит доменную ошибку в HTTP-статус
func respondError(w http.ResponseWriter, r *http.Request, err error, notFoundMessage string) {
	var fieldErr *domain.FieldError
	switch {
	case errors.As(err, &fieldErr):
		respondFail(w, http.StatusBadRequest, "Validation failed", map[string][]string{fieldErr.Field: {fieldErr.Message}})
	case errors.Is(err, domain.ErrNotFound):
		respondFail(w, http.StatusNotFound, notFoundMessage, map[string][]string{"detail": {"Not found."}})
	case errors.Is(err, domain.ErrSyncInProgress):
		respondFail(w, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, domain.ErrUnknownMode), errors.Is(err, domain.ErrValidation):
		respondFail(w, http.StatusBadRequest, err.Error(), nil)
	default:
		contextkeys.LoggerFromContext(r.Context()).Error("Request failed", err, nil)
		respondFail(w, http.StatusInternalServerError, "Internal server error", nil)
	}
}

// decodeJSON читает тело запроса; пустое тело - ошибка
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("request body is empty")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewFieldError("id", "A valid integer is required.")
	}
	return id, nil
}

// pageFromQuery читает ?page=, по умолчанию 1
func pageFromQuery(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// pageURL строит абсолютную ссылку на страницу листинга
func pageURL(r *http.Request, page int) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	query := r.URL.Query()
	query.Set("page", strconv.Itoa(page))
	u := url.URL{Scheme: scheme, Host: r.Host, Path: r.URL.Path, RawQuery: query.Encode()}
	return u.String()
}

func handlerLogger(r *http.Request, handler string) port.LoggerPort {
	return contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": handler})
}
