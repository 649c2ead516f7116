package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/iudanet/gophadmin/pkg/api"
)

// MaxJSONBody ограничение тела JSON запроса
const MaxJSONBody int64 = 1 << 20

// StatusFor возвращает HTTP статус для кода ответа. Прикладные ошибки
// отдаются со статусом 200, кроме подписи и лимита запросов.
func StatusFor(code string) int {
	switch code {
	case api.CodeBadSignature:
		return http.StatusUnauthorized
	case api.CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusOK
	}
}

// WriteData отправляет успешный ответ с данными
func WriteData(w http.ResponseWriter, logger *slog.Logger, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		logger.Error("failed to encode response data", slog.Any("error", err))
		WriteError(w, logger, api.CodeInternal, "internal server error")
		return
	}
	writeEnvelope(w, logger, http.StatusOK, api.Envelope{
		Code:    api.CodeSuccess,
		Message: "success",
		Data:    raw,
	})
}

// WriteError отправляет ответ с кодом ошибки
func WriteError(w http.ResponseWriter, logger *slog.Logger, code, message string) {
	writeEnvelope(w, logger, StatusFor(code), api.Envelope{Code: code, Message: message})
}

func writeEnvelope(w http.ResponseWriter, logger *slog.Logger, status int, env api.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// decodeJSON читает тело запроса в v с ограничением размера
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, MaxJSONBody)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("request body is empty")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
