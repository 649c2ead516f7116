package middleware

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/iudanet/gophadmin/internal/canonical"
	"github.com/iudanet/gophadmin/internal/crypto"
	"github.com/iudanet/gophadmin/internal/server/handlers"
	"github.com/iudanet/gophadmin/pkg/api"
)

// SignatureMiddleware проверяет заголовок X-Signature. Для JSON запросов
// подписывается каноническая форма тела, для остальных - path и query.
// Пустой secret отключает проверку.
func SignatureMiddleware(logger *slog.Logger, secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			signature := r.Header.Get(crypto.SignatureHeader)
			if signature == "" {
				logger.WarnContext(r.Context(), "missing signature", slog.String("path", r.URL.Path))
				handlers.WriteError(w, logger, api.CodeBadSignature, "missing signature")
				return
			}

			message, err := signedMessage(w, r)
			if err != nil {
				handlers.WriteError(w, logger, api.CodeBadRequest, err.Error())
				return
			}

			if !crypto.Verify(message, secret, signature) {
				logger.WarnContext(r.Context(), "invalid signature",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)
				handlers.WriteError(w, logger, api.CodeBadSignature, "invalid signature")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// signedMessage восстанавливает подписанную строку. Прочитанное тело
// возвращается в r.Body для следующего обработчика.
func signedMessage(w http.ResponseWriter, r *http.Request) (string, error) {
	uri := r.RequestURI
	if uri == "" {
		uri = r.URL.RequestURI()
	}
	if !isJSON(r) {
		return uri, nil
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, handlers.MaxJSONBody))
	if err != nil {
		return "", fmt.Errorf("failed to read request body: %w", err)
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	if len(body) == 0 {
		return uri, nil
	}

	canon, err := canonical.Bytes(body)
	if err != nil {
		return "", fmt.Errorf("invalid JSON body: %w", err)
	}
	return string(canon), nil
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}
