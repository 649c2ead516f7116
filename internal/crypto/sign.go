package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// SignatureHeader заголовок, в котором клиент передает подпись запроса
const SignatureHeader = "X-Signature"

// Sign вычисляет HMAC-SHA256 от message на ключе secretKey и кодирует
// результат в стандартный base64 (с паддингом).
// Для GET/DELETE без тела подписывается path+query, для записи -
// каноническая форма тела запроса.
// Пустой ключ допустим: за выдачу секрета отвечает вызывающий код.
func Sign(message, secretKey string) string {
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Verify проверяет подпись за постоянное время
func Verify(message, secretKey, signature string) bool {
	got, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(message))
	return hmac.Equal(got, mac.Sum(nil))
}
