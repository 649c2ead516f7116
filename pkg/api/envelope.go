package api

import "encoding/json"

// Коды ответа бэкенда. Успех определяется кодом в теле, а не HTTP статусом.
const (
	CodeSuccess      = "0000" // запрос выполнен
	CodeBadRequest   = "E001" // некорректные параметры
	CodeNotFound     = "E002" // запись не найдена
	CodeBadSignature = "E003" // подпись не прошла проверку
	CodeRateLimited  = "E429" // превышен лимит запросов
	CodeInternal     = "E500" // внутренняя ошибка сервера
)

// Envelope общая обертка всех ответов бэкенда
type Envelope struct {
	Code    string          `json:"code"`           // код результата, "0000" при успехе
	Message string          `json:"message"`        // человекочитаемое сообщение
	Data    json.RawMessage `json:"data,omitempty"` // полезная нагрузка, форма зависит от запроса
}

// Success сообщает, что ответ несет код прикладного успеха
func (e *Envelope) Success() bool {
	return e.Code == CodeSuccess
}
