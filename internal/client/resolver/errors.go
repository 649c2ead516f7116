package resolver

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoEndpoints список реплик пуст
	ErrNoEndpoints = errors.New("no endpoints configured")

	// ErrAllUnavailable все реплики недоступны на транспортном уровне
	ErrAllUnavailable = errors.New("all servers unavailable")

	// ErrAmbiguousWrite запись могла быть применена, но подтверждения нет
	ErrAmbiguousWrite = errors.New("write outcome unknown")

	// ErrUnexpectedResponse ответ не совпал с ожидаемой формой данных
	ErrUnexpectedResponse = errors.New("unexpected response")
)

// TransportError сбой одной попытки: сеть, таймаут, нечитаемое тело ответа
type TransportError struct {
	Err      error
	Endpoint string
	Sent     bool // запрос был полностью записан в соединение до сбоя
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure on %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ApplicationError корректно доставленный ответ с кодом прикладной ошибки.
// Не повторяется на других репликах.
type ApplicationError struct {
	Endpoint string
	Code     string
	Message  string
	Status   int // HTTP статус ответа
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("API Error: %s (code %s)", e.Message, e.Code)
}

// AggregateFailure все реплики отказали на транспортном уровне
type AggregateFailure struct {
	Attempts []*TransportError // в порядке попыток
}

func (e *AggregateFailure) Error() string {
	var b strings.Builder
	b.WriteString(ErrAllUnavailable.Error())
	if last := e.Last(); last != nil {
		b.WriteString(": last error: ")
		b.WriteString(last.Error())
	}
	return b.String()
}

// Last возвращает последнюю транспортную ошибку
func (e *AggregateFailure) Last() error {
	if len(e.Attempts) == 0 {
		return nil
	}
	return e.Attempts[len(e.Attempts)-1]
}

func (e *AggregateFailure) Unwrap() error {
	return e.Last()
}

func (e *AggregateFailure) Is(target error) bool {
	return target == ErrAllUnavailable
}

// AmbiguousWriteError транспортный сбой после отправки неидемпотентного запроса.
// Сервер мог уже применить изменение, поэтому на другие реплики запрос не отправляется.
type AmbiguousWriteError struct {
	Err      error
	Endpoint string
}

func (e *AmbiguousWriteError) Error() string {
	return fmt.Sprintf("%s on %s: %v", ErrAmbiguousWrite, e.Endpoint, e.Err)
}

func (e *AmbiguousWriteError) Unwrap() error {
	return e.Err
}

func (e *AmbiguousWriteError) Is(target error) bool {
	return target == ErrAmbiguousWrite
}

// FormatError прикладной успех, но data не раскладывается в ожидаемый тип
type FormatError struct {
	Err      error
	Endpoint string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s from %s: %v", ErrUnexpectedResponse, e.Endpoint, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func (e *FormatError) Is(target error) bool {
	return target == ErrUnexpectedResponse
}
