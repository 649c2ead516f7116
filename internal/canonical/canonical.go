// Package canonical строит детерминированную JSON-форму значений.
//
// Каноническая форма используется как точная последовательность байт, которую
// подписывает клиент и проверяет сервер. Ключи объектов сортируются по
// возрастанию кодовых единиц UTF-16, как их сортирует JavaScript. Пробелы
// не выводятся, скаляры кодируются по правилам encoding/json без
// HTML-экранирования.
package canonical

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"unicode/utf16"
)

// ErrTrailingData возвращается, если после JSON-документа есть лишние данные
var ErrTrailingData = errors.New("unexpected data after json document")

// Marshal возвращает каноническую форму произвольного JSON-совместимого значения
func Marshal(v any) ([]byte, error) {
	raw, err := encode(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal value: %w", err)
	}
	return Bytes(raw)
}

// String то же, что Marshal, но возвращает строку
func String(v any) (string, error) {
	out, err := Marshal(v)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Bytes приводит уже закодированный JSON-документ к канонической форме.
// Используется на сервере, где тело запроса приходит в виде байт.
func Bytes(raw []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber() // числа переносим в исходной текстовой форме

	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, fmt.Errorf("failed to decode json: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, ErrTrailingData
	}

	var buf bytes.Buffer
	if err := write(&buf, tree); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func write(buf *bytes.Buffer, v any) error {
	switch t := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		if t {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case json.Number:
		buf.WriteString(t.String())
	case string:
		return writeString(buf, t)
	case []any:
		buf.WriteByte('[')
		for i, elem := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := write(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case map[string]any:
		buf.WriteByte('{')
		for i, key := range slices.SortedFunc(maps.Keys(t), compareUTF16) {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(buf, key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := write(buf, t[key]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unsupported json value of type %T", v)
	}
	return nil
}

// compareUTF16 сравнивает строки по кодовым единицам UTF-16. Порядок отличается
// от побайтового UTF-8 для символов вне BMP.
func compareUTF16(a, b string) int {
	return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
}

func writeString(buf *bytes.Buffer, s string) error {
	quoted, err := encode(s)
	if err != nil {
		return fmt.Errorf("failed to encode string: %w", err)
	}
	buf.Write(quoted)
	return nil
}

// encode кодирует значение без HTML-экранирования и без завершающего перевода строки
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
