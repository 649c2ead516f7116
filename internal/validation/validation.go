// Package validation содержит проверки пользовательского ввода,
// общие для клиента и сервера-реплики.
package validation

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrInvalid оборачивается всеми ошибками валидации
var ErrInvalid = errors.New("invalid input")

const (
	// MaxMemberNameLen максимальная длина имени участника в символах
	MaxMemberNameLen = 64
	// MaxUploadSize максимальный размер загружаемого файла
	MaxUploadSize int64 = 10 << 20
	// DateLayout формат даты в фильтре заказов
	DateLayout = "2006-01-02"
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// MemberName проверяет имя участника и возвращает его без пробелов по краям
func MemberName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("name cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxMemberNameLen {
		return "", invalid("name must not exceed %d characters", MaxMemberNameLen)
	}
	return name, nil
}

// Date проверяет дату в формате YYYY-MM-DD
func Date(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, invalid("date %q must be in YYYY-MM-DD format", s)
	}
	return t, nil
}

// DateRange проверяет, что обе даты корректны и start не позже end
func DateRange(start, end string) error {
	from, err := Date(start)
	if err != nil {
		return err
	}
	to, err := Date(end)
	if err != nil {
		return err
	}
	if from.After(to) {
		return invalid("start date %s is after end date %s", start, end)
	}
	return nil
}

// Flag проверяет признак вида 0/1 (isPaid, isDeleted)
func Flag(field string, v int) error {
	if v != 0 && v != 1 {
		return invalid("%s must be 0 or 1, got %d", field, v)
	}
	return nil
}

// Price проверяет цену заказа
func Price(p int64) error {
	if p < 0 {
		return invalid("price must not be negative")
	}
	return nil
}

// UploadSize проверяет размер файла перед загрузкой
func UploadSize(size int64) error {
	if size > MaxUploadSize {
		return invalid("file is %d bytes, limit is %d bytes", size, MaxUploadSize)
	}
	return nil
}

// FileName проверяет имя статического файла: без каталогов и скрытых имен
func FileName(name string) error {
	if name == "" {
		return invalid("file name cannot be empty")
	}
	if name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return invalid("file name %q must not contain path separators", name)
	}
	if strings.HasPrefix(name, ".") {
		return invalid("file name %q must not start with a dot", name)
	}
	return nil
}
