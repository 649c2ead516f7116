// Package records упорядочивает и объединяет записи, полученные с реплик.
package records

import (
	"slices"
	"strings"
	"time"
)

// Допустимые ISO-подобные форматы времени. Время без зоны считается UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp разбирает ISO-подобную строку времени.
// Возвращает false для пустой или нераспознанной строки.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

type keyed[T any] struct {
	at  time.Time
	rec T
	ok  bool
}

// SortByTimestampDescending возвращает новый срез, упорядоченный от самых свежих
// записей к самым старым. Сортировка стабильная. Записи без времени или с
// нераспознанным временем считаются самыми старыми и идут в конце.
// Входной срез не изменяется.
func SortByTimestampDescending[T any](recs []T, timestamp func(T) string) []T {
	items := make([]keyed[T], len(recs))
	for i, rec := range recs {
		at, ok := ParseTimestamp(timestamp(rec))
		items[i] = keyed[T]{rec: rec, at: at, ok: ok}
	}

	slices.SortStableFunc(items, func(a, b keyed[T]) int {
		switch {
		case !a.ok && !b.ok:
			return 0
		case !a.ok:
			return 1
		case !b.ok:
			return -1
		default:
			return b.at.Compare(a.at)
		}
	})

	out := make([]T, len(items))
	for i, item := range items {
		out[i] = item.rec
	}
	return out
}
