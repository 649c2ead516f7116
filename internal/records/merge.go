package records

import "fmt"

// Batch записи, полученные с одной реплики
type Batch[T any] struct {
	Label   string // метка реплики, например "Server 2"
	Records []T
}

// ServerLabel возвращает метку реплики по ее индексу в списке endpoints (с нуля)
func ServerLabel(index int) string {
	return fmt.Sprintf("Server %d", index+1)
}

// Merge объединяет результаты нескольких реплик: каждая запись помечается
// меткой своей реплики через tag, затем весь набор сортируется по времени
// от новых к старым. Порядок батчей сохраняется для записей с равным временем.
func Merge[T any](batches []Batch[T], tag func(rec *T, label string), timestamp func(T) string) []T {
	total := 0
	for _, b := range batches {
		total += len(b.Records)
	}

	merged := make([]T, 0, total)
	for _, b := range batches {
		for _, rec := range b.Records {
			if tag != nil {
				tag(&rec, b.Label)
			}
			merged = append(merged, rec)
		}
	}

	return SortByTimestampDescending(merged, timestamp)
}
