// Package view хранит состояние списка записей: поиск, фильтр по серверу
// и постраничный вывод. Один тип обслуживает и участников, и заказы.
package view

import (
	"strings"

	"github.com/iudanet/gophadmin/internal/records"
)

const (
	// DefaultPageSize размер страницы по умолчанию
	DefaultPageSize = 20
	// AllServers значение фильтра, отключающее отбор по серверу
	AllServers = "All"
)

// Screen описывает, как искать и сортировать записи одного вида
type Screen[T any] struct {
	// Match сообщает, подходит ли запись под непустой поисковый запрос
	Match func(rec T, keyword string) bool
	// ServerOf возвращает метку реплики записи; nil - фильтр по серверу не поддерживается
	ServerOf func(rec T) string
	// Timestamp задает сортировку от новых к старым; nil - порядок бэкенда
	Timestamp func(rec T) string
	Title     string
}

// State текущее состояние экрана
type State[T any] struct {
	Err          error
	screen       Screen[T]
	Keyword      string
	ServerFilter string
	Records      []T
	Page         int // с единицы
	PageSize     int
}

// NewState создает пустое состояние на первой странице
func NewState[T any](screen Screen[T], pageSize int) *State[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &State[T]{
		screen:       screen,
		Page:         1,
		PageSize:     pageSize,
		ServerFilter: AllServers,
	}
}

// Title заголовок экрана
func (s *State[T]) Title() string {
	return s.screen.Title
}

// Replace целиком заменяет записи результатом нового запроса
func (s *State[T]) Replace(recs []T) {
	if s.screen.Timestamp != nil {
		recs = records.SortByTimestampDescending(recs, s.screen.Timestamp)
	} else {
		recs = append([]T(nil), recs...)
	}
	s.Records = recs
	s.Err = nil
	s.Page = 1
}

// Fail запоминает ошибку последнего запроса; прежние записи сохраняются
func (s *State[T]) Fail(err error) {
	s.Err = err
}

// Filtered возвращает записи, прошедшие поиск и фильтр по серверу
func (s *State[T]) Filtered() []T {
	keyword := strings.TrimSpace(s.Keyword)
	filterServer := s.screen.ServerOf != nil && s.ServerFilter != "" && s.ServerFilter != AllServers

	out := make([]T, 0, len(s.Records))
	for _, rec := range s.Records {
		if keyword != "" && s.screen.Match != nil && !s.screen.Match(rec, keyword) {
			continue
		}
		if filterServer && s.screen.ServerOf(rec) != s.ServerFilter {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// TotalPages число страниц отфильтрованных записей, не меньше одной
func (s *State[T]) TotalPages() int {
	n := len(s.Filtered())
	pages := (n + s.PageSize - 1) / s.PageSize
	return max(pages, 1)
}

// PageItems записи текущей страницы
func (s *State[T]) PageItems() []T {
	filtered := s.Filtered()
	start := (s.Page - 1) * s.PageSize
	if start >= len(filtered) {
		return nil
	}
	end := min(start+s.PageSize, len(filtered))
	return filtered[start:end]
}

// SetPage переходит на страницу n, ограничивая ее допустимым диапазоном
func (s *State[T]) SetPage(n int) {
	s.Page = min(max(n, 1), s.TotalPages())
}

// Next переходит на следующую страницу, если она есть
func (s *State[T]) Next() {
	s.SetPage(s.Page + 1)
}

// Prev переходит на предыдущую страницу, если она есть
func (s *State[T]) Prev() {
	s.SetPage(s.Page - 1)
}

// SetKeyword задает поисковый запрос и возвращает на первую страницу
func (s *State[T]) SetKeyword(keyword string) {
	s.Keyword = keyword
	s.Page = 1
}

// SetServerFilter задает фильтр по серверу и возвращает на первую страницу
func (s *State[T]) SetServerFilter(server string) {
	if server == "" {
		server = AllServers
	}
	s.ServerFilter = server
	s.Page = 1
}
