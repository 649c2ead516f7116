package models

import "time"

// Member запись о члене клуба
type Member struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"-"` // только для сервера, в API не отдается
}
