package models

import "fmt"

// TimeLayout формат времени заказа на проводе (без зоны, как отдает бэкенд)
const TimeLayout = "2006-01-02T15:04:05"

// OrderID составной ключ заказа. Каждое обновление заказа на сервере
// создает новую строку с version = max(version)+1, старые версии остаются.
type OrderID struct {
	OrderID string `json:"orderId"`
	Version int64  `json:"version"`
}

// String возвращает ключ в виде "orderId@version"
func (id OrderID) String() string {
	return fmt.Sprintf("%s@%d", id.OrderID, id.Version)
}

// Order одна версия заказа
type Order struct {
	ID         OrderID `json:"id"`
	MemberID   string  `json:"memberId"`
	CreateTime string  `json:"createTime"`          // ISO-подобная строка, по ней идет сортировка
	ExpiredAt  string  `json:"expiredAt,omitempty"` // ISO-подобная строка
	Server     string  `json:"server,omitempty"`    // метка реплики, выставляется клиентом при fan-out
	Price      int64   `json:"price"`
	IsPaid     int     `json:"isPaid"`    // 0 или 1
	IsDeleted  int     `json:"isDeleted"` // 0 или 1
}

// Paid сообщает, оплачен ли заказ
func (o *Order) Paid() bool {
	return o.IsPaid != 0
}

// Deleted сообщает, помечен ли заказ как удаленный
func (o *Order) Deleted() bool {
	return o.IsDeleted != 0
}
