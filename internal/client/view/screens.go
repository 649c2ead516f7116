package view

import (
	"strings"

	"github.com/iudanet/gophadmin/internal/models"
)

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// MemberScreen список участников: поиск по имени без учета регистра
func MemberScreen() Screen[models.Member] {
	return Screen[models.Member]{
		Title: "Members",
		Match: func(m models.Member, keyword string) bool {
			return m.Name != "" && containsFold(m.Name, keyword)
		},
	}
}

// OrderScreen список заказов: поиск по orderId, фильтр по серверу,
// сортировка по createTime
func OrderScreen() Screen[models.Order] {
	return Screen[models.Order]{
		Title: "Orders",
		Match: func(o models.Order, keyword string) bool {
			return o.ID.OrderID != "" && containsFold(o.ID.OrderID, keyword)
		},
		ServerOf:  func(o models.Order) string { return o.Server },
		Timestamp: func(o models.Order) string { return o.CreateTime },
	}
}
