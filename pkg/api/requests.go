package api

// CreateMemberRequest тело POST /user/save
type CreateMemberRequest struct {
	Name string `json:"name"`
}

// UpdateMemberRequest тело POST /user/update
type UpdateMemberRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateOrderRequest тело POST /order/save
type CreateOrderRequest struct {
	MemberID  string `json:"memberId"`
	ExpiredAt string `json:"expiredAt,omitempty"` // ISO-подобная строка времени
	Price     int64  `json:"price"`               // цена в минимальных единицах валюты
}

// UploadResponse данные ответа POST /static/upload
type UploadResponse struct {
	FileName string `json:"fileName"`
	Size     int64  `json:"size"`
}

// HealthResponse ответ health check
type HealthResponse struct {
	Status  string `json:"status"`
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
}
