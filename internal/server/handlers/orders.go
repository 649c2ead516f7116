package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/gophadmin/internal/models"
	"github.com/iudanet/gophadmin/internal/records"
	"github.com/iudanet/gophadmin/internal/server/storage"
	"github.com/iudanet/gophadmin/internal/validation"
	"github.com/iudanet/gophadmin/pkg/api"
)

// OrderHandler обрабатывает запросы /order/*
type OrderHandler struct {
	logger  *slog.Logger
	storage storage.OrderStorage
	now     func() time.Time
}

// NewOrderHandler создает новый handler заказов
func NewOrderHandler(logger *slog.Logger, s storage.OrderStorage) *OrderHandler {
	return &OrderHandler{
		logger:  logger,
		storage: s,
		now:     time.Now,
	}
}

func (h *OrderHandler) timestamp() string {
	return h.now().UTC().Format(models.TimeLayout)
}

// FindRange обрабатывает GET /order/findRange?startDate=&endDate=
// Возвращает все версии, созданные в диапазоне дат включительно.
func (h *OrderHandler) FindRange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	startDate, endDate := query.Get("startDate"), query.Get("endDate")
	if err := validation.DateRange(startDate, endDate); err != nil {
		WriteError(w, h.logger, api.CodeBadRequest, err.Error())
		return
	}
	// Даты уже проверены
	start, _ := validation.Date(startDate)
	end, _ := validation.Date(endDate)

	orders, err := h.storage.FindOrders(ctx, start, end)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to find orders", slog.Any("error", err))
		WriteError(w, h.logger, api.CodeInternal, "internal server error")
		return
	}
	WriteData(w, h.logger, orders)
}

// History обрабатывает GET /order/history?orderId=
func (h *OrderHandler) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID := r.URL.Query().Get("orderId")
	if orderID == "" {
		WriteError(w, h.logger, api.CodeBadRequest, "orderId is required")
		return
	}

	versions, err := h.storage.OrderHistory(ctx, orderID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load order history", slog.Any("error", err))
		WriteError(w, h.logger, api.CodeInternal, "internal server error")
		return
	}
	WriteData(w, h.logger, versions)
}

// Save обрабатывает POST /order/save
func (h *OrderHandler) Save(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.CreateOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, h.logger, api.CodeBadRequest, err.Error())
		return
	}
	if req.MemberID == "" {
		WriteError(w, h.logger, api.CodeBadRequest, "memberId is required")
		return
	}
	if err := validation.Price(req.Price); err != nil {
		WriteError(w, h.logger, api.CodeBadRequest, err.Error())
		return
	}
	if !validExpiry(req.ExpiredAt) {
		WriteError(w, h.logger, api.CodeBadRequest, "expiredAt is not a timestamp")
		return
	}

	order := &models.Order{
		ID:         models.OrderID{OrderID: uuid.New().String()},
		MemberID:   req.MemberID,
		CreateTime: h.timestamp(),
		ExpiredAt:  req.ExpiredAt,
		Price:      req.Price,
	}
	if err := h.storage.CreateOrder(ctx, order); err != nil {
		h.logger.ErrorContext(ctx, "failed to create order", slog.Any("error", err))
		WriteError(w, h.logger, api.CodeInternal, "internal server error")
		return
	}

	h.logger.InfoContext(ctx, "order created", slog.String("order", order.ID.String()))
	WriteData(w, h.logger, order)
}

// Update обрабатывает POST /order/update
// Сохраняет присланный заказ как новую версию.
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var order models.Order
	if err := decodeJSON(w, r, &order); err != nil {
		WriteError(w, h.logger, api.CodeBadRequest, err.Error())
		return
	}
	if order.ID.OrderID == "" {
		WriteError(w, h.logger, api.CodeBadRequest, "id.orderId is required")
		return
	}
	for _, err := range []error{
		validation.Flag("isPaid", order.IsPaid),
		validation.Flag("isDeleted", order.IsDeleted),
		validation.Price(order.Price),
	} {
		if err != nil {
			WriteError(w, h.logger, api.CodeBadRequest, err.Error())
			return
		}
	}
	if !validExpiry(order.ExpiredAt) {
		WriteError(w, h.logger, api.CodeBadRequest, "expiredAt is not a timestamp")
		return
	}

	order.Server = ""
	order.CreateTime = h.timestamp()
	if err := h.storage.UpdateOrder(ctx, &order); err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			WriteError(w, h.logger, api.CodeNotFound, "order not found")
			return
		}
		h.logger.ErrorContext(ctx, "failed to update order", slog.Any("error", err))
		WriteError(w, h.logger, api.CodeInternal, "internal server error")
		return
	}

	h.logger.InfoContext(ctx, "order updated", slog.String("order", order.ID.String()))
	WriteData(w, h.logger, order)
}

// Delete обрабатывает DELETE /order/delete/{orderId}
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID := r.PathValue("orderId")
	if orderID == "" {
		WriteError(w, h.logger, api.CodeBadRequest, "orderId is required")
		return
	}

	deleted, err := h.storage.DeleteOrder(ctx, orderID, h.now().UTC())
	switch {
	case errors.Is(err, storage.ErrOrderNotFound):
		WriteError(w, h.logger, api.CodeNotFound, "order not found")
		return
	case errors.Is(err, storage.ErrOrderDeleted):
		WriteError(w, h.logger, api.CodeBadRequest, "order already deleted")
		return
	case err != nil:
		h.logger.ErrorContext(ctx, "failed to delete order", slog.Any("error", err))
		WriteError(w, h.logger, api.CodeInternal, "internal server error")
		return
	}

	h.logger.InfoContext(ctx, "order deleted", slog.String("order", deleted.ID.String()))
	WriteData(w, h.logger, deleted)
}

// validExpiry пустая строка допустима
func validExpiry(s string) bool {
	if s == "" {
		return true
	}
	_, ok := records.ParseTimestamp(s)
	return ok
}
