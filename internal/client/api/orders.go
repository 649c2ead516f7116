package api

import (
	"cmp"
	"context"
	"fmt"
	"net/url"
	"slices"

	"github.com/iudanet/gophadmin/internal/client/resolver"
	"github.com/iudanet/gophadmin/internal/models"
	"github.com/iudanet/gophadmin/internal/records"
	"github.com/iudanet/gophadmin/internal/validation"
	"github.com/iudanet/gophadmin/pkg/api"
)

// DefaultStartDate начало диапазона заказов по умолчанию
const DefaultStartDate = "2023-01-01"

// ReplicaFailure сбой одной реплики при сборе заказов со всех серверов
type ReplicaFailure struct {
	Err      error
	Server   string
	Endpoint string
}

// Collection заказы, собранные со всех реплик
type Collection struct {
	Orders   []models.Order
	Failures []ReplicaFailure
}

// DateRange возвращает диапазон дат с подставленными значениями по умолчанию
// и проверяет его
func (c *Client) DateRange(start, end string) (string, string, error) {
	if start == "" {
		start = DefaultStartDate
	}
	if end == "" {
		end = c.now().Format(validation.DateLayout)
	}
	if err := validation.DateRange(start, end); err != nil {
		return "", "", err
	}
	return start, end, nil
}

func rangeQuery(start, end string) url.Values {
	q := url.Values{}
	q.Set("startDate", start)
	q.Set("endDate", end)
	return q
}

func orderTime(o models.Order) string {
	return o.CreateTime
}

// byVersionDesc возвращает копию, в которой более поздние версии идут первыми
func byVersionDesc(orders []models.Order) []models.Order {
	out := slices.Clone(orders)
	slices.SortStableFunc(out, func(a, b models.Order) int {
		return cmp.Compare(b.ID.Version, a.ID.Version)
	})
	return out
}

// newestFirst упорядочивает заказы от новых к старым. createTime хранится
// с точностью до секунды, при равном времени первой идет более поздняя версия.
func newestFirst(orders []models.Order) []models.Order {
	return records.SortByTimestampDescending(byVersionDesc(orders), orderTime)
}

// FindOrders возвращает версии заказов, созданные в диапазоне дат,
// от новых к старым
func (c *Client) FindOrders(ctx context.Context, start, end string) ([]models.Order, error) {
	start, end, err := c.DateRange(start, end)
	if err != nil {
		return nil, err
	}

	res, err := c.read(ctx, "/order/findRange", rangeQuery(start, end))
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	orders, err := resolver.DecodeData[[]models.Order](res)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	return newestFirst(orders), nil
}

// CollectOrders опрашивает все реплики одновременно, помечает заказы меткой
// сервера и сливает их в порядке реплик. Ошибка возвращается, только если отказали все реплики.
func (c *Client) CollectOrders(ctx context.Context, start, end string) (*Collection, error) {
	start, end, err := c.DateRange(start, end)
	if err != nil {
		return nil, err
	}

	uri := target("/order/findRange", rangeQuery(start, end))
	outcomes := c.resolver.Each(ctx, c.readBuilder(uri))

	var (
		batches []records.Batch[models.Order]
		errs    []error
		out     = &Collection{}
	)
	for _, o := range outcomes {
		label := records.ServerLabel(o.Index)
		err := o.Err
		if err == nil {
			var orders []models.Order
			orders, err = resolver.DecodeData[[]models.Order](o.Result)
			if err == nil {
				batches = append(batches, records.Batch[models.Order]{Label: label, Records: byVersionDesc(orders)})
				continue
			}
		}
		errs = append(errs, err)
		out.Failures = append(out.Failures, ReplicaFailure{Server: label, Endpoint: o.Endpoint, Err: err})
	}

	if len(batches) == 0 {
		if len(errs) == 0 {
			return nil, resolver.ErrNoEndpoints
		}
		return nil, fmt.Errorf("collect orders: %w", errorsAll(errs))
	}

	out.Orders = records.Merge(batches, func(o *models.Order, label string) { o.Server = label }, orderTime)
	return out, nil
}

// OrderHistory возвращает все версии одного заказа, от новых к старым
func (c *Client) OrderHistory(ctx context.Context, orderID string) ([]models.Order, error) {
	if orderID == "" {
		return nil, fmt.Errorf("%w: order id cannot be empty", validation.ErrInvalid)
	}
	q := url.Values{}
	q.Set("orderId", orderID)

	res, err := c.read(ctx, "/order/history", q)
	if err != nil {
		return nil, fmt.Errorf("order history: %w", err)
	}
	versions, err := resolver.DecodeData[[]models.Order](res)
	if err != nil {
		return nil, fmt.Errorf("order history: %w", err)
	}
	return newestFirst(versions), nil
}

// CreateOrder создает заказ
func (c *Client) CreateOrder(ctx context.Context, req api.CreateOrderRequest) (*models.Order, error) {
	if req.MemberID == "" {
		return nil, fmt.Errorf("%w: member id cannot be empty", validation.ErrInvalid)
	}
	if err := validation.Price(req.Price); err != nil {
		return nil, err
	}
	if req.ExpiredAt != "" {
		if _, ok := records.ParseTimestamp(req.ExpiredAt); !ok {
			return nil, fmt.Errorf("%w: expiredAt %q is not a timestamp", validation.ErrInvalid, req.ExpiredAt)
		}
	}

	res, err := c.write(ctx, "POST", "/order/save", req)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return decodeOne[models.Order](res, "create order")
}

// UpdateOrder отправляет измененную версию заказа. Сервер сохраняет ее
// как новую версию и возвращает.
func (c *Client) UpdateOrder(ctx context.Context, order models.Order) (*models.Order, error) {
	if order.ID.OrderID == "" {
		return nil, fmt.Errorf("%w: order id cannot be empty", validation.ErrInvalid)
	}
	if err := validation.Flag("isPaid", order.IsPaid); err != nil {
		return nil, err
	}
	if err := validation.Flag("isDeleted", order.IsDeleted); err != nil {
		return nil, err
	}
	if err := validation.Price(order.Price); err != nil {
		return nil, err
	}
	// Метка сервера только клиентская
	order.Server = ""

	res, err := c.write(ctx, "POST", "/order/update", order)
	if err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	return decodeOne[models.Order](res, "update order")
}

// DeleteOrder помечает заказ удаленным
func (c *Client) DeleteOrder(ctx context.Context, orderID string) error {
	if orderID == "" {
		return fmt.Errorf("%w: order id cannot be empty", validation.ErrInvalid)
	}
	if _, err := c.write(ctx, "DELETE", "/order/delete/"+url.PathEscape(orderID), nil); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}
