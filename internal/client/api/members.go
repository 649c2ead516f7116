package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/iudanet/gophadmin/internal/client/resolver"
	"github.com/iudanet/gophadmin/internal/models"
	"github.com/iudanet/gophadmin/internal/validation"
	"github.com/iudanet/gophadmin/pkg/api"
)

// ListMembers возвращает всех участников
func (c *Client) ListMembers(ctx context.Context) ([]models.Member, error) {
	res, err := c.read(ctx, "/user/getAll", nil)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	members, err := resolver.DecodeData[[]models.Member](res)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

// CreateMember создает участника с именем name
func (c *Client) CreateMember(ctx context.Context, name string) (*models.Member, error) {
	name, err := validation.MemberName(name)
	if err != nil {
		return nil, err
	}

	res, err := c.write(ctx, "POST", "/user/save", api.CreateMemberRequest{Name: name})
	if err != nil {
		return nil, fmt.Errorf("create member: %w", err)
	}
	return decodeOne[models.Member](res, "create member")
}

// UpdateMember переименовывает участника
func (c *Client) UpdateMember(ctx context.Context, id, name string) (*models.Member, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: member id cannot be empty", validation.ErrInvalid)
	}
	name, err := validation.MemberName(name)
	if err != nil {
		return nil, err
	}

	res, err := c.write(ctx, "POST", "/user/update", api.UpdateMemberRequest{ID: id, Name: name})
	if err != nil {
		return nil, fmt.Errorf("update member: %w", err)
	}
	return decodeOne[models.Member](res, "update member")
}

// DeleteMember удаляет участника
func (c *Client) DeleteMember(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: member id cannot be empty", validation.ErrInvalid)
	}
	if _, err := c.write(ctx, "DELETE", "/user/delete/"+url.PathEscape(id), nil); err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	return nil
}

// decodeOne раскладывает data в *T; пустые данные считаются неожиданным ответом
func decodeOne[T any](res *resolver.Result, op string) (*T, error) {
	v, err := resolver.DecodeData[*T](res)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if v == nil {
		return nil, fmt.Errorf("%s: %w", op, &resolver.FormatError{
			Endpoint: res.Endpoint,
			Err:      fmt.Errorf("response has no data"),
		})
	}
	return v, nil
}
