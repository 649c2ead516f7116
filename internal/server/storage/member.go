package storage

import (
	"context"

	"github.com/iudanet/gophadmin/internal/models"
)

// MemberStorage defines interface for member persistence
type MemberStorage interface {
	// ListMembers returns all members ordered by creation time
	// Returns empty slice if no members found
	ListMembers(ctx context.Context) ([]models.Member, error)

	// CreateMember stores a new member
	CreateMember(ctx context.Context, member *models.Member) error

	// UpdateMember renames a member
	// Returns ErrMemberNotFound if member doesn't exist
	UpdateMember(ctx context.Context, member *models.Member) error

	// DeleteMember deletes member by ID
	// Returns ErrMemberNotFound if member doesn't exist
	DeleteMember(ctx context.Context, id string) error
}
