package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/gophadmin/internal/models"
	"github.com/iudanet/gophadmin/internal/server/storage"
)

// ListMembers returns all members ordered by creation time
func (s *Storage) ListMembers(ctx context.Context) ([]models.Member, error) {
	query := `
		SELECT id, name, created_at
		FROM members
		ORDER BY created_at, id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	members := make([]models.Member, 0)
	for rows.Next() {
		var (
			m         models.Member
			createdAt int64
		)
		if err := rows.Scan(&m.ID, &m.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		m.CreatedAt = time.Unix(createdAt, 0).UTC()
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return members, nil
}

// CreateMember stores a new member
func (s *Storage) CreateMember(ctx context.Context, member *models.Member) error {
	query := `INSERT INTO members (id, name, created_at) VALUES (?, ?, ?)`

	if _, err := s.db.ExecContext(ctx, query, member.ID, member.Name, member.CreatedAt.Unix()); err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

// UpdateMember renames a member
func (s *Storage) UpdateMember(ctx context.Context, member *models.Member) error {
	query := `UPDATE members SET name = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, member.Name, member.ID)
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return storage.ErrMemberNotFound
	}

	return nil
}

// DeleteMember deletes member by ID
func (s *Storage) DeleteMember(ctx context.Context, id string) error {
	query := `DELETE FROM members WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return storage.ErrMemberNotFound
	}

	return nil
}
