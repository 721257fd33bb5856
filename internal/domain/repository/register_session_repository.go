package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/duka-pos/internal/domain/entity"
	"github.com/sangkips/duka-pos/pkg/pagination"
)

// ErrOpenSessionExists is returned by Create when the shop already has an open session
var ErrOpenSessionExists = errors.New("register session already open for shop")

// RegisterSessionRepository defines the interface for register session data operations
type RegisterSessionRepository interface {
	// Create inserts a new open session. A second open session for the same shop
	// violates a unique index and fails with ErrOpenSessionExists.
	Create(ctx context.Context, session *entity.RegisterSession) error
	GetByID(ctx context.Context, shopID, id uuid.UUID) (*entity.RegisterSession, error)
	// GetOpen returns the shop's open session, or nil
	GetOpen(ctx context.Context, shopID uuid.UUID) (*entity.RegisterSession, error)
	// TouchOpen bumps updated_at on the session only while it is still open, taking the row
	// lock for the rest of the transaction.
	TouchOpen(ctx context.Context, shopID, id uuid.UUID) (bool, error)
	// MarkClosed stamps closed_at/closed_by only while the session is still open.
	MarkClosed(ctx context.Context, shopID, id, closedBy uuid.UUID, closedAt time.Time) (bool, error)
	// SaveReconciliation writes the closing figures of a closed session
	SaveReconciliation(ctx context.Context, session *entity.RegisterSession) error
	List(ctx context.Context, shopID uuid.UUID, params *pagination.PaginationParams) ([]entity.RegisterSession, int64, error)
}
