package port

import (
	"context"
	"offplan-service/internal/core/domain"
)

type AgentRepositoryPort interface {
	Create(ctx context.Context, agent *domain.Agent) error
	Update(ctx context.Context, agent *domain.Agent) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Agent, error)
	GetByUsername(ctx context.Context, username string) (*domain.Agent, error)
	List(ctx context.Context) ([]domain.Agent, error)
}
