package usecases_port

import (
	"context"
	"offplan-service/internal/core/domain"
)

type RegisterAgentUseCase interface {
	// Execute возвращает created=true, если профиль был создан
	Execute(ctx context.Context, changes domain.AgentChanges) (agent *domain.Agent, created bool, err error)
}

type UpdateAgentUseCase interface {
	Execute(ctx context.Context, id int64, changes domain.AgentChanges) (*domain.Agent, error)
}

type DeleteAgentUseCase interface {
	Execute(ctx context.Context, id int64) error
}

type GetAgentUseCase interface {
	ByID(ctx context.Context, id int64) (*domain.Agent, error)
	ByUsername(ctx context.Context, username string) (*domain.Agent, error)
}

type ListAgentsUseCase interface {
	Execute(ctx context.Context) ([]domain.Agent, error)
}
