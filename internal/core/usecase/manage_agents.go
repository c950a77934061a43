package usecase

import (
	"context"
	"errors"
	"fmt"
	"offplan-service/internal/contextkeys"
	"offplan-service/internal/core/domain"
	"offplan-service/internal/core/port"
	"strings"
	"time"
)

// RegisterAgentUseCase создает профиль агента или обновляет существующий по username
type RegisterAgentUseCase struct {
	repo port.AgentRepositoryPort
}

func NewRegisterAgentUseCase(repo port.AgentRepositoryPort) *RegisterAgentUseCase {
	return &RegisterAgentUseCase{repo: repo}
}

func (uc *RegisterAgentUseCase) Execute(ctx context.Context, changes domain.AgentChanges) (*domain.Agent, bool, error) {
	logger := contextkeys.LoggerFromContext(ctx)

	if changes.Username == nil || strings.TrimSpace(*changes.Username) == "" {
		return nil, false, domain.NewFieldError("username", "This field is required.")
	}
	username := strings.TrimSpace(*changes.Username)
	changes.Username = &username

	ucLogger := logger.WithFields(port.Fields{
		"use_case": "RegisterAgent",
		"username": username,
	})

	existing, err := uc.repo.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		ucLogger.Error("Failed to look up agent", err, nil)
		return nil, false, err
	}

	if existing != nil {
		changes.Apply(existing)
		if err := uc.repo.Update(ctx, existing); err != nil {
			ucLogger.Error("Failed to update agent", err, nil)
			return nil, false, err
		}
		ucLogger.Info("Agent updated", port.Fields{"agent_id": existing.ID})
		return existing, false, nil
	}

	agent := &domain.Agent{CreatedAt: time.Now().UTC()}
	changes.Apply(agent)
	if err := uc.repo.Create(ctx, agent); err != nil {
		ucLogger.Error("Failed to create agent", err, nil)
		return nil, false, err
	}
	ucLogger.Info("Agent registered", port.Fields{"agent_id": agent.ID})
	return agent, true, nil
}

type UpdateAgentUseCase struct {
	repo port.AgentRepositoryPort
}

func NewUpdateAgentUseCase(repo port.AgentRepositoryPort) *UpdateAgentUseCase {
	return &UpdateAgentUseCase{repo: repo}
}

func (uc *UpdateAgentUseCase) Execute(ctx context.Context, id int64, changes domain.AgentChanges) (*domain.Agent, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "UpdateAgent", "agent_id": id})

	if changes.Username != nil && strings.TrimSpace(*changes.Username) == "" {
		return nil, domain.NewFieldError("username", "This field may not be blank.")
	}

	agent, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes.Apply(agent)
	if err := uc.repo.Update(ctx, agent); err != nil {
		ucLogger.Error("Failed to update agent", err, nil)
		return nil, fmt.Errorf("failed to update agent %d: %w", id, err)
	}
	ucLogger.Info("Agent updated", nil)
	return agent, nil
}

type DeleteAgentUseCase struct {
	repo port.AgentRepositoryPort
}

func NewDeleteAgentUseCase(repo port.AgentRepositoryPort) *DeleteAgentUseCase {
	return &DeleteAgentUseCase{repo: repo}
}

func (uc *DeleteAgentUseCase) Execute(ctx context.Context, id int64) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	contextkeys.LoggerFromContext(ctx).Info("Agent deleted", port.Fields{"use_case": "DeleteAgent", "agent_id": id})
	return nil
}

type GetAgentUseCase struct {
	repo port.AgentRepositoryPort
}

func NewGetAgentUseCase(repo port.AgentRepositoryPort) *GetAgentUseCase {
	return &GetAgentUseCase{repo: repo}
}

func (uc *GetAgentUseCase) ByID(ctx context.Context, id int64) (*domain.Agent, error) {
	return uc.repo.GetByID(ctx, id)
}

func (uc *GetAgentUseCase) ByUsername(ctx context.Context, username string) (*domain.Agent, error) {
	return uc.repo.GetByUsername(ctx, username)
}

type ListAgentsUseCase struct {
	repo port.AgentRepositoryPort
}

func NewListAgentsUseCase(repo port.AgentRepositoryPort) *ListAgentsUseCase {
	return &ListAgentsUseCase{repo: repo}
}

func (uc *ListAgentsUseCase) Execute(ctx context.Context) ([]domain.Agent, error) {
	return uc.repo.List(ctx)
}
