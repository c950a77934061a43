package postgres

import (
	"context"
	"fmt"

	"offplan-service/internal/contextkeys"
	"offplan-service/internal/core/domain"
	"offplan-service/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var agentUsername = &uniqueKey{entity: "agent", field: "username"}

// AgentRepository - реализация AgentRepositoryPort для PostgreSQL.
type AgentRepository struct {
	pool *pgxpool.Pool
}

func NewAgentRepository(pool *pgxpool.Pool) (*AgentRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &AgentRepository{pool: pool}, nil
}

const agentColumns = `id, username, name, email, whatsapp_number, phone_number, profile_image_url,
	introduction_video_url, description, years_of_experience, total_business_deals,
	rank_top_performing, fa_name, fa_description, created_at`

func scanAgent(row pgx.Row) (*domain.Agent, error) {
	var a domain.Agent
	err := row.Scan(
		&a.ID, &a.Username, &a.Name, &a.Email, &a.WhatsappNumber, &a.PhoneNumber, &a.ProfileImageURL,
		&a.IntroductionVideoURL, &a.Description, &a.YearsOfExperience, &a.TotalBusinessDeals,
		&a.RankTopPerforming, &a.FaName, &a.FaDescription, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create создает профиль и проставляет agent.ID
func (r *AgentRepository) Create(ctx context.Context, agent *domain.Agent) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "AgentRepository",
		"method":    "Create",
		"username":  agent.Username,
	})

	query := `
		INSERT INTO agent_details (
			username, name, email, whatsapp_number, phone_number, profile_image_url,
			introduction_video_url, description, years_of_experience, total_business_deals,
			rank_top_performing, fa_name, fa_description, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`

	err := r.pool.QueryRow(ctx, query,
		agent.Username, agent.Name, agent.Email, agent.WhatsappNumber, agent.PhoneNumber, agent.ProfileImageURL,
		agent.IntroductionVideoURL, agent.Description, agent.YearsOfExperience, agent.TotalBusinessDeals,
		agent.RankTopPerforming, agent.FaName, agent.FaDescription, agent.CreatedAt,
	).Scan(&agent.ID)
	if err != nil {
		repoLogger.Error("Failed to create agent", err, nil)
		return mapError(err, agentUsername)
	}

	repoLogger.Debug("Agent created successfully.", port.Fields{"agent_id": agent.ID})
	return nil
}

func (r *AgentRepository) Update(ctx context.Context, agent *domain.Agent) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE agent_details SET
			username = $2, name = $3, email = $4, whatsapp_number = $5, phone_number = $6,
			profile_image_url = $7, introduction_video_url = $8, description = $9,
			years_of_experience = $10, total_business_deals = $11, rank_top_performing = $12,
			fa_name = $13, fa_description = $14
		WHERE id = $1`,
		agent.ID, agent.Username, agent.Name, agent.Email, agent.WhatsappNumber, agent.PhoneNumber,
		agent.ProfileImageURL, agent.IntroductionVideoURL, agent.Description,
		agent.YearsOfExperience, agent.TotalBusinessDeals, agent.RankTopPerforming,
		agent.FaName, agent.FaDescription,
	)
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Error("Failed to update agent", err, port.Fields{
			"component": "AgentRepository",
			"agent_id":  agent.ID,
		})
		return mapError(err, agentUsername)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AgentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM agent_details WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete agent %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID возвращает domain.ErrNotFound, если профиля нет
func (r *AgentRepository) GetByID(ctx context.Context, id int64) (*domain.Agent, error) {
	agent, err := scanAgent(r.pool.QueryRow(ctx, "SELECT "+agentColumns+" FROM agent_details WHERE id = $1", id))
	if err != nil {
		return nil, mapError(err, nil)
	}
	return agent, nil
}

func (r *AgentRepository) GetByUsername(ctx context.Context, username string) (*domain.Agent, error) {
	agent, err := scanAgent(r.pool.QueryRow(ctx, "SELECT "+agentColumns+" FROM agent_details WHERE username = $1", username))
	if err != nil {
		return nil, mapError(err, nil)
	}
	return agent, nil
}

func (r *AgentRepository) List(ctx context.Context) ([]domain.Agent, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+agentColumns+" FROM agent_details ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	agents, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Agent, error) {
		a, err := scanAgent(row)
		if err != nil {
			return domain.Agent{}, err
		}
		return *a, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan agents: %w", err)
	}
	return agents, nil
}

var _ port.AgentRepositoryPort = (*AgentRepository)(nil)
