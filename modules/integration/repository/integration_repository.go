package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"meetly/core/database"
	"meetly/core/logger"
	"meetly/modules/integration/entity"
)

const integrationColumns = `id, user_id, provider, access_token, refresh_token, expires_at, email, created_at, updated_at`

type IntegrationRepositoryInterface interface {
	Upsert(ctx context.Context, integration *entity.Integration) (*entity.Integration, error)
	GetByUserAndProvider(ctx context.Context, userID uuid.UUID, provider entity.Provider) (*entity.Integration, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Integration, error)
	UpdateTokens(ctx context.Context, integration *entity.Integration) error
	Delete(ctx context.Context, userID uuid.UUID, provider entity.Provider) error
}

type IntegrationRepository struct {
	DB database.Database
}

func NewIntegrationRepository(db database.Database) *IntegrationRepository {
	return &IntegrationRepository{DB: db}
}

// Upsert inserts the connection or, when the user reconnects the same
// provider, replaces the stored tokens and account email.
func (r *IntegrationRepository) Upsert(ctx context.Context, integration *entity.Integration) (*entity.Integration, error) {
	query := `
		INSERT INTO integrations (user_id, provider, access_token, refresh_token, expires_at, email)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, provider) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			expires_at = EXCLUDED.expires_at,
			email = EXCLUDED.email,
			updated_at = NOW()
		RETURNING ` + integrationColumns

	var saved entity.Integration
	err := r.DB.GetContext(ctx, &saved, query,
		integration.UserID,
		integration.Provider,
		integration.AccessToken,
		integration.RefreshToken,
		integration.ExpiresAt,
		integration.Email,
	)
	if err != nil {
		logger.Error("IntegrationRepository:Upsert", "user_id", integration.UserID, "error", err)
		return nil, err
	}
	return &saved, nil
}

func (r *IntegrationRepository) GetByUserAndProvider(ctx context.Context, userID uuid.UUID, provider entity.Provider) (*entity.Integration, error) {
	query := `SELECT ` + integrationColumns + ` FROM integrations WHERE user_id = $1 AND provider = $2`

	var integration entity.Integration
	err := r.DB.GetContext(ctx, &integration, query, userID, provider)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("IntegrationRepository:GetByUserAndProvider", "user_id", userID, "error", err)
		return nil, err
	}
	return &integration, nil
}

func (r *IntegrationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Integration, error) {
	query := `SELECT ` + integrationColumns + ` FROM integrations WHERE user_id = $1 ORDER BY created_at`

	integrations := []entity.Integration{}
	if err := r.DB.SelectContext(ctx, &integrations, query, userID); err != nil {
		logger.Error("IntegrationRepository:ListByUser", "user_id", userID, "error", err)
		return nil, err
	}
	return integrations, nil
}

// UpdateTokens persists refreshed credentials after a token renewal.
func (r *IntegrationRepository) UpdateTokens(ctx context.Context, integration *entity.Integration) error {
	query := `
		UPDATE integrations
		SET access_token = $3, refresh_token = $4, expires_at = $5, updated_at = NOW()
		WHERE user_id = $1 AND provider = $2`

	err := r.DB.ExecContext(ctx, query,
		integration.UserID,
		integration.Provider,
		integration.AccessToken,
		integration.RefreshToken,
		integration.ExpiresAt,
	)
	if err != nil {
		logger.Error("IntegrationRepository:UpdateTokens", "user_id", integration.UserID, "error", err)
		return err
	}
	return nil
}

func (r *IntegrationRepository) Delete(ctx context.Context, userID uuid.UUID, provider entity.Provider) error {
	query := `DELETE FROM integrations WHERE user_id = $1 AND provider = $2`
	if err := r.DB.ExecContext(ctx, query, userID, provider); err != nil {
		logger.Error("IntegrationRepository:Delete", "user_id", userID, "error", err)
		return err
	}
	return nil
}
