package tenant

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fitscope/fitscope/pkg/scoring"
)

// ScoreRow represents a persisted score record.
type ScoreRow struct {
	ID              string
	TenantID        string
	AppKey          string
	SystemSlug      string
	TotalScore      int
	Breakdown       json.RawMessage
	Explain         json.RawMessage
	Recommendations json.RawMessage
	Badges          json.RawMessage
	CreatedAt       time.Time
}

// StoreScore persists a computed compatibility score for later history
// queries. Scoring itself never writes; this is the calling layer's
// concern and it is best effort from the API's point of view.
func (s *Service) StoreScore(ctx context.Context, tenantID string, score *scoring.CompatibilityScore) (string, error) {
	breakdown, err := json.Marshal(score.Breakdown)
	if err != nil {
		return "", fmt.Errorf("marshal breakdown: %w", err)
	}
	explain, err := json.Marshal(score.Explain)
	if err != nil {
		return "", fmt.Errorf("marshal explain: %w", err)
	}
	recommendations, err := json.Marshal(score.Recommendations)
	if err != nil {
		return "", fmt.Errorf("marshal recommendations: %w", err)
	}
	badges, err := json.Marshal(score.Badges)
	if err != nil {
		return "", fmt.Errorf("marshal badges: %w", err)
	}

	var id string
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO scores (tenant_id, app_key, system_slug, total_score, breakdown, explain, recommendations, badges)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		tenantID, score.AppKey, score.SystemSlug, score.TotalScore, breakdown, explain, recommendations, badges,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("store score %s/%s: %w", score.AppKey, score.SystemSlug, err)
	}
	return id, nil
}

// ListScoresByApp returns persisted scores for an app, newest first.
func (s *Service) ListScoresByApp(ctx context.Context, tenantID, appKey string, limit int) ([]ScoreRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tenant_id, app_key, system_slug, total_score, breakdown, explain, recommendations, badges, created_at
		 FROM scores WHERE tenant_id = $1 AND app_key = $2
		 ORDER BY created_at DESC LIMIT $3`,
		tenantID, appKey, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	defer rows.Close()

	var scores []ScoreRow
	for rows.Next() {
		var sc ScoreRow
		if err := rows.Scan(
			&sc.ID, &sc.TenantID, &sc.AppKey, &sc.SystemSlug, &sc.TotalScore,
			&sc.Breakdown, &sc.Explain, &sc.Recommendations, &sc.Badges, &sc.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		scores = append(scores, sc)
	}
	return scores, rows.Err()
}

// GetScoreByID returns a single persisted score.
func (s *Service) GetScoreByID(ctx context.Context, scoreID string) (*ScoreRow, error) {
	sc := &ScoreRow{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, tenant_id, app_key, system_slug, total_score, breakdown, explain, recommendations, badges, created_at
		 FROM scores WHERE id = $1`,
		scoreID,
	).Scan(
		&sc.ID, &sc.TenantID, &sc.AppKey, &sc.SystemSlug, &sc.TotalScore,
		&sc.Breakdown, &sc.Explain, &sc.Recommendations, &sc.Badges, &sc.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get score %s: %w", scoreID, err)
	}
	return sc, nil
}
