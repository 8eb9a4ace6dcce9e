package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"career-advisor/internal/domain"
)

// AssessmentRepository persiste resultados OCEAN y sus recomendaciones.
type AssessmentRepository interface {
	Create(ctx context.Context, result domain.AssessmentResult) error
	GetLatestByUserID(ctx context.Context, userID string) (domain.AssessmentResult, error)
	ListByUserID(ctx context.Context, userID string) ([]domain.AssessmentResult, error)
	CountByUserID(ctx context.Context, userID string) (int, error)
}

type PgAssessmentRepository struct {
	pool *pgxpool.Pool
}

func NewPgAssessmentRepository(pool *pgxpool.Pool) *PgAssessmentRepository {
	return &PgAssessmentRepository{pool: pool}
}

// Create inserta el resultado y sus recomendaciones en una sola transaccion.
func (r *PgAssessmentRepository) Create(ctx context.Context, result domain.AssessmentResult) error {
	interpretation, err := json.Marshal(result.Interpretation)
	if err != nil {
		return fmt.Errorf("marshal interpretation: %w", err)
	}
	var elaboration []byte
	if result.Elaboration != nil {
		if elaboration, err = json.Marshal(result.Elaboration); err != nil {
			return fmt.Errorf("marshal elaboration: %w", err)
		}
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const insertResult = `
		INSERT INTO assessment_results (
			id, user_id, openness, conscientiousness, extraversion, agreeableness, neuroticism,
			interpretation, elaboration, answer_count, strategy, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	s := result.Scores
	if _, err := tx.Exec(ctx, insertResult,
		result.ID,
		result.UserID,
		s.Openness,
		s.Conscientiousness,
		s.Extraversion,
		s.Agreeableness,
		s.Neuroticism,
		interpretation,
		elaboration,
		result.AnswerCount,
		result.Strategy,
		result.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert assessment: %w", err)
	}

	const insertRecommendation = `
		INSERT INTO career_recommendations (id, assessment_id, rank, field, confidence)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, rec := range result.Recommendations {
		var confidence interface{}
		if rec.Confidence != nil {
			confidence = *rec.Confidence
		}
		if _, err := tx.Exec(ctx, insertRecommendation, rec.ID, result.ID, rec.Rank, rec.Field, confidence); err != nil {
			return fmt.Errorf("insert recommendation: %w", err)
		}
	}

	return tx.Commit(ctx)
}

const selectAssessment = `
	SELECT id, user_id, openness, conscientiousness, extraversion, agreeableness, neuroticism,
		interpretation, elaboration, answer_count, strategy, created_at
	FROM assessment_results
`

func (r *PgAssessmentRepository) GetLatestByUserID(ctx context.Context, userID string) (domain.AssessmentResult, error) {
	row := r.pool.QueryRow(ctx, selectAssessment+` WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1`, userID)
	result, err := scanAssessment(row)
	if err != nil {
		return domain.AssessmentResult{}, err
	}
	recs, err := r.listRecommendations(ctx, result.ID)
	if err != nil {
		return domain.AssessmentResult{}, err
	}
	result.Recommendations = recs
	return result, nil
}

func (r *PgAssessmentRepository) ListByUserID(ctx context.Context, userID string) ([]domain.AssessmentResult, error) {
	rows, err := r.pool.Query(ctx, selectAssessment+` WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []domain.AssessmentResult{}
	for rows.Next() {
		result, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range results {
		recs, err := r.listRecommendations(ctx, results[i].ID)
		if err != nil {
			return nil, err
		}
		results[i].Recommendations = recs
	}
	return results, nil
}

func (r *PgAssessmentRepository) CountByUserID(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM assessment_results WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}

func (r *PgAssessmentRepository) listRecommendations(ctx context.Context, assessmentID string) ([]domain.CareerRecommendation, error) {
	const query = `
		SELECT id, assessment_id, rank, field, confidence
		FROM career_recommendations
		WHERE assessment_id = $1
		ORDER BY rank
	`
	rows, err := r.pool.Query(ctx, query, assessmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recs := []domain.CareerRecommendation{}
	for rows.Next() {
		var rec domain.CareerRecommendation
		var confidence sql.NullFloat64
		if err := rows.Scan(&rec.ID, &rec.AssessmentID, &rec.Rank, &rec.Field, &confidence); err != nil {
			return nil, err
		}
		if confidence.Valid {
			val := confidence.Float64
			rec.Confidence = &val
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func scanAssessment(row pgx.Row) (domain.AssessmentResult, error) {
	var (
		result         domain.AssessmentResult
		interpretation []byte
		elaboration    []byte
	)
	err := row.Scan(
		&result.ID,
		&result.UserID,
		&result.Scores.Openness,
		&result.Scores.Conscientiousness,
		&result.Scores.Extraversion,
		&result.Scores.Agreeableness,
		&result.Scores.Neuroticism,
		&interpretation,
		&elaboration,
		&result.AnswerCount,
		&result.Strategy,
		&result.CreatedAt,
	)
	if err != nil {
		return domain.AssessmentResult{}, err
	}
	if err := json.Unmarshal(interpretation, &result.Interpretation); err != nil {
		return domain.AssessmentResult{}, fmt.Errorf("unmarshal interpretation: %w", err)
	}
	if len(elaboration) > 0 {
		var e domain.CareerElaboration
		if err := json.Unmarshal(elaboration, &e); err != nil {
			return domain.AssessmentResult{}, fmt.Errorf("unmarshal elaboration: %w", err)
		}
		result.Elaboration = &e
	}
	return result, nil
}
