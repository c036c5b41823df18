package repository

import (
	"context"
	"database/sql"
	"fmt"

	"contesthub/internal/domain/model"
)

type SubmissionRepository interface {
	Create(ctx context.Context, submission *model.Submission) error
	ListByContest(ctx context.Context, contestID string) ([]model.Submission, error)
	ListByParticipantEmail(ctx context.Context, email string) ([]model.Submission, error)
	ExistsForContestUser(ctx context.Context, contestID, userID string) (bool, error)
}

type pgSubmissionRepository struct {
	db *sql.DB
}

func NewPgSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &pgSubmissionRepository{db: db}
}

func (r *pgSubmissionRepository) Create(ctx context.Context, s *model.Submission) error {
	query := `INSERT INTO submissions (id, contest_id, user_id, participant_email, participant_name, task_url, date)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.ContestID, s.UserID, s.ParticipantEmail, s.ParticipantName, s.TaskURL, s.Date)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.Create: %w", err)
	}
	return nil
}

func (r *pgSubmissionRepository) ListByContest(ctx context.Context, contestID string) ([]model.Submission, error) {
	query := `SELECT id, contest_id, user_id, participant_email, participant_name, task_url, date
	          FROM submissions WHERE contest_id = $1 ORDER BY date DESC`
	return r.list(ctx, query, contestID)
}

func (r *pgSubmissionRepository) ListByParticipantEmail(ctx context.Context, email string) ([]model.Submission, error) {
	query := `SELECT id, contest_id, user_id, participant_email, participant_name, task_url, date
	          FROM submissions WHERE participant_email = $1 ORDER BY date DESC`
	return r.list(ctx, query, email)
}

func (r *pgSubmissionRepository) ExistsForContestUser(ctx context.Context, contestID, userID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM submissions WHERE contest_id = $1 AND user_id = $2)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, contestID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("pgSubmissionRepository.ExistsForContestUser: %w", err)
	}
	return exists, nil
}

func (r *pgSubmissionRepository) list(ctx context.Context, query string, arg interface{}) ([]model.Submission, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository list: %w", err)
	}
	defer rows.Close()

	submissions := []model.Submission{}
	for rows.Next() {
		var s model.Submission
		if err := rows.Scan(&s.ID, &s.ContestID, &s.UserID, &s.ParticipantEmail, &s.ParticipantName, &s.TaskURL, &s.Date); err != nil {
			return nil, fmt.Errorf("pgSubmissionRepository list scan: %w", err)
		}
		submissions = append(submissions, s)
	}
	return submissions, rows.Err()
}
