package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"contesthub/internal/common"
	"contesthub/internal/domain/model"

	"github.com/lib/pq"
)

// ContestFilter narrows public contest listings. Search is a
// case-insensitive substring match on the category tag, Type an exact match.
type ContestFilter struct {
	Search string
	Type   string
}

type ContestRepository interface {
	Create(ctx context.Context, contest *model.Contest) error
	FindByID(ctx context.Context, id string) (*model.Contest, error)
	ListApproved(ctx context.Context, filter ContestFilter, limit, offset int) ([]model.Contest, int, error)
	ListPopular(ctx context.Context, limit int) ([]model.Contest, error)
	ListByCreator(ctx context.Context, creatorEmail string) ([]model.Contest, error)
	ListByWinner(ctx context.Context, winnerID string) ([]model.Contest, error)
	ListAll(ctx context.Context) ([]model.Contest, error)
	Update(ctx context.Context, contest *model.Contest) error
	UpdateStatus(ctx context.Context, id string, status model.ContestStatus) error
	SetWinner(ctx context.Context, id, winnerID string) error
	Delete(ctx context.Context, id string) error
	WinCounts(ctx context.Context) ([]model.LeaderboardEntry, error)
}

type pgContestRepository struct {
	db *sql.DB
}

func NewPgContestRepository(db *sql.DB) ContestRepository {
	return &pgContestRepository{db: db}
}

const contestColumns = `id, name, slug, image, description, price, prize, task_instruction, type, tags,
	deadline, creator_name, creator_email, creator_image, status, participation_count, winner_id,
	created_at, updated_at`

func scanContest(row interface{ Scan(...interface{}) error }) (*model.Contest, error) {
	c := &model.Contest{}
	var tags pq.StringArray
	err := row.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Image, &c.Description, &c.Price, &c.Prize,
		&c.TaskInstruction, &c.Type, &tags, &c.Deadline,
		&c.Creator.Name, &c.Creator.Email, &c.Creator.Image,
		&c.Status, &c.ParticipationCount, &c.WinnerID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Tags = []string(tags)
	return c, nil
}

func (r *pgContestRepository) Create(ctx context.Context, c *model.Contest) error {
	query := `INSERT INTO contests (id, name, slug, image, description, price, prize, task_instruction,
	              type, tags, deadline, creator_name, creator_email, creator_image, status, participation_count)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Slug, c.Image, c.Description, c.Price, c.Prize, c.TaskInstruction,
		c.Type, pq.Array(c.Tags), c.Deadline, c.Creator.Name, c.Creator.Email, c.Creator.Image,
		c.Status, c.ParticipationCount)
	if err != nil {
		return fmt.Errorf("pgContestRepository.Create: %w", err)
	}
	return nil
}

func (r *pgContestRepository) FindByID(ctx context.Context, id string) (*model.Contest, error) {
	query := `SELECT ` + contestColumns + ` FROM contests WHERE id = $1`
	c, err := scanContest(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgContestRepository.FindByID: %w", err)
	}
	return c, nil
}

func (r *pgContestRepository) ListApproved(ctx context.Context, filter ContestFilter, limit, offset int) ([]model.Contest, int, error) {
	where := `WHERE status = 'approved'
	          AND ($1 = '' OR type ILIKE '%' || $1 || '%')
	          AND ($2 = '' OR type = $2)`

	var total int
	countQuery := `SELECT COUNT(*) FROM contests ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, filter.Search, filter.Type).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgContestRepository.ListApproved count: %w", err)
	}

	query := `SELECT ` + contestColumns + ` FROM contests ` + where + `
	          ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.db.QueryContext(ctx, query, filter.Search, filter.Type, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("pgContestRepository.ListApproved: %w", err)
	}
	defer rows.Close()

	contests, err := collectContests(rows)
	if err != nil {
		return nil, 0, err
	}
	return contests, total, nil
}

func (r *pgContestRepository) ListPopular(ctx context.Context, limit int) ([]model.Contest, error) {
	query := `SELECT ` + contestColumns + ` FROM contests WHERE status = 'approved'
	          ORDER BY participation_count DESC, created_at DESC LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("pgContestRepository.ListPopular: %w", err)
	}
	defer rows.Close()
	return collectContests(rows)
}

func (r *pgContestRepository) ListByCreator(ctx context.Context, creatorEmail string) ([]model.Contest, error) {
	query := `SELECT ` + contestColumns + ` FROM contests WHERE creator_email = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, creatorEmail)
	if err != nil {
		return nil, fmt.Errorf("pgContestRepository.ListByCreator: %w", err)
	}
	defer rows.Close()
	return collectContests(rows)
}

func (r *pgContestRepository) ListByWinner(ctx context.Context, winnerID string) ([]model.Contest, error) {
	query := `SELECT ` + contestColumns + ` FROM contests WHERE winner_id = $1 ORDER BY deadline DESC`
	rows, err := r.db.QueryContext(ctx, query, winnerID)
	if err != nil {
		return nil, fmt.Errorf("pgContestRepository.ListByWinner: %w", err)
	}
	defer rows.Close()
	return collectContests(rows)
}

func (r *pgContestRepository) ListAll(ctx context.Context) ([]model.Contest, error) {
	query := `SELECT ` + contestColumns + ` FROM contests ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgContestRepository.ListAll: %w", err)
	}
	defer rows.Close()
	return collectContests(rows)
}

func (r *pgContestRepository) Update(ctx context.Context, c *model.Contest) error {
	query := `UPDATE contests SET
	              name = $1, slug = $2, image = $3, description = $4, price = $5, prize = $6,
	              task_instruction = $7, type = $8, tags = $9, deadline = $10, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $11`
	res, err := r.db.ExecContext(ctx, query,
		c.Name, c.Slug, c.Image, c.Description, c.Price, c.Prize,
		c.TaskInstruction, c.Type, pq.Array(c.Tags), c.Deadline, c.ID)
	if err != nil {
		return fmt.Errorf("pgContestRepository.Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgContestRepository) UpdateStatus(ctx context.Context, id string, status model.ContestStatus) error {
	query := `UPDATE contests SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("pgContestRepository.UpdateStatus: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgContestRepository) SetWinner(ctx context.Context, id, winnerID string) error {
	// Guarded so a winner is only ever set once.
	query := `UPDATE contests SET winner_id = $1, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $2 AND winner_id IS NULL`
	res, err := r.db.ExecContext(ctx, query, winnerID, id)
	if err != nil {
		return fmt.Errorf("pgContestRepository.SetWinner: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("winner already declared: %w", common.ErrConflict)
	}
	return nil
}

func (r *pgContestRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgContestRepository.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// WinCounts folds contests with a declared winner into per-user win counts,
// joined with the winner's display fields. Ordering and rank assignment
// happen in the service layer.
func (r *pgContestRepository) WinCounts(ctx context.Context) ([]model.LeaderboardEntry, error) {
	query := `SELECT u.id, u.name, u.email, u.image, COUNT(c.id) AS win_count
	          FROM contests c
	          JOIN users u ON u.id = c.winner_id
	          WHERE c.winner_id IS NOT NULL
	          GROUP BY u.id, u.name, u.email, u.image`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgContestRepository.WinCounts: %w", err)
	}
	defer rows.Close()

	entries := []model.LeaderboardEntry{}
	for rows.Next() {
		var e model.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Name, &e.Email, &e.Image, &e.WinCount); err != nil {
			return nil, fmt.Errorf("pgContestRepository.WinCounts scan: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func collectContests(rows *sql.Rows) ([]model.Contest, error) {
	contests := []model.Contest{}
	for rows.Next() {
		c, err := scanContest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contest: %w", err)
		}
		contests = append(contests, *c)
	}
	return contests, rows.Err()
}
