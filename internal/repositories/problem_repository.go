package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/saiyam0211/smart-urban-backend/internal/models"
	"github.com/saiyam0211/smart-urban-backend/internal/utils"
)

// CategoryCount is one bucket of the category-distribution aggregate.
type CategoryCount struct {
	Category models.ProblemCategoryType `json:"category"`
	Count    int                        `json:"count"`
}

// AreaCount is one bucket of the rounded-coordinate aggregate.
type AreaCount struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	ReportCount int     `json:"report_count"`
}

type ProblemRepository interface {
	// CreateWithReporter inserts the problem and bumps the reporter's
	// contribution counter in one transaction.
	CreateWithReporter(ctx context.Context, p *models.Problem) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Problem, error)
	ListAll(ctx context.Context) ([]*models.Problem, error)
	ListByAssignee(ctx context.Context, volunteerID uuid.UUID) ([]*models.Problem, error)

	// Atomic lifecycle transitions guarded by FOR UPDATE + row_version.
	AssignAtomic(ctx context.Context, problemID, volunteerID uuid.UUID, expectedVersion int64) (*models.Problem, error)
	StartAtomic(ctx context.Context, problemID, volunteerID uuid.UUID, expectedVersion int64) (*models.Problem, error)
	// SolveAtomic flips the status to solved and credits the assigned
	// volunteer inside the same transaction, so the credit happens at
	// most once per problem.
	SolveAtomic(ctx context.Context, problemID, volunteerID uuid.UUID, expectedVersion int64) (*models.Problem, error)

	// Windowed aggregates consumed by the analytics dashboard.
	CountInWindow(ctx context.Context, start, end time.Time) (int, error)
	CountByCategory(ctx context.Context, start, end time.Time) ([]CategoryCount, error)
	SolvedStatsInWindow(ctx context.Context, start, end time.Time) (count int, avgResolutionHours float64, err error)
	ActiveAreas(ctx context.Context, start, end time.Time, limit int) ([]AreaCount, error)
}

type problemRepo struct {
	db DB
}

func NewProblemRepository(db DB) ProblemRepository {
	return &problemRepo{db: db}
}

func baseSelectProblem() string {
	return `
        SELECT
            id, title, description, category, points, status,
            latitude, longitude, photo_url, reported_by, assigned_to,
            row_version, created_at, updated_at, solved_at
        FROM problems
    `
}

func scanProblem(row pgx.Row) (*models.Problem, error) {
	var p models.Problem
	var assignedTo *uuid.UUID
	var solvedAt *time.Time
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Category,
		&p.Points,
		&p.Status,
		&p.Latitude,
		&p.Longitude,
		&p.PhotoURL,
		&p.ReportedBy,
		&assignedTo,
		&p.RowVersion,
		&p.CreatedAt,
		&p.UpdatedAt,
		&solvedAt,
	)
	if err != nil {
		return nil, err
	}
	p.AssignedTo = assignedTo
	p.SolvedAt = solvedAt
	return &p, nil
}

func (r *problemRepo) CreateWithReporter(ctx context.Context, p *models.Problem) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	_, err = tx.Exec(ctx, `
        INSERT INTO problems (
            id, title, description, category, points, status,
            latitude, longitude, photo_url, reported_by,
            created_at, updated_at, row_version
        ) VALUES (
            $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,NOW(),NOW(),1
        )
    `,
		p.ID,
		p.Title,
		p.Description,
		p.Category,
		p.Points,
		p.Status,
		p.Latitude,
		p.Longitude,
		p.PhotoURL,
		p.ReportedBy,
	)
	if err != nil {
		return err
	}

	var tag pgconn.CommandTag
	tag, err = tx.Exec(ctx, `
        UPDATE users
        SET contributions = contributions + 1,
            problems_reported = array_append(problems_reported, $1),
            row_version = row_version + 1, updated_at = NOW()
        WHERE id = $2
    `, p.ID, p.ReportedBy)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		err = utils.ErrIdentityNotFound
		return err
	}
	return nil
}

func (r *problemRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Problem, error) {
	row := r.db.QueryRow(ctx, baseSelectProblem()+" WHERE id=$1", id)
	p, err := scanProblem(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (r *problemRepo) ListAll(ctx context.Context) ([]*models.Problem, error) {
	return r.list(ctx, baseSelectProblem()+" ORDER BY created_at DESC")
}

func (r *problemRepo) ListByAssignee(ctx context.Context, volunteerID uuid.UUID) ([]*models.Problem, error) {
	return r.list(ctx, baseSelectProblem()+" WHERE assigned_to=$1 ORDER BY created_at DESC", volunteerID)
}

func (r *problemRepo) list(ctx context.Context, sql string, args ...interface{}) ([]*models.Problem, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Problem
	for rows.Next() {
		p, err := scanProblem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *problemRepo) AssignAtomic(
	ctx context.Context,
	problemID, volunteerID uuid.UUID,
	expectedVersion int64,
) (*models.Problem, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	row := tx.QueryRow(ctx, baseSelectProblem()+" WHERE id=$1 FOR UPDATE", problemID)
	p, err := scanProblem(row)
	if err != nil {
		return nil, err
	}
	if p.RowVersion != expectedVersion {
		err = utils.ErrRowVersionConflict
		return p, err
	}
	if p.AssignedTo != nil {
		// First claim wins; a problem is never reassigned.
		err = utils.ErrAlreadyAssigned
		return p, err
	}
	if p.Status != models.ProblemStatusPending {
		err = utils.ErrWrongStatus
		return p, err
	}

	_, err = tx.Exec(ctx, `
        UPDATE problems
        SET status=$1, assigned_to=$2,
            row_version=row_version+1, updated_at=NOW()
        WHERE id=$3
    `, models.ProblemStatusAssigned, volunteerID, problemID)
	if err != nil {
		return nil, err
	}

	newRow := tx.QueryRow(ctx, baseSelectProblem()+" WHERE id=$1", problemID)
	return scanProblem(newRow)
}

func (r *problemRepo) StartAtomic(
	ctx context.Context,
	problemID, volunteerID uuid.UUID,
	expectedVersion int64,
) (*models.Problem, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	row := tx.QueryRow(ctx, baseSelectProblem()+" WHERE id=$1 FOR UPDATE", problemID)
	p, err := scanProblem(row)
	if err != nil {
		return nil, err
	}
	if p.RowVersion != expectedVersion {
		err = utils.ErrRowVersionConflict
		return p, err
	}
	if p.AssignedTo == nil || *p.AssignedTo != volunteerID {
		err = utils.ErrNotAssignedActor
		return p, err
	}
	if p.Status != models.ProblemStatusAssigned {
		err = utils.ErrWrongStatus
		return p, err
	}

	_, err = tx.Exec(ctx, `
        UPDATE problems
        SET status=$1,
            row_version=row_version+1, updated_at=NOW()
        WHERE id=$2
    `, models.ProblemStatusInProgress, problemID)
	if err != nil {
		return nil, err
	}

	newRow := tx.QueryRow(ctx, baseSelectProblem()+" WHERE id=$1", problemID)
	return scanProblem(newRow)
}

func (r *problemRepo) SolveAtomic(
	ctx context.Context,
	problemID, volunteerID uuid.UUID,
	expectedVersion int64,
) (*models.Problem, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	row := tx.QueryRow(ctx, baseSelectProblem()+" WHERE id=$1 FOR UPDATE", problemID)
	p, err := scanProblem(row)
	if err != nil {
		return nil, err
	}
	if p.RowVersion != expectedVersion {
		err = utils.ErrRowVersionConflict
		return p, err
	}
	if p.AssignedTo == nil || *p.AssignedTo != volunteerID {
		err = utils.ErrNotAssignedActor
		return p, err
	}
	// Solved is terminal; re-solving would double-credit the volunteer.
	if p.Status != models.ProblemStatusAssigned && p.Status != models.ProblemStatusInProgress {
		err = utils.ErrWrongStatus
		return p, err
	}

	_, err = tx.Exec(ctx, `
        UPDATE problems
        SET status=$1, solved_at=NOW(),
            row_version=row_version+1, updated_at=NOW()
        WHERE id=$2
    `, models.ProblemStatusSolved, problemID)
	if err != nil {
		return nil, err
	}

	// Credit in the same transaction: the status flip above succeeds at
	// most once, so the points can never be granted twice.
	_, err = tx.Exec(ctx, `
        UPDATE volunteers
        SET points = points + $1,
            problems_solved = array_append(problems_solved, $2),
            row_version = row_version + 1, updated_at = NOW()
        WHERE id = $3
    `, p.Points, problemID, volunteerID)
	if err != nil {
		return nil, err
	}

	newRow := tx.QueryRow(ctx, baseSelectProblem()+" WHERE id=$1", problemID)
	return scanProblem(newRow)
}

func (r *problemRepo) CountInWindow(ctx context.Context, start, end time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
        SELECT COUNT(*) FROM problems
        WHERE created_at >= $1 AND created_at <= $2
    `, start, end).Scan(&count)
	return count, err
}

func (r *problemRepo) CountByCategory(ctx context.Context, start, end time.Time) ([]CategoryCount, error) {
	rows, err := r.db.Query(ctx, `
        SELECT category, COUNT(*)
        FROM problems
        WHERE created_at >= $1 AND created_at <= $2
        GROUP BY category
    `, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CategoryCount
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *problemRepo) SolvedStatsInWindow(ctx context.Context, start, end time.Time) (int, float64, error) {
	var count int
	var avgHours *float64
	err := r.db.QueryRow(ctx, `
        SELECT COUNT(*),
               AVG(EXTRACT(EPOCH FROM (solved_at - created_at)) / 3600.0)
        FROM problems
        WHERE status = $1
          AND created_at >= $2 AND created_at <= $3
          AND solved_at IS NOT NULL
    `, models.ProblemStatusSolved, start, end).Scan(&count, &avgHours)
	if err != nil {
		return 0, 0, err
	}
	if avgHours == nil {
		return count, 0, nil
	}
	return count, *avgHours, nil
}

func (r *problemRepo) ActiveAreas(ctx context.Context, start, end time.Time, limit int) ([]AreaCount, error) {
	rows, err := r.db.Query(ctx, `
        SELECT ROUND(latitude::numeric, 2)  AS lat,
               ROUND(longitude::numeric, 2) AS lng,
               COUNT(*)                     AS report_count
        FROM problems
        WHERE created_at >= $1 AND created_at <= $2
        GROUP BY lat, lng
        ORDER BY report_count DESC
        LIMIT $3
    `, start, end, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AreaCount
	for rows.Next() {
		var a AreaCount
		if err := rows.Scan(&a.Latitude, &a.Longitude, &a.ReportCount); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
