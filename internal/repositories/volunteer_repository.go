package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/saiyam0211/smart-urban-backend/internal/models"
)

type VolunteerRepository interface {
	Create(ctx context.Context, v *models.Volunteer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Volunteer, error)
	GetByEmail(ctx context.Context, email string) (*models.Volunteer, error)
	GetByPhone(ctx context.Context, phone string) (*models.Volunteer, error)
	UpdateIfVersion(ctx context.Context, v *models.Volunteer, expected int64) (pgconn.CommandTag, error)
	UpdateProfileWithRetry(ctx context.Context, id uuid.UUID, name string) (*models.Volunteer, error)
	ListTopByPoints(ctx context.Context, limit int) ([]*models.Volunteer, error)
	CountActiveSince(ctx context.Context, since time.Time) (int, error)
}

type volunteerRepo struct {
	*BaseVersionedRepo[*models.Volunteer]
	db DB
}

func NewVolunteerRepository(db DB) VolunteerRepository {
	r := &volunteerRepo{db: db}
	selectStmt := baseSelectVolunteer() + " WHERE id=$1"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, scanVolunteer)
	return r
}

func baseSelectVolunteer() string {
	return `
        SELECT
            id, name, phone, email, points, problems_solved,
            row_version, created_at, updated_at
        FROM volunteers
    `
}

func scanVolunteer(row pgx.Row) (*models.Volunteer, error) {
	var v models.Volunteer
	var solved []uuid.UUID
	err := row.Scan(
		&v.ID,
		&v.Name,
		&v.Phone,
		&v.Email,
		&v.Points,
		&solved,
		&v.RowVersion,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	v.ProblemsSolved = solved
	return &v, nil
}

func (r *volunteerRepo) Create(ctx context.Context, v *models.Volunteer) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO volunteers (
            id, name, phone, email, points, problems_solved,
            created_at, updated_at, row_version
        ) VALUES (
            $1,$2,$3,$4,0,'{}',NOW(),NOW(),1
        )
    `,
		v.ID,
		v.Name,
		v.Phone,
		v.Email,
	)
	return err
}

func (r *volunteerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Volunteer, error) {
	row := r.db.QueryRow(ctx, baseSelectVolunteer()+" WHERE id=$1", id)
	v, err := scanVolunteer(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return v, err
}

func (r *volunteerRepo) GetByEmail(ctx context.Context, email string) (*models.Volunteer, error) {
	row := r.db.QueryRow(ctx, baseSelectVolunteer()+" WHERE email=$1", email)
	v, err := scanVolunteer(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return v, err
}

func (r *volunteerRepo) GetByPhone(ctx context.Context, phone string) (*models.Volunteer, error) {
	row := r.db.QueryRow(ctx, baseSelectVolunteer()+" WHERE phone=$1", phone)
	v, err := scanVolunteer(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return v, err
}

func (r *volunteerRepo) UpdateIfVersion(ctx context.Context, v *models.Volunteer, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
        UPDATE volunteers
        SET name=$1,
            row_version=row_version+1, updated_at=NOW()
        WHERE id=$2 AND row_version=$3
    `,
		v.Name,
		v.ID,
		expected,
	)
}

func (r *volunteerRepo) UpdateProfileWithRetry(ctx context.Context, id uuid.UUID, name string) (*models.Volunteer, error) {
	err := r.UpdateWithRetry(ctx, id.String(), func(v *models.Volunteer) error {
		if name != "" {
			v.Name = name
		}
		return nil
	}, r.UpdateIfVersion)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *volunteerRepo) ListTopByPoints(ctx context.Context, limit int) ([]*models.Volunteer, error) {
	rows, err := r.db.Query(ctx, baseSelectVolunteer()+" ORDER BY points DESC LIMIT $1", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Volunteer
	for rows.Next() {
		v, err := scanVolunteer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// CountActiveSince counts volunteers whose records changed in the
// window; point credits bump updated_at, so this approximates activity.
func (r *volunteerRepo) CountActiveSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
        SELECT COUNT(*) FROM volunteers WHERE updated_at >= $1
    `, since).Scan(&count)
	return count, err
}
