package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/saiyam0211/smart-urban-backend/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	UpdateIfVersion(ctx context.Context, u *models.User, expected int64) (pgconn.CommandTag, error)
	UpdateProfileWithRetry(ctx context.Context, id uuid.UUID, name, address string) (*models.User, error)
	ListTopByContributions(ctx context.Context, limit int) ([]*models.User, error)
}

type userRepo struct {
	*BaseVersionedRepo[*models.User]
	db DB
}

func NewUserRepository(db DB) UserRepository {
	r := &userRepo{db: db}
	selectStmt := baseSelectUser() + " WHERE id=$1"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, scanUser)
	return r
}

func baseSelectUser() string {
	return `
        SELECT
            id, name, phone, email, address,
            latitude, longitude, contributions, problems_reported,
            row_version, created_at, updated_at
        FROM users
    `
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	var reported []uuid.UUID
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Phone,
		&u.Email,
		&u.Address,
		&u.Latitude,
		&u.Longitude,
		&u.Contributions,
		&reported,
		&u.RowVersion,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.ProblemsReported = reported
	return &u, nil
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO users (
            id, name, phone, email, address,
            latitude, longitude, contributions, problems_reported,
            created_at, updated_at, row_version
        ) VALUES (
            $1,$2,$3,$4,$5,$6,$7,0,'{}',NOW(),NOW(),1
        )
    `,
		u.ID,
		u.Name,
		u.Phone,
		u.Email,
		u.Address,
		u.Latitude,
		u.Longitude,
	)
	return err
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := r.db.QueryRow(ctx, baseSelectUser()+" WHERE id=$1", id)
	u, err := scanUser(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return u, err
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRow(ctx, baseSelectUser()+" WHERE email=$1", email)
	u, err := scanUser(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return u, err
}

func (r *userRepo) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	row := r.db.QueryRow(ctx, baseSelectUser()+" WHERE phone=$1", phone)
	u, err := scanUser(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return u, err
}

func (r *userRepo) UpdateIfVersion(ctx context.Context, u *models.User, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
        UPDATE users
        SET name=$1, address=$2, latitude=$3, longitude=$4,
            row_version=row_version+1, updated_at=NOW()
        WHERE id=$5 AND row_version=$6
    `,
		u.Name,
		u.Address,
		u.Latitude,
		u.Longitude,
		u.ID,
		expected,
	)
}

func (r *userRepo) UpdateProfileWithRetry(ctx context.Context, id uuid.UUID, name, address string) (*models.User, error) {
	err := r.UpdateWithRetry(ctx, id.String(), func(u *models.User) error {
		if name != "" {
			u.Name = name
		}
		if address != "" {
			u.Address = address
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

func (r *userRepo) ListTopByContributions(ctx context.Context, limit int) ([]*models.User, error) {
	rows, err := r.db.Query(ctx, baseSelectUser()+" ORDER BY contributions DESC LIMIT $1", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
