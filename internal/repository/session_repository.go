package repository

import (
	"context"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/db"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/domain"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/session"
)

// SessionRepository stores sessions in Postgres. It satisfies session.Store.
type SessionRepository struct {
	DB *db.Postgres
}

var _ session.Store = SessionRepository{}

func (r SessionRepository) Save(ctx context.Context, s session.Session) error {
	userData, err := marshalUser(s.User)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO sessions (id, namespace, user_data, token, version, created_at, expires_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`
	_, err = r.DB.Pool.Exec(ctx, query, s.ID, session.Namespace, userData, s.Token, s.Version, s.CreatedAt, expiresAt(s))
	if err != nil {
		if IsDuplicate(err) {
			return fmt.Errorf("session %s already exists: %w", s.ID, err)
		}
		return err
	}
	return nil
}

func (r SessionRepository) Get(ctx context.Context, id string) (session.Session, error) {
	query := `
		SELECT id, user_data, token, version, created_at, expires_at
		FROM sessions
		WHERE id=$1 AND namespace=$2
	`
	row := r.DB.Pool.QueryRow(ctx, query, id, session.Namespace)
	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.Session{}, session.ErrNotFound
		}
		return session.Session{}, err
	}
	return s, nil
}

func (r SessionRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.DB.Pool.Exec(ctx, `DELETE FROM sessions WHERE id=$1 AND namespace=$2`, id, session.Namespace)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return session.ErrNotFound
	}
	return nil
}

func (r SessionRepository) CompareAndSwap(ctx context.Context, s session.Session, expected int64) (session.Session, error) {
	userData, err := marshalUser(s.User)
	if err != nil {
		return session.Session{}, err
	}
	query := `
		UPDATE sessions
		SET user_data=$3, token=$4, version=version+1, expires_at=$5
		WHERE id=$1 AND version=$2 AND namespace=$6
		RETURNING id, user_data, token, version, created_at, expires_at
	`
	row := r.DB.Pool.QueryRow(ctx, query, s.ID, expected, userData, s.Token, expiresAt(s), session.Namespace)
	out, err := scanSession(row)
	if err == nil {
		return out, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return session.Session{}, err
	}
	if _, getErr := r.Get(ctx, s.ID); getErr != nil {
		return session.Session{}, getErr
	}
	return session.Session{}, session.ErrStale
}

// PurgeExpired removes this app's sessions whose expiry has passed.
func (r SessionRepository) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := r.DB.Pool.Exec(ctx, `DELETE FROM sessions WHERE namespace=$1 AND expires_at IS NOT NULL AND expires_at <= now()`, session.Namespace)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func marshalUser(u *domain.User) ([]byte, error) {
	if u == nil {
		return nil, nil
	}
	return json.Marshal(u)
}

func expiresAt(s session.Session) pgtype.Timestamptz {
	if s.ExpiresAt.IsZero() {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: s.ExpiresAt, Valid: true}
}

func scanSession(row interface {
	Scan(dest ...any) error
}) (session.Session, error) {
	var (
		s        session.Session
		userData []byte
		created  pgtype.Timestamptz
		expires  pgtype.Timestamptz
	)
	if err := row.Scan(&s.ID, &userData, &s.Token, &s.Version, &created, &expires); err != nil {
		return session.Session{}, err
	}
	if len(userData) > 0 {
		var u domain.User
		if err := json.Unmarshal(userData, &u); err != nil {
			return session.Session{}, fmt.Errorf("decode session user: %w", err)
		}
		s.User = &u
	}
	if created.Valid {
		s.CreatedAt = created.Time
	}
	if expires.Valid {
		s.ExpiresAt = expires.Time
	}
	return s, nil
}

// IsDuplicate detects unique constraint violation.
func IsDuplicate(err error) bool {
	return db.IsUniqueViolation(err)
}
