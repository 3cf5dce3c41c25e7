package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kcitlyn/Astrarium1/internal/auth"
	"github.com/kcitlyn/Astrarium1/internal/companion"
)

// CreateUserAndCompanion inserts the account and its starter pet in
// one transaction so a failed pet insert never leaves an orphan user.
func (db *DB) CreateUserAndCompanion(ctx context.Context, u *auth.User, c *companion.Companion) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, email, username, password_hash, is_active, streak_count, last_practice_date, total_xp, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, u.ID, u.Email, u.Username, u.PasswordHash, boolInt(u.IsActive),
		u.StreakCount, milliPtr(u.LastPracticeDate), u.TotalXP, milli(u.CreatedAt))
	if isUniqueViolation(err) {
		return auth.ErrDuplicateUser
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	if err := insertCompanion(ctx, tx, c); err != nil {
		return err
	}
	return tx.Commit()
}

func scanUser(row *sql.Row) (*auth.User, error) {
	var u auth.User
	var isActive int
	var lastPractice sql.NullInt64
	var createdAt int64
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash,
		&isActive, &u.StreakCount, &lastPractice, &u.TotalXP, &createdAt)
	if err == sql.ErrNoRows {
		return nil, auth.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.IsActive = isActive != 0
	u.LastPracticeDate = fromMilliPtr(lastPractice)
	u.CreatedAt = fromMilli(createdAt)
	return &u, nil
}

const userColumns = `id, email, username, password_hash, is_active, streak_count, last_practice_date, total_xp, created_at`

// UserByEmail looks up an account by its (already normalized) email.
func (db *DB) UserByEmail(ctx context.Context, email string) (*auth.User, error) {
	row := db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// UserByID looks up an account by its ID.
func (db *DB) UserByID(ctx context.Context, id string) (*auth.User, error) {
	row := db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// UpdateUser persists the mutable account fields.
func (db *DB) UpdateUser(ctx context.Context, u *auth.User) error {
	return updateUser(ctx, db.DB, u)
}

func updateUser(ctx context.Context, ex execer, u *auth.User) error {
	_, err := ex.ExecContext(ctx, `
		UPDATE users
		SET is_active = ?, streak_count = ?, last_practice_date = ?, total_xp = ?
		WHERE id = ?
	`, boolInt(u.IsActive), u.StreakCount, milliPtr(u.LastPracticeDate), u.TotalXP, u.ID)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// CreateSession stores a fresh login token.
func (db *DB) CreateSession(ctx context.Context, s *auth.Session) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO auth_sessions (token, user_id, created_at, expires_at)
		VALUES (?, ?, ?, ?)
	`, s.Token, s.UserID, milli(s.CreatedAt), milli(s.ExpiresAt))
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// SessionByToken resolves a bearer token.
func (db *DB) SessionByToken(ctx context.Context, token string) (*auth.Session, error) {
	var s auth.Session
	var createdAt, expiresAt int64
	err := db.QueryRowContext(ctx, `
		SELECT token, user_id, created_at, expires_at FROM auth_sessions WHERE token = ?
	`, token).Scan(&s.Token, &s.UserID, &createdAt, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, auth.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}
	s.CreatedAt = fromMilli(createdAt)
	s.ExpiresAt = fromMilli(expiresAt)
	return &s, nil
}

// DeleteSession revokes a token. Deleting an unknown token is a no-op.
func (db *DB) DeleteSession(ctx context.Context, token string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM auth_sessions WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
