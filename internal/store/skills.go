package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kcitlyn/Astrarium1/internal/skills"
)

const skillColumns = `id, user_id, name, category, proficiency, health_score, star_power, consecutive_wrong,
	interval_days, ease_factor, consecutive_correct, next_review, last_practiced, created_at`

// CreateSkill inserts a new tracked skill.
func (db *DB) CreateSkill(ctx context.Context, s *skills.Skill) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO user_skills (`+skillColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.ID, s.UserID, s.Name, s.Category, s.Proficiency, s.HealthScore, s.StarPower, s.ConsecutiveWrong,
		s.Review.IntervalDays, s.Review.EaseFactor, s.Review.ConsecutiveCorrect,
		milliPtr(s.Review.NextReview), milliPtr(s.Review.LastPracticed), milli(s.CreatedAt))
	if isUniqueViolation(err) {
		return skills.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert skill: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSkill(row rowScanner) (*skills.Skill, error) {
	var s skills.Skill
	var nextReview, lastPracticed sql.NullInt64
	var createdAt int64
	err := row.Scan(&s.ID, &s.UserID, &s.Name, &s.Category,
		&s.Proficiency, &s.HealthScore, &s.StarPower, &s.ConsecutiveWrong,
		&s.Review.IntervalDays, &s.Review.EaseFactor, &s.Review.ConsecutiveCorrect,
		&nextReview, &lastPracticed, &createdAt)
	if err != nil {
		return nil, err
	}
	s.Review.NextReview = fromMilliPtr(nextReview)
	s.Review.LastPracticed = fromMilliPtr(lastPracticed)
	s.CreatedAt = fromMilli(createdAt)
	return &s, nil
}

// SkillByID fetches one skill. The user scope doubles as the
// ownership check.
func (db *DB) SkillByID(ctx context.Context, userID, skillID string) (*skills.Skill, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+skillColumns+` FROM user_skills WHERE id = ? AND user_id = ?
	`, skillID, userID)
	s, err := scanSkill(row)
	if err == sql.ErrNoRows {
		return nil, skills.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan skill: %w", err)
	}
	return s, nil
}

// SkillsByUser lists a user's skills, healthiest first.
func (db *DB) SkillsByUser(ctx context.Context, userID string) ([]*skills.Skill, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+skillColumns+` FROM user_skills WHERE user_id = ? ORDER BY health_score DESC, name ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query skills: %w", err)
	}
	defer rows.Close()

	var out []*skills.Skill
	for rows.Next() {
		s, err := scanSkill(rows)
		if err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpdateSkill persists the full skill state.
func (db *DB) UpdateSkill(ctx context.Context, s *skills.Skill) error {
	return updateSkill(ctx, db.DB, s)
}

func updateSkill(ctx context.Context, ex execer, s *skills.Skill) error {
	_, err := ex.ExecContext(ctx, `
		UPDATE user_skills
		SET name = ?, category = ?, proficiency = ?, health_score = ?, star_power = ?, consecutive_wrong = ?,
			interval_days = ?, ease_factor = ?, consecutive_correct = ?, next_review = ?, last_practiced = ?
		WHERE id = ?
	`, s.Name, s.Category, s.Proficiency, s.HealthScore, s.StarPower, s.ConsecutiveWrong,
		s.Review.IntervalDays, s.Review.EaseFactor, s.Review.ConsecutiveCorrect,
		milliPtr(s.Review.NextReview), milliPtr(s.Review.LastPracticed),
		s.ID)
	if err != nil {
		return fmt.Errorf("update skill: %w", err)
	}
	return nil
}

// DeleteSkill removes a skill and, through cascades, its questions and
// practice history.
func (db *DB) DeleteSkill(ctx context.Context, userID, skillID string) error {
	res, err := db.ExecContext(ctx, `
		DELETE FROM user_skills WHERE id = ? AND user_id = ?
	`, skillID, userID)
	if err != nil {
		return fmt.Errorf("delete skill: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete skill: %w", err)
	}
	if n == 0 {
		return skills.ErrNotFound
	}
	return nil
}
