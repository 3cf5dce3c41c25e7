package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/kcitlyn/Astrarium1/internal/oracle"
	"github.com/kcitlyn/Astrarium1/internal/practice"
)

// SaveQuestion persists a generated question. Choices are stored as a
// JSON array in a text column.
func (db *DB) SaveQuestion(ctx context.Context, q *practice.Question) error {
	choices, err := json.Marshal(q.Choices)
	if err != nil {
		return fmt.Errorf("encode choices: %w", err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO questions (id, skill_id, text, question_type, choices, correct_answer, explanation, difficulty, reward, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, q.ID, q.SkillID, q.Text, string(q.Type), string(choices),
		q.CorrectAnswer, q.Explanation, string(q.Difficulty), q.Reward, milli(q.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	return nil
}

// QuestionByID loads a stored question.
func (db *DB) QuestionByID(ctx context.Context, id string) (*practice.Question, error) {
	var q practice.Question
	var qType, difficulty, choices string
	var explanation sql.NullString
	var createdAt int64
	err := db.QueryRowContext(ctx, `
		SELECT id, skill_id, text, question_type, choices, correct_answer, explanation, difficulty, reward, created_at
		FROM questions WHERE id = ?
	`, id).Scan(&q.ID, &q.SkillID, &q.Text, &qType, &choices,
		&q.CorrectAnswer, &explanation, &difficulty, &q.Reward, &createdAt)
	if err == sql.ErrNoRows {
		return nil, practice.ErrQuestionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan question: %w", err)
	}
	if err := json.Unmarshal([]byte(choices), &q.Choices); err != nil {
		return nil, fmt.Errorf("decode choices: %w", err)
	}
	q.Type = oracle.QuestionType(qType)
	q.Difficulty = oracle.Difficulty(difficulty)
	q.Explanation = explanation.String
	q.CreatedAt = fromMilli(createdAt)
	return &q, nil
}

// CommitAnswer writes the entire outcome of one answered question in a
// single transaction: the skill, user, and companion updates plus the
// answer and session records.
func (db *DB) CommitAnswer(ctx context.Context, commit practice.AnswerCommit) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if err := updateSkill(ctx, tx, commit.Skill); err != nil {
		return err
	}
	if err := updateUser(ctx, tx, commit.User); err != nil {
		return err
	}
	if err := updateCompanion(ctx, tx, commit.Companion); err != nil {
		return err
	}

	a := commit.Answer
	_, err = tx.ExecContext(ctx, `
		INSERT INTO user_answers (id, user_id, question_id, answer, correct, time_taken_s, answered_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.UserID, a.QuestionID, a.Answer, boolInt(a.Correct), a.TimeTakenSeconds, milli(a.AnsweredAt))
	if err != nil {
		return fmt.Errorf("insert answer: %w", err)
	}

	s := commit.Session
	_, err = tx.ExecContext(ctx, `
		INSERT INTO practice_sessions (id, skill_id, questions_answered, correct_answers, xp_earned, session_date, duration_minutes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, s.ID, s.SkillID, s.QuestionsAnswered, s.CorrectAnswers, s.XPEarned, milli(s.SessionDate), s.DurationMinutes)
	if err != nil {
		return fmt.Errorf("insert practice session: %w", err)
	}

	return tx.Commit()
}

// PracticeHistory lists a skill's most recent sessions, newest first.
func (db *DB) PracticeHistory(ctx context.Context, skillID string, limit int) ([]*practice.SessionRecord, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, skill_id, questions_answered, correct_answers, xp_earned, session_date, duration_minutes
		FROM practice_sessions
		WHERE skill_id = ?
		ORDER BY session_date DESC, id DESC
		LIMIT ?
	`, skillID, limit)
	if err != nil {
		return nil, fmt.Errorf("query practice history: %w", err)
	}
	defer rows.Close()

	var out []*practice.SessionRecord
	for rows.Next() {
		var s practice.SessionRecord
		var sessionDate int64
		if err := rows.Scan(&s.ID, &s.SkillID, &s.QuestionsAnswered, &s.CorrectAnswers,
			&s.XPEarned, &sessionDate, &s.DurationMinutes); err != nil {
			return nil, fmt.Errorf("scan practice session: %w", err)
		}
		s.SessionDate = fromMilli(sessionDate)
		out = append(out, &s)
	}
	return out, rows.Err()
}
