package store

import (
	"fmt"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "users and auth sessions",
		SQL: `
CREATE TABLE users (
    id                 TEXT PRIMARY KEY,
    email              TEXT NOT NULL UNIQUE,
    username           TEXT NOT NULL UNIQUE,
    password_hash      TEXT NOT NULL,
    is_active          INTEGER NOT NULL DEFAULT 1,
    streak_count       INTEGER NOT NULL DEFAULT 0,
    last_practice_date INTEGER,
    total_xp           INTEGER NOT NULL DEFAULT 0,
    created_at         INTEGER NOT NULL
);

CREATE TABLE auth_sessions (
    token      TEXT PRIMARY KEY,
    user_id    TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    expires_at INTEGER NOT NULL,

    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE INDEX idx_sessions_user ON auth_sessions(user_id);
`,
	},
	{
		Version:     2,
		Description: "user_skills with spaced-repetition state",
		SQL: `
CREATE TABLE user_skills (
    id                  TEXT PRIMARY KEY,
    user_id             TEXT NOT NULL,
    name                TEXT NOT NULL,
    category            TEXT NOT NULL DEFAULT 'general',
    proficiency         REAL NOT NULL DEFAULT 5.0,
    health_score        REAL NOT NULL DEFAULT 100,
    star_power          REAL NOT NULL DEFAULT 50,
    consecutive_wrong   INTEGER NOT NULL DEFAULT 0,

    -- SM-2 scheduling
    interval_days       REAL NOT NULL DEFAULT 1.0,
    ease_factor         REAL NOT NULL DEFAULT 2.5,
    consecutive_correct INTEGER NOT NULL DEFAULT 0,
    next_review         INTEGER,
    last_practiced      INTEGER,

    created_at          INTEGER NOT NULL,

    UNIQUE (user_id, name),
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE INDEX idx_skills_user   ON user_skills(user_id);
CREATE INDEX idx_skills_review ON user_skills(next_review);
`,
	},
	{
		Version:     3,
		Description: "companions: one celestial pet per user",
		SQL: `
CREATE TABLE companions (
    id                    TEXT PRIMARY KEY,
    user_id               TEXT NOT NULL UNIQUE,
    name                  TEXT NOT NULL,
    species               TEXT NOT NULL,
    mood                  TEXT NOT NULL,
    stage                 TEXT NOT NULL,
    luminosity            REAL NOT NULL,
    energy                REAL NOT NULL,
    knowledge_hunger      REAL NOT NULL,
    cosmic_resonance      REAL NOT NULL,
    level                 INTEGER NOT NULL DEFAULT 1,
    experience            INTEGER NOT NULL DEFAULT 0,
    total_skills_mastered INTEGER NOT NULL DEFAULT 0,
    color_hue             INTEGER NOT NULL DEFAULT 0,
    particle_effect       TEXT NOT NULL DEFAULT 'stars',
    created_at            INTEGER NOT NULL,
    last_fed              INTEGER NOT NULL,
    last_updated          INTEGER NOT NULL,

    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);
`,
	},
	{
		Version:     4,
		Description: "questions, answers, and practice sessions",
		SQL: `
CREATE TABLE questions (
    id             TEXT PRIMARY KEY,
    skill_id       TEXT NOT NULL,
    text           TEXT NOT NULL,
    question_type  TEXT NOT NULL,
    choices        TEXT NOT NULL DEFAULT '[]',
    correct_answer TEXT NOT NULL,
    explanation    TEXT,
    difficulty     TEXT NOT NULL,
    reward         INTEGER NOT NULL,
    created_at     INTEGER NOT NULL,

    FOREIGN KEY (skill_id) REFERENCES user_skills(id) ON DELETE CASCADE
);

CREATE INDEX idx_questions_skill ON questions(skill_id);

CREATE TABLE user_answers (
    id           TEXT PRIMARY KEY,
    user_id      TEXT NOT NULL,
    question_id  TEXT NOT NULL,
    answer       TEXT NOT NULL,
    correct      INTEGER NOT NULL,
    time_taken_s INTEGER,
    answered_at  INTEGER NOT NULL,

    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
    FOREIGN KEY (question_id) REFERENCES questions(id) ON DELETE CASCADE
);

CREATE INDEX idx_answers_user ON user_answers(user_id);

CREATE TABLE practice_sessions (
    id                 TEXT PRIMARY KEY,
    skill_id           TEXT NOT NULL,
    questions_answered INTEGER NOT NULL,
    correct_answers    INTEGER NOT NULL,
    xp_earned          INTEGER NOT NULL,
    session_date       INTEGER NOT NULL,
    duration_minutes   INTEGER NOT NULL DEFAULT 0,

    FOREIGN KEY (skill_id) REFERENCES user_skills(id) ON DELETE CASCADE
);

CREATE INDEX idx_practice_skill ON practice_sessions(skill_id, session_date DESC);
`,
	},
	{
		Version:     5,
		Description: "oracle_requests: LLM call audit log",
		SQL: `
CREATE TABLE oracle_requests (
    id            INTEGER PRIMARY KEY,
    provider      TEXT NOT NULL,
    model         TEXT NOT NULL,
    purpose       TEXT,
    latency_ms    INTEGER NOT NULL,
    input_tokens  INTEGER NOT NULL DEFAULT 0,
    output_tokens INTEGER NOT NULL DEFAULT 0,
    cost_usd      REAL NOT NULL DEFAULT 0,
    success       INTEGER NOT NULL,
    error_message TEXT,
    request_body  TEXT,
    response_body TEXT,
    created_at    INTEGER NOT NULL
);

CREATE INDEX idx_oracle_created ON oracle_requests(created_at DESC);
`,
	},
}

func (db *DB) migrate() error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_versions (
			version     INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at  INTEGER NOT NULL DEFAULT (strftime('%s', 'now') * 1000)
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	for _, m := range migrations {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM schema_versions WHERE version = ?", m.Version).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_versions (version, description) VALUES (?, ?)",
			m.Version, m.Description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

// SchemaVersion returns the current schema version.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_versions").Scan(&version)
	return version, err
}
