package store

// Table names.
const (
	tableCardSets    = "card_sets"
	tableFlashcards  = "flashcards"
	tableProgress    = "card_progress"
	tableSessions    = "study_sessions"
	tableLLMRequests = "llm_request_events"
)

// schema is applied on every Open. Statements are idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS card_sets (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	theme        TEXT NOT NULL DEFAULT 'default',
	tags         TEXT NOT NULL DEFAULT '[]',
	source_type  TEXT NOT NULL,
	source_value TEXT NOT NULL DEFAULT '',
	created_at   TEXT NOT NULL,
	updated_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS flashcards (
	id          TEXT PRIMARY KEY,
	card_set_id TEXT NOT NULL REFERENCES card_sets(id) ON DELETE CASCADE,
	position    INTEGER NOT NULL DEFAULT 0,
	front       TEXT NOT NULL,
	back        TEXT NOT NULL,
	hint        TEXT NOT NULL DEFAULT '',
	details     TEXT NOT NULL DEFAULT '',
	created_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_flashcards_set ON flashcards (card_set_id, position);

CREATE TABLE IF NOT EXISTS card_progress (
	id               TEXT PRIMARY KEY,
	card_id          TEXT NOT NULL REFERENCES flashcards(id) ON DELETE CASCADE,
	card_set_id      TEXT NOT NULL REFERENCES card_sets(id) ON DELETE CASCADE,
	status           TEXT NOT NULL DEFAULT 'new',
	correct_count    INTEGER NOT NULL DEFAULT 0,
	incorrect_count  INTEGER NOT NULL DEFAULT 0,
	ease_factor      REAL NOT NULL DEFAULT 2.5,
	interval_days    INTEGER NOT NULL DEFAULT 1,
	last_reviewed_at TEXT,
	next_review_at   TEXT,
	UNIQUE (card_set_id, card_id)
);

CREATE TABLE IF NOT EXISTS study_sessions (
	id                TEXT PRIMARY KEY,
	card_set_id       TEXT NOT NULL REFERENCES card_sets(id) ON DELETE CASCADE,
	started_at        TEXT NOT NULL,
	completed_at      TEXT,
	cards_reviewed    INTEGER NOT NULL DEFAULT 0,
	correct_answers   INTEGER NOT NULL DEFAULT 0,
	incorrect_answers INTEGER NOT NULL DEFAULT 0,
	skipped_cards     INTEGER NOT NULL DEFAULT 0,
	total_time_spent  INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_study_sessions_set ON study_sessions (card_set_id, completed_at);

CREATE TABLE IF NOT EXISTS llm_request_events (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp     TEXT NOT NULL,
	provider      TEXT NOT NULL,
	model         TEXT NOT NULL,
	purpose       TEXT NOT NULL,
	input_tokens  INTEGER NOT NULL DEFAULT 0,
	output_tokens INTEGER NOT NULL DEFAULT 0,
	latency_ms    INTEGER NOT NULL DEFAULT 0,
	success       INTEGER NOT NULL DEFAULT 0,
	error_message TEXT NOT NULL DEFAULT '',
	request_body  TEXT NOT NULL DEFAULT '',
	response_body TEXT NOT NULL DEFAULT ''
);
`
