package store

// migration represents a single schema migration.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered list of all schema migrations.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create transcripts and transcript messages",
		SQL: `
			CREATE TABLE transcripts (
				session_id  TEXT PRIMARY KEY,
				exported_at TEXT NOT NULL,
				video_name  TEXT,
				video_type  TEXT,
				video_size  INTEGER
			);

			CREATE TABLE transcript_messages (
				id          INTEGER PRIMARY KEY AUTOINCREMENT,
				session_id  TEXT NOT NULL REFERENCES transcripts(session_id) ON DELETE CASCADE,
				text        TEXT NOT NULL,
				is_user     INTEGER NOT NULL DEFAULT 0,
				is_error    INTEGER NOT NULL DEFAULT 0,
				timestamp   TEXT NOT NULL
			);

			CREATE INDEX idx_transcript_messages_session ON transcript_messages (session_id, id);
		`,
	},
}
