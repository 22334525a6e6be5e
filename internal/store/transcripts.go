package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/HEMANT2027/StreamSightAI/internal/domain"
)

// ErrNotFound is returned when no transcript exists for a session.
var ErrNotFound = errors.New("transcript not found")

// TranscriptSummary is a listing row: the transcript without its messages.
type TranscriptSummary struct {
	SessionID    string
	ExportedAt   time.Time
	MessageCount int
}

// TranscriptStore archives conversation exports.
type TranscriptStore struct {
	db *DB
}

// NewTranscriptStore creates a transcript store using the given database.
func NewTranscriptStore(db *DB) *TranscriptStore {
	return &TranscriptStore{db: db}
}

// Save archives an export. Saving a session that was archived before
// replaces the earlier transcript.
func (s *TranscriptStore) Save(export domain.Export) error {
	tx, err := s.db.sql.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var name, mime any
	var size any
	if export.Attachment != nil {
		name = export.Attachment.Filename
		mime = export.Attachment.MimeType
		size = export.Attachment.Size
	}

	if _, err := tx.Exec(
		`INSERT INTO transcripts (session_id, exported_at, video_name, video_type, video_size)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET
		   exported_at = excluded.exported_at,
		   video_name  = excluded.video_name,
		   video_type  = excluded.video_type,
		   video_size  = excluded.video_size`,
		export.SessionID, export.ExportedAt.UTC().Format(time.RFC3339Nano), name, mime, size,
	); err != nil {
		return fmt.Errorf("saving transcript: %w", err)
	}

	if _, err := tx.Exec(
		`DELETE FROM transcript_messages WHERE session_id = ?`, export.SessionID,
	); err != nil {
		return fmt.Errorf("clearing old messages: %w", err)
	}

	for _, msg := range export.Messages {
		if _, err := tx.Exec(
			`INSERT INTO transcript_messages (session_id, text, is_user, is_error, timestamp)
			 VALUES (?, ?, ?, ?, ?)`,
			export.SessionID, msg.Text, msg.IsUser, msg.IsError,
			msg.Timestamp.UTC().Format(time.RFC3339Nano),
		); err != nil {
			return fmt.Errorf("saving message: %w", err)
		}
	}

	return tx.Commit()
}

// Get loads an archived transcript by session ID.
func (s *TranscriptStore) Get(sessionID string) (domain.Export, error) {
	var export domain.Export
	var exportedAt string
	var name, mime sql.NullString
	var size sql.NullInt64

	err := s.db.sql.QueryRow(
		`SELECT session_id, exported_at, video_name, video_type, video_size
		 FROM transcripts WHERE session_id = ?`, sessionID,
	).Scan(&export.SessionID, &exportedAt, &name, &mime, &size)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Export{}, ErrNotFound
	}
	if err != nil {
		return domain.Export{}, fmt.Errorf("loading transcript: %w", err)
	}

	export.ExportedAt, err = time.Parse(time.RFC3339Nano, exportedAt)
	if err != nil {
		return domain.Export{}, fmt.Errorf("parsing exported_at: %w", err)
	}
	if name.Valid {
		export.Attachment = &domain.AttachmentMeta{
			Filename: name.String,
			MimeType: mime.String,
			Size:     size.Int64,
		}
	}

	export.Messages, err = s.loadMessages(sessionID)
	if err != nil {
		return domain.Export{}, err
	}
	return export, nil
}

// List returns summaries of all archived transcripts, newest first.
func (s *TranscriptStore) List() ([]TranscriptSummary, error) {
	rows, err := s.db.sql.Query(
		`SELECT t.session_id, t.exported_at, COUNT(m.id)
		 FROM transcripts t
		 LEFT JOIN transcript_messages m ON m.session_id = t.session_id
		 GROUP BY t.session_id
		 ORDER BY t.exported_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing transcripts: %w", err)
	}
	defer rows.Close()

	var out []TranscriptSummary
	for rows.Next() {
		var sum TranscriptSummary
		var exportedAt string
		if err := rows.Scan(&sum.SessionID, &exportedAt, &sum.MessageCount); err != nil {
			return nil, fmt.Errorf("scanning transcript row: %w", err)
		}
		if sum.ExportedAt, err = time.Parse(time.RFC3339Nano, exportedAt); err != nil {
			return nil, fmt.Errorf("parsing exported_at: %w", err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Delete removes an archived transcript and its messages.
func (s *TranscriptStore) Delete(sessionID string) error {
	res, err := s.db.sql.Exec(`DELETE FROM transcripts WHERE session_id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("deleting transcript: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *TranscriptStore) loadMessages(sessionID string) ([]domain.ExportedMessage, error) {
	rows, err := s.db.sql.Query(
		`SELECT text, is_user, is_error, timestamp
		 FROM transcript_messages WHERE session_id = ? ORDER BY id`, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("loading messages: %w", err)
	}
	defer rows.Close()

	var msgs []domain.ExportedMessage
	for rows.Next() {
		var msg domain.ExportedMessage
		var ts string
		if err := rows.Scan(&msg.Text, &msg.IsUser, &msg.IsError, &ts); err != nil {
			return nil, fmt.Errorf("scanning message row: %w", err)
		}
		if msg.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("parsing message timestamp: %w", err)
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}
