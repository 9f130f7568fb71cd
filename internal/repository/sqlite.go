package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/priyanshupaikra/Inter-AI/internal/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS interviewers (
			interviewer_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS students (
			student_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			interviewer_id TEXT,
			student_id TEXT,
			title TEXT NOT NULL,
			description TEXT,
			duration_minutes INTEGER NOT NULL DEFAULT 30,
			status TEXT NOT NULL DEFAULT 'scheduled',
			scheduled_at DATETIME NOT NULL,
			started_at DATETIME,
			ended_at DATETIME,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (interviewer_id) REFERENCES interviewers(interviewer_id),
			FOREIGN KEY (student_id) REFERENCES students(student_id)
		)`,
		`CREATE TABLE IF NOT EXISTS questions (
			question_id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			question_text TEXT NOT NULL,
			category TEXT,
			difficulty TEXT NOT NULL DEFAULT 'medium',
			question_order INTEGER NOT NULL DEFAULT 0,
			expected_answer TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (session_id) REFERENCES sessions(session_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_session ON questions(session_id, question_order)`,
		`CREATE TABLE IF NOT EXISTS transcript_entries (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			speaker TEXT NOT NULL,
			message TEXT NOT NULL,
			question_id INTEGER,
			ts INTEGER NOT NULL,
			FOREIGN KEY (session_id) REFERENCES sessions(session_id),
			FOREIGN KEY (question_id) REFERENCES questions(question_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transcript_session ON transcript_entries(session_id, ts, seq)`,
		`CREATE TABLE IF NOT EXISTS events (
			event_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			ts INTEGER NOT NULL,
			type TEXT NOT NULL,
			payload TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_session ON events(session_id, ts)`,
		`CREATE TABLE IF NOT EXISTS reports (
			report_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL UNIQUE,
			content_type TEXT NOT NULL,
			content BLOB NOT NULL,
			generated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (session_id) REFERENCES sessions(session_id)
		)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}

	// Add new columns for existing DBs (SQLite has limited ALTER TABLE support).
	if err := s.ensureColumn("sessions", "description", "ALTER TABLE sessions ADD COLUMN description TEXT"); err != nil {
		return err
	}
	if err := s.ensureColumn("questions", "expected_answer", "ALTER TABLE questions ADD COLUMN expected_answer TEXT"); err != nil {
		return err
	}
	return nil
}

func (s *SQLiteStore) ensureColumn(tableName, columnName, ddl string) error {
	rows, err := s.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", tableName))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull int
		var dfltValue sql.NullString
		var pk int
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			return err
		}
		if name == columnName {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	_, err = s.db.Exec(ddl)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateInterviewer creates a new interviewer.
func (s *SQLiteStore) CreateInterviewer(ctx context.Context, interviewer *domain.Interviewer) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO interviewers (interviewer_id, name, email, created_at) VALUES (?, ?, ?, ?)`,
		interviewer.InterviewerID, interviewer.Name, interviewer.Email, interviewer.CreatedAt)
	return err
}

// GetInterviewer retrieves an interviewer by ID.
func (s *SQLiteStore) GetInterviewer(ctx context.Context, interviewerID string) (*domain.Interviewer, error) {
	var iv domain.Interviewer
	err := s.db.QueryRowContext(ctx,
		`SELECT interviewer_id, name, email, created_at FROM interviewers WHERE interviewer_id = ?`,
		interviewerID).Scan(&iv.InterviewerID, &iv.Name, &iv.Email, &iv.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &iv, nil
}

// CreateStudent creates a new student.
func (s *SQLiteStore) CreateStudent(ctx context.Context, student *domain.Student) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO students (student_id, name, email, created_at) VALUES (?, ?, ?, ?)`,
		student.StudentID, student.Name, student.Email, student.CreatedAt)
	return err
}

// GetStudent retrieves a student by ID.
func (s *SQLiteStore) GetStudent(ctx context.Context, studentID string) (*domain.Student, error) {
	var st domain.Student
	err := s.db.QueryRowContext(ctx,
		`SELECT student_id, name, email, created_at FROM students WHERE student_id = ?`,
		studentID).Scan(&st.StudentID, &st.Name, &st.Email, &st.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// CreateSession creates a new session.
func (s *SQLiteStore) CreateSession(ctx context.Context, session *domain.Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (session_id, interviewer_id, student_id, title, description, duration_minutes, status, scheduled_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.SessionID, nullString(session.InterviewerID), nullString(session.StudentID),
		session.Title, nullString(session.Description), session.DurationMinutes, session.Status,
		session.ScheduledAt, session.CreatedAt, session.UpdatedAt)
	return err
}

// GetSession retrieves a session by ID. It returns nil, nil when the session does not exist.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	var session domain.Session
	var interviewerID, studentID, description sql.NullString
	var startedAt, endedAt sql.NullTime
	err := s.db.QueryRowContext(ctx,
		`SELECT session_id, interviewer_id, student_id, title, description, duration_minutes, status,
		        scheduled_at, started_at, ended_at, created_at, updated_at
		 FROM sessions WHERE session_id = ?`,
		sessionID).Scan(&session.SessionID, &interviewerID, &studentID, &session.Title, &description,
		&session.DurationMinutes, &session.Status, &session.ScheduledAt, &startedAt, &endedAt,
		&session.CreatedAt, &session.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	session.InterviewerID = interviewerID.String
	session.StudentID = studentID.String
	session.Description = description.String
	if startedAt.Valid {
		session.StartedAt = &startedAt.Time
	}
	if endedAt.Valid {
		session.EndedAt = &endedAt.Time
	}
	return &session, nil
}

// UpdateSessionStatus updates the lifecycle status of a session. Nil timestamps leave the
// stored value untouched.
func (s *SQLiteStore) UpdateSessionStatus(ctx context.Context, sessionID string, status domain.SessionStatus, startedAt, endedAt *time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions
		 SET status = ?, started_at = COALESCE(?, started_at), ended_at = COALESCE(?, ended_at), updated_at = ?
		 WHERE session_id = ?`,
		status, nullTime(startedAt), nullTime(endedAt), time.Now(), sessionID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("session %s: %w", sessionID, domain.ErrNotFound)
	}
	return nil
}

// CreateQuestions inserts questions for a session in one transaction. Questions without an
// explicit order are appended after the current last question.
func (s *SQLiteStore) CreateQuestions(ctx context.Context, sessionID string, questions []domain.Question) ([]domain.Question, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var maxOrder sql.NullInt64
	if err := tx.QueryRowContext(ctx,
		`SELECT MAX(question_order) FROM questions WHERE session_id = ?`, sessionID).Scan(&maxOrder); err != nil {
		return nil, err
	}
	next := int(maxOrder.Int64) + 1

	now := time.Now()
	created := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		q.SessionID = sessionID
		if q.Order <= 0 {
			q.Order = next
		}
		if q.Order >= next {
			next = q.Order + 1
		}
		if q.Difficulty == "" {
			q.Difficulty = domain.DifficultyMedium
		}
		q.CreatedAt = now
		res, err := tx.ExecContext(ctx,
			`INSERT INTO questions (session_id, question_text, category, difficulty, question_order, expected_answer, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			sessionID, q.Text, nullString(q.Category), q.Difficulty, q.Order, nullString(q.ExpectedAnswer), q.CreatedAt)
		if err != nil {
			return nil, err
		}
		if q.QuestionID, err = res.LastInsertId(); err != nil {
			return nil, err
		}
		created = append(created, q)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return created, nil
}

// ListQuestions returns the questions of a session in asking order.
func (s *SQLiteStore) ListQuestions(ctx context.Context, sessionID string) ([]domain.Question, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT question_id, session_id, question_text, category, difficulty, question_order, expected_answer, created_at
		 FROM questions WHERE session_id = ? ORDER BY question_order ASC, question_id ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var q domain.Question
		var category, expected sql.NullString
		if err := rows.Scan(&q.QuestionID, &q.SessionID, &q.Text, &category, &q.Difficulty, &q.Order, &expected, &q.CreatedAt); err != nil {
			return nil, err
		}
		q.Category = category.String
		q.ExpectedAnswer = expected.String
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// AppendTranscriptEntry appends one turn to a session transcript and fills in its sequence number.
func (s *SQLiteStore) AppendTranscriptEntry(ctx context.Context, entry *domain.TranscriptEntry) error {
	var questionID sql.NullInt64
	if entry.QuestionID != nil {
		questionID = sql.NullInt64{Int64: *entry.QuestionID, Valid: true}
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO transcript_entries (session_id, speaker, message, question_id, ts) VALUES (?, ?, ?, ?, ?)`,
		entry.SessionID, entry.Speaker, entry.Message, questionID, entry.Timestamp.UnixMilli())
	if err != nil {
		return err
	}
	entry.Seq, err = res.LastInsertId()
	return err
}

// ListTranscript returns the transcript of a session ordered by timestamp, then insertion order.
func (s *SQLiteStore) ListTranscript(ctx context.Context, sessionID string) ([]domain.TranscriptEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, session_id, speaker, message, question_id, ts
		 FROM transcript_entries WHERE session_id = ? ORDER BY ts ASC, seq ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.TranscriptEntry
	for rows.Next() {
		var e domain.TranscriptEntry
		var questionID sql.NullInt64
		var ts int64
		if err := rows.Scan(&e.Seq, &e.SessionID, &e.Speaker, &e.Message, &questionID, &ts); err != nil {
			return nil, err
		}
		if questionID.Valid {
			id := questionID.Int64
			e.QuestionID = &id
		}
		e.Timestamp = time.UnixMilli(ts)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// LastTranscriptTime returns the timestamp of the latest transcript entry, or the zero time.
func (s *SQLiteStore) LastTranscriptTime(ctx context.Context, sessionID string) (time.Time, error) {
	var ts sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(ts) FROM transcript_entries WHERE session_id = ?`, sessionID).Scan(&ts)
	if err != nil {
		return time.Time{}, err
	}
	if !ts.Valid {
		return time.Time{}, nil
	}
	return time.UnixMilli(ts.Int64), nil
}

// CreateEvent creates a new event.
func (s *SQLiteStore) CreateEvent(ctx context.Context, event *domain.Event) error {
	payload := ""
	if event.Payload != nil {
		payload = string(event.Payload)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (event_id, session_id, ts, type, payload) VALUES (?, ?, ?, ?, ?)`,
		event.EventID, event.SessionID, event.Ts, event.Type, payload)
	return err
}

// GetEvents retrieves events for a session.
func (s *SQLiteStore) GetEvents(ctx context.Context, sessionID string, afterTs int64, types []string, limit int) ([]domain.Event, error) {
	query := `SELECT event_id, session_id, ts, type, payload FROM events WHERE session_id = ?`
	args := []interface{}{sessionID}

	if afterTs > 0 {
		query += ` AND ts > ?`
		args = append(args, afterTs)
	}

	if len(types) > 0 {
		placeholders := make([]string, len(types))
		for i, t := range types {
			placeholders[i] = "?"
			args = append(args, t)
		}
		query += fmt.Sprintf(` AND type IN (%s)`, strings.Join(placeholders, ","))
	}

	query += ` ORDER BY ts ASC, rowid ASC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var event domain.Event
		var payload sql.NullString
		if err := rows.Scan(&event.EventID, &event.SessionID, &event.Ts, &event.Type, &payload); err != nil {
			return nil, err
		}
		if payload.Valid && payload.String != "" {
			event.Payload = []byte(payload.String)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// CreateReport stores a rendered report. A session holds at most one report.
func (s *SQLiteStore) CreateReport(ctx context.Context, report *domain.Report) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reports (report_id, session_id, content_type, content, generated_at) VALUES (?, ?, ?, ?, ?)`,
		report.ReportID, report.SessionID, report.ContentType, report.Content, report.GeneratedAt)
	return err
}

// GetReport retrieves the report of a session. It returns nil, nil when none exists.
func (s *SQLiteStore) GetReport(ctx context.Context, sessionID string) (*domain.Report, error) {
	var r domain.Report
	err := s.db.QueryRowContext(ctx,
		`SELECT report_id, session_id, content_type, content, generated_at FROM reports WHERE session_id = ?`,
		sessionID).Scan(&r.ReportID, &r.SessionID, &r.ContentType, &r.Content, &r.GeneratedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
