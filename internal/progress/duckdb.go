package progress

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"math"
	"sync"

	"github.com/marcboeker/go-duckdb"

	"github.com/studyassist/backend/internal/models"
)

// DuckEngine aggregates with SQL over an in-memory DuckDB database. The
// sessions table is reloaded on every call.
type DuckEngine struct {
	mu sync.Mutex
	db *sql.DB
}

// NewDuckEngine opens an in-memory DuckDB database.
func NewDuckEngine() (*DuckEngine, error) {
	connector, err := duckdb.NewConnector("", func(execer driver.ExecerContext) error {
		pragmas := []string{
			"PRAGMA memory_limit='256MB'",
			"PRAGMA threads=2",
			"PRAGMA enable_progress_bar=false",
		}
		for _, pragma := range pragmas {
			if _, err := execer.ExecContext(context.Background(), pragma, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create DuckDB connector: %w", err)
	}

	db := sql.OpenDB(connector)
	_, err = db.Exec(`
		CREATE TABLE sessions (
			subject  VARCHAR NOT NULL,
			duration BIGINT NOT NULL,
			score    INTEGER
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return &DuckEngine{db: db}, nil
}

func (e *DuckEngine) Name() string { return "duckdb" }

func (e *DuckEngine) Aggregate(ctx context.Context, sessions []models.StudySession) (Totals, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	conn, err := e.db.Conn(ctx)
	if err != nil {
		return Totals{}, fmt.Errorf("failed to get connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "DELETE FROM sessions"); err != nil {
		return Totals{}, fmt.Errorf("failed to clear sessions: %w", err)
	}
	if err := appendSessions(conn, sessions); err != nil {
		return Totals{}, err
	}

	t := Totals{Subjects: []models.SubjectTime{}}
	var minutes, count int64
	var avg sql.NullFloat64
	row := conn.QueryRowContext(ctx, `
		SELECT CAST(COALESCE(SUM(duration), 0) AS BIGINT), COUNT(*), AVG(NULLIF(score, 0))
		FROM sessions
	`)
	if err := row.Scan(&minutes, &count, &avg); err != nil {
		return Totals{}, fmt.Errorf("failed to query totals: %w", err)
	}
	t.TotalMinutes = int(minutes)
	t.TotalSessions = int(count)
	if avg.Valid {
		t.AverageScore = int(math.Round(avg.Float64))
	}

	rows, err := conn.QueryContext(ctx, `
		SELECT subject, CAST(SUM(duration) AS BIGINT) AS minutes
		FROM sessions
		GROUP BY subject
		ORDER BY minutes DESC, subject ASC
	`)
	if err != nil {
		return Totals{}, fmt.Errorf("failed to query subjects: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var st models.SubjectTime
		var m int64
		if err := rows.Scan(&st.Subject, &m); err != nil {
			return Totals{}, err
		}
		st.Minutes = int(m)
		t.Subjects = append(t.Subjects, st)
	}
	return t, rows.Err()
}

// appendSessions bulk loads sessions with the native Appender API.
func appendSessions(conn *sql.Conn, sessions []models.StudySession) error {
	if len(sessions) == 0 {
		return nil
	}
	err := conn.Raw(func(driverConn interface{}) error {
		dConn, ok := driverConn.(*duckdb.Conn)
		if !ok {
			return fmt.Errorf("failed to cast to duckdb.Conn")
		}
		appender, err := duckdb.NewAppenderFromConn(dConn, "", "sessions")
		if err != nil {
			return fmt.Errorf("failed to create appender: %w", err)
		}
		defer appender.Close()

		for i, s := range sessions {
			var score driver.Value
			if s.Score != nil {
				score = int32(*s.Score)
			}
			if err := appender.AppendRow(s.Subject, int64(s.Duration), score); err != nil {
				return fmt.Errorf("failed to append row %d: %w", i, err)
			}
		}
		return appender.Flush()
	})
	if err != nil {
		return fmt.Errorf("appender error: %w", err)
	}
	return nil
}

// Close closes the database.
func (e *DuckEngine) Close() error {
	if e.db != nil {
		return e.db.Close()
	}
	return nil
}
