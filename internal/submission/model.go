// Package submission archives judged submissions outside the hot judging
// path: a MySQL row per verdict, the compressed source in object storage and
// a Kafka event for downstream consumers. Every piece is optional; a nil
// recorder component is skipped.
package submission

import (
	"context"
	"time"

	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

// Record is one archived submission row.
type Record struct {
	Id           int64     `db:"id"`
	SubmissionId string    `db:"submission_id"`
	UserId       string    `db:"user_id"`
	ProblemId    int64     `db:"problem_id"`
	Language     string    `db:"language"`
	Verdict      string    `db:"verdict"`
	SourceKey    string    `db:"source_key"`
	SourceHash   string    `db:"source_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// Model persists submission rows.
type Model interface {
	Insert(ctx context.Context, rec *Record) error
	ListRecent(ctx context.Context, limit int) ([]Record, error)
	FindBySubmissionId(ctx context.Context, submissionID string) (*Record, error)
}

type mysqlModel struct {
	conn sqlx.SqlConn
}

// NewModel creates a Model on the given connection.
func NewModel(conn sqlx.SqlConn) Model {
	return &mysqlModel{conn: conn}
}

// NewConn opens a MySQL connection for the archive.
func NewConn(dsn string) sqlx.SqlConn {
	return sqlx.NewMysql(dsn)
}

const recordRows = "id, submission_id, user_id, problem_id, language, verdict, source_key, source_hash, created_at"

func (m *mysqlModel) Insert(ctx context.Context, rec *Record) error {
	query := `INSERT INTO submissions
		(submission_id, user_id, problem_id, language, verdict, source_key, source_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := m.conn.ExecCtx(ctx, query,
		rec.SubmissionId,
		rec.UserId,
		rec.ProblemId,
		rec.Language,
		rec.Verdict,
		rec.SourceKey,
		rec.SourceHash,
	)
	return err
}

func (m *mysqlModel) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	var out []Record
	query := "SELECT " + recordRows + " FROM submissions ORDER BY id DESC LIMIT ?"
	if err := m.conn.QueryRowsCtx(ctx, &out, query, limit); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *mysqlModel) FindBySubmissionId(ctx context.Context, submissionID string) (*Record, error) {
	var rec Record
	query := "SELECT " + recordRows + " FROM submissions WHERE submission_id = ? LIMIT 1"
	switch err := m.conn.QueryRowCtx(ctx, &rec, query, submissionID); err {
	case nil:
		return &rec, nil
	case sqlx.ErrNotFound:
		return nil, ErrRecordNotFound
	default:
		return nil, err
	}
}
