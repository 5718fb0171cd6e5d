package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/adlio/schema"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/hmrtn/gtc-api/internal/domain"
)

// Repository implements RecordRepository for Postgres
type Repository struct {
	client *Client
	log    *zap.Logger
}

// NewRepository creates a new Postgres repository
func NewRepository(client *Client, log *zap.Logger) *Repository {
	return &Repository{
		client: client,
		log:    log,
	}
}

// InitSchema applies the record table migrations
func (r *Repository) InitSchema(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := schema.NewMigrator().Apply(r.client.DB(), Migrations); err != nil {
		return fmt.Errorf("failed to apply schema migrations: %w", err)
	}

	r.log.Info("Postgres schema initialized successfully")
	return nil
}

// insertQuery builds one multi-row insert that skips rows whose id exists
func insertQuery(kind domain.Kind, rows [][]interface{}) (string, []interface{}, error) {
	stmt := sq.
		Insert(kind.Table()).
		Columns(kind.Columns()...).
		PlaceholderFormat(sq.Dollar).
		Suffix("ON CONFLICT (id)").
		Suffix("DO NOTHING")

	for _, row := range rows {
		stmt = stmt.Values(row...)
	}

	return stmt.ToSql()
}

// InsertBatch inserts rows into the kind's table in a single statement.
// Rows whose id is already present are skipped without error.
func (r *Repository) InsertBatch(ctx context.Context, kind domain.Kind, rows [][]interface{}) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if !kind.Valid() {
		return 0, fmt.Errorf("unknown entity kind: %q", kind)
	}

	query, args, err := insertQuery(kind, rows)
	if err != nil {
		return 0, fmt.Errorf("failed to build %s insert: %w", kind, err)
	}

	res, err := r.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			r.log.Error("Postgres rejected batch",
				zap.String("table", kind.Table()),
				zap.String("code", string(pqErr.Code)),
				zap.String("constraint", pqErr.Constraint),
				zap.Int("rows", len(rows)))
		}
		return 0, fmt.Errorf("failed to insert %s batch: %w", kind, err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return inserted, nil
}

func selectQuery(kind domain.Kind) (string, []interface{}, error) {
	return sq.
		Select(kind.Columns()...).
		From(kind.Table()).
		OrderBy("id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
}

func list[T any](ctx context.Context, r *Repository, kind domain.Kind, scan func(*sql.Rows) (T, error)) ([]T, error) {
	query, args, err := selectQuery(kind)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s select: %w", kind, err)
	}

	rows, err := r.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", kind.Plural(), err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			r.log.Error("Failed to close rows", zap.String("table", kind.Table()), zap.Error(err))
		}
	}(rows)

	out := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", kind, err)
		}
		out = append(out, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", kind, err)
	}

	return out, nil
}

// ListPrograms returns every stored program ordered by id
func (r *Repository) ListPrograms(ctx context.Context) ([]domain.Program, error) {
	return list(ctx, r, domain.KindProgram, func(rows *sql.Rows) (domain.Program, error) {
		var p domain.Program
		err := rows.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt, &p.ChainID)
		return p, err
	})
}

// ListRounds returns every stored round ordered by id
func (r *Repository) ListRounds(ctx context.Context) ([]domain.Round, error) {
	return list(ctx, r, domain.KindRound, func(rows *sql.Rows) (domain.Round, error) {
		var rd domain.Round
		err := rows.Scan(&rd.ID, &rd.CreatedAt, &rd.UpdatedAt, &rd.ChainID)
		return rd, err
	})
}

// ListProjects returns every stored project ordered by id
func (r *Repository) ListProjects(ctx context.Context) ([]domain.Project, error) {
	return list(ctx, r, domain.KindProject, func(rows *sql.Rows) (domain.Project, error) {
		var p domain.Project
		err := rows.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt, &p.ChainID)
		return p, err
	})
}

// ListVotes returns every stored vote ordered by id
func (r *Repository) ListVotes(ctx context.Context) ([]domain.Vote, error) {
	return list(ctx, r, domain.KindVote, func(rows *sql.Rows) (domain.Vote, error) {
		var v domain.Vote
		err := rows.Scan(&v.ID, &v.CreatedAt, &v.Amount, &v.From, &v.To, &v.Token, &v.Version, &v.ProjectID, &v.ChainID)
		return v, err
	})
}

// Ping checks if the Postgres connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.DB().PingContext(ctx)
}

// Close closes the Postgres connection
func (r *Repository) Close() error {
	return r.client.Close()
}
