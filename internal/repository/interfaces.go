package repository

import (
	"context"

	"github.com/hmrtn/gtc-api/internal/domain"
)

// RecordWriter persists rows of a single entity kind
type RecordWriter interface {
	// InsertBatch inserts the rows in one statement, skipping rows whose id
	// already exists. It returns the number of rows actually added.
	InsertBatch(ctx context.Context, kind domain.Kind, rows [][]interface{}) (int64, error)
}

// RecordReader reads persisted records back, across all chains
type RecordReader interface {
	ListPrograms(ctx context.Context) ([]domain.Program, error)
	ListRounds(ctx context.Context) ([]domain.Round, error)
	ListProjects(ctx context.Context) ([]domain.Project, error)
	ListVotes(ctx context.Context) ([]domain.Vote, error)
}

// RecordRepository defines the interface for record storage operations
type RecordRepository interface {
	RecordWriter
	RecordReader

	// InitSchema creates the record tables if they don't exist
	InitSchema(ctx context.Context) error

	// Ping checks if the database connection is alive
	Ping(ctx context.Context) error

	// Close closes the repository and releases resources
	Close() error
}
