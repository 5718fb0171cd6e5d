package service

import (
	"context"

	"github.com/hmrtn/gtc-api/internal/domain"
	"github.com/hmrtn/gtc-api/internal/dto"
	"github.com/hmrtn/gtc-api/internal/ingest"
)

// IngestionServicer defines the interface for ingestion service operations
type IngestionServicer interface {
	Seed(ctx context.Context, chainName string) (*ingest.RunReport, error)
	Chains() []dto.ChainResponse
	ListPrograms(ctx context.Context) ([]domain.Program, error)
	ListRounds(ctx context.Context) ([]domain.Round, error)
	ListProjects(ctx context.Context) ([]domain.Project, error)
	ListVotes(ctx context.Context) ([]domain.Vote, error)
	Ping(ctx context.Context) error
}
