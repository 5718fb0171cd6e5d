package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/hmrtn/gtc-api/internal/chain"
	"github.com/hmrtn/gtc-api/internal/domain"
	"github.com/hmrtn/gtc-api/internal/dto"
	"github.com/hmrtn/gtc-api/internal/ingest"
	"github.com/hmrtn/gtc-api/internal/repository"
)

// SourceFactory builds the page sources for a resolved chain
type SourceFactory func(target chain.Target) ingest.Sources

// IngestionService represents ingestion service
type IngestionService struct {
	registry   *chain.Registry
	sources    SourceFactory
	runner     *ingest.Runner
	repository repository.RecordRepository
	log        *zap.Logger
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(registry *chain.Registry, sources SourceFactory, runner *ingest.Runner, repo repository.RecordRepository, log *zap.Logger) *IngestionService {
	return &IngestionService{
		registry:   registry,
		sources:    sources,
		runner:     runner,
		repository: repo,
		log:        log,
	}
}

// Seed runs a full ingestion for the named chain. The name is validated
// before any source is built, so a rejected name causes no fetch or write.
func (s *IngestionService) Seed(ctx context.Context, chainName string) (*ingest.RunReport, error) {
	target, err := s.registry.Resolve(chainName)
	if err != nil {
		s.log.Warn("Rejected seed request",
			zap.String("chain", chainName),
			zap.Error(err))
		return nil, err
	}

	s.log.Info("Seeding chain",
		zap.String("chain", string(target.Chain.Name)),
		zap.String("chain_id", target.Chain.ID),
		zap.String("endpoint", target.Endpoint))

	return s.runner.Run(ctx, target.Chain, s.sources(target))
}

// Chains lists the supported chains with their configuration state
func (s *IngestionService) Chains() []dto.ChainResponse {
	supported := chain.Supported()
	out := make([]dto.ChainResponse, 0, len(supported))
	for _, c := range supported {
		out = append(out, dto.ChainResponse{
			Name:       string(c.Name),
			ID:         c.ID,
			Configured: s.registry.Configured(c.Name),
		})
	}
	return out
}

// ListPrograms returns all stored programs
func (s *IngestionService) ListPrograms(ctx context.Context) ([]domain.Program, error) {
	return s.repository.ListPrograms(ctx)
}

// ListRounds returns all stored rounds
func (s *IngestionService) ListRounds(ctx context.Context) ([]domain.Round, error) {
	return s.repository.ListRounds(ctx)
}

// ListProjects returns all stored projects
func (s *IngestionService) ListProjects(ctx context.Context) ([]domain.Project, error) {
	return s.repository.ListProjects(ctx)
}

// ListVotes returns all stored votes
func (s *IngestionService) ListVotes(ctx context.Context) ([]domain.Vote, error) {
	return s.repository.ListVotes(ctx)
}

// Ping checks the store connection
func (s *IngestionService) Ping(ctx context.Context) error {
	return s.repository.Ping(ctx)
}
