package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/hmrtn/gtc-api/docs"
	"github.com/hmrtn/gtc-api/internal/chain"
	"github.com/hmrtn/gtc-api/internal/dto"
	"github.com/hmrtn/gtc-api/internal/ingest"
	"github.com/hmrtn/gtc-api/internal/service"
)

type Handler struct {
	ingestionService service.IngestionServicer
	router           *gin.Engine
	log              *zap.Logger
}

func NewHandler(ingestionService service.IngestionServicer, log *zap.Logger) *Handler {
	h := &Handler{
		ingestionService: ingestionService,
		router:           gin.Default(),
		log:              log,
	}

	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/health", h.healthCheck)
	h.router.GET("/seed/:chainId", h.seed)
	h.router.GET("/chains", h.listChains)
	h.router.GET("/programs", h.listPrograms)
	h.router.GET("/rounds", h.listRounds)
	h.router.GET("/projects", h.listProjects)
	h.router.GET("/votes", h.listVotes)
	h.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	h.router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// healthCheck handles health check requests
// @Summary Health check
// @Description Check if the service and its database are reachable
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	if err := h.ingestionService.Ping(c.Request.Context()); err != nil {
		h.log.Warn("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, dto.HealthResponse{
			Status:   "degraded",
			Database: "unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:   "ok",
		Database: "ok",
	})
}

// seed handles GET /seed/{chainId}
// @Summary Seed a chain
// @Description Pull programs, rounds, projects and votes for one chain and store the ones not seen before
// @Tags seed
// @Produce plain
// @Produce json
// @Param chainId path string true "Chain name" Enums(ethereum_mainnet, ethereum_goerli, optimism_mainnet, fantom_mainnet, fantom_testnet)
// @Success 200 {string} string "done: fantom mainnet data seeding"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /seed/{chainId} [get]
func (h *Handler) seed(c *gin.Context) {
	var req dto.SeedRequest

	if err := c.ShouldBindUri(&req); err != nil {
		h.log.Warn("Invalid seed request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	// A run is not abandoned when the caller disconnects.
	ctx := context.WithoutCancel(c.Request.Context())

	report, err := h.ingestionService.Seed(ctx, req.ChainID)
	if err != nil {
		status, code := seedErrorStatus(err)
		if status >= http.StatusInternalServerError {
			h.log.Error("Seed failed",
				zap.String("chain", req.ChainID),
				zap.Error(err))
		}
		c.JSON(status, dto.ErrorResponse{
			Error:   code,
			Message: err.Error(),
		})
		return
	}

	h.log.Info("Seed completed",
		zap.String("chain", req.ChainID),
		zap.String("run_id", report.RunID),
		zap.Int("fetched", report.Fetched()),
		zap.Int64("inserted", report.Inserted()))

	c.String(http.StatusOK, "done: %s data seeding", report.Chain.Label())
}

// seedErrorStatus maps a seed failure to a status code and error code
func seedErrorStatus(err error) (int, string) {
	var (
		unknownChain *chain.UnknownChainError
		providerErr  *ingest.ProviderError
		storeErr     *ingest.StoreWriteError
	)

	switch {
	case errors.As(err, &unknownChain):
		return http.StatusBadRequest, "invalid_chain"
	case errors.Is(err, chain.ErrEndpointNotConfigured):
		return http.StatusServiceUnavailable, "chain_not_configured"
	case errors.As(err, &providerErr):
		return http.StatusBadGateway, "provider_error"
	case errors.As(err, &storeErr):
		return http.StatusInternalServerError, "store_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// listChains handles GET /chains
// @Summary List chains
// @Description List supported chains and whether an endpoint is configured for each
// @Tags chains
// @Produce json
// @Success 200 {array} dto.ChainResponse
// @Router /chains [get]
func (h *Handler) listChains(c *gin.Context) {
	c.JSON(http.StatusOK, h.ingestionService.Chains())
}

// listPrograms handles GET /programs
// @Summary List programs
// @Description Return every stored program across all chains
// @Tags records
// @Produce json
// @Success 200 {array} domain.Program
// @Failure 500 {object} dto.ErrorResponse
// @Router /programs [get]
func (h *Handler) listPrograms(c *gin.Context) {
	programs, err := h.ingestionService.ListPrograms(c.Request.Context())
	respondList(c, h.log, "programs", programs, err)
}

// listRounds handles GET /rounds
// @Summary List rounds
// @Description Return every stored round across all chains
// @Tags records
// @Produce json
// @Success 200 {array} domain.Round
// @Failure 500 {object} dto.ErrorResponse
// @Router /rounds [get]
func (h *Handler) listRounds(c *gin.Context) {
	rounds, err := h.ingestionService.ListRounds(c.Request.Context())
	respondList(c, h.log, "rounds", rounds, err)
}

// listProjects handles GET /projects
// @Summary List projects
// @Description Return every stored round project across all chains
// @Tags records
// @Produce json
// @Success 200 {array} domain.Project
// @Failure 500 {object} dto.ErrorResponse
// @Router /projects [get]
func (h *Handler) listProjects(c *gin.Context) {
	projects, err := h.ingestionService.ListProjects(c.Request.Context())
	respondList(c, h.log, "projects", projects, err)
}

// listVotes handles GET /votes
// @Summary List votes
// @Description Return every stored vote across all chains
// @Tags records
// @Produce json
// @Success 200 {array} domain.Vote
// @Failure 500 {object} dto.ErrorResponse
// @Router /votes [get]
func (h *Handler) listVotes(c *gin.Context) {
	votes, err := h.ingestionService.ListVotes(c.Request.Context())
	respondList(c, h.log, "votes", votes, err)
}

func respondList[T any](c *gin.Context, log *zap.Logger, kind string, items []T, err error) {
	if err != nil {
		log.Error("Failed to list records",
			zap.String("kind", kind),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, items)
}
