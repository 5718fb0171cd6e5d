package dto

// SeedRequest represents a seed request for one chain
type SeedRequest struct {
	ChainID string `uri:"chainId" binding:"required" example:"fantom_mainnet"`
}
