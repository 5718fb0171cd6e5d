package dto

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_chain"`
	Message string `json:"message,omitempty" example:"unknown chain id: \"solana\""`
}

// ChainResponse describes a supported chain and whether it can be seeded
type ChainResponse struct {
	Name       string `json:"name" example:"fantom_mainnet"`
	ID         string `json:"id" example:"250"`
	Configured bool   `json:"configured" example:"true"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database" example:"ok"`
}
