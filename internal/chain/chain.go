package chain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hmrtn/gtc-api/internal/config"
)

// Name is the identifier used in the /seed/{chainId} route.
type Name string

const (
	EthereumMainnet Name = "ethereum_mainnet"
	EthereumGoerli  Name = "ethereum_goerli"
	OptimismMainnet Name = "optimism_mainnet"
	FantomMainnet   Name = "fantom_mainnet"
	FantomTestnet   Name = "fantom_testnet"
)

// Chain is a supported network. ID is the tag written into every record.
type Chain struct {
	Name Name   `json:"name"`
	ID   string `json:"id"`
}

var supported = []Chain{
	{Name: EthereumMainnet, ID: "1"},
	{Name: EthereumGoerli, ID: "5"},
	{Name: OptimismMainnet, ID: "10"},
	{Name: FantomMainnet, ID: "250"},
	{Name: FantomTestnet, ID: "4002"},
}

// ErrEndpointNotConfigured is returned for a supported chain whose query
// endpoint is missing from the configuration.
var ErrEndpointNotConfigured = errors.New("chain endpoint not configured")

// UnknownChainError rejects a chain name outside the supported set.
type UnknownChainError struct {
	Name string
}

func (e *UnknownChainError) Error() string {
	return fmt.Sprintf("unknown chain id: %q", e.Name)
}

// Label is the human readable form, e.g. "fantom mainnet".
func (c Chain) Label() string {
	return strings.ReplaceAll(string(c.Name), "_", " ")
}

// Supported returns all chains in a stable order.
func Supported() []Chain {
	out := make([]Chain, len(supported))
	copy(out, supported)
	return out
}

// Lookup finds a supported chain by name.
func Lookup(name string) (Chain, error) {
	for _, c := range supported {
		if string(c.Name) == name {
			return c, nil
		}
	}
	return Chain{}, &UnknownChainError{Name: name}
}

// Target is a chain paired with the endpoint its records are pulled from.
type Target struct {
	Chain    Chain
	Endpoint string
}

// Registry maps supported chains to their configured endpoints.
type Registry struct {
	endpoints map[Name]string
}

// NewRegistry creates a registry from explicit endpoints.
func NewRegistry(endpoints map[Name]string) *Registry {
	r := &Registry{endpoints: make(map[Name]string, len(endpoints))}
	for name, url := range endpoints {
		r.endpoints[name] = strings.TrimSpace(url)
	}
	return r
}

// NewRegistryFromConfig creates a registry from the subgraph settings.
func NewRegistryFromConfig(cfg config.Subgraph) *Registry {
	return NewRegistry(map[Name]string{
		EthereumMainnet: cfg.EthereumMainnet,
		EthereumGoerli:  cfg.EthereumGoerli,
		OptimismMainnet: cfg.OptimismMainnet,
		FantomMainnet:   cfg.FantomMainnet,
		FantomTestnet:   cfg.FantomTestnet,
	})
}

// Resolve validates the name and returns its target. Unknown names fail
// with *UnknownChainError; known chains without an endpoint fail with
// ErrEndpointNotConfigured.
func (r *Registry) Resolve(name string) (Target, error) {
	c, err := Lookup(name)
	if err != nil {
		return Target{}, err
	}

	endpoint := r.endpoints[c.Name]
	if endpoint == "" {
		return Target{}, fmt.Errorf("%s: %w", c.Name, ErrEndpointNotConfigured)
	}

	return Target{Chain: c, Endpoint: endpoint}, nil
}

// Configured reports whether the chain has an endpoint.
func (r *Registry) Configured(name Name) bool {
	return r.endpoints[name] != ""
}
