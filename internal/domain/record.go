package domain

// Record is implemented by every entity type. WithChainID returns a copy,
// the receiver is never modified.
type Record[T any] interface {
	RecordID() string
	WithChainID(chainID string) T
	Values() []interface{}
}

// Program represents a grant program as stored in the program table
type Program struct {
	ID        string  `json:"id"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
	ChainID   *string `json:"chainId"`
}

// Round represents a funding round as stored in the round table
type Round struct {
	ID        string  `json:"id"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
	ChainID   *string `json:"chainId"`
}

// Project represents a project registered in a round. The provider calls
// these round projects.
type Project struct {
	ID        string  `json:"id"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
	ChainID   *string `json:"chainId"`
}

// Vote represents a quadratic funding vote. Amount is kept as the decimal
// text the provider returns.
type Vote struct {
	ID        string  `json:"id"`
	CreatedAt string  `json:"createdAt"`
	Amount    string  `json:"amount"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Token     string  `json:"token"`
	Version   string  `json:"version"`
	ProjectID *string `json:"projectId"`
	ChainID   *string `json:"chainId"`
}

func (p Program) RecordID() string { return p.ID }

func (p Program) WithChainID(chainID string) Program {
	p.ChainID = &chainID
	return p
}

func (p Program) Values() []interface{} {
	return []interface{}{p.ID, p.CreatedAt, p.UpdatedAt, p.ChainID}
}

func (r Round) RecordID() string { return r.ID }

func (r Round) WithChainID(chainID string) Round {
	r.ChainID = &chainID
	return r
}

func (r Round) Values() []interface{} {
	return []interface{}{r.ID, r.CreatedAt, r.UpdatedAt, r.ChainID}
}

func (p Project) RecordID() string { return p.ID }

func (p Project) WithChainID(chainID string) Project {
	p.ChainID = &chainID
	return p
}

func (p Project) Values() []interface{} {
	return []interface{}{p.ID, p.CreatedAt, p.UpdatedAt, p.ChainID}
}

func (v Vote) RecordID() string { return v.ID }

func (v Vote) WithChainID(chainID string) Vote {
	v.ChainID = &chainID
	return v
}

func (v Vote) Values() []interface{} {
	return []interface{}{v.ID, v.CreatedAt, v.Amount, v.From, v.To, v.Token, v.Version, v.ProjectID, v.ChainID}
}
