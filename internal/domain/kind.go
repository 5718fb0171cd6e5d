package domain

import "fmt"

// Kind selects one of the four entity collections.
type Kind string

const (
	KindProgram Kind = "program"
	KindRound   Kind = "round"
	KindProject Kind = "project"
	KindVote    Kind = "vote"
)

// Kinds lists every entity kind in ingestion order. Votes reference
// projects, so the order matters.
var Kinds = []Kind{KindProgram, KindRound, KindProject, KindVote}

var recordColumns = []string{`id`, `"createdAt"`, `"updatedAt"`, `"chainId"`}

var voteColumns = []string{
	`id`, `"createdAt"`, `amount`, `"from"`, `"to"`, `token`, `version`, `"projectId"`, `"chainId"`,
}

// Table returns the name of the table backing the kind.
func (k Kind) Table() string {
	return string(k)
}

// Columns returns the quoted column identifiers in the order produced by
// the records' Values method.
func (k Kind) Columns() []string {
	if k == KindVote {
		return voteColumns
	}
	return recordColumns
}

// Plural is used in log lines and metric labels.
func (k Kind) Plural() string {
	return string(k) + "s"
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindProgram, KindRound, KindProject, KindVote:
		return true
	}
	return false
}

// ParseKind converts a string into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown entity kind: %q", s)
	}
	return k, nil
}
