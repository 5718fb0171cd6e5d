package ingest

import "github.com/hmrtn/gtc-api/internal/domain"

// Tag returns copies of records stamped with chainID. The input slice is
// left untouched.
func Tag[T domain.Record[T]](records []T, chainID string) []T {
	tagged := make([]T, len(records))
	for i, r := range records {
		tagged[i] = r.WithChainID(chainID)
	}
	return tagged
}
