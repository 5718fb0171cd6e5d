package ingest

import (
	"fmt"

	"github.com/hmrtn/gtc-api/internal/domain"
)

// ProviderError reports a failed or unusable page request. Cursor is the
// id_gt value of the request that failed.
type ProviderError struct {
	Cursor string
	Page   int
	Err    error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider query failed on page %d (after %q): %v", e.Page, e.Cursor, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// StoreWriteError reports a batch insert that failed for a reason other
// than a primary key conflict. Batches before Batch stay committed.
type StoreWriteError struct {
	Kind  domain.Kind
	Batch int
	Size  int
	Err   error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("failed to write %s batch %d (%d rows): %v", e.Kind, e.Batch, e.Size, e.Err)
}

func (e *StoreWriteError) Unwrap() error { return e.Err }

// StageError names the stage that ended a run
type StageError struct {
	Kind domain.Kind
	Err  error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Kind, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
