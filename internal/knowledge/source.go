package knowledge

import (
	"context"
	"errors"
	"fmt"

	"github.com/ppiankov/factcheck/internal/model"
)

var (
	// ErrNotFound means no article matches the query
	ErrNotFound = errors.New("no matching article")

	// ErrDisambiguation means the query resolves to a disambiguation page
	ErrDisambiguation = errors.New("ambiguous query")
)

// Source looks up a short reference summary for a query string
type Source interface {
	// Name returns the source name
	Name() string

	// Lookup returns the summary for query, or an error wrapping
	// ErrNotFound or ErrDisambiguation when no usable article exists
	Lookup(ctx context.Context, query string) (*model.Fact, error)
}

// LookupError records the query that failed and why
type LookupError struct {
	Source string
	Query  string
	Err    error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s lookup %q: %v", e.Source, e.Query, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// IsMiss reports whether err is a definitive miss rather than a transient failure
func IsMiss(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrDisambiguation)
}

// Waiter blocks until a request to rawURL may proceed
type Waiter interface {
	Wait(ctx context.Context, rawURL string) error
}
