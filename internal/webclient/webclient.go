package webclient

import "context"

// WebClient retrieves pages for checks. Implementations must be safe for
// concurrent use; the fetch phase calls Get from several goroutines.
type WebClient interface {
	Do(ctx context.Context, req *Request) (*Response, error)
	// Get is a convenience method for simple GET requests
	Get(ctx context.Context, url string) (*Response, error)
	Close() error
}
