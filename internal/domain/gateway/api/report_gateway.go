package api

import (
	"context"
	"io"
)

// ReportGateway defines the network calls made against the resort site
type ReportGateway interface {
	// FetchPage performs a single GET of the report page and returns its text.
	// Every failure wraps model.ErrTransport; there is no retry.
	FetchPage(ctx context.Context, path string) (string, error)

	// FetchResource streams the binary resource at path into w without
	// holding it in memory. It returns the number of bytes copied.
	FetchResource(ctx context.Context, path string, w io.Writer) (int64, error)
}
