package api

import (
	"context"
	"fmt"
	"io"
	"snowbird/internal/domain/model"
	"snowbird/pkg/http"
)

// reportGatewayImpl implements the ReportGateway interface
type reportGatewayImpl struct {
	httpClient *http.Client
}

// NewReportGateway creates a new instance of ReportGateway bound to baseUrl
func NewReportGateway(baseUrl string, clientOptions http.ClientOptions) ReportGateway {
	return &reportGatewayImpl{
		httpClient: http.NewHttpClient(baseUrl, clientOptions),
	}
}

// FetchPage fetches the report page
func (g *reportGatewayImpl) FetchPage(ctx context.Context, path string) (string, error) {
	body, status, err := g.httpClient.GetText(ctx, path)
	if err != nil {
		return "", fmt.Errorf("%w: fetch page %s%s (status %d): %w", model.ErrTransport, g.httpClient.BaseURL(), path, status, err)
	}
	return body, nil
}

// FetchResource streams an image into w
func (g *reportGatewayImpl) FetchResource(ctx context.Context, path string, w io.Writer) (int64, error) {
	written, status, err := g.httpClient.GetStream(ctx, path, w)
	if err != nil {
		return written, fmt.Errorf("%w: fetch resource %s (status %d): %w", model.ErrTransport, path, status, err)
	}
	return written, nil
}
