package ical

import (
	"context"
	"time"

	"staybook/pkg/client"
)

type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher downloads feeds with a fixed timeout and no retries.
type HTTPFetcher struct {
	client *client.HttpClient
}

func NewHTTPFetcher(timeout time.Duration, userAgent string) *HTTPFetcher {
	return &HTTPFetcher{client: client.NewHttpClient(timeout, userAgent)}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f.client.Get(ctx, url, "text/calendar, */*;q=0.8")
}
