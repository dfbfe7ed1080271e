package verification

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
)

// RestyProviderConfig configures the HTTP PAN provider client.
type RestyProviderConfig struct {
	BaseURL        string
	APIKey         string
	RequestTimeout time.Duration
	MaxElapsedTime time.Duration
	MaxInterval    time.Duration
}

// RestyProvider calls the third-party PAN verification endpoint with bounded
// exponential backoff. Client errors (4xx) are permanent; everything else is
// retried until MaxElapsedTime.
type RestyProvider struct {
	client         *resty.Client
	maxElapsedTime time.Duration
	maxInterval    time.Duration
}

// NewRestyProvider builds the provider client.
func NewRestyProvider(cfg RestyProviderConfig) (*RestyProvider, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("verification: provider base url is required")
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	maxElapsed := cfg.MaxElapsedTime
	if maxElapsed <= 0 {
		maxElapsed = 2 * time.Minute
	}
	maxInterval := cfg.MaxInterval
	if maxInterval <= 0 {
		maxInterval = 15 * time.Second
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout)
	if cfg.APIKey != "" {
		client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	}

	return &RestyProvider{
		client:         client,
		maxElapsedTime: maxElapsed,
		maxInterval:    maxInterval,
	}, nil
}

func (p *RestyProvider) Verify(ctx context.Context, req ProviderRequest) (*ProviderResponse, error) {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = p.maxElapsedTime
	b.MaxInterval = p.maxInterval

	var out ProviderResponse

	err := backoff.Retry(func() error {
		resp, err := p.client.R().
			SetContext(ctx).
			SetBody(req).
			SetResult(&out).
			Post("/verify/pan")
		if err != nil {
			return err
		}
		status := resp.StatusCode()
		if status >= http.StatusBadRequest && status < http.StatusInternalServerError {
			return backoff.Permanent(fmt.Errorf("provider rejected request: %d", status))
		}
		if status != http.StatusOK {
			return fmt.Errorf("provider responded %d", status)
		}
		return nil
	}, backoff.WithContext(b, ctx))
	if err != nil {
		return nil, err
	}
	return &out, nil
}

var _ Provider = (*RestyProvider)(nil)
