package core

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"

	"github.com/smarty/upkeep/contracts"
)

const maxFeedSize = 16 << 20

// FeedClient fetches the release feed at most once, in the background.
type FeedClient struct {
	client    contracts.HTTPClient
	address   string
	userAgent string
	backOff   func() backoff.BackOff

	once     sync.Once
	done     chan struct{}
	releases []contracts.Release
	err      error
}

func NewFeedClient(client contracts.HTTPClient, address, userAgent string, maxElapsed time.Duration, maxRetries int) *FeedClient {
	return &FeedClient{
		client:    client,
		address:   address,
		userAgent: userAgent,
		backOff:   func() backoff.BackOff { return feedBackOff(maxElapsed, maxRetries) },
		done:      make(chan struct{}),
	}
}

func feedBackOff(maxElapsed time.Duration, maxRetries int) backoff.BackOff {
	settings := &backoff.ExponentialBackOff{
		InitialInterval:     500 * time.Millisecond,
		RandomizationFactor: 0.5,
		Multiplier:          1.5,
		MaxInterval:         5 * time.Second,
		MaxElapsedTime:      maxElapsed,
		Stop:                backoff.Stop,
		Clock:               backoff.SystemClock,
	}
	settings.Reset()
	if maxRetries > 0 {
		return backoff.WithMaxRetries(settings, uint64(maxRetries))
	}
	return settings
}

// Begin starts fetching the feed and returns immediately. Only the first call
// has any effect; ctx bounds the fetch it starts.
func (this *FeedClient) Begin(ctx context.Context) {
	this.once.Do(func() {
		go func() {
			defer close(this.done)
			this.releases, this.err = this.fetch(ctx)
		}()
	})
}

// Await blocks until the fetch started by Begin completes and returns the
// releases newest first. A feed the server does not know yields no releases.
func (this *FeedClient) Await(ctx context.Context) ([]contracts.Release, error) {
	this.Begin(ctx)
	select {
	case <-this.done:
	case <-ctx.Done():
		return nil, fmt.Errorf("awaiting update feed: %w", ctx.Err())
	}
	if this.err != nil {
		return nil, this.err
	}
	return append([]contracts.Release(nil), this.releases...), nil
}

func (this *FeedClient) Resolve(ctx context.Context, current contracts.Version) (contracts.UpdateInformation, error) {
	releases, err := this.Await(ctx)
	if err != nil {
		return contracts.UpdateInformation{}, err
	}
	return ResolveUpdate(releases, current), nil
}

func (this *FeedClient) fetch(ctx context.Context) (releases []contracts.Release, err error) {
	operation := func() (err error) {
		releases, err = this.attempt(ctx)
		return err
	}
	notify := func(err error, duration time.Duration) {
		log.Warnf("fetching update feed failed, retrying in %v: %v", duration, err)
	}
	err = backoff.RetryNotify(operation, backoff.WithContext(this.backOff(), ctx), notify)
	if err != nil {
		return nil, fmt.Errorf("fetching update feed %s: %w", this.address, err)
	}
	return releases, nil
}

func (this *FeedClient) attempt(ctx context.Context) ([]contracts.Release, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, this.address, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	request.Header.Set("User-Agent", this.userAgent)

	response, err := this.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", contracts.ErrNetwork, err)
	}
	defer func() { _ = response.Body.Close() }()

	switch status := response.StatusCode; {
	case status == http.StatusOK:
		releases, err := ParseFeed(io.LimitReader(response.Body, maxFeedSize))
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		log.Debugf("update feed lists %d releases", len(releases))
		return releases, nil
	case status == http.StatusNotFound:
		log.Infof("no update feed published at %s", this.address)
		return nil, nil
	case isRetryableStatus(status):
		return nil, fmt.Errorf("%w: %s", contracts.ErrNetwork, response.Status)
	default:
		return nil, backoff.Permanent(fmt.Errorf("%w: %s", contracts.ErrNetwork, response.Status))
	}
}

func isRetryableStatus(status int) bool {
	return status == http.StatusRequestTimeout ||
		status == http.StatusTooManyRequests ||
		status >= http.StatusInternalServerError
}
