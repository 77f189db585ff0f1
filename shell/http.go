package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"time"
)

var ErrReadTimeout = errors.New("read timed out")

// NewHTTPClient returns a client that gives up on a response when the server
// stays silent for readTimeout, whether before the headers or between reads
// of the body.
func NewHTTPClient(readTimeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   readTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          32,
		IdleConnTimeout:       32 * time.Second,
		TLSHandshakeTimeout:   16 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: readTimeout,
		MaxIdleConnsPerHost:   -1,
	}
	return &http.Client{Transport: &readTimeoutTransport{inner: transport, timeout: readTimeout}}
}

type readTimeoutTransport struct {
	inner   http.RoundTripper
	timeout time.Duration
}

func (this *readTimeoutTransport) RoundTrip(request *http.Request) (*http.Response, error) {
	ctx, cancel := context.WithCancel(request.Context())
	response, err := this.inner.RoundTrip(request.WithContext(ctx))
	if err != nil {
		cancel()
		return nil, err
	}
	response.Body = newIdleTimeoutBody(response.Body, this.timeout, cancel)
	return response, nil
}

type idleTimeoutBody struct {
	io.ReadCloser
	timeout time.Duration
	cancel  context.CancelFunc
	timer   *time.Timer
	expired atomic.Bool
}

func newIdleTimeoutBody(body io.ReadCloser, timeout time.Duration, cancel context.CancelFunc) *idleTimeoutBody {
	this := &idleTimeoutBody{ReadCloser: body, timeout: timeout, cancel: cancel}
	this.timer = time.AfterFunc(timeout, this.expire)
	return this
}

func (this *idleTimeoutBody) expire() {
	this.expired.Store(true)
	this.cancel()
}

func (this *idleTimeoutBody) Read(buffer []byte) (int, error) {
	count, err := this.ReadCloser.Read(buffer)
	if this.expired.Load() {
		if err == nil || err == io.EOF {
			return count, err
		}
		return count, fmt.Errorf("%w: nothing received for %s: %w", ErrReadTimeout, this.timeout, err)
	}
	this.timer.Reset(this.timeout)
	return count, err
}

func (this *idleTimeoutBody) Close() error {
	this.timer.Stop()
	defer this.cancel()
	return this.ReadCloser.Close()
}
