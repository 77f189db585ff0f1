package shell

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/smartystreets/assertions/should"
	"github.com/smartystreets/gunit"
)

func TestHTTPClientFixture(t *testing.T) {
	gunit.Run(new(HTTPClientFixture), t)
}

type HTTPClientFixture struct {
	*gunit.Fixture
	server *httptest.Server
	client *http.Client
}

func (this *HTTPClientFixture) Setup() {
	this.server = httptest.NewServer(http.HandlerFunc(this.serve))
	this.client = NewHTTPClient(100 * time.Millisecond)
}

func (this *HTTPClientFixture) Teardown() {
	this.server.Close()
}

func (this *HTTPClientFixture) serve(response http.ResponseWriter, request *http.Request) {
	switch request.URL.Path {
	case "/steady":
		for x := 0; x < 5; x++ {
			_, _ = response.Write([]byte("chunk"))
			response.(http.Flusher).Flush()
			time.Sleep(30 * time.Millisecond)
		}
	case "/stalled-body":
		_, _ = response.Write([]byte("partial"))
		response.(http.Flusher).Flush()
		this.stall(request)
	case "/stalled-headers":
		this.stall(request)
	}
}

func (this *HTTPClientFixture) stall(request *http.Request) {
	select {
	case <-request.Context().Done():
	case <-time.After(5 * time.Second):
	}
}

func (this *HTTPClientFixture) TestSlowButSteadyBodyCompletes() {
	response, err := this.client.Get(this.server.URL + "/steady")
	this.So(err, should.BeNil)
	defer func() { _ = response.Body.Close() }()

	raw, err := io.ReadAll(response.Body)

	this.So(err, should.BeNil)
	this.So(len(raw), should.Equal, 25)
}

func (this *HTTPClientFixture) TestStalledBodyIsAborted() {
	response, err := this.client.Get(this.server.URL + "/stalled-body")
	this.So(err, should.BeNil)
	defer func() { _ = response.Body.Close() }()

	started := time.Now()
	raw, err := io.ReadAll(response.Body)

	this.So(errors.Is(err, ErrReadTimeout), should.BeTrue)
	this.So(string(raw), should.Equal, "partial")
	this.So(time.Since(started), should.BeLessThan, 2*time.Second)
}

func (this *HTTPClientFixture) TestStalledHeadersAreAborted() {
	started := time.Now()

	_, err := this.client.Get(this.server.URL + "/stalled-headers")

	this.So(err, should.NotBeNil)
	this.So(time.Since(started), should.BeLessThan, 2*time.Second)
}
