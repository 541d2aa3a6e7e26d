// Package fetch is the resolver's HTTP layer: a retryablehttp-backed client
// that downloads POM and JAR bytes from a coord.Repository and translates
// transport failures into the shared rerr vocabulary.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"gopkg.in/op/go-logging.v1"

	"github.com/javaorbit/orbit/src/rerr"
	"github.com/javaorbit/orbit/src/utils"
)

var log = logging.MustGetLogger("fetch")

// A Client downloads artifact bytes over HTTP, retrying transient failures
// and translating everything else into an *rerr.Error naming the failing
// coordinate.
type Client struct {
	http *retryablehttp.Client
}

// NewClient builds a Client whose requests fail after timeout has elapsed,
// retrying up to maxRetries times on transient failures in between.
func NewClient(timeout time.Duration, maxRetries int) *Client {
	c := retryablehttp.NewClient()
	c.Logger = &utils.HTTPLogWrapper{Logger: log}
	c.RetryMax = maxRetries
	c.HTTPClient.Timeout = timeout
	return &Client{http: c}
}

// Get downloads the body at url, for the given coordinate notation (used
// only to label errors). A non-2xx response that the retry policy does not
// retry (such as 404) becomes rerr.NotFound; a context deadline becomes
// rerr.Timeout; anything else becomes rerr.IoError, including a 429 or 5xx
// response that is still failing once retries run out, because the retrying
// client then returns an error with no response.
func (c *Client) Get(ctx context.Context, coord, url string) ([]byte, error) {
	if timeout := c.http.HTTPClient.Timeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	reqID := uuid.NewString()
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, rerr.New(rerr.IoError, coord, fmt.Errorf("building request for %s: %w", url, err))
	}
	req.Header.Set("X-Request-Id", reqID)
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, rerr.New(rerr.Timeout, coord, fmt.Errorf("fetching %s: %w", url, err))
		}
		return nil, rerr.New(rerr.IoError, coord, fmt.Errorf("fetching %s: %w", url, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, rerr.New(rerr.NotFound, coord, fmt.Errorf("HTTP %s for %s", resp.Status, url))
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, rerr.New(rerr.IoError, coord, fmt.Errorf("reading body of %s: %w", url, err))
	}
	log.Debug("fetched %s as %s (%s)", url, reqID, humanize.Bytes(uint64(len(data))))
	return data, nil
}
