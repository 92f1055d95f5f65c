package contracts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"git.home.luguber.info/inful/distbuilder/internal/errors"
)

// Client fetches contract sources from the core repository's raw file host.
type Client struct {
	rawBase    string
	httpClient *http.Client
}

// NewClient creates a client against the given raw base URL
// (e.g. https://raw.githubusercontent.com/qubic/core/main).
func NewClient(rawBase string) *Client {
	return &Client{
		rawBase:    rawBase,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchContractDef retrieves contract_core/contract_def.h.
func (c *Client) FetchContractDef(ctx context.Context) (string, error) {
	return c.fetchText(ctx, c.rawBase+"/src/contract_core/contract_def.h")
}

// FetchContractHeader retrieves a single contract header by basename.
func (c *Client) FetchContractHeader(ctx context.Context, basename string) (string, error) {
	return c.fetchText(ctx, c.rawBase+"/src/contracts/"+basename)
}

func (c *Client) fetchText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", errors.FetchFailed(url, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.FetchFailed(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.FetchFailed(url, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.FetchFailed(url, err)
	}
	return string(body), nil
}
