package lookup

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
)

const userAgent = "shelfscan/1.0"

// Client resolves barcode payloads against the product lookup service.
type Client struct {
	http    *retryablehttp.Client
	baseURL string
	apiKey  string
}

// NewClient builds a lookup client for the given service base URL. The API
// key is optional; trial endpoints accept unauthenticated requests.
func NewClient(baseURL, apiKey string) *Client {
	c := retryablehttp.NewClient()
	c.RetryMax = 0 // exactly one attempt per code
	c.Logger = nil
	return &Client{
		http:    c,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
	}
}

// Lookup fetches product attributes for a barcode. It returns ErrNotFound
// when the service has no match and *TransportError on HTTP or network
// failure. When the service returns multiple items for one code, only the
// first is used.
func (c *Client) Lookup(ctx context.Context, code string) (Product, error) {
	params := url.Values{}
	params.Set("upc", code)
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
	reqURL := fmt.Sprintf("%s/lookup?%s", c.baseURL, params.Encode())

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Product{}, fmt.Errorf("failed to create lookup request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Product{}, &TransportError{Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Product{}, &TransportError{StatusCode: resp.StatusCode, Message: err.Error()}
	}

	if resp.StatusCode == http.StatusNotFound {
		return Product{}, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return Product{}, &TransportError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	items := gjson.GetBytes(body, "items").Array()
	if len(items) == 0 {
		return Product{}, ErrNotFound
	}
	return normalizeItem(items[0]), nil
}
