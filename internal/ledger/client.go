package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"dotflow/internal/domain"
)

// Client reads the vault gateway over HTTP.
type Client struct {
	Base string
	HTTP *http.Client
}

// NewClient returns a client for the gateway at base, e.g. "http://localhost:8645".
func NewClient(base string) *Client {
	return &Client{
		Base: strings.TrimRight(base, "/"),
		HTTP: &http.Client{Timeout: 15 * time.Second},
	}
}

// Get returns the record for (id, chain).
func (c *Client) Get(ctx context.Context, id domain.IdentityID, chain domain.ChainID) (domain.AddressRecord, error) {
	var out domain.AddressRecord
	if err := c.getJSON(ctx, fmt.Sprintf("/v1/identities/%d/records/%d", id, chain), &out); err != nil {
		return domain.AddressRecord{}, err
	}
	return out, nil
}

// List returns every record of id.
func (c *Client) List(ctx context.Context, id domain.IdentityID) ([]domain.AddressRecord, error) {
	var out []domain.AddressRecord
	if err := c.getJSON(ctx, fmt.Sprintf("/v1/identities/%d/records", id), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Identity returns the public identity record.
func (c *Client) Identity(ctx context.Context, id domain.IdentityID) (domain.Identity, error) {
	var out domain.Identity
	if err := c.getJSON(ctx, fmt.Sprintf("/v1/identities/%d", id), &out); err != nil {
		return domain.Identity{}, err
	}
	return out, nil
}

// Chains returns the chain registry.
func (c *Client) Chains(ctx context.Context) ([]domain.ChainInfo, error) {
	var out []domain.ChainInfo
	if err := c.getJSON(ctx, "/v1/chains", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Base+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		var body ErrorBody
		if json.NewDecoder(resp.Body).Decode(&body) == nil {
			if sentinel := errorFor(body.Error.Code); sentinel != nil {
				return sentinel
			}
			if body.Error.Message != "" {
				return fmt.Errorf("vault get %s: %s: %s", path, resp.Status, body.Error.Message)
			}
		}
		return fmt.Errorf("vault get %s: %s", path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

var _ domain.RecordReader = (*Client)(nil)
