package tokens

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/brojonat/wrapped/service/jqpath"
)

// TokenListSource searches a bulk token list for an exact address match.
type TokenListSource struct {
	url        string
	httpClient *http.Client
}

// NewTokenListSource creates a source backed by the token list at listURL.
func NewTokenListSource(listURL string, httpClient *http.Client) *TokenListSource {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &TokenListSource{url: listURL, httpClient: httpClient}
}

// Name implements Source.
func (s *TokenListSource) Name() string { return "token_list" }

type tokenListEntry struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

// Lookup implements Source.
func (s *TokenListSource) Lookup(ctx context.Context, mint string) (Metadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to fetch token list: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return Metadata{}, err
	}

	var entries []tokenListEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return Metadata{}, fmt.Errorf("failed to decode token list: %w", err)
	}

	for _, e := range entries {
		if e.Address == mint {
			return Metadata{Name: nonEmpty(e.Name), Symbol: nonEmpty(e.Symbol)}, nil
		}
	}
	return Metadata{}, nil
}

var (
	heliusNamePaths = jqpath.MustCompile(
		".onChainMetadata.metadata.data.name",
		".offChainMetadata.metadata.name",
		".content.metadata.name",
	)
	heliusSymbolPaths = jqpath.MustCompile(
		".onChainMetadata.metadata.data.symbol",
		".offChainMetadata.metadata.symbol",
		".content.metadata.symbol",
	)
)

// HeliusMetadataSource queries the provider's token-metadata endpoint.
// Without an API key every lookup is a miss.
type HeliusMetadataSource struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewHeliusMetadataSource creates a source posting to endpoint.
func NewHeliusMetadataSource(endpoint, apiKey string, httpClient *http.Client) *HeliusMetadataSource {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HeliusMetadataSource{endpoint: endpoint, apiKey: apiKey, httpClient: httpClient}
}

// Name implements Source.
func (s *HeliusMetadataSource) Name() string { return "helius" }

// Lookup implements Source. Name and symbol are each read from on-chain
// metadata first, then off-chain metadata, then generic content metadata.
func (s *HeliusMetadataSource) Lookup(ctx context.Context, mint string) (Metadata, error) {
	if s.apiKey == "" {
		return Metadata{}, nil
	}

	u, err := url.Parse(s.endpoint)
	if err != nil {
		return Metadata{}, fmt.Errorf("invalid metadata endpoint: %w", err)
	}
	q := u.Query()
	q.Set("api-key", s.apiKey)
	u.RawQuery = q.Encode()

	body, err := json.Marshal(map[string][]string{"mintAccounts": {mint}})
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to fetch token metadata: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return Metadata{}, err
	}

	var records []any
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return Metadata{}, fmt.Errorf("failed to decode token metadata: %w", err)
	}
	if len(records) == 0 || records[0] == nil {
		return Metadata{}, nil
	}

	var md Metadata
	if name, ok := heliusNamePaths.FirstString(records[0]); ok {
		md.Name = &name
	}
	if symbol, ok := heliusSymbolPaths.FirstString(records[0]); ok {
		md.Symbol = &symbol
	}
	return md, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
}
