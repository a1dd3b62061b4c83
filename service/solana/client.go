package solana

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/brojonat/wrapped/service/metrics"
)

// MaxPageSize is the largest page the provider returns with full transaction details.
const MaxPageSize = 100

// Pagination stop reasons, also used as metric labels.
const (
	StopReasonEnd       = "end"
	StopReasonMaxPages  = "max_pages"
	StopReasonPageError = "page_error"
)

// ErrMissingAPIKey is returned when no upstream credential is configured.
var ErrMissingAPIKey = errors.New("HELIUS_API_KEY not configured")

// RPCError is an error object returned by the upstream provider.
type RPCError struct {
	Code    int
	Message string
}

func (e *RPCError) Error() string {
	return e.Message
}

// RPCClient is an interface for the Solana RPC operations we need.
// This allows us to mock the RPC layer in tests without hitting real Solana nodes.
type RPCClient interface {
	GetTransactionsForAddress(
		ctx context.Context,
		address string,
		opts *GetTransactionsForAddressOpts,
	) (*TransactionsPage, error)
}

// GetTransactionsForAddressOpts are the provider options for one page.
type GetTransactionsForAddressOpts struct {
	TransactionDetails string             `json:"transactionDetails"`
	Limit              int                `json:"limit"`
	SortOrder          string             `json:"sortOrder"`
	Filters            TransactionFilters `json:"filters"`
	PaginationToken    string             `json:"paginationToken,omitempty"`
}

// TransactionFilters restricts a page to succeeded transactions since a block time.
type TransactionFilters struct {
	Status    string          `json:"status"`
	BlockTime BlockTimeFilter `json:"blockTime"`
}

// BlockTimeFilter is an inclusive lower bound on block time.
type BlockTimeFilter struct {
	Gte int64 `json:"gte"`
}

// TransactionsPage is the result object of one getTransactionsForAddress call.
type TransactionsPage struct {
	Data            []*Transaction `json:"data"`
	PaginationToken string         `json:"paginationToken,omitempty"`
}

// Client fetches a wallet's transaction history from the upstream provider.
type Client struct {
	rpc       RPCClient
	logger    *slog.Logger
	metrics   *metrics.Metrics
	endpoint  string        // endpoint identifier for metrics (e.g. "helius")
	pageDelay time.Duration // cooperative wait between page requests
}

// NewClient creates a new Solana client.
// The endpoint parameter is used for metrics labeling.
// If metrics is nil, no metrics will be recorded.
func NewClient(rpcClient RPCClient, endpoint string, pageDelay time.Duration, m *metrics.Metrics, logger *slog.Logger) *Client {
	return &Client{
		rpc:       rpcClient,
		logger:    logger,
		metrics:   m,
		endpoint:  endpoint,
		pageDelay: pageDelay,
	}
}

// FetchParams contains parameters for fetching a wallet's history.
type FetchParams struct {
	Address  string
	Since    time.Time // lower bound on block time; there is no upper bound
	PageSize int       // clamped to 1..MaxPageSize
	MaxPages int       // safety bound on the number of page requests
}

// FetchResult is the union of all pages fetched for one request.
type FetchResult struct {
	Transactions []*Transaction
	PagesFetched int
	StopReason   string
}

// FetchAll pages through the address history, newest first, until a short
// page, the page limit, or a missing continuation token. A failure on the
// first page is returned; a failure on any later page ends pagination and
// the pages already received are kept.
func (c *Client) FetchAll(ctx context.Context, params FetchParams) (*FetchResult, error) {
	pageSize := params.PageSize
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	maxPages := params.MaxPages
	if maxPages <= 0 {
		maxPages = 1
	}

	result := &FetchResult{Transactions: make([]*Transaction, 0, pageSize)}
	var token string

	for {
		result.PagesFetched++
		page := result.PagesFetched

		c.logger.DebugContext(ctx, "fetching transactions page",
			"address", params.Address,
			"page", page,
		)

		resp, err := c.fetchPage(ctx, params.Address, params.Since, pageSize, token)
		if err != nil {
			if page > 1 && token != "" {
				c.logger.WarnContext(ctx, "pagination failed, keeping pages already fetched",
					"address", params.Address,
					"page", page,
					"error", err,
				)
				result.StopReason = StopReasonPageError
				break
			}
			return nil, fmt.Errorf("failed to fetch transactions: %w", err)
		}

		for _, txn := range resp.Data {
			if txn != nil {
				result.Transactions = append(result.Transactions, txn)
			}
		}
		token = resp.PaginationToken

		c.logger.DebugContext(ctx, "received transactions page",
			"address", params.Address,
			"page", page,
			"count", len(resp.Data),
		)

		if len(resp.Data) < pageSize {
			result.StopReason = StopReasonEnd
			break
		}
		if page >= maxPages {
			c.logger.InfoContext(ctx, "reached max pages limit, stopping pagination",
				"address", params.Address,
				"max_pages", maxPages,
			)
			result.StopReason = StopReasonMaxPages
			break
		}
		if token == "" {
			result.StopReason = StopReasonEnd
			break
		}

		if err := c.wait(ctx); err != nil {
			return nil, err
		}
	}

	if c.metrics != nil {
		c.metrics.RecordPagination(c.endpoint, result.StopReason, result.PagesFetched)
		c.metrics.RecordTransactionsFetched(c.endpoint, len(result.Transactions))
	}

	c.logger.InfoContext(ctx, "pagination complete",
		"address", params.Address,
		"transactions", len(result.Transactions),
		"pages", result.PagesFetched,
		"stop_reason", result.StopReason,
	)

	return result, nil
}

func (c *Client) fetchPage(ctx context.Context, address string, since time.Time, pageSize int, token string) (*TransactionsPage, error) {
	opts := &GetTransactionsForAddressOpts{
		TransactionDetails: "full",
		Limit:              pageSize,
		SortOrder:          "desc",
		Filters: TransactionFilters{
			Status:    "succeeded",
			BlockTime: BlockTimeFilter{Gte: since.Unix()},
		},
		PaginationToken: token,
	}

	start := time.Now()
	resp, err := c.rpc.GetTransactionsForAddress(ctx, address, opts)
	duration := time.Since(start).Seconds()

	status := "success"
	if err != nil {
		status = "error"
	}
	if c.metrics != nil {
		c.metrics.RecordRPCCall(getTransactionsForAddressMethod, status, c.endpoint, duration)
	}
	if err != nil {
		return nil, err
	}
	if resp == nil {
		resp = &TransactionsPage{}
	}
	return resp, nil
}

// wait sleeps for the page delay to stay under upstream rate limits.
func (c *Client) wait(ctx context.Context) error {
	if c.pageDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(c.pageDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
