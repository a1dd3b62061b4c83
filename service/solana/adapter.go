package solana

import (
	"context"
	"errors"
	"net/url"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
)

const getTransactionsForAddressMethod = "getTransactionsForAddress"

// realRPCClient adapts the solana-go RPC client to our RPCClient interface.
// getTransactionsForAddress is a provider extension, so it goes through the
// raw JSON-RPC call rather than a typed method.
type realRPCClient struct {
	client *rpc.Client
}

// NewRPCClient creates a new RPCClient for a Helius-compatible endpoint.
// The API key is appended as the api-key query parameter.
func NewRPCClient(rpcURL, apiKey string) RPCClient {
	return &realRPCClient{
		client: rpc.New(withAPIKey(rpcURL, apiKey)),
	}
}

func (r *realRPCClient) GetTransactionsForAddress(
	ctx context.Context,
	address string,
	opts *GetTransactionsForAddressOpts,
) (*TransactionsPage, error) {
	var out TransactionsPage
	err := r.client.RPCCallForInto(ctx, &out, getTransactionsForAddressMethod, []interface{}{address, opts})
	if err != nil {
		var rpcErr *jsonrpc.RPCError
		if errors.As(err, &rpcErr) {
			msg := rpcErr.Message
			if msg == "" {
				msg = "Failed to fetch transactions"
			}
			return nil, &RPCError{Code: rpcErr.Code, Message: msg}
		}
		return nil, err
	}
	return &out, nil
}

func withAPIKey(rpcURL, apiKey string) string {
	if apiKey == "" {
		return rpcURL
	}
	u, err := url.Parse(rpcURL)
	if err != nil {
		return rpcURL
	}
	q := u.Query()
	q.Set("api-key", apiKey)
	u.RawQuery = q.Encode()
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}
