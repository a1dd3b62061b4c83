package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/brojonat/wrapped/service/solana"
	"github.com/brojonat/wrapped/service/wrapped"
)

const (
	minLimit = 1
	maxLimit = solana.MaxPageSize
)

// Solana addresses are 32 to 44 base58 characters (no 0, O, I, l).
var validAddressRegex = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)

// Summarizer builds the year-in-review for a wallet.
type Summarizer interface {
	Build(ctx context.Context, address string, pageSize int) (*wrapped.Result, error)
}

// handleGetTransactions returns a handler that summarizes a wallet's year.
// GET /api/v1/transactions?address=ADDRESS&limit=N
func handleGetTransactions(summarizer Summarizer, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		address := query.Get("address")

		if err := validateAddress(address); err != nil {
			logger.Debug("invalid address", "address", address, "error", err)
			writeError(w, err.Error(), http.StatusBadRequest)
			return
		}

		limit, err := parseLimit(query.Get("limit"))
		if err != nil {
			writeError(w, err.Error(), http.StatusBadRequest)
			return
		}

		result, err := summarizer.Build(r.Context(), address, limit)
		if err != nil {
			logger.ErrorContext(r.Context(), "failed to build summary", "address", address, "error", err)
			writeError(w, errorMessage(err), http.StatusInternalServerError)
			return
		}

		writeJSON(w, result, http.StatusOK)
	})
}

// errorMessage picks the message surfaced to callers for a failed build.
func errorMessage(err error) string {
	var rpcErr *solana.RPCError
	switch {
	case errors.Is(err, solana.ErrMissingAPIKey):
		return solana.ErrMissingAPIKey.Error()
	case errors.As(err, &rpcErr):
		return rpcErr.Message
	default:
		return err.Error()
	}
}

// parseLimit parses the optional page size, clamping it to the provider's range.
// Zero means the configured default.
func parseLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errorf("invalid limit parameter: must be an integer")
	}
	return max(minLimit, min(maxLimit, n)), nil
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{
		"message": message,
	})
}

// validateAddress validates a wallet address.
func validateAddress(address string) error {
	if address == "" {
		return errorf("Address is required")
	}
	if !validAddressRegex.MatchString(address) {
		return errorf("Invalid Solana wallet address")
	}
	return nil
}

// errorf is a helper to format error strings.
func errorf(format string, args ...interface{}) error {
	return &validationError{msg: strings.TrimSpace(fmt.Sprintf(format, args...))}
}

type validationError struct {
	msg string
}

func (e *validationError) Error() string {
	return e.msg
}
