package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
)

// Request-level rejection reasons, reported alongside the ledger's own.
const (
	ReasonInvalidAmount  = "InvalidAmount"
	ReasonInvalidDate    = "InvalidDate"
	ReasonInvalidItems   = "InvalidItems"
	ReasonInvalidRequest = "InvalidRequest"
)

// requestError is a malformed request detected before it reaches a Ledger.
type requestError struct {
	reason string
	err    error
}

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

func badRequest(reason string, err error) error {
	return &requestError{reason: reason, err: err}
}

// toConnectError maps domain errors to Connect codes. Rejections carry their
// reason in the Ledger-Rejection-Reason metadata; invariant violations are
// defects and are logged and counted.
func (s *LedgerService) toConnectError(ctx context.Context, op string, err error) error {
	var (
		reqErr *requestError
		invErr *calculator.InvariantError
	)
	switch {
	case errors.As(err, &reqErr):
		return s.rejection(ctx, op, reqErr.reason, err)

	case ledger.ReasonOf(err) != "":
		return s.rejection(ctx, op, ledger.ReasonOf(err), err)

	case errors.Is(err, storage.ErrNotFound):
		slog.WarnContext(ctx, op+" failed", "error", err)
		return connect.NewError(connect.CodeNotFound, err)

	case errors.As(err, &invErr):
		s.metrics.InvariantViolations.WithLabelValues(invErr.Check).Inc()
		slog.ErrorContext(ctx, op+" hit invariant violation", "check", invErr.Check, "error", err)
		return connect.NewError(connect.CodeInternal, err)

	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)

	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)

	default:
		slog.ErrorContext(ctx, op+" failed", "error", err)
		return connect.NewError(connect.CodeInternal, err)
	}
}

func (s *LedgerService) rejection(ctx context.Context, op, reason string, err error) error {
	s.metrics.AdmissionsRejected.WithLabelValues(reason).Inc()
	slog.InfoContext(ctx, op+" rejected", "reason", reason, "error", err)

	connectErr := connect.NewError(connect.CodeInvalidArgument, err)
	connectErr.Meta().Set(api.RejectionReasonKey, reason)
	return connectErr
}
