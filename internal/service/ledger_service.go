// Package service exposes the ledger engine over Connect RPC.
//
// Each group is served by a single *ledger.Ledger held in a registry. Writes
// go through that Ledger, which validates, persists via the Store and only
// then appends. Reads work on Ledger snapshots.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/notify"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
)

const defaultSummaryWorkers = 4

// Ensure LedgerService implements the generated-style handler interface.
var _ api.LedgerServiceHandler = (*LedgerService)(nil)

// Options configures optional collaborators. Zero values select defaults:
// a LogNotifier, a fresh metrics registry and four summary workers.
type Options struct {
	Notifier       notify.Notifier
	Metrics        *metrics.Metrics
	SummaryWorkers int
}

// LedgerService implements api.LedgerServiceHandler.
type LedgerService struct {
	store          storage.Store
	notifier       notify.Notifier
	metrics        *metrics.Metrics
	summaryWorkers int

	mu      sync.Mutex
	ledgers map[string]*ledger.Ledger
}

// NewLedgerService creates a LedgerService backed by store.
func NewLedgerService(store storage.Store, opts Options) *LedgerService {
	if opts.Notifier == nil {
		opts.Notifier = notify.NewLogNotifier(nil)
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	if opts.SummaryWorkers < 1 {
		opts.SummaryWorkers = defaultSummaryWorkers
	}
	return &LedgerService{
		store:          store,
		notifier:       opts.Notifier,
		metrics:        opts.Metrics,
		summaryWorkers: opts.SummaryWorkers,
		ledgers:        make(map[string]*ledger.Ledger),
	}
}

// ledgerFor returns the registered ledger for groupID, loading it from the
// store on first use. Loads run outside the registry lock; when two callers
// race, the first ledger registered wins and the other is discarded.
func (s *LedgerService) ledgerFor(ctx context.Context, groupID string) (*ledger.Ledger, error) {
	if groupID == "" {
		return nil, badRequest(ReasonInvalidRequest, errors.New("group id is required"))
	}

	s.mu.Lock()
	l, ok := s.ledgers[groupID]
	s.mu.Unlock()
	if ok {
		return l, nil
	}

	stored, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	loaded, err := ledger.Load(*stored)
	if err != nil {
		// Stored history that fails admission is corruption, not a client error.
		return nil, fmt.Errorf("rebuild ledger of group %s: %v", groupID, err)
	}

	l = s.register(loaded)
	if l == loaded {
		slog.DebugContext(ctx, "Ledger loaded",
			"group_id", groupID,
			"members", len(stored.Members),
			"expenses", len(stored.Expenses),
			"payments", len(stored.Payments),
		)
	}
	return l, nil
}

// register installs l unless the group already has a ledger, and returns
// the one that is registered. A group never has two writers.
func (s *LedgerService) register(l *ledger.Ledger) *ledger.Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.ledgers[l.ID()]; ok {
		return existing
	}
	s.ledgers[l.ID()] = l
	return l
}
