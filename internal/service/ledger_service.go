package service

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// LedgerService is the entry point for command handlers. It owns one Ledger
// and persists it to a Store after every successful mutation.
//
// Like the Ledger, it expects one caller at a time.
type LedgerService struct {
	ledger  *ledger.Ledger
	store   storage.Store
	metrics *metrics.Collector
	logger  *slog.Logger
}

// Option configures a LedgerService.
type Option func(*LedgerService)

// WithMetrics records operations on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *LedgerService) {
		s.metrics = c
	}
}

// WithLogger replaces the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *LedgerService) {
		s.logger = logger
	}
}

// NewLedgerService creates a LedgerService over l backed by store.
func NewLedgerService(l *ledger.Ledger, store storage.Store, opts ...Option) *LedgerService {
	s := &LedgerService{
		ledger: l,
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open replays the persisted records into the ledger. Records that fail to
// load are returned in the result and skipped; the rest are kept.
func (s *LedgerService) Open(ctx context.Context) (*storage.LoadResult, error) {
	result, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Error("Load failed", "error", err)
		return nil, err
	}

	decoded := &storage.LoadResult{Activities: result.Activities, Lines: result.Lines}
	result.Activities, result.Lines = nil, nil
	for i, a := range decoded.Activities {
		line := decoded.Line(i)
		if err := s.ledger.Restore(a); err != nil {
			result.Errors = append(result.Errors, storage.LineError{Line: line, Err: err})
			continue
		}
		result.Add(a, line)
	}
	sort.SliceStable(result.Errors, func(i, j int) bool {
		return result.Errors[i].Line < result.Errors[j].Line
	})

	for _, lineErr := range result.Errors {
		s.logger.Warn("Skipped corrupt record", "line", lineErr.Line, "error", lineErr.Err)
	}
	if s.metrics != nil {
		s.metrics.RecordLoadErrors(len(result.Errors))
	}
	s.updateGauges()

	s.logger.Info("Ledger loaded",
		"records", s.ledger.Len(),
		"skipped", len(result.Errors),
	)
	return result, nil
}

// MaxAmount returns the largest single amount the ledger accepts.
func (s *LedgerService) MaxAmount() decimal.Decimal {
	return s.ledger.MaxAmount()
}

// Save persists the current records.
func (s *LedgerService) Save(ctx context.Context) error {
	return s.store.Save(ctx, s.ledger.ListAll())
}

// AddExpense records an expense with explicit amounts.
func (s *LedgerService) AddExpense(ctx context.Context, description, payer string, payerAdjustment decimal.Decimal, owed []models.Share) (*models.Activity, error) {
	var added *models.Activity
	err := s.mutate(ctx, "add", func() (err error) {
		added, err = s.ledger.AddExpense(description, payer, payerAdjustment, owed)
		return err
	}, "payer", payer, "participants", len(owed))
	return added, err
}

// AddEqualSplit records an expense split evenly between payer and names.
func (s *LedgerService) AddEqualSplit(ctx context.Context, description, payer string, total decimal.Decimal, names []string) (*models.Activity, error) {
	var added *models.Activity
	err := s.mutate(ctx, "split", func() (err error) {
		added, err = s.ledger.AddEqualSplit(description, payer, total, names)
		return err
	}, "payer", payer, "participants", len(names), "total", total.StringFixed(2))
	return added, err
}

// EditDescription changes the description of record index (1-based).
func (s *LedgerService) EditDescription(ctx context.Context, index int, description string) error {
	return s.mutate(ctx, "edit_description", func() error {
		return s.ledger.EditDescription(index, description)
	}, "index", index)
}

// EditPayerName renames the payer of record index.
func (s *LedgerService) EditPayerName(ctx context.Context, index int, name string) error {
	return s.mutate(ctx, "edit_payer", func() error {
		return s.ledger.EditPayerName(index, name)
	}, "index", index, "name", name)
}

// EditParticipantName renames an owed participant of record index.
func (s *LedgerService) EditParticipantName(ctx context.Context, index int, oldName, newName string) error {
	return s.mutate(ctx, "edit_participant", func() error {
		return s.ledger.EditParticipantName(index, oldName, newName)
	}, "index", index, "from", oldName, "to", newName)
}

// EditParticipantAmount changes what an owed participant of record index owes.
func (s *LedgerService) EditParticipantAmount(ctx context.Context, index int, name string, amount decimal.Decimal) error {
	return s.mutate(ctx, "edit_amount", func() error {
		return s.ledger.EditParticipantAmount(index, name, amount)
	}, "index", index, "name", name, "amount", amount.StringFixed(2))
}

// DeleteExpense removes record index.
func (s *LedgerService) DeleteExpense(ctx context.Context, index int) error {
	return s.mutate(ctx, "delete", func() error {
		return s.ledger.DeleteExpense(index)
	}, "index", index)
}

// MarkPaid settles name on their ordinal-th unpaid record.
func (s *LedgerService) MarkPaid(ctx context.Context, name string, ordinal int) error {
	return s.mutate(ctx, "mark_paid", func() error {
		return s.ledger.MarkPaid(name, ordinal)
	}, "name", name, "ordinal", ordinal)
}

// MarkUnpaid reopens name's ordinal-th paid record.
func (s *LedgerService) MarkUnpaid(ctx context.Context, name string, ordinal int) error {
	return s.mutate(ctx, "mark_unpaid", func() error {
		return s.ledger.MarkUnpaid(name, ordinal)
	}, "name", name, "ordinal", ordinal)
}

// ListAll returns every record.
func (s *LedgerService) ListAll() []*models.Activity {
	s.observe("list", nil, time.Now())
	return s.ledger.ListAll()
}

// ListFor returns name's paid and unpaid records.
func (s *LedgerService) ListFor(name string) (paid, unpaid []*models.Activity) {
	s.observe("list_for", nil, time.Now(), "name", name)
	return s.ledger.ListFor(name)
}

// NetBalanceOf returns name's net balance.
func (s *LedgerService) NetBalanceOf(name string) (decimal.Decimal, error) {
	start := time.Now()
	bal, err := s.ledger.NetBalanceOf(name)
	s.observe("balance", err, start, "name", name)
	return bal, err
}

// Balances returns every net balance.
func (s *LedgerService) Balances() map[string]decimal.Decimal {
	return s.ledger.Balances()
}

// Settle proposes the payments that clear every balance.
func (s *LedgerService) Settle() []models.Settlement {
	start := time.Now()
	txs := s.ledger.Settle()
	s.observe("settle", nil, start, "transactions", len(txs))
	return txs
}

// mutate runs fn and, if it succeeds, saves the ledger. A save failure is
// returned to the caller but does not undo the in-memory change.
func (s *LedgerService) mutate(ctx context.Context, op string, fn func() error, attrs ...any) error {
	start := time.Now()
	err := fn()
	if err == nil {
		if saveErr := s.Save(ctx); saveErr != nil {
			err = saveErr
		}
		s.updateGauges()
	}
	s.observe(op, err, start, attrs...)
	return err
}

func (s *LedgerService) observe(op string, err error, start time.Time, attrs ...any) {
	kind := models.Kind(err)
	attrs = append(attrs, "operation", op, "duration_ms", time.Since(start).Milliseconds())

	switch kind {
	case "none":
		s.logger.Debug("Ledger operation ok", attrs...)
	case "format", "validation", "state":
		// the command layer reports rejected input at warn level
		s.logger.Debug("Ledger operation rejected", append(attrs, "kind", kind, "error", err)...)
	default:
		s.logger.Error("Ledger operation failed", append(attrs, "kind", kind, "error", err)...)
	}

	if s.metrics != nil {
		result := kind
		if err == nil {
			result = "ok"
		}
		s.metrics.RecordOperation(op, result)
	}
}

func (s *LedgerService) updateGauges() {
	if s.metrics == nil {
		return
	}
	s.metrics.SetLedgerState(s.ledger.Len(), s.ledger.Outstanding().InexactFloat64())
}
