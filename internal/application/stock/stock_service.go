package stock

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/Mandoobi/jaber-backend/internal/domain/catalog"
	"github.com/Mandoobi/jaber-backend/internal/domain/identity"
	"github.com/Mandoobi/jaber-backend/internal/domain/report"
	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/Mandoobi/jaber-backend/internal/domain/stock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultMaxAttempts bounds how often a write re-reads balances after a
// conflicting concurrent adjustment
const DefaultMaxAttempts = 3

// StockService serves rep stock reads and admin corrections
type StockService struct {
	balanceRepo stock.BalanceRepository
	ledgerRepo  stock.LedgerRepository
	productRepo catalog.ProductReader
	userRepo    identity.UserRepository
	sampleRepo  report.SampleRepository
	txScope     TransactionScope
	adjuster    *Adjuster
	clock       shared.Clock
	location    *time.Location
	maxAttempts int
	logger      *zap.Logger
}

// NewStockService creates a StockService
func NewStockService(
	balanceRepo stock.BalanceRepository,
	ledgerRepo stock.LedgerRepository,
	productRepo catalog.ProductReader,
	userRepo identity.UserRepository,
	sampleRepo report.SampleRepository,
	txScope TransactionScope,
	adjuster *Adjuster,
	logger *zap.Logger,
) *StockService {
	loc, err := time.LoadLocation(report.DefaultTimezone)
	if err != nil {
		loc = time.UTC
	}
	return &StockService{
		balanceRepo: balanceRepo,
		ledgerRepo:  ledgerRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		sampleRepo:  sampleRepo,
		txScope:     txScope,
		adjuster:    adjuster,
		clock:       shared.SystemClock{},
		location:    loc,
		maxAttempts: DefaultMaxAttempts,
		logger:      logger,
	}
}

// SetClock overrides the clock used for month boundaries and audits
func (s *StockService) SetClock(clock shared.Clock) {
	s.clock = clock
}

// SetLocation sets the tenant timezone used for month boundaries
func (s *StockService) SetLocation(loc *time.Location) {
	s.location = loc
}

// SetMaxAttempts sets the conflict retry bound
func (s *StockService) SetMaxAttempts(n int) {
	if n > 0 {
		s.maxAttempts = n
	}
}

// ListRepStocks returns every product balance a rep holds
func (s *StockService) ListRepStocks(ctx context.Context, tenantID, repID uuid.UUID) ([]RepStockResponse, error) {
	balances, err := s.balanceRepo.FindForRep(ctx, tenantID, repID, nil)
	if err != nil {
		return nil, err
	}
	products, err := s.productsByID(ctx, tenantID, balanceProductIDs(balances))
	if err != nil {
		return nil, err
	}

	out := make([]RepStockResponse, 0, len(balances))
	for i := range balances {
		p, ok := products[balances[i].ProductID]
		if !ok {
			// product removed from catalog; the balance is still reported
			out = append(out, toRepStockResponse(&balances[i], nil))
			continue
		}
		out = append(out, toRepStockResponse(&balances[i], p))
	}
	return out, nil
}

// SetRepStock moves a rep's balance to an absolute quantity by writing the
// difference through the adjuster, so the ledger stays the source of truth
func (s *StockService) SetRepStock(ctx context.Context, tenantID uuid.UUID, actor shared.Actor, req SetRepStockRequest) (*RepStockResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden.WithMessage("Only admins can set rep stock")
	}
	if req.Quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}

	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, req.ProductID)
	if err != nil {
		return nil, err
	}
	rep, err := s.userRepo.FindByIDForTenant(ctx, tenantID, req.RepID)
	if err != nil {
		return nil, err
	}
	if rep.Role != shared.RoleSalesRep {
		return nil, shared.NewDomainError("INVALID_REP", "Stock can only be assigned to sales reps")
	}

	include := true
	if req.IncludeInAnalysis != nil {
		include = *req.IncludeInAnalysis
	}
	key := stock.Key{TenantID: tenantID, RepID: req.RepID, ProductID: req.ProductID}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		current, err := s.currentBalance(ctx, key)
		if err != nil {
			return nil, err
		}
		delta := req.Quantity - current.Quantity
		if delta == 0 {
			resp := toRepStockResponse(current, product)
			return &resp, nil
		}

		var updated *stock.Balance
		err = s.txScope.Execute(ctx, func(repos Repositories) error {
			var adjErr error
			updated, adjErr = s.adjuster.Adjust(ctx, repos, stock.Adjustment{
				Key:               key,
				Delta:             delta,
				Reason:            stock.AdminSetReason(delta),
				ActorID:           actor.UserID,
				IncludeInAnalysis: include,
			})
			return adjErr
		})
		if err == nil {
			s.logger.Info("Rep stock set",
				zap.String("tenant_id", tenantID.String()),
				zap.String("rep_id", req.RepID.String()),
				zap.String("product_id", req.ProductID.String()),
				zap.Int64("delta", delta),
				zap.Int64("quantity", updated.Quantity),
			)
			resp := toRepStockResponse(updated, product)
			return &resp, nil
		}
		if !errors.Is(err, stock.ErrBalanceWouldGoNegative) {
			return nil, err
		}
		s.logger.Warn("Rep stock changed during set, retrying",
			zap.String("key", key.String()),
			zap.Int("attempt", attempt),
		)
	}
	return nil, shared.ErrStockChanged
}

// History lists ledger entries for one balance, newest first
func (s *StockService) History(ctx context.Context, tenantID, repID, productID uuid.UUID, filter shared.Filter) ([]LedgerEntryResponse, int64, error) {
	filter = filter.Normalize()
	key := stock.Key{TenantID: tenantID, RepID: repID, ProductID: productID}
	entries, total, err := s.ledgerRepo.FindByKey(ctx, key, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]LedgerEntryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, toLedgerEntryResponse(&entries[i]))
	}
	return out, total, nil
}

// BalanceAt replays the ledger for one balance up to and including at
func (s *StockService) BalanceAt(ctx context.Context, tenantID, repID, productID uuid.UUID, at time.Time) (int64, error) {
	return s.ledgerRepo.SumUntil(ctx, stock.Key{TenantID: tenantID, RepID: repID, ProductID: productID}, at)
}

// Audit compares the cached balance with a replay of the full ledger
func (s *StockService) Audit(ctx context.Context, tenantID, repID, productID uuid.UUID) (*AuditResponse, error) {
	key := stock.Key{TenantID: tenantID, RepID: repID, ProductID: productID}
	at := s.clock.Now()

	replayed, err := s.ledgerRepo.SumUntil(ctx, key, at)
	if err != nil {
		return nil, err
	}
	current, err := s.currentBalance(ctx, key)
	if err != nil {
		return nil, err
	}

	resp := &AuditResponse{
		RepID:      repID,
		ProductID:  productID,
		At:         at,
		Replayed:   replayed,
		Cached:     current.Quantity,
		Consistent: replayed == current.Quantity,
	}
	if !resp.Consistent {
		s.logger.Error("Stock balance diverged from ledger",
			zap.String("key", key.String()),
			zap.Int64("replayed", replayed),
			zap.Int64("cached", current.Quantity),
		)
	}
	return resp, nil
}

// AuditRep replays the rep's whole ledger and compares it with every cached
// balance the rep holds. Products that only appear on one side are reported
// too.
func (s *StockService) AuditRep(ctx context.Context, tenantID, repID uuid.UUID) ([]AuditResponse, error) {
	at := s.clock.Now()
	entries, err := s.ledgerRepo.FindForRep(ctx, tenantID, repID, at)
	if err != nil {
		return nil, err
	}
	balances, err := s.balanceRepo.FindForRep(ctx, tenantID, repID, nil)
	if err != nil {
		return nil, err
	}

	replayed := stock.ReplayAll(entries, at)
	cached := make(map[uuid.UUID]int64, len(balances))
	products := make([]uuid.UUID, 0, len(balances))
	for _, b := range balances {
		cached[b.ProductID] = b.Quantity
		products = append(products, b.ProductID)
	}
	for key := range replayed {
		if _, ok := cached[key.ProductID]; !ok {
			products = append(products, key.ProductID)
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].String() < products[j].String() })

	out := make([]AuditResponse, 0, len(products))
	diverged := 0
	for _, productID := range products {
		key := stock.Key{TenantID: tenantID, RepID: repID, ProductID: productID}
		row := AuditResponse{
			RepID:     repID,
			ProductID: productID,
			At:        at,
			Replayed:  replayed[key],
			Cached:    cached[productID],
		}
		row.Consistent = row.Replayed == row.Cached
		if !row.Consistent {
			diverged++
		}
		out = append(out, row)
	}
	if diverged > 0 {
		s.logger.Error("Rep stock diverged from ledger",
			zap.String("tenant_id", tenantID.String()),
			zap.String("rep_id", repID.String()),
			zap.Int("diverged", diverged),
			zap.Int("products", len(out)),
		)
	}
	return out, nil
}

// ProductAnalysis reports, per rep holding a product, the current quantity,
// the month-to-date ledger movements flagged for analysis and the
// month-to-date quantity handed to customers
func (s *StockService) ProductAnalysis(ctx context.Context, tenantID, productID uuid.UUID) ([]ProductAnalysisResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	balances, err := s.balanceRepo.FindForProduct(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	since := report.StartOfMonth(s.clock.Now(), s.location)
	taken, err := s.ledgerRepo.SumAnalysisSince(ctx, tenantID, productID, since)
	if err != nil {
		return nil, err
	}
	distributed, err := s.sampleRepo.SumCustomerSamplesSince(ctx, tenantID, productID, since)
	if err != nil {
		return nil, err
	}

	out := make([]ProductAnalysisResponse, 0, len(balances))
	for i := range balances {
		b := &balances[i]
		repName := ""
		if rep, err := s.userRepo.FindByIDForTenant(ctx, tenantID, b.RepID); err == nil {
			repName = rep.FullName
		} else if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		out = append(out, ProductAnalysisResponse{
			RepID:                   b.RepID,
			RepName:                 repName,
			ProductID:               product.ID,
			ProductName:             product.Name,
			UnitType:                string(product.UnitType),
			Quantity:                b.Quantity,
			TotalTakenFromLedger:    taken[b.RepID],
			TotalSamplesDistributed: distributed[b.RepID],
		})
	}
	return out, nil
}

func (s *StockService) currentBalance(ctx context.Context, key stock.Key) (*stock.Balance, error) {
	b, err := s.balanceRepo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return stock.NewBalance(key), nil
		}
		return nil, err
	}
	return b, nil
}

func (s *StockService) productsByID(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*catalog.Product, error) {
	out := make(map[uuid.UUID]*catalog.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	products, err := s.productRepo.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	for i := range products {
		out[products[i].ID] = &products[i]
	}
	return out, nil
}

func balanceProductIDs(balances []stock.Balance) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(balances))
	for _, b := range balances {
		ids = append(ids, b.ProductID)
	}
	return ids
}
