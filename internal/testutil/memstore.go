package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Mandoobi/jaber-backend/internal/domain/catalog"
	"github.com/Mandoobi/jaber-backend/internal/domain/identity"
	"github.com/Mandoobi/jaber-backend/internal/domain/partner"
	"github.com/Mandoobi/jaber-backend/internal/domain/report"
	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/Mandoobi/jaber-backend/internal/domain/stock"
	"github.com/Mandoobi/jaber-backend/internal/domain/visitplan"
	"github.com/google/uuid"
)

// MemStore is an in-memory implementation of every repository the
// application layer uses. Atomically gives it transaction semantics: writes
// made inside a failed unit are rolled back, and units run one at a time.
type MemStore struct {
	mu   sync.Mutex
	txMu sync.Mutex

	balances  map[stock.Key]stock.Balance
	ledger    []stock.LedgerEntry
	samples   map[uuid.UUID]report.Sample
	reports   map[uuid.UUID]report.DailyReport
	plans     map[uuid.UUID]visitplan.VisitPlan
	products  map[uuid.UUID]catalog.Product
	customers map[uuid.UUID]partner.Customer
	users     map[uuid.UUID]identity.User
	jobs      map[uuid.UUID]partner.RemovalJob

	failures map[string]error
	txCount  int
	beforeTx func(n int)
}

// NewMemStore creates an empty store
func NewMemStore() *MemStore {
	return &MemStore{
		balances:  make(map[stock.Key]stock.Balance),
		samples:   make(map[uuid.UUID]report.Sample),
		reports:   make(map[uuid.UUID]report.DailyReport),
		plans:     make(map[uuid.UUID]visitplan.VisitPlan),
		products:  make(map[uuid.UUID]catalog.Product),
		customers: make(map[uuid.UUID]partner.Customer),
		users:     make(map[uuid.UUID]identity.User),
		jobs:      make(map[uuid.UUID]partner.RemovalJob),
		failures:  make(map[string]error),
	}
}

type memSnapshot struct {
	balances map[stock.Key]stock.Balance
	ledger   []stock.LedgerEntry
	samples  map[uuid.UUID]report.Sample
	reports  map[uuid.UUID]report.DailyReport
	plans    map[uuid.UUID]visitplan.VisitPlan
	cust     map[uuid.UUID]partner.Customer
	jobs     map[uuid.UUID]partner.RemovalJob
}

// Atomically runs fn as one unit. If fn fails every write it made is undone.
func (m *MemStore) Atomically(fn func() error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	m.txCount++
	n, hook := m.txCount, m.beforeTx
	m.mu.Unlock()
	if hook != nil {
		hook(n)
	}

	m.mu.Lock()
	snap := memSnapshot{
		balances: copyMap(m.balances),
		ledger:   append([]stock.LedgerEntry(nil), m.ledger...),
		samples:  copyMap(m.samples),
		reports:  copyMap(m.reports),
		plans:    copyMap(m.plans),
		cust:     copyMap(m.customers),
		jobs:     copyMap(m.jobs),
	}
	m.mu.Unlock()

	if err := fn(); err != nil {
		m.mu.Lock()
		m.balances, m.ledger, m.samples = snap.balances, snap.ledger, snap.samples
		m.reports, m.plans, m.customers, m.jobs = snap.reports, snap.plans, snap.cust, snap.jobs
		m.mu.Unlock()
		return err
	}
	return nil
}

// BeforeTransaction registers a hook run at the start of every Atomically
// call, outside the rollback boundary. n counts units from 1. Tests use it
// to land a competing write between a sufficiency check and its commit.
func (m *MemStore) BeforeTransaction(hook func(n int)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.beforeTx = hook
}

// FailOn makes the named operation return err, e.g. "SampleRepo.Save".
// Pass nil to clear.
func (m *MemStore) FailOn(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, op)
		return
	}
	m.failures[op] = err
}

func (m *MemStore) fail(op string) error {
	return m.failures[op]
}

// Ledger returns a copy of every ledger entry in append order
func (m *MemStore) Ledger() []stock.LedgerEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]stock.LedgerEntry(nil), m.ledger...)
}

// Quantity returns the cached balance for key, zero when absent
func (m *MemStore) Quantity(key stock.Key) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[key].Quantity
}

// Samples returns every sample in the store
func (m *MemStore) Samples() []report.Sample {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]report.Sample, 0, len(m.samples))
	for _, s := range m.samples {
		out = append(out, cloneSample(s))
	}
	return out
}

// ReportCount returns the number of stored reports
func (m *MemStore) ReportCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reports)
}

// SetBalance seeds a balance directly, bypassing the ledger
func (m *MemStore) SetBalance(key stock.Key, qty int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := *stock.NewBalance(key)
	b.Quantity = qty
	m.balances[key] = b
}

// AddProduct seeds a product
func (m *MemStore) AddProduct(p *catalog.Product) { _ = m.ProductRepo().Save(context.Background(), p) }

// AddCustomer seeds a customer
func (m *MemStore) AddCustomer(c *partner.Customer) { _ = m.CustomerRepo().Save(context.Background(), c) }

// AddUser seeds a user
func (m *MemStore) AddUser(u *identity.User) { _ = m.UserRepo().Save(context.Background(), u) }

func (m *MemStore) BalanceRepo() stock.BalanceRepository         { return memBalances{m} }
func (m *MemStore) LedgerRepo() stock.LedgerRepository           { return memLedger{m} }
func (m *MemStore) SampleRepo() report.SampleRepository          { return memSamples{m} }
func (m *MemStore) ReportRepo() report.DailyReportRepository     { return memReports{m} }
func (m *MemStore) VisitPlanRepo() visitplan.VisitPlanRepository { return memPlans{m} }
func (m *MemStore) ProductRepo() catalog.ProductRepository       { return memProducts{m} }
func (m *MemStore) CustomerRepo() partner.CustomerRepository     { return memCustomers{m} }
func (m *MemStore) UserRepo() identity.UserRepository            { return memUsers{m} }
func (m *MemStore) RemovalJobRepo() partner.RemovalJobRepository { return memJobs{m} }

// balances

type memBalances struct{ m *MemStore }

func (r memBalances) FindByKey(_ context.Context, key stock.Key) (*stock.Balance, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	b, ok := r.m.balances[key]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &b, nil
}

func (r memBalances) FindForRep(_ context.Context, tenantID, repID uuid.UUID, productIDs []uuid.UUID) ([]stock.Balance, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	want := make(map[uuid.UUID]struct{}, len(productIDs))
	for _, id := range productIDs {
		want[id] = struct{}{}
	}
	var out []stock.Balance
	for k, b := range r.m.balances {
		if k.TenantID != tenantID || k.RepID != repID {
			continue
		}
		if len(want) > 0 {
			if _, ok := want[k.ProductID]; !ok {
				continue
			}
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID.String() < out[j].ProductID.String() })
	return out, nil
}

func (r memBalances) FindForProduct(_ context.Context, tenantID, productID uuid.UUID) ([]stock.Balance, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []stock.Balance
	for k, b := range r.m.balances {
		if k.TenantID == tenantID && k.ProductID == productID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RepID.String() < out[j].RepID.String() })
	return out, nil
}

func (r memBalances) ApplyDelta(_ context.Context, key stock.Key, delta int64) (*stock.Balance, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.fail("BalanceRepo.ApplyDelta"); err != nil {
		return nil, err
	}
	b, ok := r.m.balances[key]
	if !ok {
		b = *stock.NewBalance(key)
	}
	if !b.CanApply(delta) {
		if !ok {
			r.m.balances[key] = b
		}
		return nil, stock.ErrBalanceWouldGoNegative
	}
	b.Quantity += delta
	b.Version++
	b.UpdatedAt = time.Now()
	r.m.balances[key] = b
	return &b, nil
}

// ledger

type memLedger struct{ m *MemStore }

func (r memLedger) Append(_ context.Context, entry *stock.LedgerEntry) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.fail("LedgerRepo.Append"); err != nil {
		return err
	}
	r.m.ledger = append(r.m.ledger, *entry)
	return nil
}

func (r memLedger) FindByKey(_ context.Context, key stock.Key, filter shared.Filter) ([]stock.LedgerEntry, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var all []stock.LedgerEntry
	for i := len(r.m.ledger) - 1; i >= 0; i-- {
		if r.m.ledger[i].Key() == key {
			all = append(all, r.m.ledger[i])
		}
	}
	filter = filter.Normalize()
	total := int64(len(all))
	start := filter.Offset()
	if start >= len(all) {
		return []stock.LedgerEntry{}, total, nil
	}
	end := start + filter.PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r memLedger) FindForRep(_ context.Context, tenantID, repID uuid.UUID, until time.Time) ([]stock.LedgerEntry, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []stock.LedgerEntry
	for _, e := range r.m.ledger {
		if e.TenantID == tenantID && e.RepID == repID && !e.CreatedAt.After(until) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r memLedger) SumUntil(_ context.Context, key stock.Key, at time.Time) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return stock.Replay(key, r.m.ledger, at), nil
}

func (r memLedger) SumAnalysisSince(_ context.Context, tenantID, productID uuid.UUID, since time.Time) (map[uuid.UUID]int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make(map[uuid.UUID]int64)
	for _, e := range r.m.ledger {
		if e.TenantID != tenantID || e.ProductID != productID || !e.IncludeInAnalysis || e.CreatedAt.Before(since) {
			continue
		}
		out[e.RepID] += e.QuantityChange
	}
	return out, nil
}

// samples

type memSamples struct{ m *MemStore }

func (r memSamples) FindByReport(_ context.Context, tenantID, reportID uuid.UUID) ([]report.Sample, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []report.Sample
	for _, s := range r.m.samples {
		if s.TenantID == tenantID && s.ReportID == reportID {
			out = append(out, cloneSample(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r memSamples) Save(_ context.Context, sample *report.Sample) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.fail("SampleRepo.Save"); err != nil {
		return err
	}
	r.m.samples[sample.ID] = cloneSample(*sample)
	return nil
}

func (r memSamples) DeleteByIDs(_ context.Context, tenantID uuid.UUID, ids []uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, id := range ids {
		if s, ok := r.m.samples[id]; ok && s.TenantID == tenantID {
			delete(r.m.samples, id)
		}
	}
	return nil
}

func (r memSamples) DeleteByReport(_ context.Context, tenantID, reportID uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for id, s := range r.m.samples {
		if s.TenantID == tenantID && s.ReportID == reportID {
			delete(r.m.samples, id)
		}
	}
	return nil
}

func (r memSamples) SumCustomerSamplesSince(_ context.Context, tenantID, productID uuid.UUID, since time.Time) (map[uuid.UUID]int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make(map[uuid.UUID]int64)
	for _, s := range r.m.samples {
		if s.TenantID != tenantID || s.ProductID != productID || s.Kind != report.SampleKindCustomer || s.CreatedAt.Before(since) {
			continue
		}
		out[s.TakenBy] += s.Quantity
	}
	return out, nil
}

// reports

type memReports struct{ m *MemStore }

func (r memReports) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*report.DailyReport, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	rep, ok := r.m.reports[id]
	if !ok || rep.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	out := cloneReport(rep)
	return &out, nil
}

func (r memReports) FindByRepAndDate(_ context.Context, tenantID, repID uuid.UUID, date string) (*report.DailyReport, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, rep := range r.m.reports {
		if rep.TenantID == tenantID && rep.RepID == repID && rep.Date == date {
			out := cloneReport(rep)
			return &out, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memReports) FindAllForTenant(_ context.Context, tenantID uuid.UUID, filter report.ReportFilter) ([]report.DailyReport, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var all []report.DailyReport
	for _, rep := range r.m.reports {
		if rep.TenantID != tenantID {
			continue
		}
		if filter.RepID != nil && rep.RepID != *filter.RepID {
			continue
		}
		if filter.DateFrom != "" && rep.Date < filter.DateFrom {
			continue
		}
		if filter.DateTo != "" && rep.Date > filter.DateTo {
			continue
		}
		all = append(all, cloneReport(rep))
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Date != all[j].Date {
			return all[i].Date > all[j].Date
		}
		return all[i].ID.String() < all[j].ID.String()
	})
	f := filter.Filter.Normalize()
	total := int64(len(all))
	start := f.Offset()
	if start >= len(all) {
		return []report.DailyReport{}, total, nil
	}
	end := start + f.PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r memReports) FindReferencingCustomer(_ context.Context, tenantID, customerID, afterID uuid.UUID, limit int) ([]report.DailyReport, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []report.DailyReport
	after := afterID.String()
	for _, rep := range r.m.reports {
		if rep.TenantID != tenantID || rep.ID.String() <= after {
			continue
		}
		for _, v := range rep.Visits {
			if v.CustomerID == customerID {
				out = append(out, cloneReport(rep))
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memReports) StatsForDate(_ context.Context, tenantID uuid.UUID, date string) (*report.DayStats, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stats := &report.DayStats{}
	for _, rep := range r.m.reports {
		if rep.TenantID != tenantID || rep.Date != date {
			continue
		}
		stats.Reports++
		stats.Visits += int64(rep.Stats.TotalVisits)
		stats.Visited += int64(rep.Stats.TotalVisited)
		stats.NotVisited += int64(rep.Stats.TotalNotVisited)
		stats.Extra += int64(rep.Stats.TotalExtra)
	}
	return stats, nil
}

func (r memReports) Create(_ context.Context, rep *report.DailyReport) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.fail("ReportRepo.Create"); err != nil {
		return err
	}
	if _, ok := r.m.reports[rep.ID]; ok {
		return shared.ErrAlreadyExists
	}
	for _, other := range r.m.reports {
		if other.TenantID == rep.TenantID && other.RepID == rep.RepID && other.Date == rep.Date {
			return shared.ErrAlreadyExists
		}
	}
	r.m.reports[rep.ID] = cloneReport(*rep)
	return nil
}

func (r memReports) Save(_ context.Context, rep *report.DailyReport) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.fail("ReportRepo.Save"); err != nil {
		return err
	}
	stored, ok := r.m.reports[rep.ID]
	if !ok || stored.TenantID != rep.TenantID || stored.Version != rep.Version {
		return shared.ErrConcurrencyConflict
	}
	rep.IncrementVersion()
	r.m.reports[rep.ID] = cloneReport(*rep)
	return nil
}

func (r memReports) DeleteForTenant(_ context.Context, tenantID, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.fail("ReportRepo.DeleteForTenant"); err != nil {
		return err
	}
	if rep, ok := r.m.reports[id]; ok && rep.TenantID == tenantID {
		delete(r.m.reports, id)
		return nil
	}
	return shared.ErrNotFound
}

// visit plans

type memPlans struct{ m *MemStore }

func (r memPlans) FindByRep(_ context.Context, tenantID, repID uuid.UUID) (*visitplan.VisitPlan, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, p := range r.m.plans {
		if p.TenantID == tenantID && p.RepID == repID {
			out := clonePlan(p)
			return &out, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memPlans) FindReferencingCustomer(_ context.Context, tenantID, customerID uuid.UUID) ([]visitplan.VisitPlan, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []visitplan.VisitPlan
	for _, p := range r.m.plans {
		if p.TenantID != tenantID {
			continue
		}
		for _, id := range p.CustomerIDs() {
			if id == customerID {
				out = append(out, clonePlan(p))
				break
			}
		}
	}
	return out, nil
}

func (r memPlans) Save(_ context.Context, plan *visitplan.VisitPlan) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.fail("VisitPlanRepo.Save"); err != nil {
		return err
	}
	r.m.plans[plan.ID] = clonePlan(*plan)
	return nil
}

// products

type memProducts struct{ m *MemStore }

func (r memProducts) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.products[id]
	if !ok || p.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &p, nil
}

func (r memProducts) FindByIDs(_ context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []catalog.Product
	for _, id := range uniq(ids) {
		if p, ok := r.m.products[id]; ok && p.TenantID == tenantID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r memProducts) Save(_ context.Context, p *catalog.Product) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.products[p.ID] = *p
	return nil
}

// customers

type memCustomers struct{ m *MemStore }

func (r memCustomers) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.customers[id]
	if !ok || c.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &c, nil
}

func (r memCustomers) FindByIDs(_ context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]partner.Customer, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []partner.Customer
	for _, id := range uniq(ids) {
		if c, ok := r.m.customers[id]; ok && c.TenantID == tenantID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r memCustomers) Save(_ context.Context, c *partner.Customer) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.customers[c.ID] = *c
	return nil
}

func (r memCustomers) DeleteForTenant(_ context.Context, tenantID, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.fail("CustomerRepo.DeleteForTenant"); err != nil {
		return err
	}
	c, ok := r.m.customers[id]
	if !ok || c.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.m.customers, id)
	return nil
}

// users

type memUsers struct{ m *MemStore }

func (r memUsers) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok || u.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &u, nil
}

func (r memUsers) FindActiveAdminIDs(_ context.Context, tenantID uuid.UUID) ([]uuid.UUID, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []uuid.UUID
	for _, u := range r.m.users {
		if u.TenantID == tenantID && u.IsActive && u.Role == shared.RoleAdmin {
			out = append(out, u.ID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out, nil
}

func (r memUsers) Save(_ context.Context, u *identity.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.users[u.ID] = *u
	return nil
}

// removal jobs

type memJobs struct{ m *MemStore }

func (r memJobs) FindActive(_ context.Context, tenantID, customerID uuid.UUID) (*partner.RemovalJob, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, j := range r.m.jobs {
		if j.TenantID == tenantID && j.CustomerID == customerID && j.Status == partner.RemovalRunning {
			return &j, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memJobs) FindStale(_ context.Context, before time.Time, limit int) ([]partner.RemovalJob, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []partner.RemovalJob
	for _, j := range r.m.jobs {
		if j.Status == partner.RemovalRunning && j.LastBatchAt.Before(before) {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].LastBatchAt.Before(out[k].LastBatchAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memJobs) Save(_ context.Context, job *partner.RemovalJob) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.fail("RemovalJobRepo.Save"); err != nil {
		return err
	}
	r.m.jobs[job.ID] = *job
	return nil
}

func copyMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func uniq(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func cloneSample(s report.Sample) report.Sample {
	if s.CustomerID != nil {
		id := *s.CustomerID
		s.CustomerID = &id
	}
	return s
}

func cloneReport(r report.DailyReport) report.DailyReport {
	r.Attachments = append([]string(nil), r.Attachments...)
	r.Visits = append([]report.Visit(nil), r.Visits...)
	return r
}

func clonePlan(p visitplan.VisitPlan) visitplan.VisitPlan {
	days := make([]visitplan.Day, len(p.Days))
	for i, d := range p.Days {
		days[i] = visitplan.Day{Day: d.Day, Customers: append([]visitplan.PlannedCustomer(nil), d.Customers...)}
	}
	p.Days = days
	return p
}
