package report

import (
	"sort"

	"github.com/Mandoobi/jaber-backend/internal/domain/report"
	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/Mandoobi/jaber-backend/internal/domain/stock"
	"github.com/google/uuid"
)

// sampleChange is one sample to persist and the adjustments that pay for it
type sampleChange struct {
	sample      *report.Sample
	adjustments []stock.Adjustment
}

func (c sampleChange) withdraws() bool {
	for _, a := range c.adjustments {
		if a.Delta < 0 {
			return true
		}
	}
	return false
}

// reconciliationPlan is everything one submission will write, computed
// before any write happens
type reconciliationPlan struct {
	deletions []report.Sample
	changes   []sampleChange
	// net is the quantity the plan takes out per product; negative puts back
	net map[uuid.UUID]int64
}

// sampleCount is the number of samples the report holds after commit
func (p *reconciliationPlan) sampleCount() int {
	return len(p.changes)
}

// samples returns the samples the report holds after commit
func (p *reconciliationPlan) samples() []report.Sample {
	out := make([]report.Sample, 0, len(p.changes))
	for _, c := range p.changes {
		out = append(out, *c.sample)
	}
	return out
}

// withdrawnProducts lists products the plan takes out of stock overall
func (p *reconciliationPlan) withdrawnProducts() []uuid.UUID {
	var ids []uuid.UUID
	for id, q := range p.net {
		if q > 0 {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

type planInput struct {
	tenantID   uuid.UUID
	repID      uuid.UUID
	reportID   uuid.UUID
	actorID    uuid.UUID
	existing   []report.Sample
	desired    []report.SampleLine
	deletedIDs []uuid.UUID
}

// buildPlan diffs the desired sample lines against what the report holds.
// Deleted IDs that are not on the report are ignored, so a repeated
// submission is harmless. A line carrying an ID must match a sample on the
// report that is not also being deleted. Changing the product of an existing
// sample returns the old quantity in full and withdraws the new one.
func buildPlan(in planInput) (*reconciliationPlan, error) {
	existing := make(map[uuid.UUID]*report.Sample, len(in.existing))
	for i := range in.existing {
		existing[in.existing[i].ID] = &in.existing[i]
	}

	plan := &reconciliationPlan{net: make(map[uuid.UUID]int64)}
	reportID := in.reportID

	adj := func(productID uuid.UUID, delta int64, reason stock.Reason) stock.Adjustment {
		rid := reportID
		plan.net[productID] -= delta
		return stock.Adjustment{
			Key:      stock.Key{TenantID: in.tenantID, RepID: in.repID, ProductID: productID},
			Delta:    delta,
			Reason:   reason,
			ActorID:  in.actorID,
			ReportID: &rid,
		}
	}

	deleted := make(map[uuid.UUID]struct{}, len(in.deletedIDs))
	for _, id := range in.deletedIDs {
		s, ok := existing[id]
		if !ok {
			continue
		}
		if _, dup := deleted[id]; dup {
			continue
		}
		deleted[id] = struct{}{}
		plan.net[s.ProductID] -= s.Quantity
		plan.deletions = append(plan.deletions, *s)
	}

	seen := make(map[uuid.UUID]struct{}, len(in.desired))
	for _, line := range in.desired {
		if err := line.Validate(); err != nil {
			return nil, err
		}

		if line.ID == nil || *line.ID == uuid.Nil {
			s, err := report.NewSample(in.tenantID, in.repID, in.reportID, line)
			if err != nil {
				return nil, err
			}
			plan.changes = append(plan.changes, sampleChange{
				sample:      s,
				adjustments: []stock.Adjustment{adj(line.ProductID, -line.Quantity, stock.ReasonSampleAdded)},
			})
			continue
		}

		id := *line.ID
		if _, dup := seen[id]; dup {
			return nil, shared.NewDomainError("INVALID_SAMPLE", "A sample can only be edited once per submission")
		}
		seen[id] = struct{}{}
		if _, gone := deleted[id]; gone {
			return nil, shared.NewDomainError("INVALID_SAMPLE", "A sample cannot be edited and deleted in the same submission")
		}
		current, ok := existing[id]
		if !ok {
			return nil, shared.NewDomainError("INVALID_SAMPLE", "Sample does not belong to this report")
		}

		prevProduct, prevQty := current.ProductID, current.Quantity
		s := *current
		if err := s.Revise(line); err != nil {
			return nil, err
		}

		change := sampleChange{sample: &s}
		switch {
		case prevProduct != line.ProductID:
			change.adjustments = append(change.adjustments,
				adj(prevProduct, prevQty, stock.ReasonSampleReplaced),
				adj(line.ProductID, -line.Quantity, stock.ReasonSampleAdded),
			)
		case line.Quantity > prevQty:
			change.adjustments = append(change.adjustments,
				adj(line.ProductID, -(line.Quantity - prevQty), stock.ReasonSampleIncreased))
		case line.Quantity < prevQty:
			change.adjustments = append(change.adjustments,
				adj(line.ProductID, prevQty-line.Quantity, stock.ReasonSampleDecreased))
		}
		plan.changes = append(plan.changes, change)
	}

	// Returns commit before withdrawals so a swap within one product never
	// dips below zero mid-transaction.
	sort.SliceStable(plan.changes, func(i, j int) bool {
		return !plan.changes[i].withdraws() && plan.changes[j].withdraws()
	})
	return plan, nil
}

// deletionAdjustment returns a removed sample's quantity to the report owner
func deletionAdjustment(s *report.Sample, repID, actorID uuid.UUID, reason stock.Reason) stock.Adjustment {
	rid := s.ReportID
	return stock.Adjustment{
		Key:      stock.Key{TenantID: s.TenantID, RepID: repID, ProductID: s.ProductID},
		Delta:    s.Quantity,
		Reason:   reason,
		ActorID:  actorID,
		ReportID: &rid,
	}
}
