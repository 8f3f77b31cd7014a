package command

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tair/material-ledger/internal/inventory/domain"
	"github.com/tair/material-ledger/pkg/logger"
)

// UpdateOutwardCommand represents the command to replace the lines of an outward entry.
// Nil header fields are left unchanged.
type UpdateOutwardCommand struct {
	Actor     domain.Actor
	OutwardID uint
	Lines     []OutwardLineInput
	IssueTo   *string
	Remarks   *string
}

// UpdateOutwardHandler handles update outward command
type UpdateOutwardHandler struct {
	store   domain.Store
	policy  domain.AccessPolicy
	effects *Effects
}

// NewUpdateOutwardHandler creates a new update outward handler
func NewUpdateOutwardHandler(store domain.Store, policy domain.AccessPolicy, effects *Effects) *UpdateOutwardHandler {
	return &UpdateOutwardHandler{store: store, policy: policy, effects: effects}
}

// Handle executes the update outward command
func (h *UpdateOutwardHandler) Handle(ctx context.Context, cmd UpdateOutwardCommand) (entry *domain.OutwardEntry, err error) {
	start := time.Now()
	defer func() { h.effects.finish(ctx, "update_outward", start, len(cmd.Lines), err) }()

	if cmd.OutwardID == 0 {
		return nil, domain.BadRequestf("outward id is required")
	}

	current, err := h.store.FindOutward(ctx, cmd.OutwardID)
	if err != nil {
		return nil, err
	}
	project, err := authorize(ctx, h.store, h.policy, cmd.Actor, current.ProjectID)
	if err != nil {
		return nil, err
	}

	err = h.store.Transaction(ctx, func(tx domain.Store) error {
		entry, err = tx.FindOutward(ctx, cmd.OutwardID)
		if err != nil {
			return err
		}
		return reconcileOutward(ctx, tx, project, entry, cmd)
	})
	if err != nil {
		return nil, err
	}

	h.effects.invalidate(ctx, project.ID)
	h.effects.publish(ctx, outwardEvent(domain.EventOutwardUpdated, entry, cmd.Actor))

	logger.Info(ctx).
		Str("code", entry.Code).
		Str("project", project.Code).
		Int("lines", len(entry.Lines)).
		Msg("Outward updated")

	return entry, nil
}

// reconcileOutward applies only the per-material difference between the
// entry's current lines and the requested ones to the material ledger.
func reconcileOutward(ctx context.Context, tx domain.Store, project *domain.Project, entry *domain.OutwardEntry, cmd UpdateOutwardCommand) error {
	if entry.Validated {
		return domain.BadRequestf("outward %s is validated and cannot be modified", entry.Code)
	}

	previous := make(map[uint]decimal.Decimal)
	ownLines := make(map[uint]bool)
	for _, l := range entry.Lines {
		previous[l.MaterialID] = previous[l.MaterialID].Add(l.IssueQty)
		ownLines[l.ID] = true
	}

	next := make(map[uint]decimal.Decimal)
	lines := make([]domain.OutwardLine, 0, len(cmd.Lines))
	for _, in := range cmd.Lines {
		if !in.IssueQty.IsPositive() {
			continue
		}
		next[in.MaterialID] = next[in.MaterialID].Add(in.IssueQty)

		line := domain.OutwardLine{MaterialID: in.MaterialID, IssueQty: in.IssueQty}
		if ownLines[in.LineID] {
			line.ID = in.LineID
			delete(ownLines, in.LineID)
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return domain.BadRequestf("outward %s must keep at least one line with quantity", entry.Code)
	}

	for _, materialID := range touchedMaterials(previous, next) {
		if err := reconcileMaterial(ctx, tx, project, materialID, previous[materialID], next[materialID]); err != nil {
			return err
		}
	}

	if err := tx.ReplaceOutwardLines(ctx, entry, lines); err != nil {
		return err
	}

	if cmd.IssueTo == nil && cmd.Remarks == nil {
		return nil
	}
	if cmd.IssueTo != nil {
		entry.IssueTo = strings.TrimSpace(*cmd.IssueTo)
	}
	if cmd.Remarks != nil {
		entry.Remarks = *cmd.Remarks
	}
	return tx.UpdateOutwardHeader(ctx, entry)
}

func reconcileMaterial(ctx context.Context, tx domain.Store, project *domain.Project, materialID uint, previous, next decimal.Decimal) error {
	material, err := tx.FindMaterialForUpdate(ctx, materialID)
	if err != nil {
		return err
	}

	if next.IsPositive() {
		allocation, err := findAllocation(ctx, tx, project, material)
		if err != nil {
			return err
		}
		_, received, err := tx.SumInward(ctx, project.ID, material.ID)
		if err != nil {
			return err
		}
		issued, err := tx.SumIssued(ctx, project.ID, material.ID)
		if err != nil {
			return err
		}

		others := issued.Sub(previous)
		projected := others.Add(next)
		if projected.GreaterThan(received) {
			return domain.BadRequestf("issue quantity %s for material %s exceeds remaining project balance of %s on project %s",
				next, material.Code, domain.NonNegative(received.Sub(others)), project.Code)
		}
		if projected.GreaterThan(allocation.RequiredQty) {
			return domain.BadRequestf("issue quantity for material %s exceeds allocated requirement of %s on project %s",
				material.Code, allocation.RequiredQty, project.Code)
		}
	}

	delta := next.Sub(previous)
	if delta.IsZero() {
		return nil
	}
	if delta.IsPositive() && delta.GreaterThan(material.BalanceQty) {
		return domain.BadRequestf("insufficient stock for material %s: requested additional %s, available %s",
			material.Code, delta, material.BalanceQty)
	}

	material.AdjustUtilized(delta)
	return tx.SaveMaterial(ctx, material)
}

// touchedMaterials returns the union of material ids in ascending order so
// row locks are always taken in the same sequence.
func touchedMaterials(previous, next map[uint]decimal.Decimal) []uint {
	seen := make(map[uint]struct{}, len(previous)+len(next))
	ids := make([]uint, 0, len(previous)+len(next))
	for _, m := range []map[uint]decimal.Decimal{previous, next} {
		for id := range m {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
