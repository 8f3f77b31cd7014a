package command

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tair/material-ledger/internal/inventory/domain"
	"github.com/tair/material-ledger/pkg/logger"
)

// OutwardLineInput is one requested issue line.
// LineID is only used by UpdateOutward to keep the identity of an existing line.
type OutwardLineInput struct {
	LineID     uint
	MaterialID uint
	IssueQty   decimal.Decimal
}

// RegisterOutwardCommand represents the command to issue stock on a project
type RegisterOutwardCommand struct {
	Actor     domain.Actor
	ProjectID uint
	Code      string
	IssueTo   string
	IssueDate string
	Remarks   string
	Lines     []OutwardLineInput
}

// RegisterOutwardHandler handles register outward command
type RegisterOutwardHandler struct {
	store   domain.Store
	policy  domain.AccessPolicy
	effects *Effects
}

// NewRegisterOutwardHandler creates a new register outward handler
func NewRegisterOutwardHandler(store domain.Store, policy domain.AccessPolicy, effects *Effects) *RegisterOutwardHandler {
	return &RegisterOutwardHandler{store: store, policy: policy, effects: effects}
}

// Handle executes the register outward command
func (h *RegisterOutwardHandler) Handle(ctx context.Context, cmd RegisterOutwardCommand) (entry *domain.OutwardEntry, err error) {
	start := time.Now()
	defer func() { h.effects.finish(ctx, "register_outward", start, len(cmd.Lines), err) }()

	project, err := authorize(ctx, h.store, h.policy, cmd.Actor, cmd.ProjectID)
	if err != nil {
		return nil, err
	}

	if len(cmd.Lines) == 0 {
		return nil, domain.BadRequestf("at least one outward line is required")
	}

	issueDate, err := parseDate("issue_date", cmd.IssueDate)
	if err != nil {
		return nil, err
	}

	entry = &domain.OutwardEntry{
		ProjectID: project.ID,
		IssueTo:   strings.TrimSpace(cmd.IssueTo),
		IssueDate: issueDate,
		Remarks:   cmd.Remarks,
		CreatedBy: cmd.Actor.UserID,
	}

	err = h.store.Transaction(ctx, func(tx domain.Store) error {
		return registerOutward(ctx, tx, project, cmd.Code, entry, cmd.Lines)
	})
	if err != nil {
		return nil, err
	}

	h.effects.invalidate(ctx, project.ID)
	h.effects.publish(ctx, outwardEvent(domain.EventOutwardRegistered, entry, cmd.Actor))

	logger.Info(ctx).
		Str("code", entry.Code).
		Str("project", project.Code).
		Int("lines", len(entry.Lines)).
		Msg("Outward registered")

	return entry, nil
}

// registerOutward validates issue lines against project balance, global stock
// and allocation, applies them to the material ledger and persists the entry
// using tx. It is shared with transfers.
func registerOutward(ctx context.Context, tx domain.Store, project *domain.Project, code string, entry *domain.OutwardEntry, lines []OutwardLineInput) error {
	pending := NewPendingTotals()

	for _, in := range lines {
		qty := in.IssueQty
		if !qty.IsPositive() {
			continue
		}

		material, err := tx.FindMaterialForUpdate(ctx, in.MaterialID)
		if err != nil {
			return err
		}
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
		pendingIssued := pending.Issued(material.ID)

		projectBalance := received.Sub(issued).Sub(pendingIssued)
		if !projectBalance.IsPositive() {
			return domain.BadRequestf("no balance available for material %s on project %s", material.Code, project.Code)
		}

		available := decimal.Min(projectBalance, material.BalanceQty)
		if !available.IsPositive() {
			return domain.BadRequestf("stock is zero for material %s", material.Code)
		}
		if qty.GreaterThan(available) {
			return domain.BadRequestf("issue quantity %s for material %s exceeds available balance of %s on project %s",
				qty, material.Code, available, project.Code)
		}

		if issued.Add(pendingIssued).Add(qty).GreaterThan(allocation.RequiredQty) {
			return domain.BadRequestf("issue quantity for material %s exceeds allocated requirement of %s on project %s",
				material.Code, allocation.RequiredQty, project.Code)
		}

		pending.AddIssue(material.ID, qty)
		material.ApplyIssue(qty)
		if err := tx.SaveMaterial(ctx, material); err != nil {
			return err
		}

		entry.Lines = append(entry.Lines, domain.OutwardLine{
			MaterialID: material.ID,
			IssueQty:   qty,
		})
	}

	if len(entry.Lines) == 0 {
		return domain.BadRequestf("at least one outward line with quantity is required")
	}

	resolved, err := domain.ResolveMovementCode(ctx, tx, domain.MovementOutward, code)
	if err != nil {
		return err
	}
	entry.Code = resolved

	return tx.CreateOutward(ctx, entry)
}

func outwardEvent(eventType string, entry *domain.OutwardEntry, actor domain.Actor) domain.MovementEvent {
	lines := make([]domain.MovementEventLine, 0, len(entry.Lines))
	for _, l := range entry.Lines {
		lines = append(lines, domain.MovementEventLine{
			MaterialID: l.MaterialID,
			IssueQty:   l.IssueQty,
		})
	}
	return domain.MovementEvent{
		EventType:  eventType,
		MovementID: entry.ID,
		Code:       entry.Code,
		ProjectID:  entry.ProjectID,
		ActorID:    actor.UserID,
		Lines:      lines,
	}
}
