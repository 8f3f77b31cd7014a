package command

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tair/material-ledger/internal/inventory/domain"
	"github.com/tair/material-ledger/pkg/logger"
)

// InwardLineInput is one requested receipt line
type InwardLineInput struct {
	MaterialID  uint
	OrderedQty  decimal.Decimal
	ReceivedQty decimal.Decimal
}

// RegisterInwardCommand represents the command to register a goods receipt
type RegisterInwardCommand struct {
	Actor        domain.Actor
	ProjectID    uint
	Code         string
	Type         string
	InvoiceNo    string
	InvoiceDate  string
	ReceivedDate string
	SupplierName string
	Remarks      string
	Lines        []InwardLineInput
}

// RegisterInwardHandler handles register inward command
type RegisterInwardHandler struct {
	store   domain.Store
	policy  domain.AccessPolicy
	effects *Effects
}

// NewRegisterInwardHandler creates a new register inward handler
func NewRegisterInwardHandler(store domain.Store, policy domain.AccessPolicy, effects *Effects) *RegisterInwardHandler {
	return &RegisterInwardHandler{store: store, policy: policy, effects: effects}
}

// Handle executes the register inward command
func (h *RegisterInwardHandler) Handle(ctx context.Context, cmd RegisterInwardCommand) (entry *domain.InwardEntry, err error) {
	start := time.Now()
	defer func() { h.effects.finish(ctx, "register_inward", start, len(cmd.Lines), err) }()

	project, err := authorize(ctx, h.store, h.policy, cmd.Actor, cmd.ProjectID)
	if err != nil {
		return nil, err
	}

	if len(cmd.Lines) == 0 {
		return nil, domain.BadRequestf("at least one inward line is required")
	}

	inwardType, err := normalizeInwardType(cmd.Type)
	if err != nil {
		return nil, err
	}
	receivedDate, err := parseDate("received_date", cmd.ReceivedDate)
	if err != nil {
		return nil, err
	}
	invoiceDate, err := parseOptionalDate("invoice_date", cmd.InvoiceDate)
	if err != nil {
		return nil, err
	}

	entry = &domain.InwardEntry{
		ProjectID:    project.ID,
		Type:         inwardType,
		InvoiceNo:    strings.TrimSpace(cmd.InvoiceNo),
		InvoiceDate:  invoiceDate,
		ReceivedDate: receivedDate,
		SupplierName: strings.TrimSpace(cmd.SupplierName),
		Remarks:      cmd.Remarks,
		CreatedBy:    cmd.Actor.UserID,
	}

	err = h.store.Transaction(ctx, func(tx domain.Store) error {
		return registerInward(ctx, tx, project, cmd.Code, entry, cmd.Lines)
	})
	if err != nil {
		return nil, err
	}

	h.effects.invalidate(ctx, project.ID)
	h.effects.publish(ctx, inwardEvent(entry, cmd.Actor))

	logger.Info(ctx).
		Str("code", entry.Code).
		Str("project", project.Code).
		Int("lines", len(entry.Lines)).
		Msg("Inward registered")

	return entry, nil
}

// registerInward validates lines against allocations, applies them to the
// material ledger and persists the entry using tx. It is shared with transfers.
func registerInward(ctx context.Context, tx domain.Store, project *domain.Project, code string, entry *domain.InwardEntry, lines []InwardLineInput) error {
	pending := NewPendingTotals()

	for _, in := range lines {
		ordered := domain.NonNegative(in.OrderedQty)
		received := domain.NonNegative(in.ReceivedQty)
		if ordered.IsZero() && received.IsZero() {
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

		existingOrdered, existingReceived, err := tx.SumInward(ctx, project.ID, material.ID)
		if err != nil {
			return err
		}

		limit := allocation.RequiredQty
		nextOrdered := existingOrdered.Add(pending.Ordered(material.ID)).Add(ordered)
		if nextOrdered.GreaterThan(limit) {
			return domain.BadRequestf("ordered quantity for material %s would reach %s, exceeding allocation of %s on project %s",
				material.Code, nextOrdered, limit, project.Code)
		}
		nextReceived := existingReceived.Add(pending.Received(material.ID)).Add(received)
		if nextReceived.GreaterThan(limit) {
			return domain.BadRequestf("received quantity for material %s would reach %s, exceeding allocation of %s on project %s",
				material.Code, nextReceived, limit, project.Code)
		}

		pending.AddReceipt(material.ID, ordered, received)
		material.ApplyReceipt(ordered, received)
		if err := tx.SaveMaterial(ctx, material); err != nil {
			return err
		}

		entry.Lines = append(entry.Lines, domain.InwardLine{
			MaterialID:  material.ID,
			OrderedQty:  ordered,
			ReceivedQty: received,
		})
	}

	if len(entry.Lines) == 0 {
		return domain.BadRequestf("at least one inward line with quantity is required")
	}

	resolved, err := domain.ResolveMovementCode(ctx, tx, domain.MovementInward, code)
	if err != nil {
		return err
	}
	entry.Code = resolved

	return tx.CreateInward(ctx, entry)
}

// findAllocation loads the allocation cap, naming the project and material when absent
func findAllocation(ctx context.Context, tx domain.Store, project *domain.Project, material *domain.Material) (*domain.Allocation, error) {
	allocation, err := tx.FindAllocation(ctx, project.ID, material.ID)
	if errors.Is(err, domain.ErrNotAllocated) {
		return nil, domain.NotAllocatedf("material %s is not allocated to project %s", material.Code, project.Code)
	}
	return allocation, err
}

func normalizeInwardType(value string) (string, error) {
	t := strings.ToUpper(strings.TrimSpace(value))
	switch t {
	case "":
		return domain.InwardTypePurchase, nil
	case domain.InwardTypePurchase, domain.InwardTypeTransfer, domain.InwardTypeReturn:
		return t, nil
	default:
		return "", domain.BadRequestf("unknown inward type %q", value)
	}
}

func inwardEvent(entry *domain.InwardEntry, actor domain.Actor) domain.MovementEvent {
	lines := make([]domain.MovementEventLine, 0, len(entry.Lines))
	for _, l := range entry.Lines {
		lines = append(lines, domain.MovementEventLine{
			MaterialID:  l.MaterialID,
			OrderedQty:  l.OrderedQty,
			ReceivedQty: l.ReceivedQty,
		})
	}
	return domain.MovementEvent{
		EventType:  domain.EventInwardRegistered,
		MovementID: entry.ID,
		Code:       entry.Code,
		ProjectID:  entry.ProjectID,
		ActorID:    actor.UserID,
		Lines:      lines,
	}
}
