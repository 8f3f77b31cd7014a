package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tair/material-ledger/internal/inventory/domain"
	"github.com/tair/material-ledger/pkg/logger"
)

// TransferLineInput is one requested transfer line
type TransferLineInput struct {
	MaterialID  uint
	TransferQty decimal.Decimal
}

// RegisterTransferCommand represents the command to move stock between projects or sites
type RegisterTransferCommand struct {
	Actor         domain.Actor
	FromProjectID uint
	ToProjectID   uint
	FromSite      string
	ToSite        string
	Code          string
	TransferDate  string
	Remarks       string
	Lines         []TransferLineInput
}

// TransferResult holds the transfer header and the movements derived from it
type TransferResult struct {
	Transfer *domain.TransferEntry `json:"transfer"`
	Outward  *domain.OutwardEntry  `json:"outward"`
	Inward   *domain.InwardEntry   `json:"inward"`
}

// RegisterTransferHandler handles register transfer command
type RegisterTransferHandler struct {
	store   domain.Store
	policy  domain.AccessPolicy
	effects *Effects
}

// NewRegisterTransferHandler creates a new register transfer handler
func NewRegisterTransferHandler(store domain.Store, policy domain.AccessPolicy, effects *Effects) *RegisterTransferHandler {
	return &RegisterTransferHandler{store: store, policy: policy, effects: effects}
}

// Handle executes the register transfer command.
// The transfer header, the source outward and the destination inward commit or roll back together.
func (h *RegisterTransferHandler) Handle(ctx context.Context, cmd RegisterTransferCommand) (result *TransferResult, err error) {
	start := time.Now()
	defer func() { h.effects.finish(ctx, "register_transfer", start, len(cmd.Lines), err) }()

	if cmd.ToProjectID == 0 {
		return nil, domain.BadRequestf("destination project is required")
	}

	from, err := authorize(ctx, h.store, h.policy, cmd.Actor, cmd.FromProjectID)
	if err != nil {
		return nil, err
	}
	to := from
	if cmd.ToProjectID != from.ID {
		to, err = authorize(ctx, h.store, h.policy, cmd.Actor, cmd.ToProjectID)
		if err != nil {
			return nil, err
		}
	}

	fromSite := strings.TrimSpace(cmd.FromSite)
	toSite := strings.TrimSpace(cmd.ToSite)
	if from.ID == to.ID && (fromSite == "" || toSite == "" || strings.EqualFold(fromSite, toSite)) {
		return nil, domain.BadRequestf("transfer within project %s requires distinct from and to sites", from.Code)
	}

	transferDate, err := parseDate("transfer_date", cmd.TransferDate)
	if err != nil {
		return nil, err
	}

	var lines []domain.TransferLine
	for _, in := range cmd.Lines {
		if !in.TransferQty.IsPositive() {
			continue
		}
		lines = append(lines, domain.TransferLine{MaterialID: in.MaterialID, TransferQty: in.TransferQty})
	}
	if len(lines) == 0 {
		return nil, domain.BadRequestf("at least one transfer line with quantity is required")
	}

	transfer := &domain.TransferEntry{
		FromProjectID: from.ID,
		ToProjectID:   to.ID,
		FromSite:      fromSite,
		ToSite:        toSite,
		TransferDate:  transferDate,
		Remarks:       cmd.Remarks,
		CreatedBy:     cmd.Actor.UserID,
		Lines:         lines,
	}

	result = &TransferResult{Transfer: transfer}
	err = h.store.Transaction(ctx, func(tx domain.Store) error {
		return registerTransfer(ctx, tx, from, to, cmd.Code, result)
	})
	if err != nil {
		return nil, err
	}

	h.effects.invalidate(ctx, from.ID, to.ID)
	h.effects.publish(ctx, transferEvent(transfer, cmd.Actor))

	logger.Info(ctx).
		Str("code", transfer.Code).
		Str("from_project", from.Code).
		Str("to_project", to.Code).
		Str("outward", result.Outward.Code).
		Str("inward", result.Inward.Code).
		Msg("Transfer registered")

	return result, nil
}

func registerTransfer(ctx context.Context, tx domain.Store, from, to *domain.Project, code string, result *TransferResult) error {
	transfer := result.Transfer

	resolved, err := domain.ResolveMovementCode(ctx, tx, domain.MovementTransfer, code)
	if err != nil {
		return err
	}
	transfer.Code = resolved
	if err := tx.CreateTransfer(ctx, transfer); err != nil {
		return err
	}

	outLines := make([]OutwardLineInput, 0, len(transfer.Lines))
	inLines := make([]InwardLineInput, 0, len(transfer.Lines))
	for _, l := range transfer.Lines {
		outLines = append(outLines, OutwardLineInput{MaterialID: l.MaterialID, IssueQty: l.TransferQty})
		inLines = append(inLines, InwardLineInput{MaterialID: l.MaterialID, ReceivedQty: l.TransferQty})
	}

	outward := &domain.OutwardEntry{
		ProjectID:  from.ID,
		IssueTo:    fmt.Sprintf("Transfer %s to %s", transfer.Code, siteLabel(to, transfer.ToSite)),
		IssueDate:  transfer.TransferDate,
		Remarks:    transfer.Remarks,
		TransferID: &transfer.ID,
		CreatedBy:  transfer.CreatedBy,
	}
	if err := registerOutward(ctx, tx, from, "", outward, outLines); err != nil {
		return err
	}

	inward := &domain.InwardEntry{
		ProjectID:    to.ID,
		Type:         domain.InwardTypeTransfer,
		ReceivedDate: transfer.TransferDate,
		SupplierName: fmt.Sprintf("Transfer %s from %s", transfer.Code, siteLabel(from, transfer.FromSite)),
		Remarks:      transfer.Remarks,
		TransferID:   &transfer.ID,
		CreatedBy:    transfer.CreatedBy,
	}
	if err := registerInward(ctx, tx, to, "", inward, inLines); err != nil {
		return err
	}

	if err := tx.LinkTransfer(ctx, transfer.ID, outward.ID, inward.ID); err != nil {
		return err
	}
	transfer.OutwardID = &outward.ID
	transfer.InwardID = &inward.ID

	result.Outward = outward
	result.Inward = inward
	return nil
}

func siteLabel(project *domain.Project, site string) string {
	if site == "" {
		return project.Code
	}
	return fmt.Sprintf("%s (%s)", project.Code, site)
}

func transferEvent(entry *domain.TransferEntry, actor domain.Actor) domain.MovementEvent {
	lines := make([]domain.MovementEventLine, 0, len(entry.Lines))
	for _, l := range entry.Lines {
		lines = append(lines, domain.MovementEventLine{
			MaterialID:  l.MaterialID,
			TransferQty: l.TransferQty,
		})
	}
	return domain.MovementEvent{
		EventType:   domain.EventTransferRegistered,
		MovementID:  entry.ID,
		Code:        entry.Code,
		ProjectID:   entry.FromProjectID,
		ToProjectID: entry.ToProjectID,
		ActorID:     actor.UserID,
		Lines:       lines,
	}
}
