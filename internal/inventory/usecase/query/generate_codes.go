package query

import (
	"context"
	"fmt"

	"github.com/tair/material-ledger/internal/inventory/domain"
)

// MovementCodes holds the next code of each movement kind
type MovementCodes struct {
	InwardCode   string `json:"inward_code"`
	OutwardCode  string `json:"outward_code"`
	TransferCode string `json:"transfer_code"`
}

// GenerateCodesHandler previews the next movement codes without reserving them
type GenerateCodesHandler struct {
	repo domain.JournalRepository
}

// NewGenerateCodesHandler creates a new generate codes handler
func NewGenerateCodesHandler(repo domain.JournalRepository) *GenerateCodesHandler {
	return &GenerateCodesHandler{repo: repo}
}

// Handle executes the generate codes query
func (h *GenerateCodesHandler) Handle(ctx context.Context) (*MovementCodes, error) {
	inward, err := domain.NextMovementCode(ctx, h.repo, domain.MovementInward)
	if err != nil {
		return nil, fmt.Errorf("failed to generate inward code: %w", err)
	}
	outward, err := domain.NextMovementCode(ctx, h.repo, domain.MovementOutward)
	if err != nil {
		return nil, fmt.Errorf("failed to generate outward code: %w", err)
	}
	transfer, err := domain.NextMovementCode(ctx, h.repo, domain.MovementTransfer)
	if err != nil {
		return nil, fmt.Errorf("failed to generate transfer code: %w", err)
	}

	return &MovementCodes{InwardCode: inward, OutwardCode: outward, TransferCode: transfer}, nil
}
