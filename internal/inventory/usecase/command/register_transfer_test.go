package command

import (
	"testing"

	"github.com/tair/material-ledger/internal/inventory/domain"
	"github.com/tair/material-ledger/internal/inventory/testutil"
)

func TestRegisterTransferRequiresDistinctSitesWithinProject(t *testing.T) {
	f := newFixture(t)
	p := f.SeedProject("P1")
	m := f.SeedMaterial("CEM-50")
	f.SeedAllocation(p.ID, m.ID, "100")
	f.receive(p.ID, m.ID, "60", "60")

	lines := []TransferLineInput{{MaterialID: m.ID, TransferQty: testutil.Qty(t, "5")}}

	tests := []struct {
		name     string
		fromSite string
		toSite   string
	}{
		{"same site ignoring case", "Yard A", "yard a"},
		{"missing to site", "Yard A", ""},
		{"missing from site", "", "Block B"},
		{"blank sites", "  ", "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.transfer.Handle(f.ctx, RegisterTransferCommand{
				Actor:         admin,
				FromProjectID: p.ID,
				ToProjectID:   p.ID,
				FromSite:      tt.fromSite,
				ToSite:        tt.toSite,
				Lines:         lines,
			})
			assertKind(t, err, domain.ErrBadRequest)
		})
	}

	if n := f.Count(&domain.TransferEntry{}); n != 0 {
		t.Errorf("transfer entries = %d, want 0", n)
	}

	result, err := f.transfer.Handle(f.ctx, RegisterTransferCommand{
		Actor:         admin,
		FromProjectID: p.ID,
		ToProjectID:   p.ID,
		FromSite:      "Yard A",
		ToSite:        "Block B",
		Lines:         lines,
	})
	if err != nil {
		t.Fatalf("intra project transfer: %v", err)
	}
	if result.Outward.ProjectID != p.ID || result.Inward.ProjectID != p.ID {
		t.Errorf("derived entries on projects %d/%d, want %d", result.Outward.ProjectID, result.Inward.ProjectID, p.ID)
	}
}

func TestRegisterTransferBetweenProjects(t *testing.T) {
	f := newFixture(t)
	src := f.SeedProject("P1")
	dst := f.SeedProject("P2")
	m := f.SeedMaterial("CEM-50")
	f.SeedAllocation(src.ID, m.ID, "100")
	f.SeedAllocation(dst.ID, m.ID, "100")
	f.receive(src.ID, m.ID, "60", "60")

	result, err := f.transfer.Handle(f.ctx, RegisterTransferCommand{
		Actor:         admin,
		FromProjectID: src.ID,
		ToProjectID:   dst.ID,
		TransferDate:  "2026-10-17",
		Remarks:       "rebalancing",
		Lines: []TransferLineInput{
			{MaterialID: m.ID, TransferQty: testutil.Qty(t, "25")},
			{MaterialID: m.ID, TransferQty: testutil.Qty(t, "0")},
		},
	})
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}

	if result.Transfer.Code != "T0001" || result.Outward.Code != "O0001" || result.Inward.Code != "I0002" {
		t.Errorf("codes = %s/%s/%s, want T0001/O0001/I0002", result.Transfer.Code, result.Outward.Code, result.Inward.Code)
	}
	if len(result.Transfer.Lines) != 1 {
		t.Errorf("transfer lines = %d, want 1", len(result.Transfer.Lines))
	}
	if result.Inward.Type != domain.InwardTypeTransfer {
		t.Errorf("inward type = %q, want %q", result.Inward.Type, domain.InwardTypeTransfer)
	}
	if result.Inward.TransferID == nil || *result.Inward.TransferID != result.Transfer.ID {
		t.Errorf("inward not linked to transfer %d", result.Transfer.ID)
	}
	if result.Outward.TransferID == nil || *result.Outward.TransferID != result.Transfer.ID {
		t.Errorf("outward not linked to transfer %d", result.Transfer.ID)
	}

	stored, err := f.Store.FindTransfer(f.ctx, result.Transfer.ID)
	if err != nil {
		t.Fatalf("FindTransfer: %v", err)
	}
	if stored.OutwardID == nil || *stored.OutwardID != result.Outward.ID || stored.InwardID == nil || *stored.InwardID != result.Inward.ID {
		t.Errorf("stored transfer links = %v/%v, want %d/%d", stored.OutwardID, stored.InwardID, result.Outward.ID, result.Inward.ID)
	}

	if got := f.issued(src.ID, m.ID); got != "25" {
		t.Errorf("source issued = %s, want 25", got)
	}
	ordered, received, err := f.Store.SumInward(f.ctx, dst.ID, m.ID)
	if err != nil {
		t.Fatalf("SumInward: %v", err)
	}
	testutil.AssertQty(t, "destination ordered", ordered, "0")
	testutil.AssertQty(t, "destination received", received, "25")

	got := f.Material(m.ID)
	testutil.AssertQty(t, "global received", got.ReceivedQty, "85")
	testutil.AssertQty(t, "global utilized", got.UtilizedQty, "25")
	testutil.AssertQty(t, "global balance", got.BalanceQty, "60")
	assertBalanceInvariant(t, got)

	last := f.publisher.Events[len(f.publisher.Events)-1]
	if last.EventType != domain.EventTransferRegistered || last.ProjectID != src.ID || last.ToProjectID != dst.ID {
		t.Errorf("unexpected transfer event %+v", last)
	}
}

func TestRegisterTransferRollsBackOnDerivedFailure(t *testing.T) {
	f := newFixture(t)
	src := f.SeedProject("P1")
	dst := f.SeedProject("P2")
	m := f.SeedMaterial("CEM-50")
	f.SeedAllocation(src.ID, m.ID, "100")
	f.receive(src.ID, m.ID, "60", "60")
	before := f.Material(m.ID)

	_, err := f.transfer.Handle(f.ctx, RegisterTransferCommand{
		Actor:         admin,
		FromProjectID: src.ID,
		ToProjectID:   dst.ID,
		Lines:         []TransferLineInput{{MaterialID: m.ID, TransferQty: testutil.Qty(t, "10")}},
	})
	assertKind(t, err, domain.ErrNotAllocated)

	for _, model := range []any{&domain.TransferEntry{}, &domain.TransferLine{}, &domain.OutwardEntry{}, &domain.OutwardLine{}} {
		if n := f.Count(model); n != 0 {
			t.Errorf("%T rows = %d, want 0", model, n)
		}
	}
	if n := f.Count(&domain.InwardEntry{}); n != 1 {
		t.Errorf("inward entries = %d, want 1", n)
	}

	after := f.Material(m.ID)
	if !after.UtilizedQty.Equal(before.UtilizedQty) || !after.ReceivedQty.Equal(before.ReceivedQty) {
		t.Errorf("material changed by failed transfer: %+v -> %+v", before, after)
	}
}

func TestRegisterTransferPreconditions(t *testing.T) {
	f := newFixture(t)
	src := f.SeedProject("P1")
	dst := f.SeedProject("P2")
	m := f.SeedMaterial("CEM-50")
	f.SeedAllocation(src.ID, m.ID, "100")
	f.SeedAllocation(dst.ID, m.ID, "100")
	f.receive(src.ID, m.ID, "60", "60")

	keeper := domain.Actor{UserID: 9, Role: domain.RoleStoreKeeper}
	f.SeedMember(src.ID, keeper.UserID)
	lines := []TransferLineInput{{MaterialID: m.ID, TransferQty: testutil.Qty(t, "5")}}

	tests := []struct {
		name string
		cmd  RegisterTransferCommand
		want error
	}{
		{"missing destination", RegisterTransferCommand{Actor: admin, FromProjectID: src.ID, Lines: lines}, domain.ErrBadRequest},
		{"unknown destination", RegisterTransferCommand{Actor: admin, FromProjectID: src.ID, ToProjectID: 999, Lines: lines}, domain.ErrNotFound},
		{"no lines with quantity", RegisterTransferCommand{Actor: admin, FromProjectID: src.ID, ToProjectID: dst.ID,
			Lines: []TransferLineInput{{MaterialID: m.ID}}}, domain.ErrBadRequest},
		{"no access to destination", RegisterTransferCommand{Actor: keeper, FromProjectID: src.ID, ToProjectID: dst.ID, Lines: lines}, domain.ErrForbidden},
		{"over source balance", RegisterTransferCommand{Actor: admin, FromProjectID: src.ID, ToProjectID: dst.ID,
			Lines: []TransferLineInput{{MaterialID: m.ID, TransferQty: testutil.Qty(t, "61")}}}, domain.ErrBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.transfer.Handle(f.ctx, tt.cmd)
			assertKind(t, err, tt.want)
		})
	}

	if n := f.Count(&domain.TransferEntry{}); n != 0 {
		t.Errorf("transfer entries = %d, want 0", n)
	}
}
