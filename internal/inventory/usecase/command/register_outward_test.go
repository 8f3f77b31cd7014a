package command

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tair/material-ledger/internal/inventory/domain"
	"github.com/tair/material-ledger/internal/inventory/testutil"
)

func TestRegisterOutwardBalanceRules(t *testing.T) {
	f := newFixture(t)
	p := f.SeedProject("P1")
	m := f.SeedMaterial("CEM-50")
	f.SeedAllocation(p.ID, m.ID, "100")

	_, err := f.issue(p.ID, m.ID, "1")
	assertKind(t, err, domain.ErrBadRequest)
	if !strings.Contains(err.Error(), "no balance available") {
		t.Errorf("error = %q, want no balance available", err)
	}

	f.receive(p.ID, m.ID, "60", "60")

	_, err = f.issue(p.ID, m.ID, "61")
	assertKind(t, err, domain.ErrBadRequest)
	if !strings.Contains(err.Error(), "available balance of 60") {
		t.Errorf("error = %q, want available balance quoted", err)
	}

	if _, err := f.issue(p.ID, m.ID, "25.5"); err != nil {
		t.Fatalf("issue 25.5: %v", err)
	}
	got := f.Material(m.ID)
	testutil.AssertQty(t, "balance", got.BalanceQty, "34.5")
	assertBalanceInvariant(t, got)
}

func TestRegisterOutwardCumulativeBatch(t *testing.T) {
	f := newFixture(t)
	p := f.SeedProject("P1")
	m := f.SeedMaterial("CEM-50")
	f.SeedAllocation(p.ID, m.ID, "100")
	f.receive(p.ID, m.ID, "60", "60")

	_, err := f.outward.Handle(f.ctx, RegisterOutwardCommand{
		Actor:     admin,
		ProjectID: p.ID,
		Lines: []OutwardLineInput{
			{MaterialID: m.ID, IssueQty: testutil.Qty(t, "40")},
			{MaterialID: m.ID, IssueQty: testutil.Qty(t, "30")},
		},
	})
	assertKind(t, err, domain.ErrBadRequest)

	testutil.AssertQty(t, "utilized", f.Material(m.ID).UtilizedQty, "0")
	if n := f.Count(&domain.OutwardEntry{}); n != 0 {
		t.Errorf("outward entries = %d, want 0", n)
	}

	entry, err := f.outward.Handle(f.ctx, RegisterOutwardCommand{
		Actor:     admin,
		ProjectID: p.ID,
		Lines: []OutwardLineInput{
			{MaterialID: m.ID, IssueQty: testutil.Qty(t, "40")},
			{MaterialID: m.ID, IssueQty: decimal.Zero},
			{MaterialID: m.ID, IssueQty: testutil.Qty(t, "20")},
		},
	})
	if err != nil {
		t.Fatalf("batch within balance: %v", err)
	}
	if len(entry.Lines) != 2 {
		t.Errorf("lines = %d, want 2", len(entry.Lines))
	}
	testutil.AssertQty(t, "balance", f.Material(m.ID).BalanceQty, "0")
}

func TestRegisterOutwardRespectsAllocationCap(t *testing.T) {
	f := newFixture(t)
	p := f.SeedProject("P1")
	m := f.SeedMaterial("CEM-50")
	f.SeedAllocation(p.ID, m.ID, "100")
	f.receive(p.ID, m.ID, "80", "80")

	// lowering the cap below receipts is allowed, issues are then bounded by it
	f.SeedAllocation(p.ID, m.ID, "50")

	_, err := f.issue(p.ID, m.ID, "60")
	assertKind(t, err, domain.ErrBadRequest)
	if !strings.Contains(err.Error(), "exceeds allocated requirement of 50") {
		t.Errorf("error = %q, want allocation cap quoted", err)
	}

	if _, err := f.issue(p.ID, m.ID, "50"); err != nil {
		t.Fatalf("issue at cap: %v", err)
	}
}

func TestRegisterOutwardBoundedByGlobalStock(t *testing.T) {
	f := newFixture(t)
	p := f.SeedProject("P1")
	m := f.SeedMaterial("CEM-50")
	f.SeedAllocation(p.ID, m.ID, "100")
	f.receive(p.ID, m.ID, "10", "10")

	// simulate a drifted aggregate: project books show stock, the ledger does not
	if err := f.DB.Model(&domain.Material{}).Where("id = ?", m.ID).Update("balance_qty", decimal.Zero).Error; err != nil {
		t.Fatalf("drift balance: %v", err)
	}
	_, err := f.issue(p.ID, m.ID, "5")
	assertKind(t, err, domain.ErrBadRequest)
	if !strings.Contains(err.Error(), "stock is zero") {
		t.Errorf("error = %q, want stock is zero", err)
	}

	if err := f.DB.Model(&domain.Material{}).Where("id = ?", m.ID).Update("balance_qty", testutil.Qty(t, "3")).Error; err != nil {
		t.Fatalf("drift balance: %v", err)
	}
	_, err = f.issue(p.ID, m.ID, "5")
	assertKind(t, err, domain.ErrBadRequest)
	if !strings.Contains(err.Error(), "available balance of 3") {
		t.Errorf("error = %q, want global balance quoted", err)
	}
}

func TestRegisterOutwardIsScopedToProject(t *testing.T) {
	f := newFixture(t)
	p1 := f.SeedProject("P1")
	p2 := f.SeedProject("P2")
	m := f.SeedMaterial("CEM-50")
	f.SeedAllocation(p1.ID, m.ID, "100")
	f.SeedAllocation(p2.ID, m.ID, "100")
	f.receive(p1.ID, m.ID, "40", "40")

	_, err := f.issue(p2.ID, m.ID, "10")
	assertKind(t, err, domain.ErrBadRequest)

	if _, err := f.issue(p1.ID, m.ID, "10"); err != nil {
		t.Fatalf("issue on receiving project: %v", err)
	}
	if got := f.issued(p2.ID, m.ID); got != "0" {
		t.Errorf("P2 issued = %s, want 0", got)
	}
}
