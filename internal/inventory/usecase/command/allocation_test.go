package command

import (
	"testing"

	"github.com/tair/material-ledger/internal/inventory/domain"
	"github.com/tair/material-ledger/internal/inventory/testutil"
)

func TestAssignAllocationUpserts(t *testing.T) {
	f := newFixture(t)
	p := f.SeedProject("P1")
	m := f.SeedMaterial("CEM-50")

	first, err := f.assign.Handle(f.ctx, AssignAllocationCommand{Actor: admin, ProjectID: p.ID, MaterialID: m.ID, RequiredQty: testutil.Qty(t, "100")})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	second, err := f.assign.Handle(f.ctx, AssignAllocationCommand{Actor: admin, ProjectID: p.ID, MaterialID: m.ID, RequiredQty: testutil.Qty(t, "120.5")})
	if err != nil {
		t.Fatalf("reassign: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("allocation id changed from %d to %d", first.ID, second.ID)
	}
	testutil.AssertQty(t, "required", second.RequiredQty, "120.5")
	if n := f.Count(&domain.Allocation{}); n != 1 {
		t.Errorf("allocation rows = %d, want 1", n)
	}
	if len(f.cache.Invalidated) != 2 {
		t.Errorf("invalidations = %v, want two", f.cache.Invalidated)
	}

	if _, err := f.assign.Handle(f.ctx, AssignAllocationCommand{Actor: admin, ProjectID: p.ID, MaterialID: m.ID}); err != nil {
		t.Errorf("zero allocation should be accepted: %v", err)
	}
}

func TestAssignAllocationValidation(t *testing.T) {
	f := newFixture(t)
	p := f.SeedProject("P1")
	m := f.SeedMaterial("CEM-50")

	tests := []struct {
		name string
		cmd  AssignAllocationCommand
		want error
	}{
		{"negative quantity", AssignAllocationCommand{Actor: admin, ProjectID: p.ID, MaterialID: m.ID, RequiredQty: testutil.Qty(t, "-1")}, domain.ErrInvalidQuantity},
		{"unknown project", AssignAllocationCommand{Actor: admin, ProjectID: 999, MaterialID: m.ID, RequiredQty: testutil.Qty(t, "1")}, domain.ErrNotFound},
		{"unknown material", AssignAllocationCommand{Actor: admin, ProjectID: p.ID, MaterialID: 999, RequiredQty: testutil.Qty(t, "1")}, domain.ErrNotFound},
		{"no access", AssignAllocationCommand{Actor: domain.Actor{UserID: 3}, ProjectID: p.ID, MaterialID: m.ID, RequiredQty: testutil.Qty(t, "1")}, domain.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.assign.Handle(f.ctx, tt.cmd)
			assertKind(t, err, tt.want)
		})
	}

	if n := f.Count(&domain.Allocation{}); n != 0 {
		t.Errorf("allocation rows = %d, want 0", n)
	}
}

func TestRemoveAllocation(t *testing.T) {
	f := newFixture(t)
	p := f.SeedProject("P1")
	m := f.SeedMaterial("CEM-50")
	f.SeedAllocation(p.ID, m.ID, "10")

	if err := f.remove.Handle(f.ctx, RemoveAllocationCommand{Actor: admin, ProjectID: p.ID, MaterialID: m.ID}); err != nil {
		t.Fatalf("remove: %v", err)
	}

	err := f.remove.Handle(f.ctx, RemoveAllocationCommand{Actor: admin, ProjectID: p.ID, MaterialID: m.ID})
	assertKind(t, err, domain.ErrNotFound)

	_, err = f.inward.Handle(f.ctx, RegisterInwardCommand{
		Actor:     admin,
		ProjectID: p.ID,
		Lines:     []InwardLineInput{{MaterialID: m.ID, ReceivedQty: testutil.Qty(t, "1")}},
	})
	assertKind(t, err, domain.ErrNotAllocated)
}

func TestValidateMovement(t *testing.T) {
	f := newFixture(t)
	p := f.SeedProject("P1")
	m := f.SeedMaterial("CEM-50")
	f.SeedAllocation(p.ID, m.ID, "10")
	in := f.receive(p.ID, m.ID, "5", "5")

	cmd := ValidateMovementCommand{Actor: admin, Kind: domain.MovementInward, ID: in.ID}
	if err := f.validate.Handle(f.ctx, cmd); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if err := f.validate.Handle(f.ctx, cmd); err != nil {
		t.Fatalf("validate twice: %v", err)
	}

	stored, err := f.Store.FindInward(f.ctx, in.ID)
	if err != nil {
		t.Fatalf("FindInward: %v", err)
	}
	if !stored.Validated {
		t.Error("inward entry not validated")
	}

	err = f.validate.Handle(f.ctx, ValidateMovementCommand{Actor: admin, Kind: domain.MovementTransfer, ID: 1})
	assertKind(t, err, domain.ErrBadRequest)

	err = f.validate.Handle(f.ctx, ValidateMovementCommand{Actor: admin, Kind: domain.MovementOutward, ID: 999})
	assertKind(t, err, domain.ErrNotFound)
}
