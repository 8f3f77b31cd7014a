package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tair/material-ledger/internal/inventory/domain"
	ledgertest "github.com/tair/material-ledger/internal/inventory/testutil"
	"github.com/tair/material-ledger/internal/inventory/usecase/command"
	"github.com/tair/material-ledger/internal/inventory/usecase/query"
	"github.com/tair/material-ledger/kafka"
)

var admin = domain.Actor{UserID: 1, Role: domain.RoleAdmin}

type serviceEnv struct {
	*ledgertest.TestEnv
	service   *Service
	publisher *ledgertest.RecordingPublisher
	cache     *ledgertest.MemoryCache
	registry  *prometheus.Registry
}

func newServiceEnv(t *testing.T) *serviceEnv {
	t.Helper()
	env := ledgertest.SetupTestDB(t)
	publisher := &ledgertest.RecordingPublisher{}
	cache := ledgertest.NewMemoryCache()
	registry := prometheus.NewRegistry()

	service, err := InitializeService(env.DB, publisher, cache, registry)
	if err != nil {
		t.Fatalf("InitializeService() error = %v", err)
	}
	return &serviceEnv{TestEnv: env, service: service, publisher: publisher, cache: cache, registry: registry}
}

func TestServiceMovementFlow(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	project := env.SeedProject("P1")
	cement := env.SeedMaterial("CEM-50")
	env.SeedAllocation(project.ID, cement.ID, "100")

	codes, err := env.service.GenerateCodes(ctx)
	if err != nil {
		t.Fatalf("GenerateCodes() error = %v", err)
	}
	if codes.InwardCode != "I0001" || codes.OutwardCode != "O0001" || codes.TransferCode != "T0001" {
		t.Fatalf("GenerateCodes() = %+v", codes)
	}

	inward, err := env.service.RegisterInward(ctx, command.RegisterInwardCommand{
		Actor:     admin,
		ProjectID: project.ID,
		Lines: []command.InwardLineInput{
			{MaterialID: cement.ID, OrderedQty: ledgertest.Qty(t, "50"), ReceivedQty: ledgertest.Qty(t, "40")},
		},
	})
	if err != nil {
		t.Fatalf("RegisterInward() error = %v", err)
	}
	if inward.Code != codes.InwardCode {
		t.Errorf("inward code = %q, want previewed %q", inward.Code, codes.InwardCode)
	}

	outward, err := env.service.RegisterOutward(ctx, command.RegisterOutwardCommand{
		Actor:     admin,
		ProjectID: project.ID,
		IssueTo:   "slab crew",
		Lines:     []command.OutwardLineInput{{MaterialID: cement.ID, IssueQty: ledgertest.Qty(t, "15")}},
	})
	if err != nil {
		t.Fatalf("RegisterOutward() error = %v", err)
	}

	if _, err := env.service.UpdateOutward(ctx, command.UpdateOutwardCommand{
		Actor:     admin,
		OutwardID: outward.ID,
		Lines: []command.OutwardLineInput{
			{LineID: outward.Lines[0].ID, MaterialID: cement.ID, IssueQty: ledgertest.Qty(t, "10")},
		},
	}); err != nil {
		t.Fatalf("UpdateOutward() error = %v", err)
	}

	stock, err := env.service.GetProjectStock(ctx, query.GetProjectStockQuery{Actor: admin, ProjectID: project.ID, MaterialID: cement.ID})
	if err != nil {
		t.Fatalf("GetProjectStock() error = %v", err)
	}
	ledgertest.AssertQty(t, "TotalReceived", stock.TotalReceived, "40")
	ledgertest.AssertQty(t, "TotalIssued", stock.TotalIssued, "10")
	ledgertest.AssertQty(t, "Balance", stock.Balance, "30")

	report, err := env.service.ListAllocations(ctx, query.ListAllocationsQuery{Actor: admin, ProjectID: project.ID})
	if err != nil {
		t.Fatalf("ListAllocations() error = %v", err)
	}
	if len(report) != 1 || report[0].MaterialCode != "CEM-50" {
		t.Fatalf("ListAllocations() = %+v", report)
	}
	if _, ok := env.cache.Rows[project.ID]; !ok {
		t.Error("allocation report was not cached")
	}

	if err := env.service.ValidateMovement(ctx, command.ValidateMovementCommand{Actor: admin, Kind: domain.MovementInward, ID: inward.ID}); err != nil {
		t.Fatalf("ValidateMovement() error = %v", err)
	}

	reconciliation, err := env.service.ReconcileMaterial(ctx, query.ReconcileMaterialQuery{MaterialID: cement.ID})
	if err != nil {
		t.Fatalf("ReconcileMaterial() error = %v", err)
	}
	if !reconciliation.Consistent {
		t.Errorf("ReconcileMaterial() reported drift: %+v", reconciliation)
	}

	if len(env.publisher.Events) != 3 {
		t.Errorf("published %d events, want 3", len(env.publisher.Events))
	}
	count, err := testutil.GatherAndCount(env.registry, "inventory_ledger_commands_total")
	if err != nil {
		t.Fatalf("GatherAndCount() error = %v", err)
	}
	if count == 0 {
		t.Error("no command metrics recorded")
	}
}

func TestServiceRejectsOverAllocation(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	project := env.SeedProject("P1")
	steel := env.SeedMaterial("STL-12")
	env.SeedAllocation(project.ID, steel.ID, "10")

	_, err := env.service.RegisterInward(ctx, command.RegisterInwardCommand{
		Actor:     admin,
		ProjectID: project.ID,
		Lines: []command.InwardLineInput{
			{MaterialID: steel.ID, OrderedQty: ledgertest.Qty(t, "11"), ReceivedQty: ledgertest.Qty(t, "0")},
		},
	})
	if !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("RegisterInward() error = %v, want bad request", err)
	}
	if n := env.Count(&domain.InwardEntry{}); n != 0 {
		t.Errorf("inward entries = %d, want 0", n)
	}
}

func TestAllocationFeed(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	feed := NewAllocationFeed(env.service)

	project := env.SeedProject("P1")
	sand := env.SeedMaterial("SND-01")

	event := kafka.AllocationEvent{
		EventID:     "bom-1",
		EventType:   kafka.EventTypeAllocationAssigned,
		ProjectID:   project.ID,
		MaterialID:  sand.ID,
		RequiredQty: ledgertest.Qty(t, "25.5"),
	}
	if err := feed.HandleAssigned(ctx, event); err != nil {
		t.Fatalf("HandleAssigned() error = %v", err)
	}

	allocation, err := env.service.GetAllocation(ctx, query.GetAllocationQuery{Actor: admin, ProjectID: project.ID, MaterialID: sand.ID})
	if err != nil {
		t.Fatalf("GetAllocation() error = %v", err)
	}
	ledgertest.AssertQty(t, "RequiredQty", allocation.RequiredQty, "25.5")

	event.RequiredQty = ledgertest.Qty(t, "-1")
	if err := feed.HandleAssigned(ctx, event); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Errorf("HandleAssigned(negative) error = %v, want invalid quantity", err)
	}

	if err := feed.HandleRemoved(ctx, event); err != nil {
		t.Fatalf("HandleRemoved() error = %v", err)
	}
	if err := feed.HandleRemoved(ctx, event); err != nil {
		t.Errorf("HandleRemoved() twice error = %v, want nil", err)
	}
	if n := env.Count(&domain.Allocation{}); n != 0 {
		t.Errorf("allocations = %d, want 0", n)
	}
}
