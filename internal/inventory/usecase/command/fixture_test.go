package command

import (
	"context"
	"errors"
	"testing"

	"github.com/tair/material-ledger/internal/inventory/access"
	"github.com/tair/material-ledger/internal/inventory/domain"
	"github.com/tair/material-ledger/internal/inventory/testutil"
)

var admin = domain.Actor{UserID: 1, Role: domain.RoleAdmin}

type fixture struct {
	*testutil.TestEnv
	ctx       context.Context
	publisher *testutil.RecordingPublisher
	cache     *testutil.MemoryCache

	inward   *RegisterInwardHandler
	outward  *RegisterOutwardHandler
	update   *UpdateOutwardHandler
	transfer *RegisterTransferHandler
	assign   *AssignAllocationHandler
	remove   *RemoveAllocationHandler
	validate *ValidateMovementHandler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	env := testutil.SetupTestDB(t)
	publisher := &testutil.RecordingPublisher{}
	cache := testutil.NewMemoryCache()
	effects := NewEffects(publisher, cache, nil)
	policy := access.NewMembershipPolicy(env.Store)

	return &fixture{
		TestEnv:   env,
		ctx:       context.Background(),
		publisher: publisher,
		cache:     cache,
		inward:    NewRegisterInwardHandler(env.Store, policy, effects),
		outward:   NewRegisterOutwardHandler(env.Store, policy, effects),
		update:    NewUpdateOutwardHandler(env.Store, policy, effects),
		transfer:  NewRegisterTransferHandler(env.Store, policy, effects),
		assign:    NewAssignAllocationHandler(env.Store, policy, effects),
		remove:    NewRemoveAllocationHandler(env.Store, policy, effects),
		validate:  NewValidateMovementHandler(env.Store, policy, effects),
	}
}

func (f *fixture) receive(projectID, materialID uint, ordered, received string) *domain.InwardEntry {
	f.T.Helper()
	entry, err := f.inward.Handle(f.ctx, RegisterInwardCommand{
		Actor:     admin,
		ProjectID: projectID,
		Lines: []InwardLineInput{
			{MaterialID: materialID, OrderedQty: testutil.Qty(f.T, ordered), ReceivedQty: testutil.Qty(f.T, received)},
		},
	})
	if err != nil {
		f.T.Fatalf("receive: %v", err)
	}
	return entry
}

func (f *fixture) issue(projectID, materialID uint, qty string) (*domain.OutwardEntry, error) {
	return f.outward.Handle(f.ctx, RegisterOutwardCommand{
		Actor:     admin,
		ProjectID: projectID,
		IssueTo:   "site crew",
		Lines:     []OutwardLineInput{{MaterialID: materialID, IssueQty: testutil.Qty(f.T, qty)}},
	})
}

func (f *fixture) issued(projectID, materialID uint) string {
	f.T.Helper()
	issued, err := f.Store.SumIssued(f.ctx, projectID, materialID)
	if err != nil {
		f.T.Fatalf("SumIssued: %v", err)
	}
	return issued.String()
}

// assertBalanceInvariant checks balance = max(0, received - utilized)
func assertBalanceInvariant(t *testing.T, m *domain.Material) {
	t.Helper()
	want := domain.NonNegative(m.ReceivedQty.Sub(m.UtilizedQty))
	if !m.BalanceQty.Equal(want) {
		t.Errorf("material %s balance = %s, want %s", m.Code, m.BalanceQty, want)
	}
}

func assertKind(t *testing.T, err error, target error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error matching %v, got nil", target)
	}
	if !errors.Is(err, target) {
		t.Fatalf("expected error matching kind %v, got %v (kind %v)", domain.KindOf(target), err, domain.KindOf(err))
	}
}

var errPublish = errors.New("broker unavailable")
