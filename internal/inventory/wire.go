//go:build wireinject
// +build wireinject

package inventory

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/tair/material-ledger/internal/inventory/domain"
	"github.com/tair/material-ledger/internal/inventory/usecase/command"
	"github.com/tair/material-ledger/internal/inventory/usecase/query"
)

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideStore,
	ProvideAccessPolicy,
)

var EffectsSet = wire.NewSet(
	ProvideRecorder,
	ProvideEffects,
)

var CommandHandlerSet = wire.NewSet(
	command.NewRegisterInwardHandler,
	command.NewRegisterOutwardHandler,
	command.NewUpdateOutwardHandler,
	command.NewRegisterTransferHandler,
	command.NewAssignAllocationHandler,
	command.NewRemoveAllocationHandler,
	command.NewValidateMovementHandler,
	ProvideCommandHandlers,
)

var QueryHandlerSet = wire.NewSet(
	ProvideGenerateCodesHandler,
	query.NewGetAllocationHandler,
	query.NewListAllocationsHandler,
	query.NewGetProjectStockHandler,
	query.NewReconcileMaterialHandler,
	ProvideQueryHandlers,
)

var AllHandlersSet = wire.NewSet(
	RepositorySet,
	EffectsSet,
	CommandHandlerSet,
	QueryHandlerSet,
)

// InitializeService initializes the ledger service with all dependencies
func InitializeService(db *gorm.DB, publisher domain.EventPublisher, cache domain.AllocationReportCache, reg prometheus.Registerer) (*Service, error) {
	wire.Build(
		AllHandlersSet,
		NewService,
	)
	return nil, nil
}
