package inventory

import (
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/tair/material-ledger/internal/inventory/access"
	"github.com/tair/material-ledger/internal/inventory/domain"
	"github.com/tair/material-ledger/internal/inventory/metrics"
	"github.com/tair/material-ledger/internal/inventory/repository"
	"github.com/tair/material-ledger/internal/inventory/usecase/command"
	"github.com/tair/material-ledger/internal/inventory/usecase/query"
)

// ProvideStore provides the traced gorm store
func ProvideStore(db *gorm.DB) domain.Store {
	return repository.NewTracedStore(repository.NewGormStore(db))
}

// ProvideAccessPolicy provides the project membership policy
func ProvideAccessPolicy(store domain.Store) domain.AccessPolicy {
	return access.NewMembershipPolicy(store)
}

// ProvideRecorder provides the prometheus recorder for ledger commands
func ProvideRecorder(reg prometheus.Registerer) command.Recorder {
	return metrics.NewRecorder(reg)
}

// ProvideEffects provides the post-commit side effects shared by command handlers
func ProvideEffects(publisher domain.EventPublisher, cache domain.AllocationReportCache, recorder command.Recorder) *command.Effects {
	return command.NewEffects(publisher, cache, recorder)
}

// Query Handlers Providers
func ProvideGenerateCodesHandler(store domain.Store) *query.GenerateCodesHandler {
	return query.NewGenerateCodesHandler(store)
}

// CommandHandlers is a struct that holds all command handlers
type CommandHandlers struct {
	RegisterInward   *command.RegisterInwardHandler
	RegisterOutward  *command.RegisterOutwardHandler
	UpdateOutward    *command.UpdateOutwardHandler
	RegisterTransfer *command.RegisterTransferHandler
	AssignAllocation *command.AssignAllocationHandler
	RemoveAllocation *command.RemoveAllocationHandler
	ValidateMovement *command.ValidateMovementHandler
}

// QueryHandlers is a struct that holds all query handlers
type QueryHandlers struct {
	GenerateCodes     *query.GenerateCodesHandler
	GetAllocation     *query.GetAllocationHandler
	ListAllocations   *query.ListAllocationsHandler
	GetProjectStock   *query.GetProjectStockHandler
	ReconcileMaterial *query.ReconcileMaterialHandler
}

// ProvideCommandHandlers provides all command handlers
func ProvideCommandHandlers(
	registerInward *command.RegisterInwardHandler,
	registerOutward *command.RegisterOutwardHandler,
	updateOutward *command.UpdateOutwardHandler,
	registerTransfer *command.RegisterTransferHandler,
	assignAllocation *command.AssignAllocationHandler,
	removeAllocation *command.RemoveAllocationHandler,
	validateMovement *command.ValidateMovementHandler,
) *CommandHandlers {
	return &CommandHandlers{
		RegisterInward:   registerInward,
		RegisterOutward:  registerOutward,
		UpdateOutward:    updateOutward,
		RegisterTransfer: registerTransfer,
		AssignAllocation: assignAllocation,
		RemoveAllocation: removeAllocation,
		ValidateMovement: validateMovement,
	}
}

// ProvideQueryHandlers provides all query handlers
func ProvideQueryHandlers(
	generateCodes *query.GenerateCodesHandler,
	getAllocation *query.GetAllocationHandler,
	listAllocations *query.ListAllocationsHandler,
	getProjectStock *query.GetProjectStockHandler,
	reconcileMaterial *query.ReconcileMaterialHandler,
) *QueryHandlers {
	return &QueryHandlers{
		GenerateCodes:     generateCodes,
		GetAllocation:     getAllocation,
		ListAllocations:   listAllocations,
		GetProjectStock:   getProjectStock,
		ReconcileMaterial: reconcileMaterial,
	}
}
