package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fleetworks/fleet-maintenance/internal/models"
	"github.com/fleetworks/fleet-maintenance/internal/services"
	"github.com/fleetworks/fleet-maintenance/pkg/apperrors"
	"github.com/fleetworks/fleet-maintenance/pkg/config"
)

// Store is a simple in-memory store for testing. Values are copied on the
// way in and out so callers cannot mutate stored state without an Update.
type Store struct {
	mu        sync.RWMutex
	assets    map[uuid.UUID]models.Asset
	orders    map[uuid.UUID]models.WorkOrder
	logs      []models.MaintenanceLogEntry
	purchases map[uuid.UUID]models.PurchaseOrder
	workflows []models.ApprovalWorkflow
	history   []models.ApprovalHistoryEntry
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		assets:    make(map[uuid.UUID]models.Asset),
		orders:    make(map[uuid.UUID]models.WorkOrder),
		purchases: make(map[uuid.UUID]models.PurchaseOrder),
	}
}

var _ services.Store = (*Store)(nil)

func (s *Store) Assets() services.AssetRepository                   { return (*assetRepo)(s) }
func (s *Store) WorkOrders() services.WorkOrderRepository           { return (*workOrderRepo)(s) }
func (s *Store) MaintenanceLogs() services.MaintenanceLogRepository { return (*logRepo)(s) }
func (s *Store) PurchaseOrders() services.PurchaseOrderRepository   { return (*purchaseRepo)(s) }
func (s *Store) Workflows() services.WorkflowRepository             { return (*workflowRepo)(s) }
func (s *Store) ApprovalHistory() services.ApprovalHistoryRepository {
	return (*historyRepo)(s)
}

// WithinTx runs fn against the same store. The in-memory double does not
// simulate rollback; tests asserting atomicity use the integration suite.
func (s *Store) WithinTx(ctx context.Context, fn func(services.Store) error) error {
	return fn(s)
}

// Seed helpers

// AddAsset stores an asset and returns its ID.
func (s *Store) AddAsset(a models.Asset) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	s.assets[a.ID] = a
	return a.ID
}

// AddPurchaseOrder stores a purchase order and returns its ID.
func (s *Store) AddPurchaseOrder(po models.PurchaseOrder) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if po.ID == uuid.Nil {
		po.ID = uuid.New()
	}
	s.purchases[po.ID] = po
	return po.ID
}

// AddWorkflow stores a workflow definition.
func (s *Store) AddWorkflow(wf models.ApprovalWorkflow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if wf.ID == uuid.Nil {
		wf.ID = uuid.New()
	}
	s.workflows = append(s.workflows, wf)
}

// LogEntries returns a copy of the maintenance log.
func (s *Store) LogEntries() []models.MaintenanceLogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.MaintenanceLogEntry, len(s.logs))
	copy(out, s.logs)
	return out
}

// HistoryEntries returns a copy of the approval history.
func (s *Store) HistoryEntries() []models.ApprovalHistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ApprovalHistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}

// assetRepo

type assetRepo Store

func (r *assetRepo) Create(ctx context.Context, a *models.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.assets[a.ID] = *a
	return nil
}

func (r *assetRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.assets[id]
	if !ok {
		return nil, apperrors.NotFound("asset", id.String())
	}
	return &a, nil
}

func (r *assetRepo) List(ctx context.Context, limit, offset int) ([]models.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Asset, 0, len(r.assets))
	for _, a := range r.assets {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return page(out, limit, offset), nil
}

func (r *assetRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.AssetStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assets[id]
	if !ok {
		return apperrors.NotFound("asset", id.String())
	}
	a.Status = status
	a.UpdatedAt = time.Now()
	r.assets[id] = a
	return nil
}

// workOrderRepo

type workOrderRepo Store

func (r *workOrderRepo) Create(ctx context.Context, wo *models.WorkOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if wo.ID == uuid.Nil {
		wo.ID = uuid.New()
	}
	r.orders[wo.ID] = *wo
	return nil
}

func (r *workOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.WorkOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	wo, ok := r.orders[id]
	if !ok {
		return nil, apperrors.NotFound("work order", id.String())
	}
	return &wo, nil
}

func (r *workOrderRepo) List(ctx context.Context, assetID *uuid.UUID, state *models.WorkOrderState, limit, offset int) ([]models.WorkOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.WorkOrder, 0, len(r.orders))
	for _, wo := range r.orders {
		if assetID != nil && wo.AssetID != *assetID {
			continue
		}
		if state != nil && wo.State != *state {
			continue
		}
		out = append(out, wo)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

func (r *workOrderRepo) CountActiveForAsset(ctx context.Context, assetID uuid.UUID) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, wo := range r.orders {
		if wo.AssetID != assetID {
			continue
		}
		if wo.State == models.WorkOrderStateCompleted || wo.State == models.WorkOrderStateCanceled {
			continue
		}
		count++
	}
	return count, nil
}

func (r *workOrderRepo) Update(ctx context.Context, wo *models.WorkOrder, fromState models.WorkOrderState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.orders[wo.ID]
	if !ok {
		return apperrors.NotFound("work order", wo.ID.String())
	}
	if current.State != fromState {
		return apperrors.Conflict("work order %s modified concurrently (state %s)", wo.ID, current.State)
	}
	wo.UpdatedAt = time.Now()
	r.orders[wo.ID] = *wo
	return nil
}

// logRepo

type logRepo Store

func (r *logRepo) Append(ctx context.Context, entry *models.MaintenanceLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	r.logs = append(r.logs, *entry)
	return nil
}

func (r *logRepo) ListByAssetCode(ctx context.Context, code string) ([]models.MaintenanceLogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.MaintenanceLogEntry
	for _, e := range r.logs {
		if e.AssetCode == code {
			out = append(out, e)
		}
	}
	return out, nil
}

// purchaseRepo

type purchaseRepo Store

func (r *purchaseRepo) Create(ctx context.Context, po *models.PurchaseOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if po.ID == uuid.Nil {
		po.ID = uuid.New()
	}
	r.purchases[po.ID] = *po
	return nil
}

func (r *purchaseRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	po, ok := r.purchases[id]
	if !ok {
		return nil, apperrors.NotFound("purchase order", id.String())
	}
	return &po, nil
}

func (r *purchaseRepo) Update(ctx context.Context, po *models.PurchaseOrder, fromStatus string, fromLevel int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.purchases[po.ID]
	if !ok {
		return apperrors.NotFound("purchase order", po.ID.String())
	}
	if current.Status != fromStatus || current.CurrentLevel != fromLevel {
		return apperrors.Conflict("purchase order %s modified concurrently", po.ID)
	}
	po.UpdatedAt = time.Now()
	r.purchases[po.ID] = *po
	return nil
}

func (r *purchaseRepo) ListInApproval(ctx context.Context, limit, offset int) ([]models.PurchaseOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.PurchaseOrder
	for _, po := range r.purchases {
		if po.Status == config.POStatusDraft || po.Status == config.POStatusRejected {
			continue
		}
		out = append(out, po)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

// workflowRepo

type workflowRepo Store

func (r *workflowRepo) GetActiveByEntityType(ctx context.Context, entityType string) (*models.ApprovalWorkflow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var found []models.ApprovalWorkflow
	for _, wf := range r.workflows {
		if wf.EntityType == entityType && wf.Active {
			found = append(found, wf)
		}
	}
	if len(found) == 0 {
		return nil, apperrors.Configuration("no active approval workflow for entity type %q", entityType)
	}
	if len(found) > 1 {
		return nil, apperrors.Configuration("multiple active approval workflows for entity type %q", entityType)
	}
	wf := found[0]
	return &wf, nil
}

func (r *workflowRepo) Create(ctx context.Context, wf *models.ApprovalWorkflow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if wf.ID == uuid.Nil {
		wf.ID = uuid.New()
	}
	r.workflows = append(r.workflows, *wf)
	return nil
}

// historyRepo

type historyRepo Store

func (r *historyRepo) Append(ctx context.Context, entry *models.ApprovalHistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	r.history = append(r.history, *entry)
	return nil
}

func (r *historyRepo) ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]models.ApprovalHistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.ApprovalHistoryEntry
	for _, e := range r.history {
		if e.EntityType == entityType && e.EntityID == entityID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
