package services

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/fleetworks/fleet-maintenance/internal/engine"
	"github.com/fleetworks/fleet-maintenance/internal/models"
	"github.com/fleetworks/fleet-maintenance/pkg/apperrors"
	"github.com/fleetworks/fleet-maintenance/pkg/config"
	"github.com/fleetworks/fleet-maintenance/pkg/logger"
	"github.com/fleetworks/fleet-maintenance/pkg/metrics"
)

// Actor identifies the authenticated user performing an approval action.
type Actor struct {
	ID   uuid.UUID
	Name string
	Role string
}

// ApprovalService gates purchase order spend behind the data-driven,
// threshold-keyed chain of role-based approvals.
type ApprovalService struct {
	store   Store
	logger  *logger.Logger
	metrics *metrics.Metrics
	redis   *redis.Client
	cfg     config.ApprovalConfig
}

// NewApprovalService creates a new approval service. redis and metrics may
// be nil; without redis every workflow lookup hits the store.
func NewApprovalService(store Store, log *logger.Logger, m *metrics.Metrics, rdb *redis.Client, cfg config.ApprovalConfig) *ApprovalService {
	if cfg.StatusByLevel == nil {
		cfg.StatusByLevel = config.DefaultStatusByLevel()
	}
	if cfg.EntityType == "" {
		cfg.EntityType = "purchase_order"
	}
	return &ApprovalService{
		store:   store,
		logger:  log,
		metrics: m,
		redis:   rdb,
		cfg:     cfg,
	}
}

// CreateOrder registers a draft purchase order.
func (s *ApprovalService) CreateOrder(ctx context.Context, req *models.CreatePurchaseOrderRequest, requestedBy string) (*models.PurchaseOrder, error) {
	if req.Number == "" {
		return nil, apperrors.Validation("order number is required")
	}
	if req.Amount <= 0 {
		return nil, apperrors.Validation("order amount must be positive")
	}

	po := &models.PurchaseOrder{
		ID:          uuid.New(),
		Number:      req.Number,
		Description: req.Description,
		Amount:      req.Amount,
		Status:      config.POStatusDraft,
		RequestedBy: &requestedBy,
		CreatedAt:   time.Now(),
	}

	if err := s.store.PurchaseOrders().Create(ctx, po); err != nil {
		return nil, err
	}

	s.logger.Info("Purchase order created",
		logger.String("order_id", po.ID.String()),
		logger.Float64("amount", po.Amount),
	)
	return po, nil
}

// Submit moves a draft order into the approval phase at level 0 and records
// the pending entry for the first level it is waiting on.
func (s *ApprovalService) Submit(ctx context.Context, orderID uuid.UUID, submitter Actor) (*models.PurchaseOrder, error) {
	wf, err := s.activeWorkflow(ctx)
	if err != nil {
		return nil, err
	}

	var updated *models.PurchaseOrder
	err = s.store.WithinTx(ctx, func(tx Store) error {
		po, err := tx.PurchaseOrders().GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if po.Status != config.POStatusDraft {
			return apperrors.InvalidState("order %s cannot be submitted from status %q", po.Number, po.Status)
		}

		fromStatus, fromLevel := po.Status, po.CurrentLevel
		po.Status = config.POStatusInApproval
		po.CurrentLevel = 0

		if err := tx.PurchaseOrders().Update(ctx, po, fromStatus, fromLevel); err != nil {
			return err
		}

		first, ok := engine.NextLevel(wf, po)
		if !ok {
			return apperrors.Configuration("workflow %q has no level for amount %.2f", wf.Name, po.Amount)
		}

		entry := &models.ApprovalHistoryEntry{
			ID:           uuid.New(),
			EntityType:   s.cfg.EntityType,
			EntityID:     po.ID,
			Level:        first.Level,
			LevelName:    first.Name,
			ApproverID:   submitter.ID,
			ApproverName: submitter.Name,
			Action:       models.ApprovalActionPending,
			CreatedAt:    time.Now(),
		}
		if err := tx.ApprovalHistory().Append(ctx, entry); err != nil {
			return err
		}

		updated = po
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Purchase order submitted for approval",
		logger.String("order_id", orderID.String()),
		logger.Int("required_level", engine.RequiredLevel(wf, updated.Amount)),
	)
	return updated, nil
}

// ApproveAt approves the order at one level. Approvals are strictly
// sequential; the level guard is re-validated by the conditional update at
// write time so two racing approvers cannot both land on the same level.
func (s *ApprovalService) ApproveAt(ctx context.Context, orderID uuid.UUID, level int, approver Actor, comment *string) (*models.PurchaseOrder, error) {
	wf, err := s.activeWorkflow(ctx)
	if err != nil {
		return nil, err
	}

	var updated *models.PurchaseOrder
	err = s.store.WithinTx(ctx, func(tx Store) error {
		po, err := tx.PurchaseOrders().GetByID(ctx, orderID)
		if err != nil {
			return err
		}

		levelDef, err := s.checkDecision(wf, po, level, approver)
		if err != nil {
			return err
		}

		entry := &models.ApprovalHistoryEntry{
			ID:           uuid.New(),
			EntityType:   s.cfg.EntityType,
			EntityID:     po.ID,
			Level:        level,
			LevelName:    levelDef.Name,
			ApproverID:   approver.ID,
			ApproverName: approver.Name,
			Action:       models.ApprovalActionApproved,
			Comment:      comment,
			CreatedAt:    time.Now(),
		}
		if err := tx.ApprovalHistory().Append(ctx, entry); err != nil {
			return err
		}

		fromStatus, fromLevel := po.Status, po.CurrentLevel
		po.CurrentLevel = level
		if label, ok := s.cfg.StatusByLevel[level]; ok {
			po.Status = label
		}

		if err := tx.PurchaseOrders().Update(ctx, po, fromStatus, fromLevel); err != nil {
			return err
		}

		updated = po
		return nil
	})
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeConflict) && s.metrics != nil {
			s.metrics.ApprovalConflictsTotal.Inc()
		}
		return nil, err
	}

	s.logger.Info("Purchase order approved at level",
		logger.String("order_id", orderID.String()),
		logger.Int("level", level),
		logger.String("approver", approver.Name),
	)
	s.countDecision(models.ApprovalActionApproved, level)

	return updated, nil
}

// RejectAt rejects the order at one level. Rejection is terminal: the order
// moves to rejected and no further decision on it succeeds.
func (s *ApprovalService) RejectAt(ctx context.Context, orderID uuid.UUID, level int, approver Actor, reason string) (*models.PurchaseOrder, error) {
	if reason == "" {
		return nil, apperrors.Validation("rejection reason is required")
	}

	wf, err := s.activeWorkflow(ctx)
	if err != nil {
		return nil, err
	}

	var updated *models.PurchaseOrder
	err = s.store.WithinTx(ctx, func(tx Store) error {
		po, err := tx.PurchaseOrders().GetByID(ctx, orderID)
		if err != nil {
			return err
		}

		levelDef, err := s.checkDecision(wf, po, level, approver)
		if err != nil {
			return err
		}

		entry := &models.ApprovalHistoryEntry{
			ID:           uuid.New(),
			EntityType:   s.cfg.EntityType,
			EntityID:     po.ID,
			Level:        level,
			LevelName:    levelDef.Name,
			ApproverID:   approver.ID,
			ApproverName: approver.Name,
			Action:       models.ApprovalActionRejected,
			Comment:      &reason,
			CreatedAt:    time.Now(),
		}
		if err := tx.ApprovalHistory().Append(ctx, entry); err != nil {
			return err
		}

		fromStatus, fromLevel := po.Status, po.CurrentLevel
		po.Status = config.POStatusRejected
		po.RejectionReason = &reason

		if err := tx.PurchaseOrders().Update(ctx, po, fromStatus, fromLevel); err != nil {
			return err
		}

		updated = po
		return nil
	})
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeConflict) && s.metrics != nil {
			s.metrics.ApprovalConflictsTotal.Inc()
		}
		return nil, err
	}

	s.logger.Info("Purchase order rejected",
		logger.String("order_id", orderID.String()),
		logger.Int("level", level),
		logger.String("reason", reason),
	)
	s.countDecision(models.ApprovalActionRejected, level)

	return updated, nil
}

// History returns the full audit trail for an order, oldest first.
func (s *ApprovalService) History(ctx context.Context, orderID uuid.UUID) ([]models.ApprovalHistoryEntry, error) {
	return s.store.ApprovalHistory().ListByEntity(ctx, s.cfg.EntityType, orderID)
}

// GetOrder retrieves a purchase order by ID
func (s *ApprovalService) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.PurchaseOrder, error) {
	return s.store.PurchaseOrders().GetByID(ctx, orderID)
}

// ActiveWorkflow returns the active workflow definition for purchase orders.
func (s *ApprovalService) ActiveWorkflow(ctx context.Context) (*models.ApprovalWorkflow, error) {
	return s.activeWorkflow(ctx)
}

// PendingForRole lists in-approval orders whose next level the role may decide.
func (s *ApprovalService) PendingForRole(ctx context.Context, role string, limit, offset int) ([]models.PurchaseOrder, error) {
	wf, err := s.activeWorkflow(ctx)
	if err != nil {
		return nil, err
	}

	orders, err := s.store.PurchaseOrders().ListInApproval(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	pending := make([]models.PurchaseOrder, 0, len(orders))
	for i := range orders {
		next, ok := engine.NextLevel(wf, &orders[i])
		if !ok {
			continue
		}
		if engine.CanApprove(wf, next.Level, role) {
			pending = append(pending, orders[i])
		}
	}
	return pending, nil
}

// checkDecision enforces the shared preconditions of approve and reject:
// the order is in the approval phase, the level is exactly the next
// pending one, and the approver's role is authorized at that level.
func (s *ApprovalService) checkDecision(wf *models.ApprovalWorkflow, po *models.PurchaseOrder, level int, approver Actor) (models.ApprovalLevel, error) {
	if po.Status == config.POStatusRejected {
		return models.ApprovalLevel{}, apperrors.InvalidState("order %s is rejected; no further decisions permitted", po.Number)
	}
	if po.Status == config.POStatusDraft {
		return models.ApprovalLevel{}, apperrors.InvalidState("order %s has not been submitted for approval", po.Number)
	}

	next, ok := engine.NextLevel(wf, po)
	if !ok {
		return models.ApprovalLevel{}, apperrors.Sequence("order %s has no pending approval level", po.Number)
	}
	if level != next.Level {
		return models.ApprovalLevel{}, apperrors.Sequence("expected decision at level %d, got level %d", next.Level, level)
	}

	levelDef, ok := wf.LevelAt(level)
	if !ok {
		return models.ApprovalLevel{}, apperrors.Configuration("workflow %q does not define level %d", wf.Name, level)
	}
	if !levelDef.HasRole(approver.Role) {
		return models.ApprovalLevel{}, apperrors.Permission("role %q is not authorized to decide at level %d", approver.Role, level)
	}

	return levelDef, nil
}

const workflowCacheKey = "approval:workflow:active:"

// activeWorkflow resolves the single active definition, consulting the
// Redis cache first. Cache failures degrade to the store, never to an error.
func (s *ApprovalService) activeWorkflow(ctx context.Context) (*models.ApprovalWorkflow, error) {
	key := workflowCacheKey + s.cfg.EntityType

	if s.redis != nil {
		if raw, err := s.redis.Get(ctx, key).Result(); err == nil {
			var wf models.ApprovalWorkflow
			if err := json.Unmarshal([]byte(raw), &wf); err == nil {
				return &wf, nil
			}
			s.logger.Warnf("Discarding unreadable cached workflow for %s", s.cfg.EntityType)
		}
	}

	wf, err := s.store.Workflows().GetActiveByEntityType(ctx, s.cfg.EntityType)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if raw, err := json.Marshal(wf); err == nil {
			if err := s.redis.Set(ctx, key, raw, s.cfg.CacheTTL).Err(); err != nil {
				s.logger.Warnf("Failed to cache workflow definition: %v", err)
			}
		}
	}

	return wf, nil
}

// InvalidateWorkflowCache drops the cached definition, e.g. after seeding.
func (s *ApprovalService) InvalidateWorkflowCache(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, workflowCacheKey+s.cfg.EntityType).Err(); err != nil {
		s.logger.Warnf("Failed to invalidate workflow cache: %v", err)
	}
}

func (s *ApprovalService) countDecision(action models.ApprovalAction, level int) {
	if s.metrics == nil {
		return
	}
	s.metrics.ApprovalDecisionsTotal.WithLabelValues(string(action), levelLabel(level)).Inc()
}

func levelLabel(level int) string {
	return strconv.Itoa(level)
}
