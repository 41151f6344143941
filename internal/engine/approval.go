package engine

import (
	"github.com/fleetworks/fleet-maintenance/internal/models"
)

// RequiredLevel returns the deepest approval level whose threshold the
// amount reaches. Levels are evaluated independently of storage order and
// ties resolve to the maximum matching level number. Every order requires
// at least level 1.
func RequiredLevel(wf *models.ApprovalWorkflow, amount float64) int {
	required := 1
	for _, l := range wf.Levels {
		if l.Threshold <= amount && l.Level > required {
			required = l.Level
		}
	}
	return required
}

// CanApprove reports whether the role is authorized at the given level.
// An unknown level is not an error; it simply cannot be approved.
func CanApprove(wf *models.ApprovalWorkflow, level int, role string) bool {
	l, ok := wf.LevelAt(level)
	if !ok {
		return false
	}
	return l.HasRole(role)
}

// NextLevel returns the level definition the order is waiting on, or
// ok=false when the order is fully approved for its amount and the caller
// must move it to its post-approval business status.
func NextLevel(wf *models.ApprovalWorkflow, order *models.PurchaseOrder) (models.ApprovalLevel, bool) {
	next := order.CurrentLevel + 1
	if next > RequiredLevel(wf, order.Amount) {
		return models.ApprovalLevel{}, false
	}

	l, ok := wf.LevelAt(next)
	if !ok {
		// The chain requires a level the definition does not describe;
		// surfaced by the service as a configuration problem.
		return models.ApprovalLevel{Level: next}, true
	}
	return l, true
}
