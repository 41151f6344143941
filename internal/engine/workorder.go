package engine

import (
	"github.com/fleetworks/fleet-maintenance/internal/models"
	"github.com/fleetworks/fleet-maintenance/pkg/apperrors"
)

// WorkOrderEvent is an operation applied to a work order
type WorkOrderEvent string

const (
	EventAssign WorkOrderEvent = "assign"
	EventStart  WorkOrderEvent = "start"
	EventPause  WorkOrderEvent = "pause"
	EventResume WorkOrderEvent = "resume"
	EventClose  WorkOrderEvent = "close"
	EventCancel WorkOrderEvent = "cancel"
)

// transitions is the work order state machine. Initial state is open;
// completed and canceled are terminal.
//
// Assign is legal from open and assigned (re-assignment before work
// starts); once in progress the order belongs to its technician.
var transitions = map[models.WorkOrderState]map[WorkOrderEvent]models.WorkOrderState{
	models.WorkOrderStateOpen: {
		EventAssign: models.WorkOrderStateAssigned,
		EventClose:  models.WorkOrderStateCompleted,
		EventCancel: models.WorkOrderStateCanceled,
	},
	models.WorkOrderStateAssigned: {
		EventAssign: models.WorkOrderStateAssigned,
		EventStart:  models.WorkOrderStateInProgress,
		EventClose:  models.WorkOrderStateCompleted,
		EventCancel: models.WorkOrderStateCanceled,
	},
	models.WorkOrderStateInProgress: {
		EventPause:  models.WorkOrderStatePaused,
		EventClose:  models.WorkOrderStateCompleted,
		EventCancel: models.WorkOrderStateCanceled,
	},
	models.WorkOrderStatePaused: {
		EventResume: models.WorkOrderStateInProgress,
		EventClose:  models.WorkOrderStateCompleted,
		EventCancel: models.WorkOrderStateCanceled,
	},
}

// Transition returns the state reached by applying event to from, or an
// InvalidStateError when the edge does not exist. Invalid combinations
// never silently no-op.
func Transition(from models.WorkOrderState, event WorkOrderEvent) (models.WorkOrderState, error) {
	edges, ok := transitions[from]
	if !ok {
		return "", apperrors.InvalidState("work order is %s; no further transitions permitted", from)
	}

	to, ok := edges[event]
	if !ok {
		return "", apperrors.InvalidState("cannot %s a work order in state %s", event, from)
	}

	return to, nil
}

// AssetStatusFor maps a work order state to the owning asset's status.
// Terminal states release the asset back to operational.
func AssetStatusFor(state models.WorkOrderState) models.AssetStatus {
	switch state {
	case models.WorkOrderStateInProgress:
		return models.AssetStatusInWorkshop
	case models.WorkOrderStatePaused:
		return models.AssetStatusAwaitingPart
	case models.WorkOrderStateCompleted, models.WorkOrderStateCanceled:
		return models.AssetStatusOperational
	default:
		// open and assigned: the asset was taken out of service at creation
		return models.AssetStatusUnavailable
	}
}
