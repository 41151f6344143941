package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetworks/fleet-maintenance/internal/models"
	"github.com/fleetworks/fleet-maintenance/pkg/apperrors"
)

func TestTransitionLegalEdges(t *testing.T) {
	tests := []struct {
		name  string
		from  models.WorkOrderState
		event WorkOrderEvent
		want  models.WorkOrderState
	}{
		{"assign open", models.WorkOrderStateOpen, EventAssign, models.WorkOrderStateAssigned},
		{"reassign assigned", models.WorkOrderStateAssigned, EventAssign, models.WorkOrderStateAssigned},
		{"start assigned", models.WorkOrderStateAssigned, EventStart, models.WorkOrderStateInProgress},
		{"pause in progress", models.WorkOrderStateInProgress, EventPause, models.WorkOrderStatePaused},
		{"resume paused", models.WorkOrderStatePaused, EventResume, models.WorkOrderStateInProgress},
		{"close open", models.WorkOrderStateOpen, EventClose, models.WorkOrderStateCompleted},
		{"close assigned", models.WorkOrderStateAssigned, EventClose, models.WorkOrderStateCompleted},
		{"close in progress", models.WorkOrderStateInProgress, EventClose, models.WorkOrderStateCompleted},
		{"close paused", models.WorkOrderStatePaused, EventClose, models.WorkOrderStateCompleted},
		{"cancel open", models.WorkOrderStateOpen, EventCancel, models.WorkOrderStateCanceled},
		{"cancel paused", models.WorkOrderStatePaused, EventCancel, models.WorkOrderStateCanceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Transition(tt.from, tt.event)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransitionIllegalEdges(t *testing.T) {
	tests := []struct {
		name  string
		from  models.WorkOrderState
		event WorkOrderEvent
	}{
		{"start open", models.WorkOrderStateOpen, EventStart},
		{"pause open", models.WorkOrderStateOpen, EventPause},
		{"resume open", models.WorkOrderStateOpen, EventResume},
		{"pause assigned", models.WorkOrderStateAssigned, EventPause},
		{"resume in progress", models.WorkOrderStateInProgress, EventResume},
		{"start in progress", models.WorkOrderStateInProgress, EventStart},
		{"assign in progress", models.WorkOrderStateInProgress, EventAssign},
		{"assign paused", models.WorkOrderStatePaused, EventAssign},
		{"start paused", models.WorkOrderStatePaused, EventStart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Transition(tt.from, tt.event)
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidState))
		})
	}
}

func TestTransitionTerminalStatesRejectEverything(t *testing.T) {
	events := []WorkOrderEvent{EventAssign, EventStart, EventPause, EventResume, EventClose, EventCancel}
	for _, terminal := range []models.WorkOrderState{models.WorkOrderStateCompleted, models.WorkOrderStateCanceled} {
		for _, ev := range events {
			_, err := Transition(terminal, ev)
			require.Error(t, err, "event %s from %s", ev, terminal)
			assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidState))
		}
	}
}

func TestAssetStatusFor(t *testing.T) {
	assert.Equal(t, models.AssetStatusUnavailable, AssetStatusFor(models.WorkOrderStateOpen))
	assert.Equal(t, models.AssetStatusUnavailable, AssetStatusFor(models.WorkOrderStateAssigned))
	assert.Equal(t, models.AssetStatusInWorkshop, AssetStatusFor(models.WorkOrderStateInProgress))
	assert.Equal(t, models.AssetStatusAwaitingPart, AssetStatusFor(models.WorkOrderStatePaused))
	assert.Equal(t, models.AssetStatusOperational, AssetStatusFor(models.WorkOrderStateCompleted))
	assert.Equal(t, models.AssetStatusOperational, AssetStatusFor(models.WorkOrderStateCanceled))
}
