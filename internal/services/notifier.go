package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/praxishq/praxis-backend/internal/realtime"
	"github.com/praxishq/praxis-backend/internal/types"
)

// SimulationNotifier pushes real-time messages about simulation progress.
// All methods are fire-and-forget and safe on a nil receiver.
type SimulationNotifier interface {
	SimulationStarted(userID uuid.UUID, sim *types.Simulation)
	SimulationCompleted(userID uuid.UUID, sim *types.Simulation, caseTitle string)
	DebriefReady(userID uuid.UUID, sim *types.Simulation, debrief *types.Debrief)
	NotificationCreated(userID uuid.UUID, n *types.Notification)
}

type simulationNotifier struct {
	emit SSEEmitter
}

func NewSimulationNotifier(emit SSEEmitter) SimulationNotifier {
	return &simulationNotifier{emit: emit}
}

func (n *simulationNotifier) SimulationStarted(userID uuid.UUID, sim *types.Simulation) {
	if n == nil || n.emit == nil || userID == uuid.Nil {
		return
	}
	n.emit.Emit(context.Background(), realtime.SSEMessage{
		Channel: userID.String(),
		Event:   realtime.SSEEventSimulationStarted,
		Data:    map[string]any{"simulation": sim},
	})
}

func (n *simulationNotifier) SimulationCompleted(userID uuid.UUID, sim *types.Simulation, caseTitle string) {
	if n == nil || n.emit == nil || userID == uuid.Nil {
		return
	}
	n.emit.Emit(context.Background(), realtime.SSEMessage{
		Channel: userID.String(),
		Event:   realtime.SSEEventSimulationCompleted,
		Data: map[string]any{
			"simulation_id": safeSimulationID(sim),
			"case_id":       safeCaseID(sim),
			"case_title":    caseTitle,
			"simulation":    sim,
		},
	})
}

func (n *simulationNotifier) DebriefReady(userID uuid.UUID, sim *types.Simulation, debrief *types.Debrief) {
	if n == nil || n.emit == nil || userID == uuid.Nil {
		return
	}
	n.emit.Emit(context.Background(), realtime.SSEMessage{
		Channel: userID.String(),
		Event:   realtime.SSEEventDebriefReady,
		Data: map[string]any{
			"simulation_id": safeSimulationID(sim),
			"debrief":       debrief,
		},
	})
}

func (n *simulationNotifier) NotificationCreated(userID uuid.UUID, notif *types.Notification) {
	if n == nil || n.emit == nil || userID == uuid.Nil {
		return
	}
	n.emit.Emit(context.Background(), realtime.SSEMessage{
		Channel: userID.String(),
		Event:   realtime.SSEEventNotificationCreated,
		Data:    map[string]any{"notification": notif},
	})
}

func safeSimulationID(sim *types.Simulation) string {
	if sim == nil {
		return ""
	}
	return sim.ID.String()
}

func safeCaseID(sim *types.Simulation) string {
	if sim == nil {
		return ""
	}
	return sim.CaseID
}
