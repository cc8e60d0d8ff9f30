package realtime

type SSEEvent string

const (
	SSEEventSimulationStarted   SSEEvent = "SimulationStarted"
	SSEEventSimulationCompleted SSEEvent = "SimulationCompleted"
	SSEEventDebriefReady        SSEEvent = "DebriefReady"
	SSEEventNotificationCreated SSEEvent = "NotificationCreated"
)

// SSEMessage is routed by channel; user-facing messages use the user id as
// the channel name.
type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}
