package types

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// SimulationState is the decoded form of Simulation.State. Older persisted
// blobs may carry fields this struct does not know about; decoding ignores
// them rather than rejecting the record.
type SimulationState struct {
	StageStates    map[string]StageState `json:"stageStates"`
	CurrentStageID *string               `json:"currentStageId"`
	EventLog       []SimulationEvent     `json:"eventLog"`
}

// StageState records the user's answer for one decision point.
type StageState struct {
	Answer      json.RawMessage `json:"answer"`
	CompletedAt time.Time       `json:"completedAt"`
}

type SimulationEvent struct {
	Timestamp time.Time       `json:"timestamp"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

const (
	SimulationEventStarted        = "simulation_started"
	SimulationEventStageSubmitted = "stage_submitted"
	SimulationEventCompleted      = "simulation_completed"
)

func NewSimulationState(firstStageID string) *SimulationState {
	st := &SimulationState{
		StageStates: map[string]StageState{},
		EventLog:    []SimulationEvent{},
	}
	if firstStageID != "" {
		st.CurrentStageID = &firstStageID
	}
	return st
}

func DecodeSimulationState(raw datatypes.JSON) (*SimulationState, error) {
	st := &SimulationState{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, st); err != nil {
			return nil, err
		}
	}
	if st.StageStates == nil {
		st.StageStates = map[string]StageState{}
	}
	if st.EventLog == nil {
		st.EventLog = []SimulationEvent{}
	}
	return st, nil
}

func (s *SimulationState) Encode() (datatypes.JSON, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

func (s *SimulationState) AppendEvent(eventType string, payload any) {
	var raw json.RawMessage
	if payload != nil {
		if b, err := json.Marshal(payload); err == nil {
			raw = b
		}
	}
	s.EventLog = append(s.EventLog, SimulationEvent{
		Timestamp: time.Now().UTC(),
		Type:      eventType,
		Payload:   raw,
	})
}
