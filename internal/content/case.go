package content

// Case is a business-scenario definition. Cases are authored as YAML files
// and immutable once loaded; the simulation engine only ever reads them.
type Case struct {
	ID                  string          `yaml:"id" json:"id"`
	Title               string          `yaml:"title" json:"title"`
	Summary             string          `yaml:"summary" json:"summary,omitempty"`
	Published           bool            `yaml:"published" json:"published"`
	PrerequisiteLessons []string        `yaml:"prerequisite_lessons" json:"prerequisite_lessons,omitempty"`
	DecisionPoints      []DecisionPoint `yaml:"decision_points" json:"decision_points"`
}

// DecisionPoint is one discrete prompt within a case requiring a
// user-submitted answer.
type DecisionPoint struct {
	ID     string         `yaml:"id" json:"id"`
	Title  string         `yaml:"title" json:"title"`
	Prompt string         `yaml:"prompt" json:"prompt"`
	Schema map[string]any `yaml:"schema" json:"schema,omitempty"`
}

func (c *Case) FirstStageID() string {
	if len(c.DecisionPoints) == 0 {
		return ""
	}
	return c.DecisionPoints[0].ID
}

func (c *Case) StageIDs() []string {
	ids := make([]string, 0, len(c.DecisionPoints))
	for _, dp := range c.DecisionPoints {
		ids = append(ids, dp.ID)
	}
	return ids
}

func (c *Case) HasStage(stageID string) bool {
	for _, dp := range c.DecisionPoints {
		if dp.ID == stageID {
			return true
		}
	}
	return false
}

// NextStageAfter returns the decision point declared after stageID, or ""
// when stageID is the last one or unknown.
func (c *Case) NextStageAfter(stageID string) string {
	for i, dp := range c.DecisionPoints {
		if dp.ID == stageID && i+1 < len(c.DecisionPoints) {
			return c.DecisionPoints[i+1].ID
		}
	}
	return ""
}
