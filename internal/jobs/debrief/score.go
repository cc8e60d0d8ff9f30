package debrief

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/praxishq/praxis-backend/internal/content"
	"github.com/praxishq/praxis-backend/internal/types"
)

// StageReview is the per-decision-point entry in a debrief summary.
type StageReview struct {
	StageID  string `json:"stage_id"`
	Title    string `json:"title"`
	Answered bool   `json:"answered"`
	Depth    int    `json:"depth"`
}

// Summary is the structured payload stored in Debrief.Summary.
type Summary struct {
	CaseID         string        `json:"case_id"`
	StagesAnswered int           `json:"stages_answered"`
	StagesTotal    int           `json:"stages_total"`
	Stages         []StageReview `json:"stages"`
}

// Score grades a completed simulation on a 0-100 scale. Coverage of the
// case's decision points carries most of the weight; the remainder rewards
// answer depth so a run of one-word answers scores below a thoughtful one.
func Score(c *content.Case, st *types.SimulationState) (float64, Summary) {
	summary := Summary{
		CaseID:      c.ID,
		StagesTotal: len(c.DecisionPoints),
		Stages:      make([]StageReview, 0, len(c.DecisionPoints)),
	}
	if len(c.DecisionPoints) == 0 {
		return 0, summary
	}

	var depthTotal float64
	for _, dp := range c.DecisionPoints {
		review := StageReview{StageID: dp.ID, Title: dp.Title}
		if ss, ok := st.StageStates[dp.ID]; ok {
			review.Answered = true
			review.Depth = answerDepth(ss.Answer)
			summary.StagesAnswered++
			depthTotal += math.Min(float64(review.Depth), 10) / 10
		}
		summary.Stages = append(summary.Stages, review)
	}

	n := float64(len(c.DecisionPoints))
	coverage := float64(summary.StagesAnswered) / n
	depth := depthTotal / n

	score := math.Round((coverage*80+depth*20)*10) / 10
	return score, summary
}

// answerDepth counts the scalar leaves of an answer payload as a rough
// proxy for how much the user actually said.
func answerDepth(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0
	}
	return countLeaves(v)
}

func countLeaves(v any) int {
	switch t := v.(type) {
	case nil:
		return 0
	case string:
		if strings.TrimSpace(t) == "" {
			return 0
		}
		return 1
	case map[string]any:
		total := 0
		for _, child := range t {
			total += countLeaves(child)
		}
		return total
	case []any:
		total := 0
		for _, child := range t {
			total += countLeaves(child)
		}
		return total
	default:
		return 1
	}
}
