package models

import "math"

// Scorecard weighting. The overall score is always derived from the axis
// scores with these weights; a model-reported total is never trusted.
const (
	WeightTechnical     = 0.60
	WeightCommunication = 0.25
	WeightValues        = 0.15
)

// AxisScore is one assessment axis: a 0-10 score with a short justification.
type AxisScore struct {
	Score         float64 `json:"score"`
	Justification string  `json:"justification"`
}

// Scorecard is the structured post-interview assessment.
type Scorecard struct {
	TechnicalProficiency AxisScore `json:"technical_proficiency"`
	CommunicationSkills  AxisScore `json:"communication_skills"`
	AlignmentWithValues  AxisScore `json:"alignment_with_values"`
}

// Overall computes the weighted 0-100 score from the axis scores,
// rounded to one decimal place.
func (s Scorecard) Overall() float64 {
	weighted := s.TechnicalProficiency.Score*WeightTechnical +
		s.CommunicationSkills.Score*WeightCommunication +
		s.AlignmentWithValues.Score*WeightValues
	return math.Round(weighted*100) / 10
}

// QAPair is one question/answer item derived from adjacent (ai, candidate)
// transcript turns.
type QAPair struct {
	Question string `json:"q"`
	Answer   string `json:"a"`
}
