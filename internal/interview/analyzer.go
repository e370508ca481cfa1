package interview

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ItsMeCK/AIInterview/pkg/models"
)

// minMeaningfulAnswerRunes is the shortest trimmed candidate answer that
// counts as participation.
const minMeaningfulAnswerRunes = 10

// placeholderAnswers are "I don't know"-equivalent responses that carry no
// signal regardless of length.
var placeholderAnswers = map[string]bool{
	"i don't know": true,
	"i dont know":  true,
	"idk":          true,
	"no":           true,
	"none":         true,
	"nothing":      true,
	"skip":         true,
	"n/a":          true,
	"na":           true,
	"pass":         true,
	"-":            true,
}

// Analyzer turns a completed transcript into a validated scorecard.
type Analyzer struct {
	provider models.LLMProvider
	timeout  time.Duration
}

// NewAnalyzer creates an Analyzer with a per-call timeout.
func NewAnalyzer(provider models.LLMProvider, timeout time.Duration) *Analyzer {
	return &Analyzer{provider: provider, timeout: timeout}
}

// AnalysisInput is everything the analyzer reads; it never touches storage.
type AnalysisInput struct {
	JobDescription string
	ResumeSummary  string
	Transcript     models.Transcript
}

// AnalysisResult is the validated analysis output.
type AnalysisResult struct {
	Scorecard    models.Scorecard
	OverallScore float64
	Summary      string
	QAPairs      []models.QAPair
}

// PairQA reconstructs question/answer items from adjacent (ai, candidate)
// turn pairs, in order. Unpaired trailing AI turns are dropped from the
// derived list; they remain in the raw transcript.
func PairQA(t models.Transcript) []models.QAPair {
	var pairs []models.QAPair
	for i := 0; i+1 < len(t); i++ {
		if t[i].Actor == models.ActorAI && t[i+1].Actor == models.ActorCandidate {
			pairs = append(pairs, models.QAPair{Question: t[i].Text, Answer: t[i+1].Text})
		}
	}
	return pairs
}

// axisWire and analysisWire mirror the JSON the model is instructed to
// return. Pointer scores distinguish "missing" from zero.
type axisWire struct {
	Score         *float64 `json:"score"`
	Justification string   `json:"justification"`
}

type analysisWire struct {
	Scorecard struct {
		TechnicalProficiency *axisWire `json:"technical_proficiency"`
		CommunicationSkills  *axisWire `json:"communication_skills"`
		AlignmentWithValues  *axisWire `json:"alignment_with_values"`
	} `json:"scorecard"`
	OverallScore   *float64 `json:"overall_score"`
	OverallSummary string   `json:"overall_summary"`
}

// Analyze scores a completed interview. Transcripts without meaningful
// candidate participation short-circuit to an all-zero scorecard without a
// generation call; a model cannot be allowed to hallucinate a positive
// score from no signal. Any parse or validation failure is returned as an
// error wrapping models.ErrInvalidResponse and the transcript is left
// untouched.
func (a *Analyzer) Analyze(ctx context.Context, in AnalysisInput) (AnalysisResult, error) {
	qa := PairQA(in.Transcript)

	if !hasMeaningfulParticipation(in.Transcript) {
		return zeroResult(qa), nil
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	raw, err := a.provider.Chat(callCtx, models.ChatRequest{
		System:      analysisSystemPrompt,
		Messages:    []models.ChatMessage{{Role: models.RoleUser, Content: buildAnalysisContext(in.JobDescription, in.ResumeSummary, in.Transcript)}},
		JSONMode:    true,
		Temperature: 0.2,
	})
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("analysis generation: %w", err)
	}

	var wire analysisWire
	if err := json.Unmarshal([]byte(cleanModelJSON(raw)), &wire); err != nil {
		return AnalysisResult{}, fmt.Errorf("decoding analysis output: %w", models.ErrInvalidResponse)
	}

	sc, err := scorecardFromWire(wire)
	if err != nil {
		return AnalysisResult{}, err
	}

	overall := sc.Overall()
	if wire.OverallScore != nil && math.Abs(*wire.OverallScore-overall) > 1.0 {
		slog.Warn("model-reported overall score diverges from weighted recomputation",
			"model_reported", *wire.OverallScore, "recomputed", overall)
	}

	return AnalysisResult{
		Scorecard:    sc,
		OverallScore: overall,
		Summary:      strings.TrimSpace(wire.OverallSummary),
		QAPairs:      qa,
	}, nil
}

// scorecardFromWire validates the decoded shape: every axis must be present
// with a score and a justification. Scores are clamped to [0, 10].
func scorecardFromWire(wire analysisWire) (models.Scorecard, error) {
	axes := map[string]*axisWire{
		"technical_proficiency": wire.Scorecard.TechnicalProficiency,
		"communication_skills":  wire.Scorecard.CommunicationSkills,
		"alignment_with_values": wire.Scorecard.AlignmentWithValues,
	}
	for name, axis := range axes {
		if axis == nil || axis.Score == nil || strings.TrimSpace(axis.Justification) == "" {
			return models.Scorecard{}, fmt.Errorf("analysis output missing %s: %w", name, models.ErrInvalidResponse)
		}
	}
	return models.Scorecard{
		TechnicalProficiency: models.AxisScore{
			Score:         clampScore(*wire.Scorecard.TechnicalProficiency.Score),
			Justification: wire.Scorecard.TechnicalProficiency.Justification,
		},
		CommunicationSkills: models.AxisScore{
			Score:         clampScore(*wire.Scorecard.CommunicationSkills.Score),
			Justification: wire.Scorecard.CommunicationSkills.Justification,
		},
		AlignmentWithValues: models.AxisScore{
			Score:         clampScore(*wire.Scorecard.AlignmentWithValues.Score),
			Justification: wire.Scorecard.AlignmentWithValues.Justification,
		},
	}, nil
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 10 {
		return 10
	}
	return s
}

// hasMeaningfulParticipation reports whether any candidate turn is a real
// answer: long enough after trimming and not a placeholder.
func hasMeaningfulParticipation(t models.Transcript) bool {
	for _, turn := range t {
		if turn.Actor != models.ActorCandidate {
			continue
		}
		answer := strings.TrimSpace(turn.Text)
		if placeholderAnswers[strings.ToLower(answer)] {
			continue
		}
		if utf8.RuneCountInString(answer) >= minMeaningfulAnswerRunes {
			return true
		}
	}
	return false
}

func zeroResult(qa []models.QAPair) AnalysisResult {
	const justification = "No meaningful candidate participation occurred during the interview."
	zero := models.AxisScore{Score: 0, Justification: justification}
	return AnalysisResult{
		Scorecard: models.Scorecard{
			TechnicalProficiency: zero,
			CommunicationSkills:  zero,
			AlignmentWithValues:  zero,
		},
		OverallScore: 0,
		Summary:      justification,
		QAPairs:      qa,
	}
}
