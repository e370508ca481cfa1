package interview

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/ItsMeCK/AIInterview/pkg/models"
)

const (
	defaultQuestionLimit = 5
	defaultRetryDelay    = 2 * time.Second

	// fallbackBufferedQuestion fills the look-ahead slot when the opening
	// prime fails to produce a second question; interview start never
	// blocks on a formatting failure.
	fallbackBufferedQuestion = "Could you walk me through a recent project you are proud of, and the part of it you personally owned?"
)

// Engine produces interviewer utterances and decides when the interview
// ends. It is stateless between calls: transcript and buffer persistence is
// the caller's responsibility.
type Engine struct {
	provider   models.LLMProvider
	timeout    time.Duration
	retryDelay time.Duration
}

// NewEngine creates an Engine with a per-generation timeout.
func NewEngine(provider models.LLMProvider, timeout time.Duration) *Engine {
	return &Engine{
		provider:   provider,
		timeout:    timeout,
		retryDelay: defaultRetryDelay,
	}
}

// Opening is the result of the two-question prime issued on interview
// start: the utterance shown immediately plus the look-ahead buffer.
type Opening struct {
	First    string
	Buffered string
}

// primeResponse is the structured shape requested from the opening call.
type primeResponse struct {
	FirstQuestion  string `json:"first_question"`
	SecondQuestion string `json:"second_question"`
}

// Prime issues the opening generation. One call is expected to yield both
// the opening utterance and the buffered second question; if the response
// does not parse as the structured shape (or the call fails outright), the
// engine degrades to a plain single-question opening with a static buffer.
func (e *Engine) Prime(ctx context.Context, jc JobContext) (Opening, error) {
	raw, err := e.chat(ctx, models.ChatRequest{
		System:      interviewerSystemPrompt,
		Messages:    []models.ChatMessage{{Role: models.RoleUser, Content: buildOpeningContext(jc, true)}},
		JSONMode:    true,
		Temperature: 0.7,
	})
	if err == nil {
		var pr primeResponse
		if jerr := json.Unmarshal([]byte(cleanModelJSON(raw)), &pr); jerr == nil {
			first := strings.TrimSpace(pr.FirstQuestion)
			second := strings.TrimSpace(pr.SecondQuestion)
			if first != "" && second != "" {
				return Opening{First: first, Buffered: second}, nil
			}
		}
		slog.Warn("opening prime did not parse, degrading to single question",
			"provider", e.provider.Name())
	} else {
		slog.Warn("opening prime generation failed, degrading to single question",
			"provider", e.provider.Name(), "error", err)
	}

	single, err := e.chatWithRetry(ctx, models.ChatRequest{
		System:      interviewerSystemPrompt,
		Messages:    []models.ChatMessage{{Role: models.RoleUser, Content: buildOpeningContext(jc, false)}},
		Temperature: 0.7,
	})
	if err != nil {
		return Opening{}, err
	}
	first := strings.TrimSpace(strings.ReplaceAll(single, CompletionMarker, ""))
	return Opening{First: first, Buffered: fallbackBufferedQuestion}, nil
}

// NextQuestion generates the following interviewer utterance from the
// transcript as it currently stands (including the just-revealed question).
// done is true when the model emitted the completion marker; the returned
// text then has the marker stripped and is the closing statement.
func (e *Engine) NextQuestion(ctx context.Context, jc JobContext, transcript models.Transcript) (text string, done bool, err error) {
	raw, err := e.chatWithRetry(ctx, models.ChatRequest{
		System:      interviewerSystemPrompt,
		Messages:    []models.ChatMessage{{Role: models.RoleUser, Content: buildConversationContext(jc, transcript)}},
		Temperature: 0.7,
	})
	if err != nil {
		return "", false, err
	}
	text = strings.TrimSpace(raw)
	if strings.Contains(text, CompletionMarker) {
		return strings.TrimSpace(strings.ReplaceAll(text, CompletionMarker, "")), true, nil
	}
	return text, false, nil
}

// QuotaReached reports whether the number of questions already shown to the
// candidate has reached the job's limit. The buffered-but-unshown question
// does not count.
func QuotaReached(jc JobContext, transcript models.Transcript) bool {
	limit := jc.QuestionLimit
	if limit <= 0 {
		limit = defaultQuestionLimit
	}
	return transcript.AskedQuestions() >= limit
}

// chat runs one generation call under the engine's per-call timeout.
func (e *Engine) chat(ctx context.Context, req models.ChatRequest) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	return e.provider.Chat(callCtx, req)
}

// chatWithRetry retries a failed generation once after a short delay.
// The transcript is never mutated by the caller until this succeeds.
func (e *Engine) chatWithRetry(ctx context.Context, req models.ChatRequest) (string, error) {
	raw, err := e.chat(ctx, req)
	if err == nil {
		return raw, nil
	}
	if ctx.Err() != nil {
		return "", err
	}
	slog.Warn("generation failed, retrying once", "provider", e.provider.Name(), "error", err)
	select {
	case <-time.After(e.retryDelay):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return e.chat(ctx, req)
}

// cleanModelJSON strips markdown fences and any surrounding prose so that a
// mostly-JSON model response can be decoded. Returns the original string
// when no object braces are found; the caller's decode will fail and handle
// it.
func cleanModelJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
