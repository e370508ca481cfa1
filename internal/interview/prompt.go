package interview

import (
	"fmt"
	"strings"

	"github.com/ItsMeCK/AIInterview/pkg/models"
)

// CompletionMarker is the token the interviewer model emits after its
// closing statement to signal the interview has concluded.
const CompletionMarker = "[INTERVIEW_COMPLETE]"

const interviewerSystemPrompt = `You are 'Alex', an expert technical interviewer for a top-tier tech company. Your persona is sharp, professional, insightful, and friendly. Your goal is to conduct a highly effective technical screening interview.

Core instructions:
1. You will be given a Job Description, the candidate's resume summary, a total number of questions to ask, and specific "must-ask" topics.
2. This is a technical interview. Ask probing, open-ended technical questions that assess problem-solving ability, depth of knowledge, and practical skills.
3. Ask ONE question at a time. Each follow-up question must be logically derived from the candidate's previous answer. Seamlessly integrate the must-ask topics. Adhere to the specified total number of questions.
4. If the candidate asks for clarification, provide a concise explanation and re-engage them with the question.
5. Once you have asked the specified number of questions, conclude professionally: thank the candidate and explain the next steps.
6. Termination signal: after your closing statement, and only then, output the special token ` + CompletionMarker + ` on a new line. This is a strict instruction.`

const openingPrimeInstruction = `The interview is just beginning. Produce your opening and plan one step ahead.
Respond with a single valid JSON object only, no markdown fences, of the shape:
{"first_question": "your greeting plus the first question", "second_question": "the question you would ask next, assuming a reasonable answer to the first"}`

const openingSingleInstruction = `The interview is just beginning. Greet the candidate and ask your first question based on the parameters.`

const analysisSystemPrompt = `You are an expert AI hiring assistant. Analyze an interview transcript and provide a structured assessment of the candidate.

Instructions:
1. For each of the three categories below, provide a score from 0 to 10 and a concise justification (1-2 sentences):
   - technical_proficiency: how well the candidate's experience and answers align with the technical requirements of the job.
   - communication_skills: how clearly and effectively the candidate articulated their thoughts.
   - alignment_with_values: how well the candidate seems to align with values like collaboration, problem-solving, and proactiveness (make reasonable inferences).
2. Calculate an overall_score (0-100) as a weighted average (technical 60%, communication 25%, alignment 15%).
3. Write an overall_summary (2-3 sentences) concluding your assessment.

Output format: respond with a single valid JSON object only. No other text, no markdown formatting.
{
  "scorecard": {
    "technical_proficiency": {"score": 0, "justification": ""},
    "communication_skills": {"score": 0, "justification": ""},
    "alignment_with_values": {"score": 0, "justification": ""}
  },
  "overall_score": 0,
  "overall_summary": ""
}`

// JobContext carries everything the engine needs to know about one
// interview: the job parameters plus the candidate's identity and resume.
type JobContext struct {
	JobDescription string
	QuestionLimit  int
	MustAskTopics  string
	CandidateName  string
	ResumeSummary  string
}

// buildContextHeader assembles the shared preamble of every interviewer
// generation call: job, resume, candidate, and interview parameters.
func buildContextHeader(jc JobContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Job Description:\n%s\n\n", jc.JobDescription)
	fmt.Fprintf(&b, "Candidate Resume Summary:\n%s\n\n", jc.ResumeSummary)
	fmt.Fprintf(&b, "Candidate Name: %s\n\n", jc.CandidateName)
	b.WriteString("Interview Parameters\n")
	fmt.Fprintf(&b, "- Total Questions to Ask: %d\n", jc.QuestionLimit)
	topics := jc.MustAskTopics
	if topics == "" {
		topics = "N/A"
	}
	fmt.Fprintf(&b, "- Must-Ask Topics: %s\n\n", topics)
	return b.String()
}

// buildOpeningContext is the context for the opening call. When prime is
// true the model is asked for the structured two-question opening;
// otherwise for a plain single opening question (the degraded path).
func buildOpeningContext(jc JobContext, prime bool) string {
	instruction := openingSingleInstruction
	if prime {
		instruction = openingPrimeInstruction
	}
	return buildContextHeader(jc) + "Conversation History:\n" + instruction
}

// buildConversationContext is the context for every in-progress generation:
// the header plus the transcript as it currently stands.
func buildConversationContext(jc JobContext, transcript models.Transcript) string {
	return buildContextHeader(jc) + "Conversation History:\n" + transcript.Render()
}

// buildAnalysisContext assembles the user-role context block for the
// post-interview analysis call.
func buildAnalysisContext(jobDescription, resumeSummary string, transcript models.Transcript) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Job Description:\n%s\n\n", jobDescription)
	fmt.Fprintf(&b, "Candidate Resume Summary:\n%s\n\n", resumeSummary)
	fmt.Fprintf(&b, "Full Interview Transcript:\n%s", transcript.Render())
	return b.String()
}
