package scoring

import (
	"fmt"
	"strings"
)

// Rubric weights for the overall score. They sum to 1.
const (
	WeightClarity     = 0.20
	WeightEngagement  = 0.20
	WeightConfidence  = 0.20
	WeightTechnical   = 0.30
	WeightInteraction = 0.10
)

// SystemPrompt frames the model as a teaching-quality evaluator.
const SystemPrompt = "You are an expert evaluator of teaching quality. You respond with a single JSON object and nothing else."

// BuildPrompt renders the rubric prompt for transcript.
func BuildPrompt(transcript string) string {
	var b strings.Builder
	b.WriteString("Evaluate the teaching quality of the following lecture transcript.\n\n")
	b.WriteString("TRANSCRIPT:\n")
	b.WriteString(strings.TrimSpace(transcript))
	b.WriteString("\n\n")
	b.WriteString("Provide integer scores from 0 to 100 for:\n")
	b.WriteString("- clarity: how clearly ideas are explained\n")
	b.WriteString("- engagement: how well the speaker holds attention\n")
	b.WriteString("- confidence: how assured and steady the delivery is\n")
	b.WriteString("- technical: depth and accuracy of the subject matter\n")
	b.WriteString("- interaction: questions, checks for understanding, audience involvement\n\n")
	fmt.Fprintf(&b, "Then compute:\noverall = %.2f*clarity + %.2f*engagement + %.2f*confidence + %.2f*technical + %.2f*interaction\n\n",
		WeightClarity, WeightEngagement, WeightConfidence, WeightTechnical, WeightInteraction)
	b.WriteString("List concrete improvement suggestions, most important first.\n\n")
	b.WriteString("Return STRICT JSON ONLY:\n")
	b.WriteString(`{
  "clarity": <int>,
  "engagement": <int>,
  "confidence": <int>,
  "technical": <int>,
  "interaction": <int>,
  "overall": <float>,
  "suggestions": ["..."]
}`)
	return b.String()
}
