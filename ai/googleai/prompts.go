package googleai

import "fmt"

const extractionResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "overarching_theme": {
      "type": "string"
    },
    "recurring_topics": {
      "type": "array",
      "items": {"type": "string"}
    },
    "pain_points": {
      "type": "array",
      "items": {"type": "string"}
    },
    "analytical_insights": {
      "type": "array",
      "items": {"type": "string"}
    },
    "conclusion": {
      "type": "string"
    },
    "keywords": {
      "type": "array",
      "items": {"type": "string"},
      "maxItems": 10
    }
  },
  "required": ["overarching_theme", "recurring_topics", "pain_points", "analytical_insights", "conclusion", "keywords"],
  "additionalProperties": false
}`

const extractionPromptTemplate = `You are an expert extraction algorithm.
Only extract relevant information from the text.
If you do not know the value of an attribute asked to extract, use an empty string or an empty array for that attribute.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- "overarching_theme": summarize the main theme(s) discussed in the text.
- "recurring_topics": list the topics that recur across the text as short strings.
- "pain_points": summarize the frustrations or challenges raised in the text.
- "analytical_insights": list key analytical observations, including shifts in tone or behavior.
- "conclusion": summarize the conclusions drawn and the overall focus.
- "keywords": generate up to 10 keywords that capture the essence of the text (e.g., "askNostr", "decentralization", "spam filtering").
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.`

func buildExtractionPrompt() string {
	return fmt.Sprintf(extractionPromptTemplate, extractionResponseSchema)
}

const answerSystemPrompt = `You are a careful research assistant. Answer the user's question using ONLY the
document excerpts provided below. When you use information from an excerpt, mention which document it came
from. If the excerpts do not contain the information needed to answer, reply exactly:
"I cannot find the answer in the available resources."

Document excerpts:

%s`

func buildAnswerPrompt(contextBlock string) string {
	return fmt.Sprintf(answerSystemPrompt, contextBlock)
}
