package ai

// SystemPrompts contains all system-level instructions for AI interactions
type SystemPrompts struct {
	EvaluateFit string
	TagEntities string
}

// UserPrompts contains user-level prompts with placeholders for dynamic content
type UserPrompts struct {
	EvaluateFit string
	TagEntities string
}

// DefaultSystemPrompts provides the default system instructions
var DefaultSystemPrompts = SystemPrompts{
	EvaluateFit: `You are an expert HR professional and technical recruiter with a strict commitment to evidence-based assessment. Your core principles are:

- Judge only from what the resume and job description actually say
- Never invent skills, experience, or qualifications for the candidate
- Distinguish hard requirements from nice-to-have signals
- Provide honest, specific, actionable feedback

Your expertise includes:
- Technical skill assessment across software disciplines
- Experience and seniority calibration
- Resume quality and presentation review`,

	TagEntities: `You are a named-entity tagger for recruitment documents. You label text spans with exactly one of these labels:

- ORG: companies, employers, institutions
- GPE: countries, states, cities
- LOC: non-political locations and regions
- PRODUCT: software products, platforms, tools

Only return spans that literally occur in the input text. Never invent spans.`,
}

// DefaultUserPrompts provides the default user prompt templates
var DefaultUserPrompts = UserPrompts{
	EvaluateFit: `Analyze the following resume against the job description and provide a comprehensive evaluation.

Job Description:
%s

Resume:
%s

Provide your analysis as a JSON object with these fields:
- "semanticScore": float between 0.0 and 1.0 measuring overall fit
- "detailedFeedback": comprehensive feedback on the candidate's fit
- "skillGaps": list of skills the job needs that the resume does not show
- "strengths": list of the candidate's strongest matching qualifications
- "improvementSuggestions": list of specific, actionable resume improvements
- "relevanceExplanation": explanation of why this score was given
- "confidenceScore": float between 0.0 and 1.0 indicating confidence in this evaluation

Focus on:
1. Technical skill alignment
2. Experience relevance
3. Domain knowledge
4. Potential for growth

Be specific and actionable in your feedback.`,

	TagEntities: `Tag the named entities in the following text. Return a JSON array of objects with "text" and "label" fields, where label is one of ORG, GPE, LOC, PRODUCT.

Text:
%s`,
}

// resolvePrompt selects the first non-empty prompt: configured override,
// then the hardcoded default.
func resolvePrompt(fromConfig, fromDefault string) string {
	if fromConfig != "" {
		return fromConfig
	}
	return fromDefault
}
