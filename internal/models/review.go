package models

type (
	// ReviewFinding is one issue reported by the model.
	ReviewFinding struct {
		Issue      string `json:"issue"`
		File       string `json:"file"`
		ObjectName string `json:"object_name"`
		FirstLine  int    `json:"firstLine"`
		LastLine   int    `json:"lastLine"`
	}

	// HarmCategory and BlockThreshold describe content-safety settings independently of the model SDK.
	HarmCategory   string
	BlockThreshold string

	SafetySetting struct {
		Category  HarmCategory
		Threshold BlockThreshold
	}

	// ReviewRequest is everything sent to the model for one review.
	ReviewRequest struct {
		Model              string
		SystemInstructions string
		Message            string
		Temperature        float32
		MaxOutputTokens    int32
		ResponseMIMEType   string
		SafetySettings     []SafetySetting
	}
)

const (
	HarmCategoryHarassment       HarmCategory = "HARASSMENT"
	HarmCategoryHateSpeech       HarmCategory = "HATE_SPEECH"
	HarmCategorySexuallyExplicit HarmCategory = "SEXUALLY_EXPLICIT"
	HarmCategoryDangerousContent HarmCategory = "DANGEROUS_CONTENT"

	BlockNone BlockThreshold = "BLOCK_NONE"
)

// OutcomeKind is the terminal state of a review run.
type OutcomeKind string

const (
	OutcomeNotApplicable OutcomeKind = "not_applicable"
	OutcomeTooLarge      OutcomeKind = "too_large"
	OutcomeFindings      OutcomeKind = "findings"
	OutcomeNoResult      OutcomeKind = "no_result"
)

// RunOutcome is the single result of a run. Metric and Limit are set for
// OutcomeTooLarge, Findings for OutcomeFindings.
type RunOutcome struct {
	Kind     OutcomeKind
	Metric   int
	Limit    int
	Findings []ReviewFinding
	Usage    *TokenUsage
}

func NotApplicable() RunOutcome {
	return RunOutcome{Kind: OutcomeNotApplicable}
}

func TooLarge(metric, limit int) RunOutcome {
	return RunOutcome{Kind: OutcomeTooLarge, Metric: metric, Limit: limit}
}

func Findings(findings []ReviewFinding) RunOutcome {
	if findings == nil {
		findings = []ReviewFinding{}
	}
	return RunOutcome{Kind: OutcomeFindings, Findings: findings}
}

func NoResult() RunOutcome {
	return RunOutcome{Kind: OutcomeNoResult}
}
