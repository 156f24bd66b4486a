package models

type TokenUsage struct {
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	TotalTokens  int     `json:"total_tokens"`
	Model        string  `json:"model,omitempty"`
	DurationMs   int64   `json:"duration_ms,omitempty"`
	CostUSD      float64 `json:"cost_usd,omitempty"`
}

// Add accumulates usage across chat turns of the same session.
func (u *TokenUsage) Add(other *TokenUsage) *TokenUsage {
	if other == nil {
		return u
	}
	if u == nil {
		cp := *other
		return &cp
	}
	sum := *u
	sum.InputTokens += other.InputTokens
	sum.OutputTokens += other.OutputTokens
	sum.TotalTokens += other.TotalTokens
	sum.DurationMs += other.DurationMs
	sum.CostUSD += other.CostUSD
	if sum.Model == "" {
		sum.Model = other.Model
	}
	return &sum
}
