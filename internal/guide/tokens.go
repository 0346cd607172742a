package guide

// Model identifiers for guide generation.
const (
	ModelSonnet = "claude-sonnet-4-20250514"
	ModelHaiku  = "claude-3-5-haiku-20241022"
)

// DefaultTokenBudget is the worksheet budget for models not listed in
// DefaultTokenBudgets.
const DefaultTokenBudget = 150000

// DefaultTokenBudgets caps worksheet content per request, leaving headroom
// below each model's context window for the prompt template and response.
var DefaultTokenBudgets = map[string]int{
	ModelSonnet: 150000,
	ModelHaiku:  150000,
}

// ModelPricing holds per-million-token USD rates.
type ModelPricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// DefaultModelPricing reflects published per-model rates.
var DefaultModelPricing = map[string]ModelPricing{
	ModelSonnet: {InputPerMillion: 3.00, OutputPerMillion: 15.00},
	ModelHaiku:  {InputPerMillion: 0.80, OutputPerMillion: 4.00},
}

// EstimateCost returns the USD cost of one call, or 0 for unknown models.
func EstimateCost(model string, inputTokens, outputTokens int64) float64 {
	p, ok := DefaultModelPricing[model]
	if !ok {
		return 0
	}
	return float64(inputTokens)/1_000_000*p.InputPerMillion +
		float64(outputTokens)/1_000_000*p.OutputPerMillion
}

// EstimateTokens approximates the token count of text as one token per
// four bytes.
func EstimateTokens(text string) int {
	return len(text) / 4
}

// BudgetFor returns the worksheet token budget for a model, preferring
// per-model overrides.
func BudgetFor(model string, overrides map[string]int) int {
	if n, ok := overrides[model]; ok && n > 0 {
		return n
	}
	if n, ok := DefaultTokenBudgets[model]; ok {
		return n
	}
	return DefaultTokenBudget
}

// CheckBudget reports whether content exceeds the model's worksheet budget,
// along with the estimated token count and the budget itself.
func CheckBudget(content, model string, overrides map[string]int) (exceeds bool, tokens, limit int) {
	tokens = EstimateTokens(content)
	limit = BudgetFor(model, overrides)
	return tokens > limit, tokens, limit
}
