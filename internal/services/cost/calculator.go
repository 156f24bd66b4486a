package cost

import (
	"fmt"
	"strings"

	"github.com/thomas-vilte/matereview/internal/models"
)

type PricingTable struct {
	InputPricePerMillion  float64
	OutputPricePerMillion float64
}

type ProviderPricing map[string]map[string]PricingTable

// https://ai.google.dev/gemini-api/docs/pricing
var defaultPricing = ProviderPricing{
	"gemini": {
		"gemini-1.5-flash":      {InputPricePerMillion: 0.075, OutputPricePerMillion: 0.30},
		"gemini-1.5-flash-8b":   {InputPricePerMillion: 0.0375, OutputPricePerMillion: 0.15},
		"gemini-1.5-pro":        {InputPricePerMillion: 1.25, OutputPricePerMillion: 5.00},
		"gemini-2.0-flash":      {InputPricePerMillion: 0.10, OutputPricePerMillion: 0.40},
		"gemini-2.0-flash-lite": {InputPricePerMillion: 0.075, OutputPricePerMillion: 0.30},
		"gemini-2.5-flash":      {InputPricePerMillion: 0.30, OutputPricePerMillion: 2.50},
		"gemini-2.5-pro":        {InputPricePerMillion: 1.25, OutputPricePerMillion: 10.00},
	},
}

// Calculator estimates the USD cost of a model call from its token usage.
type Calculator struct {
	pricing ProviderPricing
}

func NewCalculator() *Calculator {
	pricing := make(ProviderPricing, len(defaultPricing))
	for provider, tables := range defaultPricing {
		pricing[provider] = make(map[string]PricingTable, len(tables))
		for model, table := range tables {
			pricing[provider][model] = table
		}
	}
	return &Calculator{pricing: pricing}
}

// EstimateCost calculates the estimated cost based on provider, model, and tokens.
// Versioned names such as gemini-1.5-flash-002 use the longest known prefix.
// Unknown models cost 0.
func (c *Calculator) EstimateCost(provider, model string, inputTokens, outputTokens int) float64 {
	table, ok := c.lookup(provider, model)
	if !ok {
		return 0
	}

	inputCost := (float64(inputTokens) / 1_000_000) * table.InputPricePerMillion
	outputCost := (float64(outputTokens) / 1_000_000) * table.OutputPricePerMillion

	return inputCost + outputCost
}

// Apply sets usage.CostUSD for the given provider and returns usage.
func (c *Calculator) Apply(provider string, usage *models.TokenUsage) *models.TokenUsage {
	if usage == nil {
		return nil
	}
	usage.CostUSD = c.EstimateCost(provider, usage.Model, usage.InputTokens, usage.OutputTokens)
	return usage
}

// GetPricing returns the pricing table for a provider and model
func (c *Calculator) GetPricing(provider, model string) (PricingTable, error) {
	providerPricing, exists := c.pricing[strings.ToLower(provider)]
	if !exists {
		return PricingTable{}, fmt.Errorf("provider %s not found", provider)
	}

	modelPricing, exists := providerPricing[strings.ToLower(model)]
	if !exists {
		return PricingTable{}, fmt.Errorf("model %s not found for provider %s", model, provider)
	}

	return modelPricing, nil
}

// AddPricing registers or overrides the pricing of one model.
func (c *Calculator) AddPricing(provider, model string, table PricingTable) {
	provider = strings.ToLower(provider)
	model = strings.ToLower(model)

	if _, exists := c.pricing[provider]; !exists {
		c.pricing[provider] = make(map[string]PricingTable)
	}
	c.pricing[provider][model] = table
}

func (c *Calculator) lookup(provider, model string) (PricingTable, bool) {
	providerPricing, exists := c.pricing[strings.ToLower(provider)]
	if !exists {
		return PricingTable{}, false
	}

	model = strings.ToLower(strings.TrimPrefix(model, "models/"))
	if table, ok := providerPricing[model]; ok {
		return table, true
	}

	best := ""
	for name := range providerPricing {
		if strings.HasPrefix(model, name) && len(name) > len(best) {
			best = name
		}
	}
	if best == "" {
		return PricingTable{}, false
	}
	return providerPricing[best], true
}
