package cost

import "strings"

const tokensPer1K = 1000.0

type ModelPrice struct {
	InputPer1KUSD  float64
	OutputPer1KUSD float64
}

var prices = map[string]ModelPrice{
	// Update these constants as provider pricing changes.
	"gpt-3.5-turbo": {InputPer1KUSD: 0.0005, OutputPer1KUSD: 0.0015},
	"gpt-4o-mini":   {InputPer1KUSD: 0.00015, OutputPer1KUSD: 0.0006},
	"gpt-4o":        {InputPer1KUSD: 0.005, OutputPer1KUSD: 0.015},
	"gpt-4.1":       {InputPer1KUSD: 0.002, OutputPer1KUSD: 0.008},
	"gpt-4.1-mini":  {InputPer1KUSD: 0.0004, OutputPer1KUSD: 0.0016},
}

// EstimateUSD prices a call. Dated snapshots ("gpt-4o-mini-2024-07-18")
// fall back to their base model; unknown and local models cost 0.
func EstimateUSD(model string, promptTokens, completionTokens int) float64 {
	price, ok := lookup(model)
	if !ok {
		return 0
	}

	inputCost := (float64(promptTokens) / tokensPer1K) * price.InputPer1KUSD
	outputCost := (float64(completionTokens) / tokensPer1K) * price.OutputPer1KUSD
	return inputCost + outputCost
}

func lookup(model string) (ModelPrice, bool) {
	if p, ok := prices[model]; ok {
		return p, true
	}

	best := ""
	for name := range prices {
		if strings.HasPrefix(model, name+"-") && len(name) > len(best) {
			best = name
		}
	}
	if best == "" {
		return ModelPrice{}, false
	}
	return prices[best], true
}
