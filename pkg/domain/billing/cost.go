package billing

import (
	_ "embed"
	"fmt"
	"math/big"
	"os"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// AliyunPricingModel is the pricing key used for every Aliyun request,
// whichever model served it.
const AliyunPricingModel = "aliyun-default"

const costPlaces = 4

var tokensPerMillion = decimal.NewFromInt(1_000_000)

//go:embed pricing.yaml
var defaultPricingYAML []byte

// ModelPrice is expressed in USD per one million tokens.
type ModelPrice struct {
	Input  float64 `yaml:"input" json:"input"`
	Output float64 `yaml:"output" json:"output"`
}

// PricingTable maps a model id to its price. It is treated as read-only once built.
type PricingTable map[string]ModelPrice

type pricingFile struct {
	Models PricingTable `yaml:"models"`
}

// CostInfo is the priced usage of one call.
type CostInfo struct {
	Model        string  `json:"model"`
	InputTokens  uint64  `json:"input_tokens"`
	OutputTokens uint64  `json:"output_tokens"`
	InputCost    float64 `json:"input_cost"`
	OutputCost   float64 `json:"output_cost"`
	TotalCost    float64 `json:"total_cost"`
}

var (
	defaultTable     PricingTable
	defaultTableOnce sync.Once
)

// DefaultPricing returns a copy of the built-in table.
func DefaultPricing() PricingTable {
	defaultTableOnce.Do(func() {
		t, err := ParsePricing(defaultPricingYAML)
		if err != nil {
			panic(fmt.Sprintf("billing: embedded pricing table is invalid: %v", err))
		}
		defaultTable = t
	})
	return defaultTable.Clone()
}

// ParsePricing decodes a pricing document of the form `models: {id: {input, output}}`.
func ParsePricing(data []byte) (PricingTable, error) {
	var f pricingFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pricing table: %w", err)
	}
	for id, p := range f.Models {
		if p.Input < 0 || p.Output < 0 {
			return nil, fmt.Errorf("pricing for %s must be >= 0", id)
		}
	}
	if f.Models == nil {
		f.Models = PricingTable{}
	}
	return f.Models, nil
}

// LoadPricing reads a pricing file and overlays it on the built-in table.
// An empty path yields the built-in table unchanged.
func LoadPricing(path string) (PricingTable, error) {
	table := DefaultPricing()
	if path == "" {
		return table, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pricing file: %w", err)
	}
	overlay, err := ParsePricing(data)
	if err != nil {
		return nil, err
	}
	for id, p := range overlay {
		table[id] = p
	}
	return table, nil
}

// Clone returns an independent copy.
func (t PricingTable) Clone() PricingTable {
	out := make(PricingTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Models returns the priced model ids in sorted order.
func (t PricingTable) Models() []string {
	ids := make([]string, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Price returns the price for a model; unknown models are free.
func (t PricingTable) Price(model string) ModelPrice {
	return t[model]
}

// Cost prices one call. Each amount is rounded half away from zero to four places;
// the total is rounded from the unrounded parts.
func (t PricingTable) Cost(model string, inputTokens, outputTokens uint64) CostInfo {
	price := t.Price(model)

	in := perMillion(inputTokens, price.Input)
	out := perMillion(outputTokens, price.Output)

	return CostInfo{
		Model:        model,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		InputCost:    in.Round(costPlaces).InexactFloat64(),
		OutputCost:   out.Round(costPlaces).InexactFloat64(),
		TotalCost:    in.Add(out).Round(costPlaces).InexactFloat64(),
	}
}

// CalculateCost prices one call against the built-in table.
func CalculateCost(model string, inputTokens, outputTokens uint64) CostInfo {
	return DefaultPricing().Cost(model, inputTokens, outputTokens)
}

func perMillion(tokens uint64, pricePerMillion float64) decimal.Decimal {
	return decimal.NewFromFloat(pricePerMillion).
		Mul(decimal.NewFromBigInt(new(big.Int).SetUint64(tokens), 0)).
		Div(tokensPerMillion)
}
