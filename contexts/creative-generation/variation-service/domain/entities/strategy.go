package entities

import "strings"

type Strategy string

const (
	StrategyHeroProduct Strategy = "hero_product"
	StrategyCuriosity   Strategy = "curiosity"
	StrategyPainPoint   Strategy = "pain_point"
	StrategyProofPoint  Strategy = "proof_point"
	StrategyImageOnly   Strategy = "image_only"
	StrategyTextOnly    Strategy = "text_only"
)

// MaxStrategiesPerBatch is the number of distinct strategies.
const MaxStrategiesPerBatch = 6

var strategyLabels = map[Strategy]string{
	StrategyHeroProduct: "Hero Product",
	StrategyCuriosity:   "Curiosity",
	StrategyPainPoint:   "Pain Point",
	StrategyProofPoint:  "Proof Point",
	StrategyImageOnly:   "Image Only",
	StrategyTextOnly:    "Text Only",
}

func ParseStrategy(raw string) (Strategy, bool) {
	value := Strategy(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := strategyLabels[value]
	return value, ok
}

func (s Strategy) Valid() bool {
	_, ok := strategyLabels[s]
	return ok
}

func (s Strategy) Label() string {
	if label, ok := strategyLabels[s]; ok {
		return label
	}
	return string(s)
}

// ProducesImage is false only for text_only.
func (s Strategy) ProducesImage() bool {
	return s != StrategyTextOnly
}
