package fake

import (
	"context"
	"errors"
	"sync"

	"voltic/contexts/creative-generation/insight-service/domain/entities"
)

var ErrInjected = errors.New("injected analysis failure")

// Analyzer returns a fixed analysis and counts calls.
type Analyzer struct {
	mu    sync.Mutex
	err   error
	calls int
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Fail makes subsequent calls return err, or ErrInjected when err is nil.
func (a *Analyzer) Fail(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err == nil {
		err = ErrInjected
	}
	a.err = err
}

func (a *Analyzer) Recover() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.err = nil
}

func (a *Analyzer) Calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

func (a *Analyzer) AnalyzeAd(_ context.Context, ad entities.SavedAd) (entities.InsightData, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	if a.err != nil {
		return entities.InsightData{}, a.err
	}
	score := 5.0
	if ad.RuntimeDays >= 30 {
		score = 8
	}
	return entities.InsightData{
		HookType:        "Bold Claim",
		HookExplanation: "Leads with the strongest promise of " + ad.BrandName + ".",
		CopyStructure: entities.CopyStructure{
			HeadlineFormula: "Benefit + Urgency",
			BodyFramework:   "PAS",
			CTAType:         "Direct CTA",
		},
		CreativeStrategy: "Social Proof",
		TargetAudience: entities.TargetAudience{
			Primary:    "Online shoppers",
			Interests:  []string{"shopping"},
			PainPoints: []string{"wasted spend"},
		},
		Strengths:            []string{"clear offer"},
		PerformanceScore:     score,
		PerformanceRationale: "Runtime signals steady delivery.",
		Improvements:         []string{"test a question hook"},
	}, nil
}

func (a *Analyzer) ModelName() string {
	return "fake"
}
