package fitness

import (
	"context"
	"math"

	"github.com/fitai/fitai/internal/ai"
	"go.uber.org/zap"
)

const defaultEstimatedCalories = 2000

// Recommender produces general recommendations for a possibly partial profile.
// Like Composer it never fails outward.
type Recommender struct {
	gateway ai.Gateway
	logger  *zap.Logger
}

func NewRecommender(gateway ai.Gateway, logger *zap.Logger) *Recommender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recommender{gateway: gateway, logger: logger}
}

type generatedRecommendations struct {
	Recommendations   []string `json:"recommendations" validate:"required,min=1,max=10,dive,required"`
	Goal              string   `json:"goal"`
	ActivityLevel     string   `json:"activityLevel"`
	EstimatedCalories *float64 `json:"estimatedCalories" validate:"omitempty,gte=0.5,lte=20000"`
}

func (r *Recommender) Recommend(ctx context.Context, p UserProfile) RecommendationSet {
	set, err := r.generate(ctx, p)
	if err != nil {
		logGenerationFailure(r.logger, "recommendations", err)
		return RecommendationSet{
			Recommendations:   fallbackRecommendations(),
			Goal:              goalOrDefault(p.Goal),
			ActivityLevel:     activityOrDefault(p.ActivityLevel),
			EstimatedCalories: EstimateOrDefault(p),
			Source:            SourceFallback,
		}
	}
	return set
}

func (r *Recommender) generate(ctx context.Context, p UserProfile) (RecommendationSet, error) {
	content, err := r.gateway.Complete(ctx, ai.Request{
		System: recommendationsSystemPrompt,
		User:   recommendationsUserPrompt(p),
	})
	if err != nil {
		return RecommendationSet{}, err
	}

	var out generatedRecommendations
	if err := ai.DecodeJSON(content, &out); err != nil {
		return RecommendationSet{}, err
	}

	set := RecommendationSet{
		Recommendations:   out.Recommendations,
		Goal:              goalOrDefault(p.Goal),
		ActivityLevel:     activityOrDefault(p.ActivityLevel),
		EstimatedCalories: EstimateOrDefault(p),
		Source:            SourceGenerated,
	}
	if g := Goal(out.Goal); g.Valid() {
		set.Goal = string(g)
	}
	if a := ActivityLevel(out.ActivityLevel); a.Valid() {
		set.ActivityLevel = string(a)
	}
	if out.EstimatedCalories != nil {
		set.EstimatedCalories = int(math.Round(*out.EstimatedCalories))
	}
	return set, nil
}

// EstimateOrDefault returns the estimator result, or 2000 kcal when the
// profile lacks weight, height or age.
func EstimateOrDefault(p UserProfile) int {
	if kcal, ok := EstimateCalories(p); ok {
		return kcal
	}
	return defaultEstimatedCalories
}
