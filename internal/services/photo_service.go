package services

import (
	"context"
	"math"
	"strings"

	"github.com/vladimiradmaev/calorie-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/calorie-tracker/internal/errors"
	"github.com/vladimiradmaev/calorie-tracker/internal/logger"
	"github.com/vladimiradmaev/calorie-tracker/internal/nutrition"
)

// PortionLabel names the serving created for a photographed portion.
const PortionLabel = "portion"

// PhotoEstimate is a custom food created from a photo, ready to be logged
// as one PortionLabel serving.
type PhotoEstimate struct {
	Food       *domain.Food  `json:"food"`
	Estimate   *FoodEstimate `json:"estimate"`
	Confidence string        `json:"confidence"`
}

type PhotoEstimateService struct {
	estimator ImageEstimator
	foods     *FoodService
}

func NewPhotoEstimateService(estimator ImageEstimator, foods *FoodService) *PhotoEstimateService {
	return &PhotoEstimateService{estimator: estimator, foods: foods}
}

// Estimate reads a meal photo and stores the result as a custom food with
// per-gram nutrients and a single portion serving.
func (s *PhotoEstimateService) Estimate(ctx context.Context, image []byte, mimeType string) (*PhotoEstimate, error) {
	est, err := s.estimator.EstimateImage(ctx, image, mimeType)
	if err != nil {
		return nil, apperrors.NewExternalAPIError(err, "gemini")
	}
	return s.save(ctx, est)
}

// EstimateURL is Estimate for a photo the estimator downloads from imageURL.
func (s *PhotoEstimateService) EstimateURL(ctx context.Context, imageURL string) (*PhotoEstimate, error) {
	est, err := s.estimator.EstimateImageURL(ctx, imageURL)
	if err != nil {
		return nil, apperrors.NewExternalAPIError(err, "gemini")
	}
	return s.save(ctx, est)
}

func (s *PhotoEstimateService) save(ctx context.Context, est *FoodEstimate) (*PhotoEstimate, error) {
	if est.Weight <= 0 || math.IsNaN(est.Weight) {
		return nil, apperrors.NewValidationError("the estimate has no usable weight")
	}
	name := strings.TrimSpace(est.Name)
	if name == "" {
		name = "Photo meal"
	}

	perGram := func(total float64) float64 {
		if total < 0 {
			return 0
		}
		return total / est.Weight
	}
	in := FoodInput{
		Name:     name,
		BaseUnit: nutrition.Gram,
		Nutrients: nutrition.Values{
			nutrition.Energy:       perGram(est.Energy),
			nutrition.Protein:      perGram(est.Protein),
			nutrition.Carbohydrate: perGram(est.Carbs),
			nutrition.Fat:          perGram(est.Fat),
			nutrition.Fiber:        perGram(est.Fiber),
		},
		Servings: []domain.Serving{{Label: PortionLabel, Amount: est.Weight}},
	}
	food, err := s.foods.CreateCustom(ctx, in)
	if err != nil {
		return nil, err
	}

	logger.Info("Created food from photo", "food_id", food.ID, "weight", est.Weight, "confidence", est.Confidence)
	return &PhotoEstimate{Food: food, Estimate: est, Confidence: strings.ToLower(est.Confidence)}, nil
}
