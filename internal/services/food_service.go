package services

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/vladimiradmaev/calorie-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/calorie-tracker/internal/errors"
	"github.com/vladimiradmaev/calorie-tracker/internal/foodapi"
	"github.com/vladimiradmaev/calorie-tracker/internal/logger"
	"github.com/vladimiradmaev/calorie-tracker/internal/nutrition"
	"github.com/vladimiradmaev/calorie-tracker/internal/repository"
)

const (
	localSearchLimit = 20
	defaultListLimit = 10
)

// FoodCatalog is the remote food lookup.
type FoodCatalog interface {
	Search(ctx context.Context, query string) []foodapi.Hit
	Detail(ctx context.Context, productID string) (*domain.Food, bool)
}

type SearchSource string

const (
	SourceCustom SearchSource = "custom"
	SourceRemote SearchSource = "remote"
)

// SearchResult is one merged search row with its suggested serving.
type SearchResult struct {
	Score           float64        `json:"score"`
	Source          SearchSource   `json:"source"`
	Food            *domain.Food   `json:"food"`
	Serving         domain.Serving `json:"serving"`
	ServingQuantity float64        `json:"serving_quantity"`
}

// FoodInput describes a custom food. Nutrients are per one base unit in
// storage units.
type FoodInput struct {
	Name      string             `json:"name"`
	Producer  *string            `json:"producer,omitempty"`
	BaseUnit  nutrition.BaseUnit `json:"base_unit"`
	Nutrients nutrition.Values   `json:"nutrients"`
	Servings  []domain.Serving   `json:"servings"`
}

// RecipeInput describes a recipe. Yield is the cooked amount in BaseUnit;
// when zero, the metric sum of the ingredient quantities is used.
type RecipeInput struct {
	Name        string                    `json:"name"`
	BaseUnit    nutrition.BaseUnit        `json:"base_unit"`
	Yield       float64                   `json:"yield"`
	Servings    []domain.Serving          `json:"servings"`
	Ingredients []domain.RecipeIngredient `json:"ingredients"`
}

type FoodService struct {
	store   *repository.Store
	catalog FoodCatalog
	log     *slog.Logger
}

// NewFoodService creates the service. catalog may be nil, which limits
// search and lookup to stored foods.
func NewFoodService(store *repository.Store, catalog FoodCatalog) *FoodService {
	return &FoodService{
		store:   store,
		catalog: catalog,
		log:     logger.Component("food_service"),
	}
}

// Search merges matching custom foods with remote catalog hits, highest
// score first. Remote failures only shrink the result.
func (s *FoodService) Search(ctx context.Context, query string) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.NewValidationError("search query must not be empty")
	}

	local, err := s.store.Foods.SearchLocal(ctx, query, true, localSearchLimit)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	results := make([]SearchResult, 0, len(local))
	seen := make(map[string]bool, len(local))
	for _, f := range local {
		serving := f.DefaultServing()
		results = append(results, SearchResult{
			Score:           localScore(f.Name, query),
			Source:          SourceCustom,
			Food:            f,
			Serving:         serving,
			ServingQuantity: 1,
		})
		seen[f.ID] = true
	}

	if s.catalog != nil {
		for _, hit := range s.catalog.Search(ctx, query) {
			if seen[hit.Food.ID] {
				continue
			}
			seen[hit.Food.ID] = true
			results = append(results, SearchResult{
				Score:           hit.Score,
				Source:          SourceRemote,
				Food:            hit.Food,
				Serving:         hit.Serving,
				ServingQuantity: hit.ServingQuantity,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results, nil
}

// localScore ranks a custom food name against the query on the remote
// catalog's 0..1 scale.
func localScore(name, query string) float64 {
	name, query = strings.ToLower(name), strings.ToLower(query)
	switch {
	case name == query:
		return 1
	case strings.HasPrefix(name, query):
		return 0.9
	default:
		return 0.75
	}
}

// Get returns a stored food, fetching and caching remote foods on first use.
func (s *FoodService) Get(ctx context.Context, id string) (*domain.Food, error) {
	f, err := s.store.Foods.Get(ctx, id)
	if err == nil {
		return f, nil
	}
	if !repository.IsNotFound(err) {
		return nil, apperrors.NewDatabaseError(err)
	}

	if s.catalog == nil {
		return nil, apperrors.NewNotFoundError("food", id)
	}
	remote, ok := s.catalog.Detail(ctx, id)
	if !ok {
		return nil, apperrors.NewNotFoundError("food", id)
	}
	if err := s.store.Foods.Upsert(ctx, remote); err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	s.log.Info("Cached remote food", "food_id", remote.ID, "name", remote.Name)
	return remote, nil
}

// Remember stores a food taken from a search result unless it is already
// stored, and returns the stored version.
func (s *FoodService) Remember(ctx context.Context, f *domain.Food) (*domain.Food, error) {
	if f == nil || f.ID == "" {
		return nil, apperrors.NewValidationError("food id is required")
	}
	stored, err := s.store.Foods.Get(ctx, f.ID)
	if err == nil {
		return stored, nil
	}
	if !repository.IsNotFound(err) {
		return nil, apperrors.NewDatabaseError(err)
	}
	if f.IsCustom {
		return nil, apperrors.NewNotFoundError("food", f.ID)
	}
	cached := *f
	if err := s.store.Foods.Upsert(ctx, &cached); err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return &cached, nil
}

func (s *FoodService) CreateCustom(ctx context.Context, in FoodInput) (*domain.Food, error) {
	f, err := in.toFood()
	if err != nil {
		return nil, err
	}
	if err := s.store.Foods.Upsert(ctx, f); err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	s.log.Info("Created custom food", "food_id", f.ID, "name", f.Name)
	return f, nil
}

// UpdateCustom replaces a custom food, servings included.
func (s *FoodService) UpdateCustom(ctx context.Context, id string, in FoodInput) (*domain.Food, error) {
	existing, err := s.customFood(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.IsRecipe {
		return nil, apperrors.NewValidationError("recipes are updated through their ingredients")
	}
	f, err := in.toFood()
	if err != nil {
		return nil, err
	}
	f.ID = existing.ID
	if err := s.store.Foods.Upsert(ctx, f); err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return f, nil
}

// DeleteCustom hides a custom food or recipe. Logged entries keep it.
func (s *FoodService) DeleteCustom(ctx context.Context, id string) error {
	if _, err := s.customFood(ctx, id); err != nil {
		return err
	}
	if err := s.store.Foods.SoftDelete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return apperrors.NewNotFoundError("food", id)
		}
		return apperrors.NewDatabaseError(err)
	}
	s.log.Info("Deleted custom food", "food_id", id)
	return nil
}

func (s *FoodService) ListCustom(ctx context.Context) ([]*domain.Food, error) {
	foods, err := s.store.Foods.ListCustom(ctx)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return foods, nil
}

func (s *FoodService) customFood(ctx context.Context, id string) (*domain.Food, error) {
	f, err := s.store.Foods.Get(ctx, id)
	if repository.IsNotFound(err) {
		return nil, apperrors.NewNotFoundError("food", id)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	if !f.IsCustom || f.IsDeleted {
		return nil, apperrors.NewNotFoundError("custom food", id)
	}
	return f, nil
}

// CreateRecipe derives per-base-unit nutrients from the ingredients and
// stores the recipe as a custom food.
func (s *FoodService) CreateRecipe(ctx context.Context, in RecipeInput) (*domain.Food, error) {
	return s.saveRecipe(ctx, "", in)
}

// UpdateRecipe replaces a recipe's ingredients and recomputes its nutrients.
func (s *FoodService) UpdateRecipe(ctx context.Context, id string, in RecipeInput) (*domain.Food, error) {
	existing, err := s.customFood(ctx, id)
	if err != nil {
		return nil, err
	}
	if !existing.IsRecipe {
		return nil, apperrors.NewValidationError("food is not a recipe")
	}
	return s.saveRecipe(ctx, id, in)
}

func (s *FoodService) saveRecipe(ctx context.Context, id string, in RecipeInput) (*domain.Food, error) {
	if len(in.Ingredients) == 0 {
		return nil, apperrors.NewValidationError("a recipe needs at least one ingredient")
	}

	entries := make([]nutrition.LoggedFoodAmount, 0, len(in.Ingredients))
	ingredients := make([]domain.RecipeIngredient, 0, len(in.Ingredients))
	var metricYield float64
	for _, ing := range in.Ingredients {
		if ing.Quantity <= 0 {
			return nil, apperrors.NewValidationError("ingredient quantity must be positive")
		}
		if ing.FoodID == id && id != "" {
			return nil, apperrors.NewValidationError("a recipe cannot contain itself")
		}
		f, err := s.Get(ctx, ing.FoodID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, nutrition.LoggedFoodAmount{Nutrients: f.Nutrients, Quantity: ing.Quantity})
		ingredients = append(ingredients, domain.RecipeIngredient{FoodID: f.ID, Quantity: ing.Quantity, Food: f})
		metricYield += f.BaseUnit.ToMetric(ing.Quantity)
	}

	input := FoodInput{Name: in.Name, BaseUnit: in.BaseUnit, Servings: in.Servings}
	f, err := input.toFood()
	if err != nil {
		return nil, err
	}

	yield := in.Yield
	if yield < 0 {
		return nil, apperrors.NewValidationError("yield must not be negative")
	}
	if yield == 0 {
		// Volumes and masses are summed as if 1 ml weighed 1 g.
		yield = metricYield / f.BaseUnit.ToMetric(1)
	}

	f.ID = id
	f.IsRecipe = true
	f.Nutrients = nutrition.Aggregate(entries).PerUnit(yield)
	if err := s.store.Foods.SaveRecipe(ctx, f, ingredients); err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	s.log.Info("Saved recipe", "food_id", f.ID, "ingredients", len(ingredients), "yield", yield)
	return f, nil
}

func (s *FoodService) Ingredients(ctx context.Context, recipeID string) ([]domain.RecipeIngredient, error) {
	ings, err := s.store.Foods.Ingredients(ctx, recipeID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return ings, nil
}

// AddFavorite marks a food as favorite with the serving to suggest for it.
func (s *FoodService) AddFavorite(ctx context.Context, foodID, servingLabel string, quantity float64) (*domain.Favorite, error) {
	f, err := s.Get(ctx, foodID)
	if err != nil {
		return nil, err
	}
	if quantity <= 0 {
		quantity = 1
	}
	serving, ok := f.FindServing(servingLabel)
	if !ok {
		return nil, apperrors.NewValidationError("unknown serving " + servingLabel)
	}
	fav := &domain.Favorite{FoodID: f.ID, ServingLabel: serving.Label, ServingQuantity: quantity, Food: f}
	if err := s.store.Favorites.Put(ctx, fav); err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return fav, nil
}

func (s *FoodService) RemoveFavorite(ctx context.Context, foodID string) error {
	err := s.store.Favorites.Remove(ctx, foodID)
	if repository.IsNotFound(err) {
		return apperrors.NewNotFoundError("favorite", foodID)
	}
	if err != nil {
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

// Favorites lists favorites whose food is still available.
func (s *FoodService) Favorites(ctx context.Context) ([]domain.Favorite, error) {
	favs, err := s.store.Favorites.List(ctx)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	out := favs[:0]
	for _, f := range favs {
		if f.Food != nil && !f.Food.IsDeleted {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *FoodService) Recent(ctx context.Context, limit int) ([]domain.FoodUsage, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	usages, err := s.store.Usage.Recent(ctx, limit)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return usages, nil
}

func (s *FoodService) Frequent(ctx context.Context, limit int) ([]domain.FoodUsage, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	usages, err := s.store.Usage.Frequent(ctx, limit)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return usages, nil
}

func (in FoodInput) toFood() (*domain.Food, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("food name is required")
	}
	unit := in.BaseUnit
	if unit == "" {
		unit = nutrition.Gram
	}
	if !unit.Valid() {
		return nil, apperrors.NewValidationError("unknown base unit " + string(in.BaseUnit))
	}

	nutrients := make(nutrition.Values, len(in.Nutrients))
	for n, v := range in.Nutrients {
		if !n.Valid() {
			return nil, apperrors.NewValidationError("unknown nutrient " + string(n))
		}
		if v < 0 {
			return nil, apperrors.NewValidationError("nutrient " + string(n) + " must not be negative")
		}
		nutrients[n] = v
	}

	f := &domain.Food{
		Name:      name,
		Producer:  in.Producer,
		IsCustom:  true,
		BaseUnit:  unit,
		Nutrients: nutrients,
	}
	for _, sv := range in.Servings {
		label := strings.TrimSpace(sv.Label)
		if label == "" || sv.Amount <= 0 {
			return nil, apperrors.NewValidationError("servings need a label and a positive amount")
		}
		if _, err := nutrition.ParseBaseUnit(label); err == nil {
			return nil, apperrors.NewValidationError("serving label " + label + " names a unit")
		}
		if _, dup := f.FindServing(label); dup {
			return nil, apperrors.NewConflictError("duplicate serving " + label)
		}
		f.Servings = append(f.Servings, domain.Serving{Label: label, Amount: sv.Amount})
	}
	return f, nil
}
