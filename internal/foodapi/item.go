package foodapi

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/vladimiradmaev/calorie-tracker/internal/domain"
	"github.com/vladimiradmaev/calorie-tracker/internal/nutrition"
)

// item is a catalog entry after lenient decoding. Nutrient values are per
// one base unit, in grams (kcal for energy).
type item struct {
	score           float64
	name            string
	productID       string
	serving         string
	servingQuantity float64
	amount          float64
	baseUnit        nutrition.BaseUnit
	producer        *string
	isVerified      bool
	nutrients       nutrition.Values
	countries       []string
	language        string
	servings        []domain.Serving
}

var (
	errNotObject   = errors.New("item is not a JSON object")
	errNoProductID = errors.New("item has no product_id")
	errNoName      = errors.New("item has no name")
)

// decodeItem reads one catalog entry. Only product_id and name are
// required; every other field falls back to a default when missing or
// malformed.
func decodeItem(raw json.RawMessage) (item, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return item{}, errNotObject
	}

	it := item{
		servingQuantity: 1,
		amount:          1,
		baseUnit:        nutrition.Gram,
		nutrients:       nutrition.Values{},
	}

	if id, ok := asString(fields["product_id"]); ok && id != "" {
		it.productID = id
	} else if n, ok := asNumber(fields["product_id"]); ok {
		it.productID = strconv.FormatFloat(n, 'f', -1, 64)
	} else {
		return item{}, errNoProductID
	}
	if name, ok := asString(fields["name"]); ok && name != "" {
		it.name = name
	} else {
		return item{}, errNoName
	}

	if v, ok := asNumber(fields["score"]); ok {
		it.score = v
	}
	if v, ok := asString(fields["serving"]); ok {
		it.serving = v
	}
	if v, ok := asNumber(fields["serving_quantity"]); ok && v > 0 {
		it.servingQuantity = v
	}
	if v, ok := asNumber(fields["amount"]); ok && v > 0 {
		it.amount = v
	}
	if v, ok := asString(fields["base_unit"]); ok {
		if u, err := nutrition.ParseBaseUnit(v); err == nil {
			it.baseUnit = u
		}
	}
	if v, ok := asString(fields["producer"]); ok && v != "" {
		it.producer = &v
	}
	if v, ok := asBool(fields["is_verified"]); ok {
		it.isVerified = v
	}
	if v, ok := asString(fields["language"]); ok {
		it.language = v
	}

	var countries []json.RawMessage
	if json.Unmarshal(fields["countries"], &countries) == nil {
		for _, c := range countries {
			if s, ok := asString(c); ok && s != "" {
				it.countries = append(it.countries, s)
			}
		}
	}

	var nutrients map[string]json.RawMessage
	if json.Unmarshal(fields["nutrients"], &nutrients) == nil {
		for key, raw := range nutrients {
			n := nutrition.Nutrient(key)
			if !n.Valid() {
				continue
			}
			if v, ok := asNumber(raw); ok && v >= 0 {
				it.nutrients[n] = v
			}
		}
	}

	var servings []map[string]json.RawMessage
	if json.Unmarshal(fields["servings"], &servings) == nil {
		for _, s := range servings {
			label, _ := asString(s["serving"])
			amount, ok := asNumber(s["amount"])
			if label == "" || !ok || amount <= 0 || isUnitLabel(label) {
				continue
			}
			it.servings = append(it.servings, domain.Serving{Label: label, Amount: amount})
		}
	}

	return it, nil
}

func isUnitLabel(label string) bool {
	_, err := nutrition.ParseBaseUnit(label)
	return err == nil
}

// suggested is the item's own serving. A serving named after a unit
// collapses to the base serving with the quantity scaled to match.
func (it item) suggested() (domain.Serving, float64) {
	if it.serving == "" || isUnitLabel(it.serving) {
		return domain.Serving{Amount: 1}, it.servingQuantity * it.amount
	}
	return domain.Serving{Label: it.serving, Amount: it.amount}, it.servingQuantity
}

func (it item) food() *domain.Food {
	f := &domain.Food{
		ID:         it.productID,
		Name:       it.name,
		Producer:   it.producer,
		IsVerified: it.isVerified,
		BaseUnit:   it.baseUnit,
		Nutrients:  it.nutrients,
		Countries:  it.countries,
		Language:   it.language,
	}

	serving, _ := it.suggested()
	if serving.Label != "" {
		f.Servings = append(f.Servings, serving)
	}
	for _, s := range it.servings {
		if _, dup := f.FindServing(s.Label); dup {
			continue
		}
		f.Servings = append(f.Servings, s)
	}
	return f
}

func (it item) hit() Hit {
	serving, quantity := it.suggested()
	return Hit{
		Score:           it.score,
		Food:            it.food(),
		Serving:         serving,
		ServingQuantity: quantity,
	}
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func asString(raw json.RawMessage) (string, bool) {
	var s string
	if isAbsent(raw) || json.Unmarshal(raw, &s) != nil {
		return "", false
	}
	return strings.TrimSpace(s), true
}

// asNumber accepts JSON numbers and numeric strings.
func asNumber(raw json.RawMessage) (float64, bool) {
	if isAbsent(raw) {
		return 0, false
	}
	var f float64
	if json.Unmarshal(raw, &f) == nil {
		return f, true
	}
	if s, ok := asString(raw); ok {
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f, true
		}
	}
	return 0, false
}

func asBool(raw json.RawMessage) (bool, bool) {
	var b bool
	if isAbsent(raw) || json.Unmarshal(raw, &b) != nil {
		return false, false
	}
	return b, true
}
