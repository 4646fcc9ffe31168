package nutrition

import (
	"fmt"
	"strings"
)

// BaseUnit is the unit a food's nutrient values and servings are expressed in.
type BaseUnit string

const (
	Gram       BaseUnit = "g"
	Milliliter BaseUnit = "ml"
	Ounce      BaseUnit = "oz"
	FluidOunce BaseUnit = "fl_oz"
)

type unitKind int

const (
	kindMass unitKind = iota
	kindVolume
)

type baseUnitDef struct {
	name     string
	symbol   string
	kind     unitKind
	toMetric float64
}

var baseUnits = map[BaseUnit]baseUnitDef{
	Gram:       {name: "gram", symbol: "g", kind: kindMass, toMetric: 1},
	Milliliter: {name: "milliliter", symbol: "ml", kind: kindVolume, toMetric: 1},
	Ounce:      {name: "ounce", symbol: "oz", kind: kindMass, toMetric: 28.349523125},
	FluidOunce: {name: "fluid ounce", symbol: "fl oz", kind: kindVolume, toMetric: 29.5735295625},
}

var baseUnitAliases = map[string]BaseUnit{
	"g": Gram, "gram": Gram, "grams": Gram, "gr": Gram,
	"ml": Milliliter, "milliliter": Milliliter, "milliliters": Milliliter, "millilitre": Milliliter,
	"oz": Ounce, "ounce": Ounce, "ounces": Ounce,
	"fl_oz": FluidOunce, "fl oz": FluidOunce, "fl-oz": FluidOunce, "floz": FluidOunce,
	"fluid ounce": FluidOunce, "fluid ounces": FluidOunce, "fluid_ounce": FluidOunce,
}

// ParseBaseUnit resolves a unit name, symbol or alias to a BaseUnit.
func ParseBaseUnit(s string) (BaseUnit, error) {
	u, ok := baseUnitAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unsupported base unit %q", s)
	}
	return u, nil
}

func (u BaseUnit) Valid() bool {
	_, ok := baseUnits[u]
	return ok
}

// Symbol is the short form used after amounts ("150 g").
func (u BaseUnit) Symbol() string {
	if def, ok := baseUnits[u]; ok {
		return def.symbol
	}
	return string(u)
}

// Name is the singular long form ("gram").
func (u BaseUnit) Name() string {
	if def, ok := baseUnits[u]; ok {
		return def.name
	}
	return string(u)
}

// IsVolume reports whether u measures volume rather than mass.
func (u BaseUnit) IsVolume() bool {
	return baseUnits[u].kind == kindVolume
}

// ToMetric converts amount in u into grams (mass units) or milliliters
// (volume units).
func (u BaseUnit) ToMetric(amount float64) float64 {
	def, ok := baseUnits[u]
	if !ok {
		return amount
	}
	return amount * def.toMetric
}

// isUnitLabel reports whether a serving label just names a base unit, in which
// case the serving carries no information beyond its amount.
func isUnitLabel(label string) bool {
	if strings.TrimSpace(label) == "" {
		return true
	}
	_, err := ParseBaseUnit(label)
	return err == nil
}
