package nutrition

// Nutrient identifies a tracked nutrient by its catalog key. Keys follow the
// dotted naming of the remote food catalog ("nutrient.protein", "mineral.zinc").
type Nutrient string

// Unit is the unit a nutrient is displayed in.
type Unit string

const (
	UnitKcal      Unit = "kcal"
	UnitGram      Unit = "g"
	UnitMilligram Unit = "mg"
	UnitMicrogram Unit = "µg"
)

// Group classifies nutrients for display.
type Group string

const (
	GroupEnergy  Group = "energy"
	GroupMacro   Group = "macro"
	GroupMineral Group = "mineral"
	GroupVitamin Group = "vitamin"
)

const (
	Energy             Nutrient = "energy"
	Protein            Nutrient = "nutrient.protein"
	Carbohydrate       Nutrient = "nutrient.carbohydrate"
	Sugar              Nutrient = "nutrient.sugar"
	Fiber              Nutrient = "nutrient.fiber"
	Fat                Nutrient = "nutrient.fat"
	SaturatedFat       Nutrient = "nutrient.saturated_fat"
	MonounsaturatedFat Nutrient = "nutrient.monounsaturated_fat"
	PolyunsaturatedFat Nutrient = "nutrient.polyunsaturated_fat"
	TransFat           Nutrient = "nutrient.trans_fat"
	Cholesterol        Nutrient = "nutrient.cholesterol"
	Sodium             Nutrient = "mineral.sodium"
	Potassium          Nutrient = "mineral.potassium"
	Calcium            Nutrient = "mineral.calcium"
	Iron               Nutrient = "mineral.iron"
	Magnesium          Nutrient = "mineral.magnesium"
	Zinc               Nutrient = "mineral.zinc"
	VitaminA           Nutrient = "vitamin.a"
	VitaminB6          Nutrient = "vitamin.b6"
	VitaminB12         Nutrient = "vitamin.b12"
	VitaminC           Nutrient = "vitamin.c"
	VitaminD           Nutrient = "vitamin.d"
	VitaminE           Nutrient = "vitamin.e"
	VitaminK           Nutrient = "vitamin.k"
)

// Info describes one catalog nutrient.
type Info struct {
	Key   Nutrient
	Label string
	Unit  Unit
	Group Group
}

var catalog = []Info{
	{Energy, "Energy", UnitKcal, GroupEnergy},
	{Protein, "Protein", UnitGram, GroupMacro},
	{Carbohydrate, "Carbohydrates", UnitGram, GroupMacro},
	{Sugar, "Sugar", UnitGram, GroupMacro},
	{Fiber, "Fiber", UnitGram, GroupMacro},
	{Fat, "Fat", UnitGram, GroupMacro},
	{SaturatedFat, "Saturated fat", UnitGram, GroupMacro},
	{MonounsaturatedFat, "Monounsaturated fat", UnitGram, GroupMacro},
	{PolyunsaturatedFat, "Polyunsaturated fat", UnitGram, GroupMacro},
	{TransFat, "Trans fat", UnitGram, GroupMacro},
	{Cholesterol, "Cholesterol", UnitMilligram, GroupMacro},
	{Sodium, "Sodium", UnitMilligram, GroupMineral},
	{Potassium, "Potassium", UnitMilligram, GroupMineral},
	{Calcium, "Calcium", UnitMilligram, GroupMineral},
	{Iron, "Iron", UnitMilligram, GroupMineral},
	{Magnesium, "Magnesium", UnitMilligram, GroupMineral},
	{Zinc, "Zinc", UnitMilligram, GroupMineral},
	{VitaminA, "Vitamin A", UnitMicrogram, GroupVitamin},
	{VitaminB6, "Vitamin B6", UnitMilligram, GroupVitamin},
	{VitaminB12, "Vitamin B12", UnitMicrogram, GroupVitamin},
	{VitaminC, "Vitamin C", UnitMilligram, GroupVitamin},
	{VitaminD, "Vitamin D", UnitMicrogram, GroupVitamin},
	{VitaminE, "Vitamin E", UnitMilligram, GroupVitamin},
	{VitaminK, "Vitamin K", UnitMicrogram, GroupVitamin},
}

var catalogIndex = func() map[Nutrient]Info {
	idx := make(map[Nutrient]Info, len(catalog))
	for _, info := range catalog {
		idx[info.Key] = info
	}
	return idx
}()

// Catalog returns every tracked nutrient in display order.
func Catalog() []Info {
	out := make([]Info, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the catalog entry for n.
func Lookup(n Nutrient) (Info, bool) {
	info, ok := catalogIndex[n]
	return info, ok
}

// Valid reports whether n is a catalog nutrient.
func (n Nutrient) Valid() bool {
	_, ok := catalogIndex[n]
	return ok
}

// Macros are the nutrients shown on the daily summary and used for goals.
func Macros() []Nutrient {
	return []Nutrient{Energy, Protein, Carbohydrate, Fat}
}

// InGroup returns the nutrients of group g in display order.
func InGroup(g Group) []Nutrient {
	var out []Nutrient
	for _, info := range catalog {
		if info.Group == g {
			out = append(out, info.Key)
		}
	}
	return out
}

// Values holds nutrient amounts in storage units (kcal for energy, grams for
// everything else). A missing key means the value is unknown, which is not
// the same as a recorded zero.
type Values map[Nutrient]float64

// Clone returns a copy of v restricted to catalog nutrients.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		if k.Valid() {
			out[k] = val
		}
	}
	return out
}

// ToDisplay converts a value in storage units into the nutrient's display unit.
func ToDisplay(n Nutrient, stored float64) float64 {
	info, ok := Lookup(n)
	if !ok {
		return stored
	}
	switch info.Unit {
	case UnitMilligram:
		return stored * 1_000
	case UnitMicrogram:
		return stored * 1_000_000
	default:
		return stored
	}
}

// FromDisplay is the inverse of ToDisplay.
func FromDisplay(n Nutrient, display float64) float64 {
	info, ok := Lookup(n)
	if !ok {
		return display
	}
	switch info.Unit {
	case UnitMilligram:
		return display / 1_000
	case UnitMicrogram:
		return display / 1_000_000
	default:
		return display
	}
}
