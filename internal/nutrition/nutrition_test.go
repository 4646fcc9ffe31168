package nutrition

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAggregateEmpty(t *testing.T) {
	totals := Aggregate(nil)
	for _, info := range Catalog() {
		total, ok := totals[info.Key]
		if !ok {
			t.Fatalf("missing total for %s", info.Key)
		}
		if total.Amount != 0 || total.Reported {
			t.Errorf("%s = %+v, want zero", info.Key, total)
		}
	}
}

func TestAggregateSingleEntry(t *testing.T) {
	totals := Aggregate([]LoggedFoodAmount{{
		Nutrients: Values{Protein: 0.2, Sodium: 0.004, VitaminA: 0.000002},
		Quantity:  150,
	}})

	if got := totals.Amount(Protein); !almostEqual(got, 30) {
		t.Errorf("protein = %v, want 30", got)
	}
	if got := totals.Amount(Sodium); !almostEqual(got, 0.6) {
		t.Errorf("sodium storage = %v, want 0.6", got)
	}
	if got := totals.Display(Sodium); !almostEqual(got, 600) {
		t.Errorf("sodium display = %v, want 600 mg", got)
	}
	if got := totals.Display(VitaminA); !almostEqual(got, 300) {
		t.Errorf("vitamin A display = %v, want 300 µg", got)
	}
}

func TestFormatWithUnit(t *testing.T) {
	totals := Aggregate([]LoggedFoodAmount{{
		Nutrients: Values{Energy: 1, Sodium: 0.004, VitaminA: 0.000002},
		Quantity:  150,
	}})
	tests := []struct {
		n    Nutrient
		want string
	}{
		{Energy, "150 kcal"},
		{Sodium, "600 mg"},
		{VitaminA, "300 µg"},
		{Protein, "-"},
	}
	for _, tt := range tests {
		if got := totals.FormatWithUnit(tt.n); got != tt.want {
			t.Errorf("FormatWithUnit(%s) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestInGroup(t *testing.T) {
	minerals := InGroup(GroupMineral)
	if len(minerals) == 0 || minerals[0] != Sodium {
		t.Errorf("minerals = %v", minerals)
	}
	for _, n := range InGroup(GroupVitamin) {
		if info, _ := Lookup(n); info.Group != GroupVitamin {
			t.Errorf("%s is not a vitamin", n)
		}
	}
}

func TestAggregateSumsAndTreatsMissingAsZero(t *testing.T) {
	entries := []LoggedFoodAmount{
		{Nutrients: Values{Energy: 2.5, Fat: 0.1}, Quantity: 100},
		{Nutrients: Values{Energy: 1}, Quantity: 40},
		{Nutrients: Values{}, Quantity: 1000},
	}
	totals := Aggregate(entries)

	if got := totals.Amount(Energy); !almostEqual(got, 290) {
		t.Errorf("energy = %v, want 290", got)
	}
	if got := totals.Amount(Fat); !almostEqual(got, 10) {
		t.Errorf("fat = %v, want 10", got)
	}
	if totals[Protein].Reported {
		t.Error("protein should be unreported")
	}
	if got := totals.Format(Protein); got != "-" {
		t.Errorf("Format(protein) = %q, want \"-\"", got)
	}
}

func TestAggregateReportedZero(t *testing.T) {
	totals := Aggregate([]LoggedFoodAmount{{Nutrients: Values{Sugar: 0}, Quantity: 50}})
	if got := totals.Format(Sugar); got != "0" {
		t.Errorf("Format(sugar) = %q, want \"0\"", got)
	}
}

func TestAggregateAcceptsNegativeQuantity(t *testing.T) {
	totals := Aggregate([]LoggedFoodAmount{{Nutrients: Values{Protein: 1}, Quantity: -5}})
	if got := totals.Amount(Protein); got != -5 {
		t.Errorf("protein = %v, want -5", got)
	}
}

func TestTotalsAddAndPerUnit(t *testing.T) {
	a := Aggregate([]LoggedFoodAmount{{Nutrients: Values{Protein: 0.1}, Quantity: 100}})
	b := Aggregate([]LoggedFoodAmount{{Nutrients: Values{Protein: 0.3, Fat: 0.5}, Quantity: 100}})
	sum := a.Add(b)
	if got := sum.Amount(Protein); !almostEqual(got, 40) {
		t.Errorf("protein = %v, want 40", got)
	}

	per := sum.PerUnit(200)
	if !almostEqual(per[Protein], 0.2) || !almostEqual(per[Fat], 0.25) {
		t.Errorf("PerUnit = %v", per)
	}
	if _, ok := per[Sugar]; ok {
		t.Error("unreported nutrient should stay absent")
	}
	if sum.PerUnit(0) != nil {
		t.Error("PerUnit(0) should be nil")
	}
}

func TestProgress(t *testing.T) {
	if got := Progress(2000, 500); got != 25 {
		t.Errorf("Progress = %v, want 25", got)
	}
	if got := Progress(0, 500); got != 0 {
		t.Errorf("Progress with no goal = %v, want 0", got)
	}
}

func TestFormatServing(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		quantity float64
		amount   float64
		unit     BaseUnit
		want     string
	}{
		{name: "base unit label", label: "gram", quantity: 150, amount: 150, unit: Gram, want: "150 g"},
		{name: "no label", label: "", quantity: 1, amount: 200, unit: Milliliter, want: "200 ml"},
		{name: "single serving", label: "slice", quantity: 1, amount: 30, unit: Gram, want: "1 slice (30 g)"},
		{name: "plural serving", label: "slice", quantity: 2, amount: 60, unit: Gram, want: "2 slices (60 g)"},
		{name: "fractional", label: "cup", quantity: 0.5, amount: 4.2, unit: FluidOunce, want: "0.5 cup (4.2 fl oz)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatServing(tt.label, tt.quantity, tt.amount, tt.unit); got != tt.want {
				t.Errorf("FormatServing() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseBaseUnit(t *testing.T) {
	tests := map[string]BaseUnit{
		"g":           Gram,
		"Grams":       Gram,
		"ml":          Milliliter,
		"oz":          Ounce,
		"fl oz":       FluidOunce,
		"fluid ounce": FluidOunce,
	}
	for in, want := range tests {
		got, err := ParseBaseUnit(in)
		if err != nil || got != want {
			t.Errorf("ParseBaseUnit(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseBaseUnit("bushel"); err == nil {
		t.Error("expected error for unknown unit")
	}
	if got := Ounce.ToMetric(2); !almostEqual(got, 56.69904625) {
		t.Errorf("Ounce.ToMetric(2) = %v", got)
	}
}

func TestDisplayRoundTrip(t *testing.T) {
	for _, n := range []Nutrient{Energy, Protein, Sodium, VitaminD} {
		if got := FromDisplay(n, ToDisplay(n, 0.0125)); !almostEqual(got, 0.0125) {
			t.Errorf("%s round trip = %v", n, got)
		}
	}
}
