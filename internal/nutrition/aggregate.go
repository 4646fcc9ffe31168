package nutrition

// LoggedFoodAmount pairs a food's per-base-unit nutrient values with the
// consumed quantity, already resolved to base units
// (serving amount * serving quantity).
type LoggedFoodAmount struct {
	Nutrients Values
	Quantity  float64
}

// Total is the aggregated amount of one nutrient in storage units.
// Reported is false when no aggregated entry carried a value for the nutrient.
type Total struct {
	Amount   float64 `json:"amount"`
	Reported bool    `json:"reported"`
}

// Totals maps every catalog nutrient to its aggregated total.
type Totals map[Nutrient]Total

// NewTotals returns all-zero, unreported totals for every catalog nutrient.
func NewTotals() Totals {
	t := make(Totals, len(catalog))
	for _, info := range catalog {
		t[info.Key] = Total{}
	}
	return t
}

// Aggregate sums the consumed amount of every catalog nutrient across entries.
// Missing nutrient values contribute nothing. Amounts stay in storage units;
// conversion to display units happens once, through Display.
func Aggregate(entries []LoggedFoodAmount) Totals {
	totals := NewTotals()
	for _, e := range entries {
		for _, info := range catalog {
			v, ok := e.Nutrients[info.Key]
			if !ok {
				continue
			}
			t := totals[info.Key]
			t.Amount += v * e.Quantity
			t.Reported = true
			totals[info.Key] = t
		}
	}
	return totals
}

// Amount returns the total of n in storage units.
func (t Totals) Amount(n Nutrient) float64 {
	return t[n].Amount
}

// Display returns the total of n converted to its display unit.
func (t Totals) Display(n Nutrient) float64 {
	return ToDisplay(n, t[n].Amount)
}

// Format renders the total of n in its display unit, or "-" when no entry
// reported a value for it.
func (t Totals) Format(n Nutrient) string {
	total, ok := t[n]
	if !ok || !total.Reported {
		return "-"
	}
	return FormatNumber(ToDisplay(n, total.Amount))
}

// FormatWithUnit is Format followed by the display unit, e.g. "600 mg".
// Unknown totals render as a bare "-".
func (t Totals) FormatWithUnit(n Nutrient) string {
	v := t.Format(n)
	if v == "-" {
		return v
	}
	info, ok := Lookup(n)
	if !ok {
		return v
	}
	return v + " " + string(info.Unit)
}

// Add returns the element-wise sum of t and other.
func (t Totals) Add(other Totals) Totals {
	out := NewTotals()
	for k := range out {
		a, b := t[k], other[k]
		out[k] = Total{Amount: a.Amount + b.Amount, Reported: a.Reported || b.Reported}
	}
	return out
}

// PerUnit divides every total by quantity, turning totals for a whole batch
// into values per one base unit. A non-positive quantity yields nil.
func (t Totals) PerUnit(quantity float64) Values {
	if quantity <= 0 {
		return nil
	}
	out := make(Values, len(t))
	for k, total := range t {
		if total.Reported {
			out[k] = total.Amount / quantity
		}
	}
	return out
}

// Progress returns consumed as a percentage of goal. A goal of zero or less
// has no meaningful progress and yields 0.
func Progress(goal, consumed float64) float64 {
	if goal <= 0 {
		return 0
	}
	return consumed / goal * 100
}
