package dcf

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestParsePercent(t *testing.T) {
	testCases := []struct {
		in   string
		want float64
	}{
		{in: "12", want: 0.12},
		{in: " 4.5 ", want: 0.045},
		{in: "10%", want: 0.10},
		{in: "-3", want: -0.03},
		{in: "", want: math.NaN()},
		{in: "abc", want: math.NaN()},
		{in: "Inf", want: math.NaN()},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got := ParsePercent(tc.in)
			if math.IsNaN(tc.want) {
				if !math.IsNaN(got) {
					t.Errorf("ParsePercent(%q) = %v, want NaN", tc.in, got)
				}
				return
			}
			if got != tc.want {
				t.Errorf("ParsePercent(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	if got := ParseAmount("", 7); got != 7 {
		t.Errorf("ParseAmount(\"\", 7) = %v, want 7", got)
	}
	if got := ParseAmount("1,234_5.5", 0); got != 12345.5 {
		t.Errorf("ParseAmount() = %v, want 12345.5", got)
	}
	if got := ParseAmount("twelve", 0); !math.IsNaN(got) {
		t.Errorf("ParseAmount(\"twelve\") = %v, want NaN", got)
	}
}

func TestInput_Assumptions(t *testing.T) {
	freezeClock(t, 2030)

	a := Example.Assumptions()
	if a.Company != "GOOGL" || a.Revenue != 371399 || a.FCFYear0 != 74881 {
		t.Errorf("unexpected amounts: %+v", a)
	}
	if a.GrowthFCF1to5 != 0.15 || a.GrowthRev1to5 != 0.12 || a.TerminalGrowth != 0.04 || a.RequiredReturn != 0.10 {
		t.Errorf("unexpected rates: %+v", a)
	}
	if !math.IsNaN(a.DiscountRate) {
		t.Errorf("DiscountRate = %v, want NaN for an empty wacc", a.DiscountRate)
	}

	empty := Input{}.Assumptions()
	if empty.Cash != 0 || empty.Debt != 0 || empty.SharesOutstanding != 0 || empty.MarketPrice != 0 || empty.StartYear != 0 {
		t.Errorf("optional fields should default to 0: %+v", empty)
	}
	if !math.IsNaN(empty.Revenue) || !math.IsNaN(empty.FCFYear0) {
		t.Errorf("required amounts should be NaN when empty: %+v", empty)
	}

	_, err := Input{}.Compute()
	var missing *MissingInputError
	if !errors.As(err, &missing) {
		t.Fatalf("Compute() on an empty form: error = %v, want *MissingInputError", err)
	}
	if len(missing.Fields) != len(requiredFields) {
		t.Errorf("Fields = %v, want all of %v", missing.Fields, requiredFields)
	}
}

func TestInput_ComputeMatchesAssumptions(t *testing.T) {
	v1, err := Example.Compute()
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}
	v2, err := Compute(example())
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}
	if !v1.Equal(v2) {
		t.Errorf("form and assumptions give different valuations")
	}
}

func TestInput_StartYear(t *testing.T) {
	testCases := []struct {
		in   Field
		want int
	}{
		{in: "2024", want: 2024},
		{in: "1900", want: 0},
		{in: "", want: 0},
		{in: "soon", want: 0},
	}
	for _, tc := range testCases {
		if got := (Input{StartYear: tc.in}).Assumptions().StartYear; got != tc.want {
			t.Errorf("StartYear(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestInput_GrowthFieldsAreIndependent(t *testing.T) {
	in := Example
	in.GrowthFCF1to5 = ""
	_, err := in.Compute()
	var missing *MissingInputError
	if !errors.As(err, &missing) || missing.Fields[0] != "growthFcf1to5" {
		t.Errorf("an empty FCF growth must not be filled from the revenue growth, got %v", err)
	}
}

func TestInput_MergeAndSet(t *testing.T) {
	var override Input
	if err := override.Set("marketPrice", "300"); err != nil {
		t.Fatal(err)
	}
	if err := override.Set("company", "Alphabet"); err != nil {
		t.Fatal(err)
	}
	if err := override.Set("bogus", "1"); err == nil {
		t.Errorf("Set(bogus) should fail")
	}

	got := Example.Merge(override)
	if got.MarketPrice != "300" || got.Company != "Alphabet" {
		t.Errorf("Merge() did not override: %+v", got)
	}
	if got.Revenue != Example.Revenue {
		t.Errorf("Merge() dropped revenue: %+v", got)
	}
}

func TestField_UnmarshalJSON(t *testing.T) {
	var in Input
	doc := `{"company":"ACME","revenue":1000,"g15":"12","marketPrice":null,"cash":1e3}`
	if err := json.Unmarshal([]byte(doc), &in); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}
	if in.Company != "ACME" || in.Revenue != "1000" || in.GrowthFCF1to5 != "12" || in.MarketPrice != "" || in.Cash != "1e3" {
		t.Errorf("unexpected input: %+v", in)
	}
	if err := json.Unmarshal([]byte(`{"revenue":true}`), &in); err == nil {
		t.Errorf("a boolean field should be rejected")
	}
}
