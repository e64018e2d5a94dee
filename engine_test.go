package dcf

import (
	"errors"
	"math"
	"testing"
)

func TestCompute_WorkedExample(t *testing.T) {
	v, err := Compute(example())
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}

	assertClose(t, "margin[0]", v.Rows[0].FCFMargin, 74881.0/371399.0)
	assertClose(t, "revenue[1]", v.Rows[1].Revenue, 415966.88)
	assertClose(t, "fcf[1]", v.Rows[1].FCF, 74881*1.15)
	// margin and revenue compound so that fcf grows at the FCF growth rate.
	assertClose(t, "fcf[10]", v.Rows[10].FCF, 74881*math.Pow(1.15, 10))
	assertClose(t, "discountRate", v.DiscountRate, 0.10)
	assertClose(t, "terminalValue", v.TerminalValue, v.Rows[10].FCF*1.04/0.06)
	assertClose(t, "terminalPresentValue", v.TerminalPresentValue, v.TerminalValue/math.Pow(1.1, 10))
	assertClose(t, "enterpriseValue", v.EnterpriseValue, 2988457.131185728)
	assertClose(t, "equityValue", v.EquityValue, v.EnterpriseValue+95148-41668)
	assertClose(t, "fairValuePerShare", v.FairValuePerShare, v.EquityValue/12198)
	assertClose(t, "marginOfSafety", v.MarginOfSafety, (v.FairValuePerShare-235)/235)

	if v.Recommendation != Buy {
		t.Errorf("Recommendation = %q, want %q (fair value %v vs 235)", v.Recommendation, Buy, v.FairValuePerShare)
	}
}

func TestCompute_Rows(t *testing.T) {
	v, err := Compute(example())
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}
	if got := len(v.Rows); got != 11 {
		t.Fatalf("len(Rows) = %d, want 11", got)
	}
	for i, r := range v.Rows {
		if want := 2024 + i; r.Year != want {
			t.Errorf("Rows[%d].Year = %d, want %d", i, r.Year, want)
		}
	}

	base := v.Rows[0]
	if base.DiscountFactor != 1 || base.PresentValue != 0 || base.FCF != 74881 {
		t.Errorf("base row = %+v, want df 1, pv 0 and fcf 74881", base)
	}

	for year := 1; year <= Horizon; year++ {
		r := v.Rows[year]
		assertClose(t, "revenue", r.Revenue, 371399*math.Pow(1.12, float64(year)))
		assertClose(t, "discountFactor", r.DiscountFactor, math.Pow(1.1, -float64(year)))
		assertClose(t, "presentValue", r.PresentValue, r.FCF*r.DiscountFactor)
		assertClose(t, "fcf", r.FCF, r.FCFMargin*r.Revenue)
	}

	// EV equals the present value of years 1..9 plus the last year received with the terminal value.
	want := 0.0
	for _, r := range v.Rows[1:Horizon] {
		want += r.PresentValue
	}
	want += (v.Last().FCF + v.TerminalValue) * v.Last().DiscountFactor
	assertClose(t, "enterpriseValue", v.EnterpriseValue, want)
	assertClose(t, "enterpriseValue", v.EnterpriseValue, v.SumOfPresentValues()+v.TerminalPresentValue)
}

func TestCompute_GrowthBands(t *testing.T) {
	a := example()
	a.GrowthRev1to5 = 0.20
	a.GrowthRev6to10 = 0.05
	a.GrowthFCF1to5 = 0.10
	a.GrowthFCF6to10 = 0.02

	v, err := Compute(a)
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}
	wantRevenue := a.Revenue
	wantMargin := a.FCFYear0 / a.Revenue
	for year := 1; year <= Horizon; year++ {
		gRev, gFcf := 0.20, 0.10
		if year > 5 {
			gRev, gFcf = 0.05, 0.02
		}
		wantRevenue *= 1 + gRev
		wantMargin = wantMargin * (1 + gFcf) / (1 + gRev)
		assertClose(t, "revenue", v.Rows[year].Revenue, wantRevenue)
		assertClose(t, "margin", v.Rows[year].FCFMargin, wantMargin)
	}
}

func TestCompute_MissingRevenueGrowthIsZero(t *testing.T) {
	a := example()
	a.GrowthRev1to5 = Unset
	a.GrowthRev6to10 = math.Inf(1)

	v, err := Compute(a)
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}
	for _, r := range v.Rows {
		assertClose(t, "revenue", r.Revenue, a.Revenue)
	}
	assertClose(t, "margin[10]", v.Rows[10].FCFMargin, a.FCFYear0/a.Revenue*math.Pow(1.15, 10))
}

func TestCompute_DiscountRateResolution(t *testing.T) {
	testCases := []struct {
		name     string
		wacc     float64
		required float64
		want     float64
	}{
		{name: "explicit discount rate wins", wacc: 0.08, required: 0.12, want: 0.08},
		{name: "required return fallback", wacc: Unset, required: 0.12, want: 0.12},
		{name: "default", wacc: Unset, required: Unset, want: DefaultDiscountRate},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := example()
			a.DiscountRate, a.RequiredReturn = tc.wacc, tc.required
			v, err := Compute(a)
			if err != nil {
				t.Fatalf("Compute() failed: %v", err)
			}
			if v.DiscountRate != tc.want {
				t.Errorf("DiscountRate = %v, want %v", v.DiscountRate, tc.want)
			}
		})
	}
}

func TestCompute_StartYear(t *testing.T) {
	freezeClock(t, 2031)

	testCases := []struct {
		name      string
		startYear int
		want      int
	}{
		{name: "supplied", startYear: 2024, want: 2024},
		{name: "absent", startYear: 0, want: 2031},
		{name: "too old", startYear: 1900, want: 2031},
		{name: "just valid", startYear: 1901, want: 1901},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := example()
			a.StartYear = tc.startYear
			v, err := Compute(a)
			if err != nil {
				t.Fatalf("Compute() failed: %v", err)
			}
			if v.StartYear != tc.want || v.Rows[0].Year != tc.want || v.Rows[10].Year != tc.want+10 {
				t.Errorf("years = %d..%d, want %d..%d", v.Rows[0].Year, v.Rows[10].Year, tc.want, tc.want+10)
			}
		})
	}
}

func TestCompute_MissingInput(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(*Assumptions)
		want   []string
	}{
		{name: "revenue", modify: func(a *Assumptions) { a.Revenue = Unset }, want: []string{"revenue"}},
		{name: "zero revenue", modify: func(a *Assumptions) { a.Revenue = 0 }, want: []string{"revenue"}},
		{name: "fcf margin", modify: func(a *Assumptions) { a.FCFMargin = Unset }, want: []string{"fcfMargin"}},
		{name: "fcf year 0", modify: func(a *Assumptions) { a.FCFYear0 = math.Inf(-1) }, want: []string{"fcfYear0"}},
		{name: "growth", modify: func(a *Assumptions) {
			a.GrowthFCF1to5 = Unset
			a.GrowthFCF6to10 = Unset
		}, want: []string{"growthFcf1to5", "growthFcf6to10"}},
		{name: "terminal growth", modify: func(a *Assumptions) { a.TerminalGrowth = Unset }, want: []string{"terminalGrowth"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := example()
			tc.modify(&a)
			v, err := Compute(a)
			if v != nil {
				t.Errorf("Compute() returned a partial result")
			}
			var missing *MissingInputError
			if !errors.As(err, &missing) {
				t.Fatalf("Compute() error = %v, want a *MissingInputError", err)
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("error %v does not wrap ErrInvalidInput", err)
			}
			if len(missing.Fields) != len(tc.want) {
				t.Fatalf("Fields = %v, want %v", missing.Fields, tc.want)
			}
			for i := range tc.want {
				if missing.Fields[i] != tc.want[i] {
					t.Errorf("Fields = %v, want %v", missing.Fields, tc.want)
				}
			}
		})
	}
}

func TestCompute_InvalidDiscountRate(t *testing.T) {
	testCases := []struct {
		name     string
		discount float64
		terminal float64
	}{
		{name: "equal", discount: 0.04, terminal: 0.04},
		{name: "lower", discount: 0.03, terminal: 0.04},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := example()
			a.DiscountRate, a.TerminalGrowth = tc.discount, tc.terminal
			_, err := Compute(a)
			var invalid *InvalidDiscountRateError
			if !errors.As(err, &invalid) {
				t.Fatalf("Compute() error = %v, want an *InvalidDiscountRateError", err)
			}
			if invalid.DiscountRate != tc.discount || invalid.TerminalGrowth != tc.terminal {
				t.Errorf("error = %+v, want rates %v and %v", invalid, tc.discount, tc.terminal)
			}
		})
	}
}

func TestCompute_MissingInputReportedBeforeDiscountRate(t *testing.T) {
	a := example()
	a.Revenue = Unset
	a.DiscountRate = 0.01
	_, err := Compute(a)
	var missing *MissingInputError
	if !errors.As(err, &missing) {
		t.Errorf("Compute() error = %v, want a *MissingInputError", err)
	}
}

func TestCompute_UndefinedFairValue(t *testing.T) {
	for _, shares := range []float64{0, -10} {
		a := example()
		a.SharesOutstanding = shares
		v, err := Compute(a)
		if err != nil {
			t.Fatalf("Compute() failed: %v", err)
		}
		if v.HasFairValue() || !math.IsNaN(v.FairValuePerShare) {
			t.Errorf("shares %v: FairValuePerShare = %v, want NaN", shares, v.FairValuePerShare)
		}
		if v.HasRecommendation() || !math.IsNaN(v.MarginOfSafety) {
			t.Errorf("shares %v: got recommendation %q, mos %v", shares, v.Recommendation, v.MarginOfSafety)
		}
		if !isFinite(v.EnterpriseValue) || !isFinite(v.EquityValue) {
			t.Errorf("shares %v: EV %v, equity %v should be finite", shares, v.EnterpriseValue, v.EquityValue)
		}
	}
}

func TestCompute_NoMarketPrice(t *testing.T) {
	a := example()
	a.MarketPrice = 0
	v, err := Compute(a)
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}
	if !v.HasFairValue() {
		t.Errorf("fair value should be defined")
	}
	if v.HasRecommendation() || !math.IsNaN(v.MarginOfSafety) {
		t.Errorf("got recommendation %q, mos %v without market price", v.Recommendation, v.MarginOfSafety)
	}
}

func TestCompute_Recommendation(t *testing.T) {
	v, err := Compute(example())
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}
	fair := v.FairValuePerShare

	testCases := []struct {
		name   string
		market float64
		want   Recommendation
	}{
		{name: "cheap", market: fair / 2, want: Buy},
		{name: "expensive", market: fair * 2, want: Sell},
		{name: "at fair value", market: fair, want: Sell},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := example()
			a.MarketPrice = tc.market
			v, err := Compute(a)
			if err != nil {
				t.Fatalf("Compute() failed: %v", err)
			}
			if v.Recommendation != tc.want {
				t.Errorf("Recommendation = %q, want %q (mos %v)", v.Recommendation, tc.want, v.MarginOfSafety)
			}
			if (v.Recommendation == Buy) != (v.FairValuePerShare > tc.market) {
				t.Errorf("BUY must be given iff fair value %v > market %v", v.FairValuePerShare, tc.market)
			}
		})
	}
}

func TestCompute_Idempotent(t *testing.T) {
	for _, shares := range []float64{12198, 0} {
		a := example()
		a.SharesOutstanding = shares
		v1, err := Compute(a)
		if err != nil {
			t.Fatalf("Compute() failed: %v", err)
		}
		v2, err := Compute(a)
		if err != nil {
			t.Fatalf("Compute() failed: %v", err)
		}
		if !v1.Equal(v2) {
			t.Errorf("two computations of the same assumptions differ:\n%+v\n%+v", v1, v2)
		}
	}
}
