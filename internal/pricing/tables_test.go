package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestWeightToDWT(t *testing.T) {
	got := WeightToDWT(dec(t, "10"), UnitDWT)
	wantAmount(t, "dwt passthrough", got, "10")

	got = WeightToDWT(dec(t, "10"), UnitGrams)
	wantAmount(t, "grams conversion", got, "6.43")

	got = WeightToDWT(dec(t, "-3"), UnitDWT)
	wantAmount(t, "negative fails closed", got, "0")

	got = WeightToDWT(decimal.Zero, UnitGrams)
	wantAmount(t, "zero stays zero", got, "0")
}

func TestIsPlatinum(t *testing.T) {
	for _, key := range []string{"Platinum", "PLAT 950", "platinum/iridium"} {
		if !IsPlatinum(key) {
			t.Fatalf("%q should be platinum", key)
		}
	}
	for _, key := range []string{"14K Yellow", "18K White", "Palladium"} {
		if IsPlatinum(key) {
			t.Fatalf("%q should not be platinum", key)
		}
	}
}

func TestTrimRowForMM_ExactMatchOnly(t *testing.T) {
	table := []TrimRow{
		{MM: dec(t, "1.5"), CtEach: dec(t, "0.015"), RetailPerCt: dec(t, "500")},
		{MM: dec(t, "2.0"), CtEach: dec(t, "0.03"), RetailPerCt: dec(t, "400")},
	}

	row, ok := TrimRowForMM(table, dec(t, "2.0"))
	if !ok {
		t.Fatal("expected a row for 2.0mm")
	}
	wantAmount(t, "ct each", row.CtEach, "0.03")

	// No nearest-neighbor fallback.
	if _, ok := TrimRowForMM(table, dec(t, "1.9")); ok {
		t.Fatal("1.9mm must not resolve to a row")
	}
}

func TestCenterPricePerCt_BandsAndGaps(t *testing.T) {
	bands := []CenterPriceBand{
		{MinCt: dec(t, "0.5"), MaxCt: dec(t, "0.99"), PricePerCt: dec(t, "900")},
		{MinCt: dec(t, "1.5"), MaxCt: dec(t, "1.99"), PricePerCt: dec(t, "1300")},
	}

	price, ok := CenterPricePerCt(bands, dec(t, "0.75"))
	if !ok {
		t.Fatal("0.75ct should land in the first band")
	}
	wantAmount(t, "band price", price, "900")

	// Boundary carats are inclusive on both ends.
	if _, ok := CenterPricePerCt(bands, dec(t, "0.5")); !ok {
		t.Fatal("min_ct boundary should match")
	}
	if _, ok := CenterPricePerCt(bands, dec(t, "0.99")); !ok {
		t.Fatal("max_ct boundary should match")
	}

	// 1.2ct falls in the gap between bands.
	if _, ok := CenterPricePerCt(bands, dec(t, "1.2")); ok {
		t.Fatal("gap carat must return no default")
	}
}

func TestLaborRateForStyle_FixedPriorityOrder(t *testing.T) {
	rates := LaborRates{
		RoundCenter: map[string]decimal.Decimal{"prong": dec(t, "45")},
		FancyCenter: map[string]decimal.Decimal{"prong": dec(t, "60"), "halo": dec(t, "80")},
		RoundTrim:   map[string]decimal.Decimal{"bead": dec(t, "6")},
		FancyTrim:   map[string]decimal.Decimal{},
	}

	// A colliding style resolves to the higher-priority bucket.
	got := LaborRateForStyle(rates, "prong", DefaultLaborBucketOrder())
	wantAmount(t, "colliding style", got, "45")

	got = LaborRateForStyle(rates, "halo", DefaultLaborBucketOrder())
	wantAmount(t, "fancy center style", got, "80")

	got = LaborRateForStyle(rates, "bead", DefaultLaborBucketOrder())
	wantAmount(t, "round trim style", got, "6")

	got = LaborRateForStyle(rates, "unknown", DefaultLaborBucketOrder())
	wantAmount(t, "unknown style", got, "0")

	// The order is an explicit argument: reversing it flips the tie-break.
	reversed := []LaborBucket{FancyTrim, RoundTrim, FancyCenter, RoundCenter}
	got = LaborRateForStyle(rates, "prong", reversed)
	wantAmount(t, "reversed order", got, "60")
}

func TestStyleOptions_UnionAcrossBuckets(t *testing.T) {
	rates := LaborRates{
		RoundCenter: map[string]decimal.Decimal{"prong": dec(t, "45")},
		FancyCenter: map[string]decimal.Decimal{"prong": dec(t, "60")},
		RoundTrim:   map[string]decimal.Decimal{"bead": dec(t, "6")},
	}

	styles := StyleOptions(rates)
	if len(styles) != 2 {
		t.Fatalf("expected 2 unique styles, got %v", styles)
	}
}
