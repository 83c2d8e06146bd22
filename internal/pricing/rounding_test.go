package pricing

import "testing"

func TestApplyRounding(t *testing.T) {
	cases := []struct {
		rule RoundingRule
		in   string
		want string
	}{
		{RoundNone, "1374.37", "1374.37"},
		{RoundDollar, "1374.37", "1374"},
		{RoundDollar, "1374.50", "1375"},
		{RoundNearest, "1374.00", "1375"},
		{RoundNearest, "1372.49", "1370"},
		{RoundNearest, "1350.00", "1350"},
		{RoundNearest, "0", "0"},
	}

	for _, c := range cases {
		got := ApplyRounding(dec(t, c.in), c.rule)
		if !got.Equal(dec(t, c.want)) {
			t.Fatalf("ApplyRounding(%s, %s) = %s, want %s", c.in, c.rule, got, c.want)
		}
	}
}

func TestApplyRounding_Idempotent(t *testing.T) {
	for _, rule := range []RoundingRule{RoundNone, RoundDollar, RoundNearest} {
		for _, in := range []string{"1374.37", "12.50", "0.01", "9995"} {
			once := ApplyRounding(dec(t, in), rule)
			twice := ApplyRounding(once, rule)
			if !once.Equal(twice) {
				t.Fatalf("%s on %s is not idempotent: %s then %s", rule, in, once, twice)
			}
		}
	}
}
