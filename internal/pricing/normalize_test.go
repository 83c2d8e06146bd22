package pricing

import "testing"

func TestNormalize_LegacyTrimSettingBecomesLine(t *testing.T) {
	s := testSettings(t)
	req := NewQuoteRequest()
	req.LegacyTrimSettingQty = 8
	req.LegacyTrimSettingRate = dec(t, "7.5")

	req.Normalize(s)

	if len(req.TrimSettingLines) != 1 {
		t.Fatalf("expected one migrated trim setting line, got %d", len(req.TrimSettingLines))
	}
	line := req.TrimSettingLines[0]
	if line.Qty != 8 {
		t.Fatalf("migrated qty = %d, want 8", line.Qty)
	}
	wantAmount(t, "migrated rate", line.Rate, "7.5")
	if req.LegacyTrimSettingQty != 0 || !req.LegacyTrimSettingRate.IsZero() {
		t.Fatal("legacy fields should be cleared after migration")
	}
}

func TestNormalize_LegacyIgnoredWhenMultiLineExists(t *testing.T) {
	s := testSettings(t)
	req := NewQuoteRequest()
	req.TrimSettingLines = []SettingLaborLine{{Qty: 2, Rate: dec(t, "10")}}
	req.LegacyTrimSettingQty = 8
	req.LegacyTrimSettingRate = dec(t, "7.5")

	req.Normalize(s)

	if len(req.TrimSettingLines) != 1 {
		t.Fatalf("legacy data must be ignored once multi-line data exists, got %d lines", len(req.TrimSettingLines))
	}
	wantAmount(t, "kept rate", req.TrimSettingLines[0].Rate, "10")
}

func TestNormalize_FeeTogglesPullFromSchedule(t *testing.T) {
	s := testSettings(t)
	s.Fees.Rhodium = dec(t, "45")
	s.Fees.Shipping = dec(t, "25")
	req := NewQuoteRequest()
	req.FeeToggles.Rhodium = true
	req.FeeToggles.Shipping = true

	req.Normalize(s)

	wantAmount(t, "rhodium from schedule", req.Charges.Rhodium, "45")
	wantAmount(t, "shipping from schedule", req.Charges.Shipping, "25")

	// An explicit amount is never overwritten by the toggle.
	req2 := NewQuoteRequest()
	req2.FeeToggles.Rhodium = true
	req2.Charges.Rhodium = dec(t, "60")
	req2.Normalize(s)
	wantAmount(t, "explicit rhodium kept", req2.Charges.Rhodium, "60")
}

func TestNormalize_TrimsHeaderStrings(t *testing.T) {
	s := testSettings(t)
	req := NewQuoteRequest()
	req.CustomerName = "  Jane Doe  "
	req.JobName = "\tCustom ring\n"
	req.Center.Description = " 1.0ct round "

	req.Normalize(s)

	if req.CustomerName != "Jane Doe" || req.JobName != "Custom ring" || req.Center.Description != "1.0ct round" {
		t.Fatalf("strings not trimmed: %+v", req)
	}
}
