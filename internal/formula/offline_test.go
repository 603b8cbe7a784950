package formula

import "testing"

func TestOfflineEarningsBoundary(t *testing.T) {
	rates := []float64{1}
	if got := OfflineEarnings(60, rates, 0, 0); got != 0 {
		t.Fatalf("60s away should award nothing, got %d", got)
	}
	if got := OfflineEarnings(61, rates, 0, 0); got <= 0 {
		t.Fatalf("61s away should award something, got %d", got)
	}
	if got := OfflineEarnings(3600, nil, 0, 0); got != 0 {
		t.Fatalf("no computers should award nothing, got %d", got)
	}
}

func TestOfflineEarningsCap(t *testing.T) {
	rates := []float64{1, 2.5, 6}
	for _, rebirths := range []int{0, 3} {
		for _, boost := range []int{0, 2} {
			capped := OfflineEarnings(24*3600, rates, rebirths, boost)
			long := OfflineEarnings(100*3600, rates, rebirths, boost)
			if capped != long {
				t.Fatalf("r=%d b=%d: 100h=%d differs from 24h=%d", rebirths, boost, long, capped)
			}
		}
	}
}

func TestOfflineEarningsFourHours(t *testing.T) {
	// ten rate-1 computers at 10 cash/token give a base rate of 100/s
	rates := make([]float64, 10)
	for i := range rates {
		rates[i] = 1
	}
	if got := OfflineBaseRate(rates, 0); got != 100 {
		t.Fatalf("base rate = %v; want 100", got)
	}

	// 3h at 0.3 plus 1h at 0.2
	want := int64(10800*100*0.3) + int64(3600*100*0.2)
	if got := OfflineEarnings(14400, rates, 0, 0); got != want {
		t.Fatalf("4h earnings = %d; want %d", got, want)
	}
}

func TestOfflineEarningsTiers(t *testing.T) {
	cases := []struct {
		name    string
		seconds int64
		boost   int
		want    int64
	}{
		{"one hour", 3600, 0, 1080},
		{"full day", 24 * 3600, 0, 3240 + 2160 + 6480},
		{"boosted hour", 3600, 1, 1440},
		{"boosted day", 24 * 3600, 2, 5400 + 4320 + 19440},
	}
	for _, tc := range cases {
		if got := OfflineEarningsFromRate(tc.seconds, 1, tc.boost); got != tc.want {
			t.Fatalf("%s: got %d; want %d", tc.name, got, tc.want)
		}
	}
}

func TestOfflineEarningsRebirthMultiplier(t *testing.T) {
	rates := []float64{1}
	base := OfflineEarnings(3600, rates, 0, 0)
	reborn := OfflineEarnings(3600, rates, 5, 0)
	if reborn != base*3/2 {
		t.Fatalf("5 rebirths should scale by 1.5: base=%d reborn=%d", base, reborn)
	}
}
