package gbce

import "time"

// GBP is a helper for test to create pound sterling money from const
func GBP(v float64) Money { return M(v, "GBP") }

// t0 is an arbitrary reference time for tests.
var t0 = time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC)

// testClock is a clock that tests move by hand.
type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time          { return c.now }
func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// sampleCatalog is the catalog of the Global Beverage Corporation Exchange, in pounds.
func sampleCatalog() []Stock {
	return []Stock{
		NewCommon("TEA", GBP(0), GBP(1)),
		NewCommon("POP", GBP(0.08), GBP(1)),
		NewCommon("ALE", GBP(0.23), GBP(0.6)),
		NewPreferred("GIN", GBP(0.08), R(0.02), GBP(1)),
		NewCommon("JOE", GBP(0.13), GBP(2.5)),
	}
}

// must is a test helper to fail on errors.
func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
