package pgmvt

import "testing"

func TestMinZoomFixedPoints(t *testing.T) {
	cases := []struct {
		scale int
		want  int
	}{
		{1000000, 8},
		{500000, 9},
		{200000, 10},
		{100000, 11},
		{50000, 12},
		{25000, 13},
		{10000, 14},
	}
	for _, c := range cases {
		got, err := MinZoom(c.scale)
		if err != nil {
			t.Fatalf("MinZoom(%d): %v", c.scale, err)
		}
		if got != c.want {
			t.Errorf("MinZoom(%d) = %d, want %d", c.scale, got, c.want)
		}
	}
}

func TestMaxZoomMatchesMinZoomFormula(t *testing.T) {
	for _, scale := range []int{1000000, 500000, 200000, 100000, 50000, 25000, 10000} {
		minz, err := MinZoom(scale)
		if err != nil {
			t.Fatal(err)
		}
		maxz, err := MaxZoom(float64(scale))
		if err != nil {
			t.Fatal(err)
		}
		if minz != maxz {
			t.Errorf("scale %d: MinZoom=%d MaxZoom=%d, formulas must be identical", scale, minz, maxz)
		}
	}
}

func TestZoomMonotonic(t *testing.T) {
	prev := -1
	// coarse to fine: zoom must never decrease
	for _, scale := range []int{10000000, 1000000, 200000, 50000, 10000, 1000} {
		z, err := MinZoom(scale)
		if err != nil {
			t.Fatal(err)
		}
		if z < prev {
			t.Fatalf("MinZoom(%d) = %d, smaller than zoom for coarser scale (%d)", scale, z, prev)
		}
		prev = z
	}
}

func TestZoomRejectsNonPositiveScale(t *testing.T) {
	for _, scale := range []int{0, -1, -100000} {
		if _, err := MinZoom(scale); err == nil {
			t.Errorf("MinZoom(%d) succeeded, want error", scale)
		}
	}
	if _, err := MaxZoom(0); err == nil {
		t.Error("MaxZoom(0) succeeded, want error")
	}
}
