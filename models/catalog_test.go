package models

import "testing"

func TestDecide(t *testing.T) {
	cases := []struct {
		imported bool
		force    bool
		want     Action
	}{
		{imported: true, force: false, want: ActionSkip},
		{imported: false, force: false, want: ActionImport},
		{imported: true, force: true, want: ActionForceReimport},
		{imported: false, force: true, want: ActionForceReimport},
	}
	for _, c := range cases {
		if got := Decide(c.imported, c.force); got != c.want {
			t.Errorf("Decide(imported=%v, force=%v) = %v, want %v", c.imported, c.force, got, c.want)
		}
	}
}

func TestActionString(t *testing.T) {
	if ActionSkip.String() != "skip" || ActionImport.String() != "import" || ActionForceReimport.String() != "force-reimport" {
		t.Error("unexpected action names")
	}
}
