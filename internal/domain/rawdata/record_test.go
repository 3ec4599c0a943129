package rawdata

import "testing"

func TestLookup_NestedPath(t *testing.T) {
	t.Parallel()

	rec := Record{
		"homeTeam": map[string]any{
			"id":   float64(42),
			"name": "Borussia Dortmund",
		},
	}

	value, ok := Lookup(rec, "homeTeam.id")
	if !ok {
		t.Fatalf("expected homeTeam.id to resolve")
	}
	if n, _ := Number(value); n != 42 {
		t.Fatalf("unexpected value: got=%v want=42", value)
	}

	if _, ok := Lookup(rec, "awayTeam.id"); ok {
		t.Fatalf("expected absent path to miss")
	}
	if _, ok := Lookup(rec, "homeTeam.id.extra"); ok {
		t.Fatalf("expected traversal through a scalar to miss")
	}
}

func TestFirst_OrderedFallback(t *testing.T) {
	t.Parallel()

	rec := Record{
		"home_id": "77",
		"homeID":  "11",
	}

	value, ok := First(rec, "homeID", "home_id")
	if !ok || value != "11" {
		t.Fatalf("unexpected winner: got=%v want=11", value)
	}

	value, ok = First(rec, "missing", "home_id")
	if !ok || value != "77" {
		t.Fatalf("unexpected fallback: got=%v want=77", value)
	}
}

func TestFirstNumber_SkipsNonNumericCandidates(t *testing.T) {
	t.Parallel()

	rec := Record{
		"goals":       "not-a-number",
		"goals_total": float64(3),
	}

	n, ok := FirstNumber(rec, "goals", "goals_total")
	if !ok || n != 3 {
		t.Fatalf("unexpected number: got=%v ok=%v want=3", n, ok)
	}
}

func TestNumber_Coercions(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   any
		want float64
		ok   bool
	}{
		{float64(2.5), 2.5, true},
		{int(7), 7, true},
		{int64(9), 9, true},
		{"3", 3, true},
		{" 4.5 ", 4.5, true},
		{"", 0, false},
		{"abc", 0, false},
		{nil, 0, false},
		{map[string]any{}, 0, false},
	}

	for _, tc := range cases {
		got, ok := Number(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("Number(%v): got=%v ok=%v want=%v ok=%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestString_CoercesNumericScalars(t *testing.T) {
	t.Parallel()

	if s, ok := String(float64(2016)); !ok || s != "2016" {
		t.Fatalf("unexpected string: got=%q ok=%v want=2016", s, ok)
	}
	if _, ok := String("   "); ok {
		t.Fatalf("expected blank string to miss")
	}
}

func TestClassify_ClosedTable(t *testing.T) {
	t.Parallel()

	if got := Classify("home_id"); got != CategoryIdentifier {
		t.Fatalf("unexpected category: got=%s want=%s", got, CategoryIdentifier)
	}
	if got := Classify("home_image"); got != CategoryImage {
		t.Fatalf("unexpected category: got=%s want=%s", got, CategoryImage)
	}
	if got := Classify("something_else"); got != CategoryOther {
		t.Fatalf("unexpected category: got=%s want=%s", got, CategoryOther)
	}
}
