package signal

import (
	"math"
	"testing"

	"fasttrade/internal/domain"
	"fasttrade/internal/indicator"
	"fasttrade/internal/strategy"
)

func TestConfirmerWindowThree(t *testing.T) {
	// F,T,T,T,F,T,T with a window of 3: exactly one fire, on the third
	// consecutive true. The false at index 4 resets the count so the later
	// pair of trues never fires.
	seq := []bool{false, true, true, true, false, true, true}
	c := NewConfirmer(3)

	var fired []int
	for i, holds := range seq {
		if c.Step(holds) {
			fired = append(fired, i)
		}
	}
	if len(fired) != 1 || fired[0] != 3 {
		t.Errorf("fired at %v, want exactly one fire on the third consecutive true (index 3)", fired)
	}
}

func TestConfirmerWindowOne(t *testing.T) {
	c := NewConfirmer(1)
	if !c.Step(true) {
		t.Error("window-1 confirmer should fire on the first true")
	}
	if c.Step(true) {
		t.Error("confirmer fired again while the predicate stayed true")
	}
	if c.Step(false) {
		t.Error("confirmer fired on false")
	}
	if !c.Step(true) {
		t.Error("confirmer should fire again after a reset")
	}
}

func TestConfirmerLongRunFiresOnce(t *testing.T) {
	c := NewConfirmer(2)
	fires := 0
	for i := 0; i < 100; i++ {
		if c.Step(true) {
			fires++
		}
	}
	if fires != 1 {
		t.Errorf("confirmer fired %d times over one continuous run, want 1", fires)
	}
}

func table() indicator.Table {
	return indicator.Table{
		"close": {10, 11, 12, 9},
		"fast":  {math.NaN(), 10.5, 11, 11},
	}
}

func TestCompileAndHolds(t *testing.T) {
	rs, err := Compile("enter", []strategy.Rule{{"close", ">", "fast"}}, nil, table())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	want := []bool{false, true, true, false}
	for i, w := range want {
		if got := rs.Holds(table(), i); got != w {
			t.Errorf("Holds(%d) = %v, want %v", i, got, w)
		}
	}
}

func TestHoldsNaNIsFalse(t *testing.T) {
	rs, err := Compile("enter", []strategy.Rule{{"fast", "<", "100"}}, nil, table())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	// fast[0] is NaN; even "< 100" must not hold.
	if rs.Holds(table(), 0) {
		t.Error("Holds = true on a NaN operand, want false")
	}
}

func TestHoldsAnyGroup(t *testing.T) {
	any := []strategy.Rule{
		{"close", ">", "100"},
		{"close", "=", "9"},
	}
	rs, err := Compile("enter", nil, any, table())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if rs.Holds(table(), 0) {
		t.Error("Holds(0) = true, want false when no any-rule matches")
	}
	if !rs.Holds(table(), 3) {
		t.Error("Holds(3) = false, want true via the second any-rule")
	}
}

func TestHoldsAllAndAnyCombine(t *testing.T) {
	all := []strategy.Rule{{"close", ">", "10"}}
	any := []strategy.Rule{{"close", "<", "12"}}
	rs, err := Compile("enter", all, any, table())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	// Index 1: close=11 passes both groups. Index 2: close=12 passes all
	// but not any. Index 0: fails the all group.
	if !rs.Holds(table(), 1) {
		t.Error("Holds(1) = false, want true")
	}
	if rs.Holds(table(), 2) {
		t.Error("Holds(2) = true, want false when the any group fails")
	}
	if rs.Holds(table(), 0) {
		t.Error("Holds(0) = true, want false when the all group fails")
	}
}

func TestEmptyRuleSetMatchesNothing(t *testing.T) {
	rs, err := Compile("exit", nil, nil, table())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	for i := 0; i < 4; i++ {
		if rs.Holds(table(), i) {
			t.Fatalf("empty rule set held at index %d", i)
		}
	}
}

func TestCompileUnknownSeries(t *testing.T) {
	_, err := Compile("enter", []strategy.Rule{{"ghost", ">", "1"}}, nil, table())
	if err == nil {
		t.Fatal("Compile(unknown series) = nil error, want ConfigurationError")
	}
	if _, ok := err.(*domain.ConfigurationError); !ok {
		t.Errorf("error type = %T, want *ConfigurationError", err)
	}
}

func TestCompileBadShape(t *testing.T) {
	_, err := Compile("enter", []strategy.Rule{{"close", ">"}}, nil, table())
	if err == nil {
		t.Fatal("Compile(two-element rule) = nil error, want error")
	}
}

func TestAllOperators(t *testing.T) {
	tbl := indicator.Table{"close": {5}}
	cases := []struct {
		op   string
		lit  string
		want bool
	}{
		{">", "4", true}, {">", "5", false},
		{">=", "5", true}, {">=", "6", false},
		{"<", "6", true}, {"<", "5", false},
		{"<=", "5", true}, {"<=", "4", false},
		{"=", "5", true}, {"=", "4", false},
		{"!=", "4", true}, {"!=", "5", false},
	}
	for _, tc := range cases {
		rs, err := Compile("enter", []strategy.Rule{{"close", tc.op, tc.lit}}, nil, tbl)
		if err != nil {
			t.Fatalf("Compile(%s): %v", tc.op, err)
		}
		if got := rs.Holds(tbl, 0); got != tc.want {
			t.Errorf("close %s %s = %v, want %v", tc.op, tc.lit, got, tc.want)
		}
	}
}
