// Package signal turns per-candle rule predicates into discrete enter/exit
// events. Rules are comparison triples over indicator and price series;
// a predicate must hold for a configured number of consecutive candles
// before its event fires, and it fires exactly once per confirmed run.
package signal

import (
	"math"
	"strconv"

	"fasttrade/internal/domain"
	"fasttrade/internal/indicator"
	"fasttrade/internal/strategy"
)

// Operand is one side of a comparison: either a numeric literal or a named
// series in the indicator table.
type Operand struct {
	Name    string
	Value   float64
	Literal bool
}

// Comparison is a single binary predicate evaluated per candle.
type Comparison struct {
	Left  Operand
	Op    string
	Right Operand
}

// RuleSet is a compiled rule: the All comparisons combine with AND, the Any
// comparisons with OR, and a candle satisfies the rule when both groups do.
// An empty group is vacuously satisfied, but a fully empty RuleSet matches
// nothing.
type RuleSet struct {
	All []Comparison
	Any []Comparison
}

// Compile resolves rule triples against the indicator table. Unknown series
// names are ConfigurationErrors: rules must only reference candle columns,
// datapoint outputs, or numeric literals.
func Compile(field string, all, any []strategy.Rule, table indicator.Table) (*RuleSet, error) {
	rs := &RuleSet{}
	for _, r := range all {
		c, err := compileOne(field, r, table)
		if err != nil {
			return nil, err
		}
		rs.All = append(rs.All, c)
	}
	for _, r := range any {
		c, err := compileOne(field, r, table)
		if err != nil {
			return nil, err
		}
		rs.Any = append(rs.Any, c)
	}
	return rs, nil
}

func compileOne(field string, r strategy.Rule, table indicator.Table) (Comparison, error) {
	if len(r) != 3 {
		return Comparison{}, domain.ConfigErrorf(field, "rule %v must have exactly 3 elements", []string(r))
	}
	left, err := compileOperand(field, r[0], table)
	if err != nil {
		return Comparison{}, err
	}
	right, err := compileOperand(field, r[2], table)
	if err != nil {
		return Comparison{}, err
	}
	return Comparison{Left: left, Op: r[1], Right: right}, nil
}

func compileOperand(field, raw string, table indicator.Table) (Operand, error) {
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return Operand{Value: v, Literal: true}, nil
	}
	if _, ok := table[raw]; !ok {
		return Operand{}, domain.ConfigErrorf(field, "unknown series %q", raw)
	}
	return Operand{Name: raw}, nil
}

// Holds evaluates the rule at candle index i. Any NaN operand (an
// indicator still warming up) makes the whole predicate false, so
// undefined values never count toward confirmation.
func (rs *RuleSet) Holds(table indicator.Table, i int) bool {
	if len(rs.All) == 0 && len(rs.Any) == 0 {
		return false
	}
	for _, c := range rs.All {
		if !c.holds(table, i) {
			return false
		}
	}
	if len(rs.Any) == 0 {
		return true
	}
	for _, c := range rs.Any {
		if c.holds(table, i) {
			return true
		}
	}
	return false
}

func (c Comparison) holds(table indicator.Table, i int) bool {
	left := c.Left.at(table, i)
	right := c.Right.at(table, i)
	if math.IsNaN(left) || math.IsNaN(right) {
		return false
	}
	switch c.Op {
	case ">":
		return left > right
	case ">=":
		return left >= right
	case "<":
		return left < right
	case "<=":
		return left <= right
	case "=":
		return left == right
	case "!=":
		return left != right
	}
	return false
}

func (o Operand) at(table indicator.Table, i int) float64 {
	if o.Literal {
		return o.Value
	}
	return table[o.Name][i]
}
