package strategy

import (
	"strconv"

	"fasttrade/internal/domain"
)

var validOps = map[string]bool{
	">": true, ">=": true, "<": true, "<=": true, "=": true, "!=": true,
}

// isNumeric reports whether an arg or rule operand is a numeric literal.
func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// Validate performs the structural checks that need no transformer registry:
// execution parameters, datapoint naming, rule shape, and the dependency
// graph. It returns every problem found, not just the first. Transformer
// existence and output-name resolution are checked by the backtest package,
// which owns the registry.
func (s *Spec) Validate() []error {
	var errs []error

	if s.BaseBalance <= 0 {
		errs = append(errs, domain.ConfigErrorf("base_balance", "must be positive, got %v", s.BaseBalance))
	}
	if s.Commission < 0 {
		errs = append(errs, domain.ConfigErrorf("commission", "must not be negative, got %v", s.Commission))
	}
	if s.Commission >= 1 {
		errs = append(errs, domain.ConfigErrorf("commission", "is a rate, must be below 1, got %v", s.Commission))
	}
	if s.EnterConfirmations <= 0 {
		errs = append(errs, domain.ConfigErrorf("enter_confirmations", "must be positive, got %d", s.EnterConfirmations))
	}
	if s.ExitConfirmations <= 0 {
		errs = append(errs, domain.ConfigErrorf("exit_confirmations", "must be positive, got %d", s.ExitConfirmations))
	}
	if s.TrailingStopLoss < 0 || s.TrailingStopLoss >= 1 {
		errs = append(errs, domain.ConfigErrorf("trailing_stop_loss", "must be in [0, 1), got %v", s.TrailingStopLoss))
	}
	if len(s.Enter) == 0 && len(s.AnyEnter) == 0 {
		errs = append(errs, domain.ConfigErrorf("enter", "at least one enter rule is required"))
	}
	if len(s.Exit) == 0 && len(s.AnyExit) == 0 && s.TrailingStopLoss == 0 {
		errs = append(errs, domain.ConfigErrorf("exit", "at least one exit rule or a trailing stop is required"))
	}

	seen := make(map[string]bool, len(s.Datapoints))
	for _, dp := range s.Datapoints {
		switch {
		case dp.Name == "":
			errs = append(errs, domain.ConfigErrorf("datapoints", "datapoint with empty name"))
		case IsColumn(dp.Name):
			errs = append(errs, domain.ConfigErrorf("datapoints", "datapoint %q shadows a candle column", dp.Name))
		case seen[dp.Name]:
			errs = append(errs, domain.ConfigErrorf("datapoints", "duplicate datapoint name %q", dp.Name))
		}
		seen[dp.Name] = true
		if dp.Transformer == "" {
			errs = append(errs, domain.ConfigErrorf("datapoints", "datapoint %q has no transformer", dp.Name))
		}
	}

	for field, rules := range map[string][]Rule{
		"enter": s.Enter, "exit": s.Exit, "any_enter": s.AnyEnter, "any_exit": s.AnyExit,
	} {
		for _, r := range rules {
			if len(r) != 3 {
				errs = append(errs, domain.ConfigErrorf(field, "rule %v must have exactly 3 elements", []string(r)))
				continue
			}
			if !validOps[r[1]] {
				errs = append(errs, domain.ConfigErrorf(field, "unknown operator %q", r[1]))
			}
		}
	}

	if _, err := SortDatapoints(s.Datapoints); err != nil {
		errs = append(errs, err)
	}

	return errs
}
