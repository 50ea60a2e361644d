// Package strategy defines the strategy document consumed by the backtest
// engine: datapoint (indicator) definitions, entry/exit rules, confirmation
// windows, and execution parameters. Documents are YAML (or JSON, which YAML
// subsumes) and are read-only to the engine once loaded.
package strategy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Datapoint declares one named indicator series. Transformer is a registry
// name ("sma", "ema", "rsi", ...). Args are YAML scalars: numbers become
// transformer parameters, a string names the input series (a candle column
// or another datapoint's output, which chains the two).
type Datapoint struct {
	Name        string   `yaml:"name"`
	Transformer string   `yaml:"transformer"`
	Args        []string `yaml:"args"`
}

// Rule is one comparison triple: [left, op, right]. Each side is a candle
// column, a datapoint output name, or a numeric literal; op is one of
// > >= < <= = !=.
type Rule []string

// Spec is a complete strategy document. The zero value is not runnable;
// Normalize fills defaults and Validate reports every configuration error.
type Spec struct {
	Name        string  `yaml:"name"`
	BaseBalance float64 `yaml:"base_balance"`
	Commission  float64 `yaml:"commission"`
	Freq        string  `yaml:"freq"`
	StartDate   string  `yaml:"start_date"`
	StopDate    string  `yaml:"stop_date"`

	Datapoints []Datapoint `yaml:"datapoints"`

	Enter    []Rule `yaml:"enter"`
	Exit     []Rule `yaml:"exit"`
	AnyEnter []Rule `yaml:"any_enter"`
	AnyExit  []Rule `yaml:"any_exit"`

	EnterConfirmations int `yaml:"enter_confirmations"`
	ExitConfirmations  int `yaml:"exit_confirmations"`

	TrailingStopLoss float64 `yaml:"trailing_stop_loss"`
	ExitOnEnd        bool    `yaml:"exit_on_end"`

	// MarkToMarket values the equity trace at each candle's close while a
	// position is open, instead of holding the balance flat until the trade
	// closes. Realized balance is unaffected either way.
	MarkToMarket bool `yaml:"mark_to_market"`
}

// Load reads a strategy document from disk and applies defaults. It does
// not validate; call Validate before running.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading strategy file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML or JSON strategy document and applies defaults.
func Parse(data []byte) (*Spec, error) {
	spec := &Spec{}
	if err := yaml.Unmarshal(data, spec); err != nil {
		return nil, fmt.Errorf("parsing strategy document: %w", err)
	}
	spec.Normalize()
	return spec, nil
}

// Normalize fills in defaults for omitted fields. A confirmation window of
// 1 means a rule fires on the first true candle, matching a strategy that
// never mentions confirmations.
func (s *Spec) Normalize() {
	if s.BaseBalance == 0 {
		s.BaseBalance = 1000
	}
	if s.EnterConfirmations == 0 {
		s.EnterConfirmations = 1
	}
	if s.ExitConfirmations == 0 {
		s.ExitConfirmations = 1
	}
}
