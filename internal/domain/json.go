package domain

import (
	"encoding/json"
	"math"
)

// summaryAlias breaks the MarshalJSON recursion.
type summaryAlias Summary

// MarshalJSON encodes ProfitFactor as the string "inf" when no losing
// trades exist: JSON has no representation for infinity, and the sentinel
// must survive persistence rather than crash it.
func (s Summary) MarshalJSON() ([]byte, error) {
	out := struct {
		summaryAlias
		ProfitFactor any `json:"profit_factor"`
	}{summaryAlias: summaryAlias(s), ProfitFactor: s.ProfitFactor}
	if math.IsInf(s.ProfitFactor, 1) {
		out.ProfitFactor = "inf"
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores the "inf" sentinel back to +Inf.
func (s *Summary) UnmarshalJSON(data []byte) error {
	aux := struct {
		*summaryAlias
		ProfitFactor any `json:"profit_factor"`
	}{summaryAlias: (*summaryAlias)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	switch v := aux.ProfitFactor.(type) {
	case string:
		s.ProfitFactor = math.Inf(1)
	case float64:
		s.ProfitFactor = v
	}
	return nil
}
