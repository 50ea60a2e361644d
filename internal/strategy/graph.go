package strategy

import (
	"sort"
	"strings"

	"fasttrade/internal/domain"
)

// Candle columns addressable from datapoint args and rule operands.
var columns = map[string]bool{
	"open":   true,
	"high":   true,
	"low":    true,
	"close":  true,
	"volume": true,
}

// IsColumn reports whether name is a raw candle column.
func IsColumn(name string) bool { return columns[name] }

// ResolveProducer maps a series name to the datapoint that produces it.
// Exact primary-name matches win; otherwise derived outputs like
// "bands_upper" resolve by primary-name prefix. Returns -1 for columns and
// unknown names.
func ResolveProducer(name string, dps []Datapoint) int {
	for i, dp := range dps {
		if dp.Name == name {
			return i
		}
	}
	for i, dp := range dps {
		if strings.HasPrefix(name, dp.Name+"_") {
			return i
		}
	}
	return -1
}

// SortDatapoints orders datapoints so that every chained input is computed
// before its consumer. References to unknown names and dependency cycles are
// ConfigurationErrors. Within a topological level the original document
// order is preserved, which keeps evaluation deterministic.
func SortDatapoints(dps []Datapoint) ([]Datapoint, error) {
	indegree := make([]int, len(dps))
	dependents := make(map[int][]int, len(dps))

	for i, dp := range dps {
		for _, arg := range dp.Args {
			if isNumeric(arg) || IsColumn(arg) {
				continue
			}
			src := ResolveProducer(arg, dps)
			if src < 0 {
				return nil, domain.ConfigErrorf("datapoints",
					"datapoint %q references undefined series %q", dp.Name, arg)
			}
			if src == i {
				return nil, domain.ConfigErrorf("datapoints",
					"datapoint %q references itself", dp.Name)
			}
			indegree[i]++
			dependents[src] = append(dependents[src], i)
		}
	}

	// Kahn's algorithm; the ready queue is kept sorted by document index.
	var ready []int
	for i := range dps {
		if indegree[i] == 0 {
			ready = append(ready, i)
		}
	}

	ordered := make([]Datapoint, 0, len(dps))
	for len(ready) > 0 {
		sort.Ints(ready)
		next := ready[0]
		ready = ready[1:]
		ordered = append(ordered, dps[next])
		for _, dep := range dependents[next] {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}

	if len(ordered) != len(dps) {
		var cyclic []string
		for i, deg := range indegree {
			if deg > 0 {
				cyclic = append(cyclic, dps[i].Name)
			}
		}
		return nil, domain.ConfigErrorf("datapoints",
			"dependency cycle involving %s", strings.Join(cyclic, ", "))
	}
	return ordered, nil
}

// Levels groups topologically sorted datapoints into batches where every
// member depends only on earlier batches. Members of one level are safe to
// evaluate concurrently.
func Levels(sorted []Datapoint) [][]Datapoint {
	level := make(map[string]int, len(sorted))
	var out [][]Datapoint
	for _, dp := range sorted {
		lv := 0
		for _, arg := range dp.Args {
			if isNumeric(arg) || IsColumn(arg) {
				continue
			}
			src := ResolveProducer(arg, sorted)
			if src >= 0 {
				if l := level[sorted[src].Name] + 1; l > lv {
					lv = l
				}
			}
		}
		level[dp.Name] = lv
		for len(out) <= lv {
			out = append(out, nil)
		}
		out[lv] = append(out[lv], dp)
	}
	return out
}
