// Package filter decides per-node visibility from the category toggles of
// the explorer: two stage toggles, two keyword sub-categories and three
// module-type toggles.
//
// The decision for a node depends only on the node, its module record and
// the toggles; nothing is remembered between calls.
package filter

import (
	"strings"

	"github.com/gyaneshwarpardhi/modgraph/internal/bundle"
	"github.com/gyaneshwarpardhi/modgraph/internal/graph"
)

// Toggles is the checkbox state of the filter bar.
type Toggles struct {
	StageA   bool `json:"stage_a" yaml:"stage_a"`
	StageB   bool `json:"stage_b" yaml:"stage_b"`
	SubX     bool `json:"sub_x" yaml:"sub_x"`
	SubY     bool `json:"sub_y" yaml:"sub_y"`
	Producer bool `json:"producer" yaml:"producer"`
	Filter   bool `json:"filter" yaml:"filter"`
	Analyzer bool `json:"analyzer" yaml:"analyzer"`
}

// AllOn is the "select all" state.
func AllOn() Toggles {
	return Toggles{StageA: true, StageB: true, SubX: true, SubY: true, Producer: true, Filter: true, Analyzer: true}
}

// AllOff is the "deselect all" state; it hides every node.
func AllOff() Toggles { return Toggles{} }

// Patch is a partial update of Toggles. Nil fields keep their value.
type Patch struct {
	StageA   *bool `json:"stage_a"`
	StageB   *bool `json:"stage_b"`
	SubX     *bool `json:"sub_x"`
	SubY     *bool `json:"sub_y"`
	Producer *bool `json:"producer"`
	Filter   *bool `json:"filter"`
	Analyzer *bool `json:"analyzer"`
}

// Apply returns t with the fields set in p replaced.
func (p Patch) Apply(t Toggles) Toggles {
	set := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}
	set(&t.StageA, p.StageA)
	set(&t.StageB, p.StageB)
	set(&t.SubX, p.SubX)
	set(&t.SubY, p.SubY)
	set(&t.Producer, p.Producer)
	set(&t.Filter, p.Filter)
	set(&t.Analyzer, p.Analyzer)
	return t
}

// Stage is the coarse classification derived from a node's fill color.
type Stage int

const (
	StageNone Stage = iota
	StageA
	StageB
)

// Rules holds the classification constants.
type Rules struct {
	StageAColor string
	StageBColor string
	SubXKeyword string
	SubYKeyword string
}

// DefaultRules classifies green nodes as reconstruction, lightgrey nodes as
// analysis, and matches the PAT and HLT keywords.
func DefaultRules() Rules {
	return Rules{
		StageAColor: "green",
		StageBColor: "lightgrey",
		SubXKeyword: "pat",
		SubYKeyword: "hlt",
	}
}

// Stage classifies a node by its fill color.
func (r Rules) Stage(n *graph.Node) Stage {
	switch n.FillColor {
	case r.StageAColor:
		return StageA
	case r.StageBColor:
		return StageB
	default:
		return StageNone
	}
}

// matches does a case-insensitive substring search of keyword over the
// node's label and tooltip. An empty keyword never matches.
func matches(n *graph.Node, keyword string) bool {
	if keyword == "" {
		return false
	}
	kw := strings.ToLower(keyword)
	return strings.Contains(strings.ToLower(n.Label), kw) ||
		strings.Contains(strings.ToLower(n.Tooltip), kw)
}

// IsVisible applies the filter precedence to one node. rec is nil when the
// node's label has no module record.
//
//  1. both stage toggles off: hidden
//  2. the node's own stage toggle off (or no stage at all): hidden
//  3. sub-category keyword matched while its toggle is off: hidden
//  4. known module type whose toggle is off: hidden
//  5. otherwise shown
func (r Rules) IsVisible(n *graph.Node, rec *bundle.ModuleRecord, t Toggles) bool {
	if !t.StageA && !t.StageB {
		return false
	}

	switch r.Stage(n) {
	case StageA:
		if !t.StageA {
			return false
		}
	case StageB:
		if !t.StageB {
			return false
		}
	default:
		return false
	}

	if !t.SubX && matches(n, r.SubXKeyword) {
		return false
	}
	if !t.SubY && matches(n, r.SubYKeyword) {
		return false
	}

	if rec == nil || rec.Type == "" {
		return true
	}
	switch rec.Type {
	case bundle.TypeProducer:
		return t.Producer
	case bundle.TypeFilter:
		return t.Filter
	case bundle.TypeAnalyzer:
		return t.Analyzer
	}
	return true
}
