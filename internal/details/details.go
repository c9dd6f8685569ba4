// Package details assembles what the side panel shows for one module: its
// identity, the modules it reads through input tags, and its remaining
// parameters.
package details

import (
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/gyaneshwarpardhi/modgraph/internal/bundle"
	"github.com/gyaneshwarpardhi/modgraph/internal/graph"
)

// Placeholders for absent values.
const (
	NotAvailable = "N/A"
	NoSnippet    = "No configuration available"
)

// Details is the panel data for one module.
type Details struct {
	Name       string       `json:"name"`
	NodeID     string       `json:"node_id,omitempty"`
	Available  bool         `json:"available"`
	Type       string       `json:"type"`
	Plugin     string       `json:"plugin"`
	Groups     []TagGroup   `json:"groups"`
	Singles    []TagItem    `json:"singles"`
	Parameters []ParamEntry `json:"parameters"`
	RawSnippet string       `json:"raw_snippet"`
}

// TagGroup collects the items of one VInputTag or ESInputTag field.
type TagGroup struct {
	Field string         `json:"field"`
	Type  bundle.TagKind `json:"type"`
	Items []TagItem      `json:"items"`
}

// TagItem is one rendered input tag. Target is the node to navigate to and
// is empty when the referenced module is not in the graph.
type TagItem struct {
	Label  string         `json:"label"`
	Type   bundle.TagKind `json:"type,omitempty"`
	Value  string         `json:"value"`
	Found  bool           `json:"found"`
	Module string         `json:"module"`
	Target string         `json:"target,omitempty"`
}

// ParamEntry is a non-tag parameter.
type ParamEntry struct {
	Name  string `json:"name"`
	Type  string `json:"type,omitempty"`
	Value string `json:"value"`
}

// FormatInputTag renders a tag as module[:instance][:process], skipping
// empty parts.
func FormatInputTag(t bundle.InputTagRecord) string {
	parts := []string{t.Module}
	if t.Instance != "" {
		parts = append(parts, t.Instance)
	}
	if t.Process != "" {
		parts = append(parts, t.Process)
	}
	return strings.Join(parts, ":")
}

// Build returns the details of the module named label. A label without a
// module record yields placeholders and Available=false.
func Build(g *graph.Graph, label string) Details {
	d := Details{
		Name:       label,
		Type:       NotAvailable,
		Plugin:     NotAvailable,
		RawSnippet: NoSnippet,
		Groups:     []TagGroup{},
		Singles:    []TagItem{},
		Parameters: []ParamEntry{},
	}
	if id, ok := g.FirstByLabel(label); ok {
		d.NodeID = id
	}

	rec, ok := g.Module(label)
	if !ok {
		return d
	}
	d.Available = true
	if rec.Type != "" {
		d.Type = string(rec.Type)
	}
	if rec.Plugin != "" {
		d.Plugin = rec.Plugin
	}
	if rec.RawSnippet != "" {
		d.RawSnippet = rec.RawSnippet
	}

	d.Groups, d.Singles = groupTags(rec.InputTags)
	d.Parameters = parameters(rec)
	return d
}

func groupTags(tags []bundle.InputTagRecord) ([]TagGroup, []TagItem) {
	grouped := orderedmap.New[string, *TagGroup]()
	singles := []TagItem{}

	for _, t := range tags {
		if t.Type != bundle.KindVInputTag && t.Type != bundle.KindESInputTag {
			item := newItem(t, t.Field)
			item.Type = t.Type
			singles = append(singles, item)
			continue
		}
		grp, ok := grouped.Get(t.Field)
		if !ok {
			grp = &TagGroup{Field: t.Field, Type: t.Type}
			grouped.Set(t.Field, grp)
		}
		grp.Items = append(grp.Items, newItem(t, fmt.Sprintf("%s[%d]", t.Field, len(grp.Items))))
	}

	groups := make([]TagGroup, 0, grouped.Len())
	for pair := grouped.Oldest(); pair != nil; pair = pair.Next() {
		groups = append(groups, *pair.Value)
	}
	return groups, singles
}

func newItem(t bundle.InputTagRecord, label string) TagItem {
	item := TagItem{Label: label, Value: FormatInputTag(t), Found: t.Found, Module: t.Module}
	if t.Found {
		item.Target = t.TargetID
	}
	return item
}

// parameters lists the record's parameters in configuration order, leaving
// out the fields already shown as input tags.
func parameters(rec bundle.ModuleRecord) []ParamEntry {
	tagFields := make(map[string]struct{}, len(rec.InputTags))
	for _, t := range rec.InputTags {
		tagFields[t.Field] = struct{}{}
	}
	out := []ParamEntry{}
	if rec.Parameters == nil {
		return out
	}
	for pair := rec.Parameters.Oldest(); pair != nil; pair = pair.Next() {
		name, p := pair.Key, pair.Value
		if _, skip := tagFields[name]; skip {
			continue
		}
		v := p.Value
		if v == "" {
			v = NotAvailable
		}
		out = append(out, ParamEntry{Name: name, Type: p.Type, Value: v})
	}
	return out
}
