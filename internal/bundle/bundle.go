package bundle

import orderedmap "github.com/wk8/go-ordered-map/v2"

// Bundle is the top-level JSON snapshot produced by the preprocessing pipeline.
// It is loaded once per generation and never mutated afterwards.
type Bundle struct {
	Nodes     []NodeRecord            `json:"nodes"`
	Edges     []EdgeRecord            `json:"edges"`
	Modules   map[string]ModuleRecord `json:"modules"`
	LabelToID map[string]string       `json:"labelToId,omitempty"` // preprocessor map, last-wins; not trusted
	Metadata  *Metadata               `json:"metadata,omitempty"`
}

// NodeRecord is one graph node as emitted from the DOT file.
type NodeRecord struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	FillColor string `json:"fillcolor,omitempty"`
	Shape     string `json:"shape,omitempty"`
	Color     string `json:"color,omitempty"`
	Tooltip   string `json:"tooltip,omitempty"`
}

// DisplayLabel returns the label, falling back to the id.
func (n NodeRecord) DisplayLabel() string {
	if n.Label == "" {
		return n.ID
	}
	return n.Label
}

// EdgeRecord points from producer (Source) to consumer (Target).
type EdgeRecord struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Color  string `json:"color,omitempty"`
}

// ModuleType is the kind of a configured module.
type ModuleType string

const (
	TypeProducer     ModuleType = "EDProducer"
	TypeFilter       ModuleType = "EDFilter"
	TypeAnalyzer     ModuleType = "EDAnalyzer"
	TypeOutputModule ModuleType = "OutputModule"
	TypeESProducer   ModuleType = "ESProducer"
	TypeESSource     ModuleType = "ESSource"
)

// Known reports whether t is one of the module kinds the config parser emits.
func (t ModuleType) Known() bool {
	switch t {
	case TypeProducer, TypeFilter, TypeAnalyzer, TypeOutputModule, TypeESProducer, TypeESSource:
		return true
	}
	return false
}

// ModuleRecord is the parsed configuration of one module, keyed by label.
// Parameters keep the order they have in the module's configuration and
// may be nil.
type ModuleRecord struct {
	Type       ModuleType                               `json:"type"`
	Plugin     string                                   `json:"plugin"`
	InputTags  []InputTagRecord                         `json:"inputTags"`
	Parameters *orderedmap.OrderedMap[string, Parameter] `json:"parameters"`
	RawSnippet string                                   `json:"rawSnippet"`
}

// TagKind discriminates the InputTag flavours.
type TagKind string

const (
	KindInputTag   TagKind = "InputTag"
	KindVInputTag  TagKind = "VInputTag"
	KindESInputTag TagKind = "ESInputTag"
)

// InputTagRecord is a reference from a module parameter to another module.
type InputTagRecord struct {
	Field    string  `json:"field"`
	Type     TagKind `json:"type"`
	Index    int     `json:"index,omitempty"` // position inside a VInputTag
	Module   string  `json:"module"`
	Instance string  `json:"instance"`
	Process  string  `json:"process"`
	Found    bool    `json:"found"`
	TargetID string  `json:"targetId,omitempty"`
}

// Parameter is a simple typed configuration value.
type Parameter struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Metadata summarises the bundle as written by the preprocessor.
type Metadata struct {
	IsDirected  bool `json:"is_directed"`
	NodeCount   int  `json:"node_count"`
	EdgeCount   int  `json:"edge_count"`
	ModuleCount int  `json:"module_count"`
}
