package bundle

import (
	"fmt"
	"sort"
	"strings"
)

// Validate checks the bundle for:
//   - nodes without an id and duplicate node ids
//   - edges with missing endpoints or endpoints that are not nodes
//   - input tags with an unknown kind
//
// Duplicate labels are legal and are resolved by the graph's label index.
func Validate(b *Bundle) error {
	ids := make(map[string]int, len(b.Nodes)) // id → first index
	var errs []string

	for i, n := range b.Nodes {
		if n.ID == "" {
			errs = append(errs, fmt.Sprintf("nodes[%d]: id is required", i))
			continue
		}
		if prev, ok := ids[n.ID]; ok {
			errs = append(errs, fmt.Sprintf("duplicate node id %q (nodes[%d] and nodes[%d])", n.ID, prev, i))
			continue
		}
		ids[n.ID] = i
	}

	for i, e := range b.Edges {
		switch {
		case e.Source == "" || e.Target == "":
			errs = append(errs, fmt.Sprintf("edges[%d]: source and target are required", i))
		default:
			if _, ok := ids[e.Source]; !ok {
				errs = append(errs, fmt.Sprintf("edges[%d]: source %q is not a node", i, e.Source))
			}
			if _, ok := ids[e.Target]; !ok {
				errs = append(errs, fmt.Sprintf("edges[%d]: target %q is not a node", i, e.Target))
			}
		}
	}

	labels := make([]string, 0, len(b.Modules))
	for label := range b.Modules {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		for j, tag := range b.Modules[label].InputTags {
			switch tag.Type {
			case KindInputTag, KindVInputTag, KindESInputTag:
			default:
				errs = append(errs, fmt.Sprintf("module %s: inputTags[%d]: unknown tag type %q", label, j, tag.Type))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("bundle validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
