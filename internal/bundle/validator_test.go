package bundle

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		b       Bundle
		wantErr []string
	}{
		{
			name: "valid with duplicate labels",
			b: Bundle{
				Nodes: []NodeRecord{{ID: "a", Label: "x"}, {ID: "b", Label: "x"}},
				Edges: []EdgeRecord{{Source: "a", Target: "b"}, {Source: "a", Target: "b"}},
			},
		},
		{
			name:    "missing node id",
			b:       Bundle{Nodes: []NodeRecord{{Label: "x"}}},
			wantErr: []string{"nodes[0]: id is required"},
		},
		{
			name:    "duplicate node id",
			b:       Bundle{Nodes: []NodeRecord{{ID: "a"}, {ID: "a"}}},
			wantErr: []string{`duplicate node id "a"`},
		},
		{
			name: "edge endpoints",
			b: Bundle{
				Nodes: []NodeRecord{{ID: "a"}},
				Edges: []EdgeRecord{{Source: "a"}, {Source: "ghost", Target: "a"}},
			},
			wantErr: []string{"edges[0]: source and target are required", `edges[1]: source "ghost" is not a node`},
		},
		{
			name: "unknown tag type",
			b: Bundle{
				Modules: map[string]ModuleRecord{
					"m": {InputTags: []InputTagRecord{{Field: "src", Type: "cms.string"}}},
				},
			},
			wantErr: []string{`module m: inputTags[0]: unknown tag type "cms.string"`},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(&tc.b)
			if len(tc.wantErr) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			for _, want := range tc.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error %q does not mention %q", err, want)
				}
			}
		})
	}
}

func TestModuleTypeKnown(t *testing.T) {
	for _, typ := range []ModuleType{TypeProducer, TypeFilter, TypeAnalyzer, TypeOutputModule, TypeESProducer, TypeESSource} {
		if !typ.Known() {
			t.Errorf("%s should be known", typ)
		}
	}
	if ModuleType("EDLooper").Known() {
		t.Error("EDLooper should not be known")
	}
}
