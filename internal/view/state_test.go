package view_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaneshwarpardhi/modgraph/internal/filter"
	"github.com/gyaneshwarpardhi/modgraph/internal/graph"
	"github.com/gyaneshwarpardhi/modgraph/internal/view"
)

func TestState_History(t *testing.T) {
	s := view.NewState()
	assert.Empty(t, s.History)
	assert.Equal(t, filter.AllOn(), s.Filters)

	s = s.Select("a", "1").Select("b", "2").Select("b", "2").Select("c", "3")
	assert.Equal(t, []string{"a", "b", "c"}, s.History)
	assert.Equal(t, "c", s.Selected)
	assert.Equal(t, []string{"3"}, s.Highlighted)

	back, label, ok := s.BackTo(0)
	require.True(t, ok)
	assert.Equal(t, "a", label)
	assert.Equal(t, []string{"a"}, back.History)
	assert.Equal(t, []string{"a", "b", "c"}, s.History, "receiver must not change")

	_, _, ok = s.BackTo(3)
	assert.False(t, ok)
	_, _, ok = s.BackTo(-1)
	assert.False(t, ok)

	closed := s.Close()
	assert.Empty(t, closed.Selected)
	assert.Empty(t, closed.History)
	assert.Nil(t, closed.Highlighted)
}

func TestState_ViewAndSearch(t *testing.T) {
	s := view.NewState().WithView(view.Result{Kind: view.KindEgo, Center: "7", Subset: graph.NewSubset()})
	require.NotNil(t, s.View)
	assert.Equal(t, []string{"7"}, s.Highlighted)

	s = s.WithSearch(view.SearchResult{Matches: []string{"1", "2"}, Outcome: view.SearchMany})
	assert.True(t, s.Dimmed)
	assert.Equal(t, []string{"1", "2"}, s.Highlighted)

	s = s.Reset()
	assert.Nil(t, s.View)
	assert.False(t, s.Dimmed)
	assert.Nil(t, s.Highlighted)

	off := filter.AllOff()
	s = s.WithFilters(off)
	assert.Equal(t, off, s.Filters)
}
