package menu

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var treeCmp = cmp.AllowUnexported(Tree{}, Group{}, Page{})

func sampleTree() Tree {
	return NewTree([]Group{
		NewGroup("m1", "Site features", 1, []Page{
			NewPage("p1", "Chatbot", 1, "", "https://chat.example.com", ""),
			NewPage("p2", "Dashboard", 2, "dash-01", "", "genie-01"),
			NewPage("p3", "Reports", 3, "", "", ""),
		}),
		NewGroup("m2", "Settings", 2, []Page{
			NewPage("p4", "System config", 1, "", "/system-config", ""),
			NewPage("p5", "Users", 2, "dash-02", "", ""),
		}),
	})
}

func groupIDs(t Tree) []string {
	var ids []string
	for _, g := range t.Groups() {
		ids = append(ids, g.ID())
	}
	return ids
}

func pageOrders(g Group) map[string]int {
	orders := make(map[string]int)
	for _, p := range g.Pages() {
		orders[p.ID()] = p.Order()
	}
	return orders
}

func TestTree_MovePageDown_SwapsAndRenumbers(t *testing.T) {
	tree := sampleTree()

	moved := tree.MovePageDown("m1", "p1")

	g, ok := moved.Group("m1")
	require.True(t, ok)
	pages := g.Pages()
	assert.Equal(t, "p2", pages[0].ID())
	assert.Equal(t, "p1", pages[1].ID())
	assert.Equal(t, map[string]int{"p1": 2, "p2": 1, "p3": 3}, pageOrders(g))
	assert.Empty(t, ValidateTree(moved))

	// The original snapshot is untouched.
	orig, _ := tree.Group("m1")
	assert.Equal(t, map[string]int{"p1": 1, "p2": 2, "p3": 3}, pageOrders(orig))
	assert.Equal(t, "p1", orig.Pages()[0].ID())
}

func TestTree_MoveGroup_RoundTrip(t *testing.T) {
	tree := sampleTree()

	down := tree.MoveGroupDown("m1")
	assert.Equal(t, []string{"m2", "m1"}, groupIDs(down))
	m1, _ := down.Group("m1")
	m2, _ := down.Group("m2")
	assert.Equal(t, 2, m1.Order())
	assert.Equal(t, 1, m2.Order())

	back := down.MoveGroupUp("m1")
	if diff := cmp.Diff(tree, back, treeCmp); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestTree_MovePage_RoundTrip(t *testing.T) {
	tree := sampleTree()
	for _, id := range []string{"p1", "p2", "p3"} {
		t.Run(id, func(t *testing.T) {
			up := tree.MovePageUp("m1", id)
			back := up.MovePageDown("m1", id)
			if up.Equal(tree) {
				// first page: moving up is a no-op
				assert.Equal(t, "p1", id)
				return
			}
			if diff := cmp.Diff(tree, back, treeCmp); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTree_MoveAtBoundary_IsNoOp(t *testing.T) {
	tree := sampleTree()

	tests := []struct {
		name string
		move func(Tree) Tree
	}{
		{"first group up", func(t Tree) Tree { return t.MoveGroupUp("m1") }},
		{"last group down", func(t Tree) Tree { return t.MoveGroupDown("m2") }},
		{"first page up", func(t Tree) Tree { return t.MovePageUp("m1", "p1") }},
		{"last page down", func(t Tree) Tree { return t.MovePageDown("m1", "p3") }},
		{"missing group", func(t Tree) Tree { return t.MoveGroupUp("nope") }},
		{"missing page", func(t Tree) Tree { return t.MovePageDown("m1", "nope") }},
		{"page in missing group", func(t Tree) Tree { return t.MovePageDown("nope", "p1") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.move(tree)
			assert.True(t, got.Equal(tree))
			if diff := cmp.Diff(tree, got, treeCmp); diff != "" {
				t.Errorf("tree changed (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTree_RenameGroup(t *testing.T) {
	tree := sampleTree()

	t.Run("51 characters fails", func(t *testing.T) {
		got, err := tree.RenameGroup("m1", strings.Repeat("a", 51))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidation)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		require.Len(t, verr.Violations, 1)
		assert.Equal(t, "name must not exceed 50 characters", verr.Violations[0].Message)
		assert.True(t, got.Equal(tree))
	})

	t.Run("50 characters succeeds", func(t *testing.T) {
		name := strings.Repeat("a", 50)
		got, err := tree.RenameGroup("m1", name)
		require.NoError(t, err)
		g, _ := got.Group("m1")
		assert.Equal(t, name, g.Name())

		orig, _ := tree.Group("m1")
		assert.Equal(t, "Site features", orig.Name())
	})

	t.Run("counts characters not bytes", func(t *testing.T) {
		got, err := tree.RenameGroup("m1", strings.Repeat("選", 50))
		require.NoError(t, err)
		g, _ := got.Group("m1")
		assert.Equal(t, 50, len([]rune(g.Name())))
	})

	t.Run("blank fails", func(t *testing.T) {
		_, err := tree.RenameGroup("m1", "   ")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("missing group", func(t *testing.T) {
		_, err := tree.RenameGroup("nope", "x")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestTree_UpdatePage(t *testing.T) {
	tree := sampleTree()

	t.Run("url of 201 characters fails", func(t *testing.T) {
		got, err := tree.UpdatePage("m1", "p1", PageUpdate{}.WithURL(strings.Repeat("u", 201)))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidation)
		assert.True(t, got.Equal(tree))
	})

	t.Run("url of 200 characters succeeds", func(t *testing.T) {
		url := strings.Repeat("u", 200)
		got, err := tree.UpdatePage("m1", "p1", PageUpdate{}.WithURL(url))
		require.NoError(t, err)
		_, p, ok := got.FindPage("p1")
		require.True(t, ok)
		assert.Equal(t, url, p.URL())
		assert.Equal(t, "Chatbot", p.Name())
	})

	t.Run("only provided fields change", func(t *testing.T) {
		got, err := tree.UpdatePage("m1", "p2", PageUpdate{}.WithName("Sales"))
		require.NoError(t, err)
		_, p, _ := got.FindPage("p2")
		assert.Equal(t, "Sales", p.Name())
		assert.Equal(t, "dash-01", p.DashboardID())
		assert.Equal(t, "genie-01", p.GenieID())
		assert.Equal(t, 2, p.Order())
	})

	t.Run("mode is recomputed", func(t *testing.T) {
		got, err := tree.UpdatePage("m1", "p2", PageUpdate{}.WithDashboardID("").WithURL("https://x.example.com"))
		require.NoError(t, err)
		_, p, _ := got.FindPage("p2")
		assert.Equal(t, Redirect{URL: "https://x.example.com"}, p.Mode())
	})

	t.Run("collects every rejected field", func(t *testing.T) {
		long := strings.Repeat("x", 201)
		_, err := tree.UpdatePage("m2", "p5", PageUpdate{}.WithName("").WithGenieID(long).WithDashboardID(long))
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		require.Len(t, verr.Violations, 3)
		assert.Equal(t, FieldName, verr.Violations[0].Field)
		assert.Equal(t, FieldDashboardID, verr.Violations[1].Field)
		assert.Equal(t, FieldGenieID, verr.Violations[2].Field)
		assert.Equal(t, 2, verr.Violations[0].GroupPosition)
		assert.Equal(t, 2, verr.Violations[0].PagePosition)
	})

	t.Run("missing page", func(t *testing.T) {
		_, err := tree.UpdatePage("m1", "p5", PageUpdate{}.WithName("x"))
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestTree_Renumber(t *testing.T) {
	tree := NewTree([]Group{
		NewGroup("b", "B", 7, []Page{NewPage("x", "X", 4, "", "", ""), NewPage("y", "Y", 9, "", "", "")}),
		NewGroup("a", "A", 3, nil),
	})

	got := tree.Renumber()

	groups := got.Groups()
	assert.Equal(t, 1, groups[0].Order())
	assert.Equal(t, 2, groups[1].Order())
	assert.Equal(t, map[string]int{"x": 1, "y": 2}, pageOrders(groups[0]))
}

func TestTree_GroupsReturnsCopy(t *testing.T) {
	tree := sampleTree()
	groups := tree.Groups()
	groups[0] = NewGroup("zz", "mutated", 1, nil)

	assert.Equal(t, []string{"m1", "m2"}, groupIDs(tree))
}

func TestTree_Move_RenumbersGappedSiblings(t *testing.T) {
	tree := NewTree([]Group{
		NewGroup("m1", "Site features", 5, []Page{
			NewPage("p1", "Chatbot", 10, "", "https://chat.example.com", ""),
			NewPage("p2", "Dashboard", 20, "dash-01", "", ""),
			NewPage("p3", "Reports", 30, "", "", ""),
		}),
		NewGroup("m2", "Settings", 9, nil),
	})

	g, _ := tree.MovePageDown("m1", "p1").Group("m1")
	assert.Equal(t, map[string]int{"p2": 1, "p1": 2, "p3": 3}, pageOrders(g))

	moved := tree.MoveGroupDown("m1")
	assert.Equal(t, []string{"m2", "m1"}, groupIDs(moved))
	assert.Equal(t, 1, moved.Groups()[0].Order())
	assert.Equal(t, 2, moved.Groups()[1].Order())
}
