package tui

import (
	"reflect"
	"testing"

	"github.com/magpie-sh/magpie/internal/core"
)

func testDescriptors(ids ...string) []core.ItemDescriptor {
	ds := make([]core.ItemDescriptor, len(ids))
	for i, id := range ids {
		ds[i] = core.ItemDescriptor{ID: id, DisplayName: id}
	}
	return ds
}

func TestCheckedIDs_PreservesCatalogOrder(t *testing.T) {
	a := NewApp(Deps{})
	a.descriptors = testDescriptors("a", "b", "c", "d")
	a.list.SetItems(descriptorsToItems(a.descriptors, map[string]bool{"d": true, "b": true}, nil))

	got := a.checkedIDs()
	if !reflect.DeepEqual(got, []string{"b", "d"}) {
		t.Errorf("checkedIDs() = %v, want [b d]", got)
	}
}

func TestToggleAll(t *testing.T) {
	a := NewApp(Deps{})
	a.descriptors = testDescriptors("a", "b", "c")
	a.list.SetItems(descriptorsToItems(a.descriptors, map[string]bool{"a": true}, nil))

	// Any checked: toggling clears everything.
	a.toggleAll()
	if got := a.checkedIDs(); len(got) != 0 {
		t.Errorf("after first toggleAll, checkedIDs() = %v, want empty", got)
	}

	// None checked: toggling selects everything.
	a.toggleAll()
	if got := a.checkedIDs(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("after second toggleAll, checkedIDs() = %v, want [a b c]", got)
	}
}

func TestCatalogOrdered(t *testing.T) {
	a := NewApp(Deps{})
	a.descriptors = testDescriptors("a", "b", "c")

	// Installed order differs from catalog order; a delisted id ("z")
	// tails the result.
	got := a.catalogOrdered([]string{"c", "z", "a"})
	if !reflect.DeepEqual(got, []string{"a", "c", "z"}) {
		t.Errorf("catalogOrdered() = %v, want [a c z]", got)
	}
}

func TestClampHeight(t *testing.T) {
	content := "one\ntwo\nthree"
	if got := clampHeight(content, 2); got != "one\ntwo" {
		t.Errorf("clampHeight() = %q", got)
	}
	if got := clampHeight(content, 10); got != content {
		t.Errorf("clampHeight() truncated content that fits: %q", got)
	}
	if got := clampHeight(content, 0); got != "" {
		t.Errorf("clampHeight(0) = %q, want empty", got)
	}
}

func TestClampWidth(t *testing.T) {
	if got := clampWidth("abcdef\nxy", 3); got != "abc\nxy" {
		t.Errorf("clampWidth() = %q", got)
	}
}

func TestPluralize(t *testing.T) {
	if got := pluralize(1, "item"); got != "item" {
		t.Errorf("pluralize(1) = %q", got)
	}
	if got := pluralize(3, "item"); got != "items" {
		t.Errorf("pluralize(3) = %q", got)
	}
}
