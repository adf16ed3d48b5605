package systems

import "testing"

func TestRegistryLookup(t *testing.T) {
	reg := NewSystemRegistry()

	info, ok := reg.Get("signalField")
	if !ok {
		t.Fatal("signalField not registered")
	}
	if info.Category != "field" {
		t.Errorf("signalField category = %q, want field", info.Category)
	}

	if name := reg.GetName("crafting"); name != "Crafting" {
		t.Errorf("GetName(crafting) = %q", name)
	}
	if name := reg.GetName("nope"); name != "nope" {
		t.Errorf("unknown ID should fall back to itself, got %q", name)
	}
}

func TestRegistryCoversAllCategories(t *testing.T) {
	reg := NewSystemRegistry()

	var total int
	for _, cat := range reg.Categories() {
		total += len(reg.ByCategory(cat))
	}
	if total != len(reg.All()) {
		t.Errorf("categories cover %d systems, registry has %d", total, len(reg.All()))
	}
	if len(reg.IDs()) != len(reg.All()) {
		t.Errorf("IDs() returned %d entries, want %d", len(reg.IDs()), len(reg.All()))
	}
}
