package components

// Structure marks an entity as a fixed installation occupying one tile.
type Structure struct {
	Kind StructureID
}

// Ghost marks a planned structure awaiting construction. Units deliver
// the listed materials into its input, then work it up; when both are
// complete the ghost is replaced by the real structure.
type Ghost struct {
	Kind     StructureID
	Progress int32 // Build work applied so far, in ticks
}

// MarkedForDemolition tags a structure that units should tear down.
type MarkedForDemolition struct {
	Progress int32 // Demolition work applied so far, in ticks
	Required int32 // Work needed before the structure is removed
}

// ItemSlot holds a stack of one item kind.
type ItemSlot struct {
	Item     ItemID
	Count    int32
	Capacity int32
}

// Free returns the remaining room in the slot.
func (s *ItemSlot) Free() int32 {
	return s.Capacity - s.Count
}

// Inventory is a fixed set of typed slots. Input inventories receive
// deliveries, output inventories serve pickups; both share this shape.
type Inventory struct {
	Slots []ItemSlot
}

// CountOf returns how many of the item the inventory holds.
func (inv *Inventory) CountOf(item ItemID) int32 {
	var n int32
	for i := range inv.Slots {
		if inv.Slots[i].Item == item {
			n += inv.Slots[i].Count
		}
	}
	return n
}

// RoomFor returns how many more of the item fit.
func (inv *Inventory) RoomFor(item ItemID) int32 {
	var n int32
	for i := range inv.Slots {
		if inv.Slots[i].Item == item {
			n += inv.Slots[i].Free()
		}
	}
	return n
}

// Add inserts up to n of the item, returning how many were placed.
func (inv *Inventory) Add(item ItemID, n int32) int32 {
	var placed int32
	for i := range inv.Slots {
		if inv.Slots[i].Item != item {
			continue
		}
		take := inv.Slots[i].Free()
		if take > n-placed {
			take = n - placed
		}
		inv.Slots[i].Count += take
		placed += take
		if placed == n {
			break
		}
	}
	return placed
}

// Remove takes up to n of the item, returning how many came out.
func (inv *Inventory) Remove(item ItemID, n int32) int32 {
	var taken int32
	for i := range inv.Slots {
		if inv.Slots[i].Item != item {
			continue
		}
		take := inv.Slots[i].Count
		if take > n-taken {
			take = n - taken
		}
		inv.Slots[i].Count -= take
		taken += take
		if taken == n {
			break
		}
	}
	return taken
}

// IsEmpty reports whether every slot is empty.
func (inv *Inventory) IsEmpty() bool {
	for i := range inv.Slots {
		if inv.Slots[i].Count > 0 {
			return false
		}
	}
	return true
}

// IsFull reports whether no slot has room left.
func (inv *Inventory) IsFull() bool {
	for i := range inv.Slots {
		if inv.Slots[i].Free() > 0 {
			return false
		}
	}
	return true
}

// InputInventory receives deliveries for crafting or construction.
type InputInventory struct {
	Inventory
}

// OutputInventory serves pickups of produced items.
type OutputInventory struct {
	Inventory
}

// StorageInventory accepts any accepted item for long-term keeping.
type StorageInventory struct {
	Inventory
}

// CraftPhase is the stage of a structure's production cycle.
type CraftPhase uint8

const (
	CraftNeedsInput CraftPhase = iota // Waiting for recipe inputs
	CraftInProgress                   // Consuming time, inputs taken
	CraftFinished                     // Output ready but blocked on room
)

// RecipeNone marks a structure that crafts nothing.
const RecipeNone uint8 = 0xFF

// Crafting drives a structure through its recipe. Recipe indexes the
// recipe table in config, or RecipeNone for passive structures.
type Crafting struct {
	Recipe    uint8
	Phase     CraftPhase
	TicksLeft int32

	// WorkedOn is set by units working here this tick and cleared
	// after the crafting step consumes it.
	WorkedOn bool
}
