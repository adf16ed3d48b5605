package systems

import (
	"errors"

	"github.com/pthm-cable/brood/components"
)

// Sentinel errors for inventory transfers. Callers treat both as
// routine outcomes, not faults: a failed transfer feeds impatience.
var (
	ErrSourceEmpty     = errors.New("inventory: source has none of the item")
	ErrDestinationFull = errors.New("inventory: destination has no room for the item")
)

// TakeOne removes a single item from the inventory. Returns
// ErrSourceEmpty if none is available.
func TakeOne(inv *components.Inventory, item components.ItemID) error {
	if inv.Remove(item, 1) == 0 {
		return ErrSourceEmpty
	}
	return nil
}

// PutOne inserts a single item into the inventory. Returns
// ErrDestinationFull if no slot has room.
func PutOne(inv *components.Inventory, item components.ItemID) error {
	if inv.Add(item, 1) == 0 {
		return ErrDestinationFull
	}
	return nil
}

// Transfer moves up to n of an item between inventories. It moves as
// much as both sides allow and reports why it stopped short; moving
// the full n returns moved == n and a nil error.
func Transfer(src, dst *components.Inventory, item components.ItemID, n int32) (int32, error) {
	if n <= 0 {
		return 0, nil
	}
	room := dst.RoomFor(item)
	avail := src.CountOf(item)

	move := n
	if move > room {
		move = room
	}
	if move > avail {
		move = avail
	}
	if move > 0 {
		src.Remove(item, move)
		dst.Add(item, move)
	}

	if move < n {
		if avail <= move {
			return move, ErrSourceEmpty
		}
		return move, ErrDestinationFull
	}
	return move, nil
}

// NewInventory builds an inventory with one slot per listed item.
func NewInventory(items []components.ItemID, capacity int32) components.Inventory {
	slots := make([]components.ItemSlot, len(items))
	for i, item := range items {
		slots[i] = components.ItemSlot{Item: item, Capacity: capacity}
	}
	return components.Inventory{Slots: slots}
}
