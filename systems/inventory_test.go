package systems

import (
	"errors"
	"testing"

	"github.com/pthm-cable/brood/components"
)

func TestTakeAndPut(t *testing.T) {
	inv := NewInventory([]components.ItemID{0}, 2)

	if err := TakeOne(&inv, 0); !errors.Is(err, ErrSourceEmpty) {
		t.Errorf("take from empty = %v, want ErrSourceEmpty", err)
	}
	if err := PutOne(&inv, 0); err != nil {
		t.Fatalf("put into empty slot: %v", err)
	}
	if err := PutOne(&inv, 0); err != nil {
		t.Fatalf("put into half-full slot: %v", err)
	}
	if err := PutOne(&inv, 0); !errors.Is(err, ErrDestinationFull) {
		t.Errorf("put into full slot = %v, want ErrDestinationFull", err)
	}
	// Items the inventory has no slot for are rejected.
	if err := PutOne(&inv, 1); !errors.Is(err, ErrDestinationFull) {
		t.Errorf("put unknown item = %v, want ErrDestinationFull", err)
	}
	if got := inv.CountOf(0); got != 2 {
		t.Errorf("count = %d, want 2", got)
	}
}

func TestTransferStopsShort(t *testing.T) {
	src := NewInventory([]components.ItemID{0}, 10)
	dst := NewInventory([]components.ItemID{0}, 3)
	src.Add(0, 5)

	moved, err := Transfer(&src, &dst, 0, 5)
	if moved != 3 || !errors.Is(err, ErrDestinationFull) {
		t.Errorf("Transfer = (%d, %v), want (3, ErrDestinationFull)", moved, err)
	}
	if src.CountOf(0) != 2 || dst.CountOf(0) != 3 {
		t.Errorf("post-transfer counts src=%d dst=%d", src.CountOf(0), dst.CountOf(0))
	}

	moved, err = Transfer(&dst, &src, 0, 10)
	if moved != 3 || !errors.Is(err, ErrSourceEmpty) {
		t.Errorf("drain = (%d, %v), want (3, ErrSourceEmpty)", moved, err)
	}

	moved, err = Transfer(&src, &dst, 0, 0)
	if moved != 0 || err != nil {
		t.Errorf("zero transfer = (%d, %v), want (0, nil)", moved, err)
	}
}

func TestTransferExact(t *testing.T) {
	src := NewInventory([]components.ItemID{1}, 4)
	dst := NewInventory([]components.ItemID{1}, 4)
	src.Add(1, 2)

	moved, err := Transfer(&src, &dst, 1, 2)
	if moved != 2 || err != nil {
		t.Errorf("exact transfer = (%d, %v), want (2, nil)", moved, err)
	}
	if !src.IsEmpty() {
		t.Error("source should be empty")
	}
}
