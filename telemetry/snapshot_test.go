package telemetry

import (
	"path/filepath"
	"testing"
)

func testSnapshot() *SnapshotState {
	return &SnapshotState{
		Seed:   42,
		Radius: 5,
		Tick:   900,
		Tiles: []TileState{
			{Q: 0, R: 0, Passable: true},
			{Q: 1, R: 0, Passable: false},
		},
		Structures: []StructureState{
			{
				ID: 1, Kind: 0, Q: 2, R: -1, Phase: 1, TicksLeft: 37,
				Output:  []SlotState{{Item: 0, Count: 2, Capacity: 3}},
				Storage: []SlotState{},
			},
		},
		Ghosts: []GhostState{
			{ID: 2, Kind: 1, Q: -1, R: 2,
				Input: []SlotState{{Item: 1, Count: 1, Capacity: 2}}},
		},
		Units: []UnitState{
			{ID: 3, Kind: 0, Q: 0, R: 1, Goal: 1, GoalItem: 0,
				Energy: 72.5, Held: 0xFF, Impatience: 4},
		},
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.db")
	db, err := OpenSnapshotDB(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	want := testSnapshot()
	if err := db.SaveSnapshot(want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := db.LoadSnapshot()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if got.Seed != want.Seed || got.Radius != want.Radius || got.Tick != want.Tick {
		t.Errorf("meta = %d/%d/%d, want %d/%d/%d",
			got.Seed, got.Radius, got.Tick, want.Seed, want.Radius, want.Tick)
	}
	if len(got.Tiles) != 2 {
		t.Fatalf("tiles = %d, want 2", len(got.Tiles))
	}
	if len(got.Structures) != 1 {
		t.Fatalf("structures = %d, want 1", len(got.Structures))
	}
	st := got.Structures[0]
	if st.TicksLeft != 37 {
		t.Errorf("ticks_left = %d, want 37", st.TicksLeft)
	}
	if len(st.Output) != 1 || st.Output[0].Count != 2 {
		t.Errorf("output slots %+v", st.Output)
	}
	if len(got.Ghosts) != 1 || len(got.Ghosts[0].Input) != 1 {
		t.Fatalf("ghosts %+v", got.Ghosts)
	}
	if len(got.Units) != 1 {
		t.Fatalf("units = %d, want 1", len(got.Units))
	}
	u := got.Units[0]
	if u.Energy != 72.5 || u.Held != 0xFF || u.Impatience != 4 {
		t.Errorf("unit %+v", u)
	}
}

func TestSnapshotSaveReplacesPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.db")
	db, err := OpenSnapshotDB(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if err := db.SaveSnapshot(testSnapshot()); err != nil {
		t.Fatalf("save: %v", err)
	}

	second := testSnapshot()
	second.Tick = 1800
	second.Units = nil
	if err := db.SaveSnapshot(second); err != nil {
		t.Fatalf("save again: %v", err)
	}

	got, err := db.LoadSnapshot()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Tick != 1800 {
		t.Errorf("tick = %d, want 1800", got.Tick)
	}
	if len(got.Units) != 0 {
		t.Errorf("stale units survived: %+v", got.Units)
	}
}

func TestEventLogSurvivesSnapshots(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.db")
	db, err := OpenSnapshotDB(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	events := []Event{
		NewSpawnEvent(10, 0),
		NewCraftFinishedEvent(20, 1),
	}
	if err := db.AppendEvents(events); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := db.SaveSnapshot(testSnapshot()); err != nil {
		t.Fatalf("save: %v", err)
	}

	var count int
	if err := db.conn.Get(&count, `SELECT COUNT(*) FROM events`); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Errorf("events = %d, want 2", count)
	}
}
