package telemetry

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SnapshotVersion is incremented when the schema changes.
const SnapshotVersion = 1

// SnapshotState holds the complete simulation state for replay.
type SnapshotState struct {
	Version int
	Seed    int64
	Radius  int
	Tick    int64

	Tiles      []TileState
	Structures []StructureState
	Ghosts     []GhostState
	Units      []UnitState
}

// TileState records one arena tile.
type TileState struct {
	Q        int  `db:"q"`
	R        int  `db:"r"`
	Passable bool `db:"passable"`
}

// StructureState records one structure and its inventories.
type StructureState struct {
	ID    uint32 `db:"id"`
	Kind  uint8  `db:"kind"`
	Q     int    `db:"q"`
	R     int    `db:"r"`
	Phase uint8  `db:"phase"`

	TicksLeft int32 `db:"ticks_left"`

	// Slot contents as item:count pairs, one row per slot
	Input   []SlotState `db:"-"`
	Output  []SlotState `db:"-"`
	Storage []SlotState `db:"-"`
}

// SlotState records one inventory slot.
type SlotState struct {
	Item     uint8 `db:"item"`
	Count    int32 `db:"count"`
	Capacity int32 `db:"capacity"`
}

// GhostState records a planned structure and its delivered materials.
type GhostState struct {
	ID    uint32      `db:"id"`
	Kind  uint8       `db:"kind"`
	Q     int         `db:"q"`
	R     int         `db:"r"`
	Input []SlotState `db:"-"`
}

// UnitState records one unit.
type UnitState struct {
	ID         uint32  `db:"id"`
	Kind       uint8   `db:"kind"`
	Q          int     `db:"q"`
	R          int     `db:"r"`
	Goal       uint8   `db:"goal"`
	GoalItem   uint8   `db:"goal_item"`
	Energy     float64 `db:"energy"`
	Held       uint8   `db:"held"`
	Impatience int32   `db:"impatience"`
}

// SnapshotDB wraps a SQLite connection for world state persistence.
type SnapshotDB struct {
	conn *sqlx.DB
}

// OpenSnapshotDB opens or creates a snapshot database at the given
// path.
func OpenSnapshotDB(path string) (*SnapshotDB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &SnapshotDB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *SnapshotDB) Close() error {
	return db.conn.Close()
}

func (db *SnapshotDB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tiles (
		q INTEGER NOT NULL,
		r INTEGER NOT NULL,
		passable INTEGER NOT NULL,
		PRIMARY KEY (q, r)
	);

	CREATE TABLE IF NOT EXISTS structures (
		id INTEGER PRIMARY KEY,
		kind INTEGER NOT NULL,
		q INTEGER NOT NULL,
		r INTEGER NOT NULL,
		phase INTEGER NOT NULL,
		ticks_left INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS slots (
		owner INTEGER NOT NULL,
		inventory TEXT NOT NULL,
		item INTEGER NOT NULL,
		count INTEGER NOT NULL,
		capacity INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS ghosts (
		id INTEGER PRIMARY KEY,
		kind INTEGER NOT NULL,
		q INTEGER NOT NULL,
		r INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS units (
		id INTEGER PRIMARY KEY,
		kind INTEGER NOT NULL,
		q INTEGER NOT NULL,
		r INTEGER NOT NULL,
		goal INTEGER NOT NULL,
		goal_item INTEGER NOT NULL,
		energy REAL NOT NULL,
		held INTEGER NOT NULL,
		impatience INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tick INTEGER NOT NULL,
		type INTEGER NOT NULL,
		unit_kind INTEGER NOT NULL,
		structure_kind INTEGER NOT NULL,
		item INTEGER NOT NULL,
		amount INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);
	CREATE INDEX IF NOT EXISTS idx_slots_owner ON slots(owner);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveSnapshot writes the full world state (full replace).
func (db *SnapshotDB) SaveSnapshot(s *SnapshotState) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"meta", "tiles", "structures", "slots", "ghosts", "units"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}

	metaStmt, err := tx.Preparex(`INSERT INTO meta (key, value) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer metaStmt.Close()
	meta := map[string]any{
		"version": SnapshotVersion,
		"seed":    s.Seed,
		"radius":  s.Radius,
		"tick":    s.Tick,
	}
	for key, value := range meta {
		if _, err := metaStmt.Exec(key, fmt.Sprint(value)); err != nil {
			return err
		}
	}

	tileStmt, err := tx.Preparex(`INSERT INTO tiles (q, r, passable) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer tileStmt.Close()
	for _, t := range s.Tiles {
		if _, err := tileStmt.Exec(t.Q, t.R, t.Passable); err != nil {
			return err
		}
	}

	structStmt, err := tx.Preparex(`INSERT INTO structures
		(id, kind, q, r, phase, ticks_left) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer structStmt.Close()
	slotStmt, err := tx.Preparex(`INSERT INTO slots
		(owner, inventory, item, count, capacity) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer slotStmt.Close()

	for _, st := range s.Structures {
		if _, err := structStmt.Exec(st.ID, st.Kind, st.Q, st.R, st.Phase, st.TicksLeft); err != nil {
			return err
		}
		if err := insertSlots(slotStmt, st.ID, "input", st.Input); err != nil {
			return err
		}
		if err := insertSlots(slotStmt, st.ID, "output", st.Output); err != nil {
			return err
		}
		if err := insertSlots(slotStmt, st.ID, "storage", st.Storage); err != nil {
			return err
		}
	}

	ghostStmt, err := tx.Preparex(`INSERT INTO ghosts (id, kind, q, r) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer ghostStmt.Close()
	for _, g := range s.Ghosts {
		if _, err := ghostStmt.Exec(g.ID, g.Kind, g.Q, g.R); err != nil {
			return err
		}
		if err := insertSlots(slotStmt, g.ID, "input", g.Input); err != nil {
			return err
		}
	}

	unitStmt, err := tx.Preparex(`INSERT INTO units
		(id, kind, q, r, goal, goal_item, energy, held, impatience)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer unitStmt.Close()
	for _, u := range s.Units {
		if _, err := unitStmt.Exec(u.ID, u.Kind, u.Q, u.R, u.Goal, u.GoalItem,
			u.Energy, u.Held, u.Impatience); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// AppendEvents adds events to the log without touching snapshot
// tables.
func (db *SnapshotDB) AppendEvents(events []Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT INTO events
		(tick, type, unit_kind, structure_kind, item, amount)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range events {
		if _, err := stmt.Exec(e.Tick, e.Type, e.UnitKind, e.StructureKind,
			e.Item, e.Amount); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadSnapshot reads the stored world state back.
func (db *SnapshotDB) LoadSnapshot() (*SnapshotState, error) {
	s := &SnapshotState{Version: SnapshotVersion}

	var radius int64
	meta := map[string]*int64{
		"seed":   &s.Seed,
		"tick":   &s.Tick,
		"radius": &radius,
	}
	for key, dst := range meta {
		var value string
		err := db.conn.Get(&value, `SELECT value FROM meta WHERE key = ?`, key)
		if err != nil {
			return nil, fmt.Errorf("read meta %q: %w", key, err)
		}
		if _, err := fmt.Sscan(value, dst); err != nil {
			return nil, fmt.Errorf("parse meta %q: %w", key, err)
		}
	}
	s.Radius = int(radius)

	if err := db.conn.Select(&s.Tiles, `SELECT q, r, passable FROM tiles`); err != nil {
		return nil, fmt.Errorf("read tiles: %w", err)
	}
	if err := db.conn.Select(&s.Structures,
		`SELECT id, kind, q, r, phase, ticks_left FROM structures`); err != nil {
		return nil, fmt.Errorf("read structures: %w", err)
	}
	for i := range s.Structures {
		st := &s.Structures[i]
		var err error
		if st.Input, err = db.loadSlots(st.ID, "input"); err != nil {
			return nil, err
		}
		if st.Output, err = db.loadSlots(st.ID, "output"); err != nil {
			return nil, err
		}
		if st.Storage, err = db.loadSlots(st.ID, "storage"); err != nil {
			return nil, err
		}
	}

	if err := db.conn.Select(&s.Ghosts, `SELECT id, kind, q, r FROM ghosts`); err != nil {
		return nil, fmt.Errorf("read ghosts: %w", err)
	}
	for i := range s.Ghosts {
		var err error
		if s.Ghosts[i].Input, err = db.loadSlots(s.Ghosts[i].ID, "input"); err != nil {
			return nil, err
		}
	}

	if err := db.conn.Select(&s.Units,
		`SELECT id, kind, q, r, goal, goal_item, energy, held, impatience FROM units`); err != nil {
		return nil, fmt.Errorf("read units: %w", err)
	}

	return s, nil
}

func insertSlots(stmt *sqlx.Stmt, owner uint32, inventory string, slots []SlotState) error {
	for _, slot := range slots {
		if _, err := stmt.Exec(owner, inventory, slot.Item, slot.Count, slot.Capacity); err != nil {
			return err
		}
	}
	return nil
}

func (db *SnapshotDB) loadSlots(owner uint32, inventory string) ([]SlotState, error) {
	var slots []SlotState
	err := db.conn.Select(&slots,
		`SELECT item, count, capacity FROM slots WHERE owner = ? AND inventory = ?`,
		owner, inventory)
	if err != nil {
		return nil, fmt.Errorf("read slots: %w", err)
	}
	return slots, nil
}
