// Package telemetry provides colony health tracking, CSV output, and
// world snapshots.
package telemetry

import "github.com/pthm-cable/brood/components"

// EventType identifies telemetry events.
type EventType uint8

const (
	EventSpawn EventType = iota
	EventStarvation
	EventCraftFinished
	EventGhostCompleted
	EventDemolition
)

// Event represents a single telemetry event.
type Event struct {
	Type EventType
	Tick int64

	// Optional fields depending on event type
	UnitKind      components.UnitID
	StructureKind components.StructureID
	Item          components.ItemID
	Amount        int32
}

// NewSpawnEvent records a unit entering the world.
func NewSpawnEvent(tick int64, kind components.UnitID) Event {
	return Event{Type: EventSpawn, Tick: tick, UnitKind: kind}
}

// NewStarvationEvent records a unit dying with empty reserves.
func NewStarvationEvent(tick int64, kind components.UnitID) Event {
	return Event{Type: EventStarvation, Tick: tick, UnitKind: kind}
}

// NewCraftFinishedEvent records the recipe cycles completed in a tick.
func NewCraftFinishedEvent(tick int64, cycles int32) Event {
	return Event{Type: EventCraftFinished, Tick: tick, Amount: cycles}
}

// NewGhostCompletedEvent records a ghost turning into a real structure.
func NewGhostCompletedEvent(tick int64, kind components.StructureID) Event {
	return Event{Type: EventGhostCompleted, Tick: tick, StructureKind: kind}
}

// NewDemolitionEvent records a structure being torn down.
func NewDemolitionEvent(tick int64, kind components.StructureID) Event {
	return Event{Type: EventDemolition, Tick: tick, StructureKind: kind}
}
