package systems

// SystemInfo describes a simulation system for logs and perf output.
type SystemInfo struct {
	ID          string // Internal identifier (used for perf tracking)
	Name        string // Display name
	Description string // What this system does
	Category    string // Grouping (e.g., "field", "units")
}

// SystemRegistry holds metadata about all systems.
// This centralizes system naming so logs and the perf tracker stay in sync.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry with all known systems.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{
		byID: make(map[string]SystemInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds all known systems to the registry.
// Update this when adding new systems.
func (r *SystemRegistry) registerDefaults() {
	// Field updates
	r.Register(SystemInfo{ID: "emitters", Name: "Emitters", Description: "Rebuilds signal contributions", Category: "field"})
	r.Register(SystemInfo{ID: "signalField", Name: "Signal Field", Description: "Diffuses and decays signals", Category: "field"})
	r.Register(SystemInfo{ID: "pulseField", Name: "Pulse Field", Description: "Ages and trims pulse markers", Category: "field"})

	// Unit behavior
	r.Register(SystemInfo{ID: "units", Name: "Units", Description: "Runs timers, goals and actions", Category: "units"})

	// Economy
	r.Register(SystemInfo{ID: "crafting", Name: "Crafting", Description: "Advances recipe cycles", Category: "economy"})
	r.Register(SystemInfo{ID: "construction", Name: "Construction", Description: "Completes ghosts and demolitions", Category: "economy"})

	// Cleanup
	r.Register(SystemInfo{ID: "cleanup", Name: "Cleanup", Description: "Removes dead entities", Category: "core"})

	// Data collection (internal)
	r.Register(SystemInfo{ID: "telemetry", Name: "Telemetry", Description: "Aggregates window statistics", Category: "internal"})
}

// Register adds a system to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	r.systems = append(r.systems, info)
	r.byID[info.ID] = info
}

// Get returns system info by ID.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// GetName returns the display name for a system ID.
// Falls back to the ID itself if not found.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// All returns all registered systems.
func (r *SystemRegistry) All() []SystemInfo {
	return r.systems
}

// ByCategory returns systems filtered by category.
func (r *SystemRegistry) ByCategory(category string) []SystemInfo {
	var result []SystemInfo
	for _, info := range r.systems {
		if info.Category == category {
			result = append(result, info)
		}
	}
	return result
}

// Categories returns all unique categories.
func (r *SystemRegistry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, info := range r.systems {
		if !seen[info.Category] {
			seen[info.Category] = true
			cats = append(cats, info.Category)
		}
	}
	return cats
}

// IDs returns all system IDs in registration order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}
