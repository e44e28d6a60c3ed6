package teams

// Registry is an ordered, read-only list of team options.
type Registry struct {
	options []Option
}

// NewRegistry copies the given options into a registry, preserving order.
func NewRegistry(options []Option) *Registry {
	copied := make([]Option, len(options))
	copy(copied, options)
	return &Registry{options: copied}
}

// DefaultRegistry returns the built-in team list.
func DefaultRegistry() *Registry {
	return NewRegistry([]Option{
		{
			Label:             "New York Mets (MLB)",
			Key:               "mlb:NYM",
			Level:             LevelPro,
			ScheduleTeamID:    121,
			TrackingTeam:      "NYM",
			LeaderboardTeamID: 25,
		},
		{
			Label: "Wright State Raiders (College)",
			Key:   "college:wright-state",
			Level: LevelCollege,
		},
	})
}

// List returns a copy of every option in configured order.
func (r *Registry) List() []Option {
	if r == nil {
		return nil
	}
	out := make([]Option, len(r.options))
	copy(out, r.options)
	return out
}

// Keys returns team keys in configured order.
func (r *Registry) Keys() []string {
	if r == nil {
		return nil
	}
	keys := make([]string, 0, len(r.options))
	for _, opt := range r.options {
		keys = append(keys, opt.Key)
	}
	return keys
}

// Get looks up an option by key.
func (r *Registry) Get(key string) (Option, bool) {
	if r == nil {
		return Option{}, false
	}
	for _, opt := range r.options {
		if opt.Key == key {
			return opt, true
		}
	}
	return Option{}, false
}

// RosterFallbackKey returns the first team with both roster providers configured.
func (r *Registry) RosterFallbackKey() string {
	if r == nil {
		return ""
	}
	for _, opt := range r.options {
		if opt.HasRosterSources() {
			return opt.Key
		}
	}
	return ""
}
