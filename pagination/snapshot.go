package pagination

// Snapshot is a serializable view of a State.
type Snapshot struct {
	State     string     `json:"state"`
	Loading   bool       `json:"loading"`
	Count     int        `json:"count"`
	Items     DataSource `json:"items,omitempty"`
	Error     string     `json:"error,omitempty"`
	ErrorKind string     `json:"errorKind,omitempty"`
}

// SnapshotOf describes state.
func SnapshotOf(state State) Snapshot {
	if state == nil {
		return Snapshot{}
	}

	items := Items(state)

	snap := Snapshot{
		State:   state.Name(),
		Loading: IsLoading(state),
		Count:   len(items),
		Items:   items,
	}

	if failed, ok := state.(Failed); ok && failed.Err != nil {
		snap.Error = failed.Err.Error()
		snap.ErrorKind = failed.Err.Kind.String()
	}

	return snap
}
