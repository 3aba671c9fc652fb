package store

// Sync is how local state is reconciled after a successful mutation.
type Sync int

const (
	// Resync refetches the whole list from the backend.
	Resync Sync = iota

	// PatchLocal applies the change to the local list without a refetch.
	PatchLocal
)

func (s Sync) String() string {
	if s == PatchLocal {
		return "patch"
	}
	return "resync"
}

// Op names a store mutation.
type Op string

// Store mutations.
const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpToggle Op = "toggle"
	OpDelete Op = "delete"
)

var policies = map[Op]Sync{
	OpCreate: Resync,
	OpUpdate: Resync,
	OpToggle: PatchLocal,
	OpDelete: PatchLocal,
}

// PolicyFor returns the reconciliation policy used after op succeeds.
func PolicyFor(op Op) Sync {
	return policies[op]
}
