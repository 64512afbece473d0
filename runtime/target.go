package runtime

import (
	"github.com/openllb/remap/path"
	"github.com/openllb/remap/value"
)

// Target is the external collaborator a host implements to expose its
// event/metadata data as a remap program's mutable target (spec §3, §6).
// Event and metadata paths route to logically separate stores.
type Target interface {
	Get(tp path.TargetPath) (value.Value, bool, error)
	Insert(tp path.TargetPath, v value.Value) error
	Remove(tp path.TargetPath, compact bool) (value.Value, bool, error)

	// IsReadOnlyPath is queried at compile time to reject assignments to
	// immutable fields (spec §6). Per spec §9's open question, the core
	// does not itself enforce this at runtime for `remove` — a host whose
	// Remove silently no-ops on a read-only field keeps today's behavior;
	// a host that wants a hard runtime error should return one from
	// Remove directly.
	IsReadOnlyPath(tp path.TargetPath) bool
}
