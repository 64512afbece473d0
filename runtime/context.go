package runtime

import "time"

// Context is the transient handle passed down through Resolve calls: an
// exclusive reference to the target adapter, an exclusive reference to the
// RuntimeState, and a shared timezone (spec §3). One Context is constructed
// per top-level Runtime.Resolve call and lives no longer than it.
type Context struct {
	Target   Target
	State    *RuntimeState
	Timezone *time.Location
}

func NewContext(target Target, state *RuntimeState, timezone *time.Location) *Context {
	if timezone == nil {
		timezone = time.UTC
	}
	return &Context{Target: target, State: state, Timezone: timezone}
}
