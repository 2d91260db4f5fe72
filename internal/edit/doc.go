// Package edit implements the in-place edit session controller.
//
// A session turns a passive Target into a live editor and returns it to
// display with a committed or discarded value:
//
//	Activate -> (typing) -> Commit   // blur, or Enter without Shift
//	Activate -> (typing) -> Cancel   // Escape
//
// Commit writes {content id: plain text} to the content store. Cancel
// restores the markup captured at activation and writes nothing.
//
// # Policies
//
// Permission: Activate without the edit capability is ignored silently.
// The capability is checked once at activation and never re-checked
// during a session.
//
// Readiness: when a gate is configured, Activate is refused until the gate
// opens. Pages open it after hydration, so a stale default value can never
// be edited.
//
// Overlap: at most one session is active per Controller. Activating a new
// target force-commits the previous session; re-activating the target that
// is already being edited is a no-op.
//
// Id assignment: targets without a content id receive one from the
// configured IDGenerator at commit time. Ids already present in the store
// are skipped. Wall-clock ids are never used.
//
// Persistence failures never abort a session. The store keeps the new
// value in memory, the Notifier receives a failure notification, and the
// value is written on the next successful store write.
package edit
