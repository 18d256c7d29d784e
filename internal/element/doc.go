// Package element defines the contract between the autodetect core and the
// implementations it selects from.
//
// # Components
//
// A Component is created by a Factory, reports the formats its output can
// produce and is driven synchronously through four states:
//
//	NULL -> READY -> PAUSED -> PLAYING
//
// READY is the minimal active state used for trial activation. Moving back to
// NULL must release whatever READY acquired (device handles, sessions).
//
// # Error Bus
//
// During trial activation the prober attaches a private Bus to the component.
// Components post detailed errors there and still return an error from
// SetState. The prober drains the bus after a failure and detaches it.
//
// # Placeholder
//
// Placeholder is the inert component bound whenever nothing real is active.
package element
