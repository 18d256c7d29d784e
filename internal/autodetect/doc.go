// Package autodetect selects the best available video source at runtime.
//
// # Overview
//
// A Source is a facade with one stable Endpoint. When it is activated
// (NULL->READY) it:
//
//  1. Queries the registry for every candidate in its capability family
//  2. Sorts them by rank, then by name, both descending
//  3. Probes them one at a time (see Prober)
//  4. Binds the first candidate that reached READY to the endpoint
//
// Deactivation (READY->NULL) tears the component down and binds a fresh
// placeholder, so the endpoint always has a target.
//
// # Probing
//
// For each candidate the Prober instantiates it, checks its output caps
// against the optional filter, attaches a private error bus and drives it to
// READY. Failures are drained from the bus and recorded in rank order, the
// candidate is returned to NULL and released, and the next one is tried.
// Candidates are never probed concurrently: opening one device while another
// still holds it would produce false failures.
//
// # Outcomes
//
//   - A candidate reached READY: it is bound.
//   - Candidates failed with errors: the first recorded error is posted to
//     the MessageSink and returned inside a DetectionError. Nothing but the
//     placeholder is bound.
//   - Nothing was eligible: a warning (ErrNoCandidates) is posted and a READY
//     placeholder is bound. Activation succeeds.
//
// # Filter Caps
//
// The filter defaults to raw YUV and RGB video. It can only be changed while
// a placeholder is bound; otherwise SetFilterCaps returns ErrFilterLocked.
//
// # Usage
//
//	reg := registry.NewRegistry(logger)
//	providers.Register(reg, providers.Options{})
//
//	src := autodetect.New("camera", reg, autodetect.WithLogger(logger))
//	if err := src.Activate(ctx); err != nil {
//	    return err
//	}
//	defer src.Deactivate(ctx)
//	consume(src.Endpoint())
package autodetect
