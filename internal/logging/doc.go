// Package logging builds the slog logger shared by the autodetect packages.
//
// The "json" format uses slog's JSON handler. Anything else uses ColorHandler,
// which prints one line per record:
//
//	15:04:05 INF === SOURCE BOUND === source=cam component=cam-actual-src-v4l2
//
// Colors follow fatih/color, so they are dropped automatically when the
// output is not a terminal or NO_COLOR is set.
package logging
