// Package providers contains the built-in video source candidates.
//
//   - v4l2src: Video4Linux2 capture. READY opens the device node read-write
//     and non-blocking, so a missing camera, a permission problem or another
//     process holding the device fails the trial activation with a detailed
//     error on the bus. One candidate is registered per configured device.
//   - videotestsrc: a synthetic pattern that always activates. Its rank is
//     zero unless configured, so it is only autodetected on request.
package providers
