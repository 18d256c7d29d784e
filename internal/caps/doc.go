// Package caps provides the capability descriptors used to filter candidates.
//
// A Caps value lists media structures such as "video/x-raw-yuv" with optional
// field constraints:
//
//	video/x-raw-yuv, format={I420,YUY2}, width=640; video/x-raw-rgb
//
// The autodetect core treats Caps as opaque and only uses CanIntersect, Copy
// and Equal. Two structures intersect when their media types match and every
// field present in both shares at least one value.
package caps
