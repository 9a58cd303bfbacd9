// Package render implements the paginated proposal PDF engine.
//
// A render call runs in two phases. Phase one resolves every image reference
// in the document concurrently (see the imaging package); phase two is a
// single synchronous pass over the drawing surface. The surface is a
// stateful, single-threaded stream of drawing instructions with no flow
// layout and no automatic page breaking, so no I/O is ever interleaved with
// drawing: by the time the first instruction is issued, every image the
// document can mention is either in memory or known to be unavailable.
//
// Pagination is owned by a single controller with two policies keyed by the
// region being drawn. Table rows break with a visible "Continued on next
// page" band and a redrawn column header; the summary block pre-computes its
// full height and requests at most one silent break. Mixing the two policies
// would either orphan rows under a column header or emit blank trailing
// pages, so the region tag is explicit in the controller.
package render
