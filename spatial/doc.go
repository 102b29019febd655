// Package spatial provides a uniform-grid spatial hash for broad-phase queries over moving
// axis-aligned objects.
//
// Objects register in every cell their bounding rectangle overlaps (their footprint). The
// footprint is computed on Add and refreshed only by Rearrange, which the owner calls once per
// simulation tick after gameplay has moved objects. Queries then return broad-phase candidate
// lists:
//   - QueryRadius: objects whose bounding rectangle intersects a circle, optionally sorted
//   - QueryRectangle: objects whose bounding rectangle intersects a rectangle
//   - QueryBucket: every object registered in the cell containing a point
//
// Concurrency: each cell owns a mutex held only to copy or mutate its member list, and the
// cell and object maps are concurrent maps, so distinct objects may be registered and
// rearranged from different goroutines. Queries running concurrently with Rearrange may miss
// an object that is between its old and new cells. The same object must not be mutated from
// two goroutines at once.
//
// Contract violations (double remove, remove of an untracked object) are absorbed as no-ops.
// The only error is a non-positive cell size at construction.
package spatial
