// Package retro provides retroactive data structures: containers whose
// mutation operations can be applied, or reverted, at arbitrary points in
// their own logical past rather than only at the present moment.
//
// Three pieces build on each other:
//
//   - OrderedList, a two-level tag-range structure (Bender et al., 2002)
//     giving O(1) order comparisons between tokens and amortised O(1)
//     arbitrary-position insertion. It underlies FullMap's timeline.
//   - PartialQueue, a partially retroactive FIFO queue: push and pop can be
//     inserted or reverted in the past, but only the present queue can be
//     queried.
//   - FullMap, a fully retroactive ordered map: insertions can be made in
//     the past, and both the present map and any past version of it can be
//     queried.
//
// None of these containers are safe for concurrent use; a single instance
// must not be mutated from more than one goroutine at a time. Handles
// returned by one container must never be passed to another.
package retro
