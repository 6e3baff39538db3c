// Package composer assembles bounded, grounded context blocks for the
// generation collaborator and validates that generated answers stayed
// inside them. An empty candidate list short-circuits to a sentinel; the
// generator is never called with nothing to ground on.
package composer
