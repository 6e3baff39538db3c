package types

import "errors"

// Error taxonomy for the retrieval pipeline.
//
// Backend-level failures (unavailable, timeout) are absorbed by the fallback
// chain and never surfaced individually. Only chain exhaustion, invalid
// input, and post-retrieval generation failures reach the caller.
var (
	// ErrBackendUnavailable marks a retrieval backend that could not be
	// reached. Recoverable: the fallback chain advances past it.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrBackendTimeout marks a backend call that exceeded its deadline.
	// Treated identically to ErrBackendUnavailable for fallback purposes.
	ErrBackendTimeout = errors.New("backend timeout")

	// ErrEmbeddingUnavailable marks an unreachable embedding backend.
	// Fatal: no retrieval strategy compensates for an unembeddable query.
	ErrEmbeddingUnavailable = errors.New("embedding backend unavailable")

	// ErrInvalidMode marks an unknown retrieval mode, rejected at entry.
	ErrInvalidMode = errors.New("invalid retrieval mode")

	// ErrChainExhausted means every mode in the fallback chain failed.
	// Distinct from a successful empty result.
	ErrChainExhausted = errors.New("retrieval chain exhausted")

	// ErrJobContextConflict marks a concurrent analyze on the same job id.
	ErrJobContextConflict = errors.New("analyze already in flight for job")

	// ErrJobNotFound means no completed analyze exists for the job id.
	ErrJobNotFound = errors.New("job context not found")

	// ErrResolutionAmbiguous marks an entity surface form whose best match
	// fell inside the ambiguity band. Logged and left unresolved; never
	// force-assigned.
	ErrResolutionAmbiguous = errors.New("entity resolution ambiguous")

	// ErrGenerationFailed marks a generation failure after retrieval
	// succeeded. The retrieved context still reaches the caller.
	ErrGenerationFailed = errors.New("generation failed")
)

// IsRecoverable reports whether the fallback chain may advance past err.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrBackendUnavailable) || errors.Is(err, ErrBackendTimeout)
}
