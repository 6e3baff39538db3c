// Package scoring fuses lexical, vector, and graph signals into one
// normalized score per candidate. Weights default to 0.3/0.5/0.2 and are
// renormalized when a signal is structurally unavailable, so the final score
// always stays in [0,1].
package scoring
