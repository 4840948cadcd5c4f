// Package dispatch issues a rewritten edit request directly over HTTPS and
// interprets the response.
//
// One POST per attempt, bounded by the client timeout, no retries. A 200
// response is the only success; everything else, including transport faults,
// becomes a failure result carrying a diagnostic the user can act on.
package dispatch
