// Package order reconciles caller-intended playlist positions with a
// catalog that only exposes relative, token-based reordering.
//
// # Reconciliation
//
// Appending a video never reports where the row landed. The Reconciler
// records the set of position tokens before the append, then re-reads the
// playlist (up to the poll policy's attempt count) and scans from the tail
// for a matching row whose token was not present before. When the video
// already existed in the playlist every matching token predates the
// append, so the highest-index match serves as a best-effort guess.
//
// # Planning
//
// The Planner converts an absolute target index into a single "move token
// before token" call against the reconciled row, and a relative move into
// a sequence of single-step calls tracked in an in-memory mirror of the
// playlist order.
//
// Both protocols are best effort. The token diff can misidentify the new
// row when another writer mutates the playlist between the before read
// and the move, so callers should treat positioning as advisory rather
// than transactional.
package order
