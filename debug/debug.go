// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: debug.go — cold-path diagnostic logging (zero-alloc)
//
// Purpose:
//   - Logs infrequent error and phase-transition paths without introducing
//     heap pressure.
//   - Used only in cold paths: argument validation, phase banners, abort
//     notices between segments.
//
// Notes:
//   - Avoids fmt.Sprintf to minimize footprint and latency.
//   - Writes directly to stderr via utils; no interfaces, no locks.
//
// ⚠️ Never invoke from inside the cross-off loops — segment boundaries only.
// ─────────────────────────────────────────────────────────────────────────────

package debug

import "main/utils"

// DropError logs an error with a fixed "PREFIX: message" shape.
// A nil error logs just the prefix (used for tagged phase markers).
//
//go:nosplit
//go:inline
func DropError(prefix string, err error) {
	if err != nil {
		utils.PrintWarning(prefix + ": " + err.Error() + "\n")
	} else {
		utils.PrintWarning(prefix + "\n")
	}
}

// DropMessage logs a phase or state transition. Cold paths only.
//
//go:nosplit
//go:inline
func DropMessage(prefix, message string) {
	utils.PrintWarning(prefix + ": " + message + "\n")
}
