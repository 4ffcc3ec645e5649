// SPDX-License-Identifier: EPL-2.0

package segment

import (
	"fmt"
	"path/filepath"
	"strconv"
)

// FormatElapsed renders whole seconds as m:ss. Fractions are dropped.
func FormatElapsed(seconds float64) string {
	total := max(int(seconds), 0)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// formatSeconds prints the shortest form of s, so a 30 second default
// reads "First 30 seconds" and never "First 30.0 seconds".
func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64)
}

func firstLabel(path string, length float64) string {
	return fmt.Sprintf("%s: First %s seconds", filepath.Base(path), formatSeconds(length))
}

func lastLabel(path string, length float64) string {
	return fmt.Sprintf("%s: Last %s seconds", filepath.Base(path), formatSeconds(length))
}

func sliceLabel(path string, elapsed float64) string {
	return filepath.Base(path) + ": " + FormatElapsed(elapsed)
}
