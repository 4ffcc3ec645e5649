// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrors_Uniqueness(t *testing.T) {
	t.Parallel()

	errs := []error{ErrNotWavFile, ErrOnlyPCMSupported, ErrUnsupportedBitDepth, ErrNilBuffer}

	for i, a := range errs {
		for j, b := range errs {
			if i != j && errors.Is(a, b) {
				t.Errorf("%v should not match %v", a, b)
			}
		}
	}
}

func TestErrors_Wrapping(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, 8)
	if !errors.Is(wrapped, ErrUnsupportedBitDepth) {
		t.Error("errors.Is() failed for wrapped ErrUnsupportedBitDepth")
	}
	if wrapped.Error() != "unsupported WAV bit depth: 8" {
		t.Errorf("Error() = %q", wrapped.Error())
	}
}
