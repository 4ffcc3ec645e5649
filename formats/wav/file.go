// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"os"

	"github.com/ik5/mixtape/audio"
)

// ReadFile decodes the whole WAV file at path into memory.
func ReadFile(path string) (*audio.Buffer, error) {
	f, err := os.Open(path) // #nosec G304 - path comes from the caller
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	defer f.Close()

	src, err := Decoder{}.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defer src.Close()

	buf, err := audio.ReadAll(src, 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return buf, nil
}

// WriteFile creates (or truncates) path and writes buf to it.
func WriteFile(path string, buf *audio.Buffer) error {
	f, err := os.Create(path) // #nosec G304 - path comes from the caller
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	if err := Write(f, buf); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("%s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}
