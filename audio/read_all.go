// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
)

// maxEmptyReads bounds consecutive (0, nil) reads before a source is
// considered stalled.
const maxEmptyReads = 100

// ReadAll drains src into a Buffer. The source is not closed.
//
// This creates the whole decoded payload in memory:
//  1. Reads src in chunks of bufferSize values (src.BufSize() when bufferSize <= 0)
//  2. Appends every chunk to a single interleaved slice
//  3. Stops at io.EOF, returning any other error
//
// Sources that implement BitDepther keep their depth on the Buffer.
func ReadAll(src Source, bufferSize int) (*Buffer, error) {
	if bufferSize <= 0 {
		bufferSize = src.BufSize()
	}
	if bufferSize <= 0 {
		bufferSize = 4096
	}

	channels := max(src.Channels(), 1)
	// Keep reads frame aligned
	if rem := bufferSize % channels; rem != 0 {
		bufferSize += channels - rem
	}

	buf := make([]float32, bufferSize)
	data := make([]float32, 0, bufferSize)
	empty := 0

	for {
		n, err := src.ReadSamples(buf)
		if n > 0 {
			data = append(data, buf[:n]...)
			empty = 0
		}

		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}

		if n == 0 {
			empty++
			if empty >= maxEmptyReads {
				return nil, ErrStalledSource
			}
		}
	}

	bitDepth := 0
	if bd, ok := src.(BitDepther); ok {
		bitDepth = bd.BitDepth()
	}

	// Drop a trailing partial frame
	data = data[:len(data)-len(data)%channels]

	return NewBuffer(src.SampleRate(), channels, bitDepth, data), nil
}
