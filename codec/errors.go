// SPDX-License-Identifier: EPL-2.0

package codec

import "errors"

var (
	// ErrUnsupportedFormat is returned for a file extension with no decoder
	// or encoder path.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrDecode wraps a failed conversion to the raw container.
	ErrDecode = errors.New("decode failed")

	// ErrEncode wraps a failed conversion from the raw container.
	ErrEncode = errors.New("encode failed")

	// ErrOutputExists is returned when the destination is present and
	// overwriting was not allowed.
	ErrOutputExists = errors.New("output file already exists")

	// ErrFFmpegMissing is returned by VerifyInstalled.
	ErrFFmpegMissing = errors.New("ffmpeg not found or not executable")
)
