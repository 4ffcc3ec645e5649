// SPDX-License-Identifier: EPL-2.0

package segment

import "errors"

var (
	// ErrInvalidInput is returned for an input list too short for the mode
	// or for non-positive lengths.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoSegments is returned when assembling an empty segment list.
	ErrNoSegments = errors.New("no segments to assemble")

	// ErrSampleRateMismatch is returned when segments disagree on sample rate.
	ErrSampleRateMismatch = errors.New("sample rate mismatch")

	// ErrChannelMismatch is returned when segments disagree on channel count.
	ErrChannelMismatch = errors.New("channel count mismatch")

	// ErrUnknownMode is returned for a Mode outside the four strategies.
	ErrUnknownMode = errors.New("unknown extraction mode")
)
