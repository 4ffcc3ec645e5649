// SPDX-License-Identifier: EPL-2.0

package playback

import "errors"

// ErrFormatChanged is returned when a segment needs a different sample rate
// or channel count than the already opened output device.
var ErrFormatChanged = errors.New("audio device format changed between segments")
