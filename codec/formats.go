// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"github.com/ik5/mixtape/audio"
	"github.com/ik5/mixtape/formats/aiff"
	"github.com/ik5/mixtape/formats/mp3"
	"github.com/ik5/mixtape/formats/vorbis"
	"github.com/ik5/mixtape/formats/wav"
)

// Backend selects how foreign containers are converted to the raw one.
type Backend string

const (
	// BackendFFmpeg shells out to ffmpeg.
	BackendFFmpeg Backend = "ffmpeg"
	// BackendNative decodes in process with the formats packages.
	BackendNative Backend = "native"
)

// raw is the decoded container read and written without conversion.
const raw = "wav"

// converted lists the containers that go through the scratch directory.
var converted = map[string]bool{
	"mp3":  true,
	"ogg":  true,
	"aiff": true,
	"aif":  true,
}

// DefaultRegistry holds the in-process decoders used by BackendNative.
func DefaultRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register("wav", wav.Decoder{})
	r.Register("mp3", mp3.Decoder{})
	r.Register("ogg", vorbis.Decoder{})
	r.Register("aiff", aiff.Decoder{})
	r.Register("aif", aiff.Decoder{})
	return r
}

// Supported reports whether path has an extension Decode and Encode accept.
func Supported(path string) bool {
	ext := audio.Ext(path)
	return ext == raw || converted[ext]
}

// NeedsConversion reports whether path is a container that is not read or
// written directly.
func NeedsConversion(path string) bool {
	return converted[audio.Ext(path)]
}
