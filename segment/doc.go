// SPDX-License-Identifier: EPL-2.0

// Package segment turns decoded input files into labeled spans of audio and
// joins them back into one buffer.
//
// Four strategies are available through Extractor:
//
//   - Beginning: the first Length seconds of the first input
//   - End: the last Length seconds of the first input
//   - Slice: Length seconds kept, Skip seconds dropped, repeated through every input
//   - Transition: the End of each input followed by the Beginning of the next
//
// Positions are converted to frames with int(seconds * sampleRate) and then
// clamped to the buffer, so asking for more audio than a file holds is not an
// error:
//
//	ext := segment.NewExtractor(codec)
//	segs, err := ext.Extract(ctx, segment.Slice, segment.Params{Length: 2, Skip: 1}, inputs)
//	buf, err := segment.Assemble(segs)
//
// Assemble refuses segments whose sample rate or channel count differ from
// the first one. It never resamples or mixes.
package segment
