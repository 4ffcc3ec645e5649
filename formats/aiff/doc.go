// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF files with github.com/go-audio/aiff.
//
// 16, 24 and 32-bit PCM files with any channel count are supported. The
// Source reports the file's depth through BitDepth so a decoded buffer can be
// written back at the same resolution.
//
//	src, err := aiff.Decoder{}.Decode(file)
//	buf, err := audio.ReadAll(src, 0)
//
// Readers that cannot seek are buffered in memory first.
package aiff
