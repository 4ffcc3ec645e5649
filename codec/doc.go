// SPDX-License-Identifier: EPL-2.0

// Package codec converts between audio files and decoded buffers.
//
// WAV files are read and written directly. MP3, Ogg Vorbis and AIFF files
// are converted to WAV in the run's scratch directory, either by ffmpeg
// (BackendFFmpeg, the default) or in process (BackendNative). The converted
// file doubles as a cache: decoding the same input again in the same run
// reads it back instead of converting again.
//
// Compressed outputs are always produced by ffmpeg:
//
//	ffmpeg -n -i <input> <scratch>/<name>-<hash>.wav
//	ffmpeg -y|-n -i <scratch>/output.wav <output>
package codec
