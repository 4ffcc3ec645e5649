// SPDX-License-Identifier: EPL-2.0

// Package mixtape previews and cuts audio tracks: it takes the beginning,
// the end, regular slices, or the transitions between consecutive tracks,
// then plays the result or writes it to one file.
//
// # Quick Start
//
//	dir, _ := scratch.New("")
//	defer dir.Close()
//
//	c := codec.New(dir)
//	runner := mixtape.NewRunner(c, mixtape.WithScratch(dir))
//
//	err := runner.Run(ctx, mixtape.Options{
//	    Mode:   segment.Transition,
//	    Params: segment.Params{Length: 10},
//	    Inputs: []string{"01.mp3", "02.mp3", "03.mp3"},
//	    Output: "transitions.mp3",
//	})
//
// # Packages
//
//   - audio: decoded buffers, the streaming Source interface and the decoder registry
//   - segment: the four extraction strategies and Assemble
//   - codec: file to buffer conversion with ffmpeg or the native decoders
//   - formats/wav, formats/mp3, formats/vorbis, formats/aiff: in-process decoders
//   - playback: sequential playback with progress output
//   - store: s3:// outputs
//   - config: YAML and environment configuration
//
// # Outputs
//
// Output is a local path or an s3://bucket/key url. The extension picks the
// container: .wav is written as is, .mp3, .ogg and .aiff are encoded with
// ffmpeg. An existing output is never replaced unless Overwrite is set.
//
// # Error Handling
//
// Errors wrap the sentinels of the package that raised them, so callers can
// test with errors.Is:
//
//	if errors.Is(err, codec.ErrOutputExists) {
//	    // ask before replacing
//	}
package mixtape
