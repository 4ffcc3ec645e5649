// SPDX-License-Identifier: EPL-2.0

// Package playback renders segments on the local audio device.
//
// Sink drives any Device and handles progress output and interruption;
// OtoDevice is the Device backed by github.com/ebitengine/oto/v3.
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//
//	sink := playback.NewSink(playback.NewOtoDevice(), os.Stdout)
//	err := sink.Play(ctx, segs)
//
// Interrupting playback is not an error: Play returns nil once the device
// has stopped.
package playback
