// SPDX-License-Identifier: EPL-2.0

package mp3_test

import (
	"fmt"
	"log"
	"os"

	"github.com/ik5/mixtape/audio"
	"github.com/ik5/mixtape/formats/mp3"
	"github.com/ik5/mixtape/formats/wav"
)

// ExampleDecoder_Decode decodes a whole MP3 file into memory.
func ExampleDecoder_Decode() {
	f, err := os.Open("input.mp3")
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	src, err := mp3.Decoder{}.Decode(f)
	if err != nil {
		log.Fatal(err)
	}
	defer src.Close()

	buf, err := audio.ReadAll(src, 0)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%d Hz, %d channels, %s\n", buf.SampleRate, buf.Channels, buf.Duration())
}

// ExampleDecoder_Decode_convertToWav converts an MP3 file to the raw
// container without calling an external program.
func ExampleDecoder_Decode_convertToWav() {
	f, err := os.Open("input.mp3")
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	src, err := mp3.Decoder{}.Decode(f)
	if err != nil {
		log.Fatal(err)
	}
	defer src.Close()

	buf, err := audio.ReadAll(src, 0)
	if err != nil {
		log.Fatal(err)
	}

	if err := wav.WriteFile("output.wav", buf); err != nil {
		log.Fatal(err)
	}
}
