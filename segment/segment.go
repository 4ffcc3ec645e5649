// SPDX-License-Identifier: EPL-2.0

package segment

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ik5/mixtape/audio"
)

// Segment is a labeled span of decoded audio. Audio may be empty.
type Segment struct {
	Label string
	Audio *audio.Buffer
}

// Decoder turns an input path into a fully decoded buffer.
type Decoder interface {
	Decode(ctx context.Context, path string) (*audio.Buffer, error)
}

// Params are the numeric extraction parameters, in seconds.
type Params struct {
	Length float64 `validate:"gt=0"`
	Skip   float64 `validate:"gte=0"`
}

// Mode selects an extraction strategy.
type Mode int

const (
	Beginning Mode = iota + 1
	End
	Slice
	Transition
)

var modeNames = map[Mode]string{
	Beginning:  "beginning",
	End:        "end",
	Slice:      "slice",
	Transition: "transition",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "Mode(" + strconv.Itoa(int(m)) + ")"
}

// ParseMode maps a case insensitive strategy name to its Mode.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// MinInputs is the smallest input list the mode accepts.
func (m Mode) MinInputs() int {
	if m == Transition {
		return 2
	}
	return 1
}

// Defaults returns the parameters used when none are given: 30 seconds for
// single extracts, and 1 second kept every 5 skipped for Slice.
func (m Mode) Defaults() Params {
	if m == Slice {
		return Params{Length: 1, Skip: 5}
	}
	return Params{Length: 30}
}
