// SPDX-License-Identifier: EPL-2.0

package store

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const scheme = "s3"

// ErrInvalidURL is returned for an s3:// destination without bucket or key.
var ErrInvalidURL = errors.New("invalid s3 url")

// Location is an object in a bucket.
type Location struct {
	Bucket string
	Key    string
}

func (l Location) String() string {
	return scheme + "://" + l.Bucket + "/" + l.Key
}

// IsURL reports whether dest names an S3 object rather than a local file.
func IsURL(dest string) bool {
	return strings.HasPrefix(strings.ToLower(dest), scheme+"://")
}

// ParseURL splits s3://bucket/key into its parts.
func ParseURL(raw string) (Location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if !strings.EqualFold(u.Scheme, scheme) {
		return Location{}, fmt.Errorf("%w: %q is not an s3:// url", ErrInvalidURL, raw)
	}

	loc := Location{Bucket: u.Host, Key: strings.TrimPrefix(u.Path, "/")}
	if loc.Bucket == "" || loc.Key == "" || strings.HasSuffix(loc.Key, "/") {
		return Location{}, fmt.Errorf("%w: %q needs a bucket and an object key", ErrInvalidURL, raw)
	}

	return loc, nil
}
