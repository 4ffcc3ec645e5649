// SPDX-License-Identifier: EPL-2.0

// Package store uploads finished mixes to S3 compatible object storage.
//
// An output of the form s3://bucket/path/mix.mp3 is encoded locally first
// and then uploaded with Put. Exists lets the caller honor the same
// overwrite rules as for local files.
package store
