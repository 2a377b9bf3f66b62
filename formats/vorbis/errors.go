// SPDX-License-Identifier: EPL-2.0

package vorbis

import "errors"

var (
	ErrNotVorbisFile = errors.New("not an Ogg Vorbis stream")
	ErrInvalidHeader = errors.New("invalid Vorbis identification header")
	ErrUnknownLength = errors.New("Ogg Vorbis stream length unknown")
)
