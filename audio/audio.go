// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"sort"
	"strings"
	"sync"
)

// Info is what a Prober learns from a container header.
type Info struct {
	// Format is the container/codec tag (e.g. "wav", "aiff").
	Format string
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels int
	// SampleRate of the PCM stream in Hz.
	SampleRate int
	// BitDepth is the stored sample width in bits, rounded up to whole bytes.
	BitDepth int
	// Frames is the number of sample frames (one sample per channel).
	Frames int64
}

// Prober reads container headers without decoding the audio payload.
type Prober interface {
	Probe(r io.ReadSeeker) (Info, error)
}

// ProberFunc adapts a plain function to the Prober interface.
type ProberFunc func(r io.ReadSeeker) (Info, error)

func (f ProberFunc) Probe(r io.ReadSeeker) (Info, error) { return f(r) }

// Registry for probers by file extension (e.g., "wav", "aif", "mp3", "ogg").
// Keys are case-insensitive and may be given with or without the leading dot.
type Registry struct {
	probers map[string]Prober
	mtx     *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		probers: make(map[string]Prober),
		mtx:     &sync.Mutex{},
	}
}

func (r *Registry) Register(ext string, p Prober) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.probers[normalizeExt(ext)] = p
}

func (r *Registry) Get(ext string) (Prober, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	p, ok := r.probers[normalizeExt(ext)]
	return p, ok
}

// Extensions returns the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	exts := make([]string, 0, len(r.probers))
	for ext := range r.probers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
