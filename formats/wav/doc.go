// SPDX-License-Identifier: EPL-2.0

// Package wav reads RIFF/WAVE headers and writes PCM WAV files.
//
// # Probing WAV Files
//
// Prober extracts channel count, sample rate, bit depth and frame count
// without decoding samples:
//
//	file, _ := os.Open("audio.wav")
//	defer file.Close()
//	info, err := wav.Prober{}.Probe(file)
//	if err != nil {
//	    // Handle error
//	}
//	fmt.Println(info.Channels, info.SampleRate, info.BitDepth, info.Frames)
//
// The prober walks the chunk list instead of assuming the canonical 44-byte
// layout, so LIST/INFO, bext, fact and other chunks placed before or between
// fmt and data are skipped. Odd-sized chunks are followed by a pad byte, as the
// RIFF specification requires.
//
// # Supported Encodings
//
//   - PCM (format tag 1), any bit depth
//   - IEEE float (format tag 3)
//   - WAVE_FORMAT_EXTENSIBLE wrapping either of the above
//
// Bit depth is reported as the stored sample width: 12-bit samples occupy two
// bytes and are reported as 16.
//
// # Writing WAV Files
//
// Write uses github.com/go-audio/wav to encode integer PCM:
//
//	samples := wav.Tone(44100, 16, 1, 440, 2*time.Second)
//	file, _ := os.Create("tone.wav")
//	err := wav.Write(file, 44100, 16, 1, samples)
//
// # Error Handling
//
// Every header problem is returned as an *audio.FormatError wrapping one of
// this package's sentinel errors:
//   - ErrNotWavFile: no RIFF/WAVE signature
//   - ErrTruncatedHeader: fewer than 12 bytes
//   - ErrMissingFmtChunk / ErrMissingDataChunk: sub-chunk absent, including a
//     file truncated before it
//   - ErrMalformedFmtChunk: short fmt chunk, zero channels or zero bit depth
//   - ErrZeroSampleRate: duration would be undefined
//   - ErrUnsupportedEncoding: compressed formats (ADPCM, GSM, MP3-in-WAV...)
//
// Example:
//
//	info, err := wav.Prober{}.Probe(file)
//	if errors.Is(err, wav.ErrMissingDataChunk) {
//	    fmt.Println("recording has no audio data")
//	}
//	if errors.Is(err, audio.ErrFormat) {
//	    fmt.Println("not a usable WAV file")
//	}
package wav
