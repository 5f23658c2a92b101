// Package pcm decodes WAV files into normalized sample buffers and computes
// the level measurements the splice and clone stages depend on. All analysis
// happens on decoded samples in-process; transforms stay with ffmpeg.
package pcm

import (
	"errors"
	"math"
	"os"
	"time"

	"github.com/go-audio/wav"

	"namecast/internal/services"
)

// Buffer holds mono float64 samples in [-1, 1].
type Buffer struct {
	Samples    []float64
	SampleRate int
}

// silenceFloorDB is reported for digital silence instead of -Inf so the
// values stay comparable and serializable.
const silenceFloorDB = -120.0

// Decode reads a WAV file into a Buffer. Multi-channel audio is downmixed to
// mono by averaging channels.
func Decode(path string) (*Buffer, error) {
	file, err := os.Open(path) //nolint:gosec
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, services.Wrap(services.ErrAssetNotFound, "pcm", "decode", path, err)
		}
		return nil, services.Wrap(services.ErrProbeFailure, "pcm", "decode", path, err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	intBuf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, services.Wrap(services.ErrProbeFailure, "pcm", "decode", path, err)
	}
	if intBuf == nil || intBuf.Format == nil || len(intBuf.Data) == 0 {
		return nil, services.Wrap(services.ErrProbeFailure, "pcm", "decode", "no samples in "+path, nil)
	}

	channels := intBuf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}
	bitDepth := int(decoder.BitDepth)
	if bitDepth == 0 {
		bitDepth = intBuf.SourceBitDepth
	}
	if bitDepth == 0 {
		bitDepth = 16
	}
	scale := float64(int64(1) << (bitDepth - 1))

	frames := len(intBuf.Data) / channels
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(intBuf.Data[i*channels+c]) / scale
		}
		samples[i] = sum / float64(channels)
	}

	return &Buffer{Samples: samples, SampleRate: intBuf.Format.SampleRate}, nil
}

// Duration is the buffer length in seconds.
func (b *Buffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(len(b.Samples)) / float64(b.SampleRate)
}

// RMS is the root-mean-square amplitude of the whole buffer.
func (b *Buffer) RMS() float64 {
	return rms(b.Samples)
}

// DBFS is the buffer's overall level in decibels relative to full scale.
func (b *Buffer) DBFS() float64 {
	return toDBFS(b.RMS())
}

// WindowDBFS slices the buffer into consecutive windows of the given size and
// returns each window's dBFS level. A trailing partial window is included.
func (b *Buffer) WindowDBFS(window time.Duration) []float64 {
	if b.SampleRate <= 0 || window <= 0 {
		return nil
	}
	size := int(float64(b.SampleRate) * window.Seconds())
	if size < 1 {
		size = 1
	}
	var levels []float64
	for start := 0; start < len(b.Samples); start += size {
		end := start + size
		if end > len(b.Samples) {
			end = len(b.Samples)
		}
		levels = append(levels, toDBFS(rms(b.Samples[start:end])))
	}
	return levels
}

func rms(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(samples)))
}

func toDBFS(amplitude float64) float64 {
	if amplitude <= 0 {
		return silenceFloorDB
	}
	db := 20 * math.Log10(amplitude)
	if db < silenceFloorDB {
		return silenceFloorDB
	}
	return db
}
