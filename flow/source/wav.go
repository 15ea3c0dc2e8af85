package source

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-flow/flow/block"
)

// WAV decodes PCM wav material into float blocks in [-1, 1].
type WAV struct {
	decoder  *wav.Decoder
	closer   io.Closer
	channels int
	rate     float64
	scale    float64
	buf      *audio.IntBuffer
	pending  []int // undelivered interleaved samples from the last decode
}

// OpenWAV opens a wav file from disk. Close releases the file handle.
func OpenWAV(path string) (*WAV, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("source: open wav: %w", err)
	}
	w, err := NewWAV(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	w.closer = f
	return w, nil
}

// NewWAV wraps an already open wav stream.
func NewWAV(r io.ReadSeeker) (*WAV, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, errors.New("source: not a valid wav stream")
	}
	if d.BitDepth == 0 || d.BitDepth > 32 {
		return nil, fmt.Errorf("source: unsupported wav bit depth %d", d.BitDepth)
	}
	format := d.Format()
	if format.NumChannels < 1 {
		return nil, errors.New("source: wav stream has no channels")
	}

	return &WAV{
		decoder:  d,
		channels: format.NumChannels,
		rate:     float64(d.SampleRate),
		scale:    1 / float64(int64(1)<<(d.BitDepth-1)),
		buf: &audio.IntBuffer{
			Format:         format,
			SourceBitDepth: int(d.BitDepth),
		},
	}, nil
}

// SampleRate returns the rate declared by the wav header.
func (w *WAV) SampleRate() float64 {
	return w.rate
}

// Channels returns the channel count declared by the wav header.
func (w *WAV) Channels() int {
	return w.channels
}

// Read decodes up to dst.Frames() frames, de-interleaving and scaling
// to [-1, 1].
func (w *WAV) Read(dst *block.Block) (int, error) {
	if dst.Channels() != w.channels {
		return 0, fmt.Errorf("source: block has %d channels, wav has %d", dst.Channels(), w.channels)
	}

	want := dst.Frames()
	done := 0
	for done < want {
		if len(w.pending) == 0 {
			if err := w.decode((want - done) * w.channels); err != nil {
				if done > 0 {
					return done, nil
				}
				return 0, err
			}
		}

		frames := len(w.pending) / w.channels
		if frames > want-done {
			frames = want - done
		}
		for c := 0; c < w.channels; c++ {
			out := dst.Channel(c)
			for i := 0; i < frames; i++ {
				out[done+i] = float64(w.pending[i*w.channels+c]) * w.scale
			}
		}
		w.pending = w.pending[frames*w.channels:]
		done += frames
	}
	return done, nil
}

// decode refills the interleaved staging buffer.
func (w *WAV) decode(samples int) error {
	if cap(w.buf.Data) < samples {
		w.buf.Data = make([]int, samples)
	}
	w.buf.Data = w.buf.Data[:samples]

	n, err := w.decoder.PCMBuffer(w.buf)
	if err != nil {
		return fmt.Errorf("source: decode wav: %w", err)
	}
	if n == 0 {
		return ErrEndOfStream
	}
	w.pending = w.buf.Data[:n]
	return nil
}

// Rewind restarts decoding from the first frame.
func (w *WAV) Rewind() error {
	w.pending = nil
	if err := w.decoder.Rewind(); err != nil {
		return fmt.Errorf("source: rewind wav: %w", err)
	}
	return nil
}

// Close releases the underlying file, if this source owns one.
func (w *WAV) Close() error {
	if w.closer == nil {
		return nil
	}
	return w.closer.Close()
}
