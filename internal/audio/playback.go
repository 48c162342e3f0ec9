package audio

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gordonklaus/portaudio"
	mp3 "github.com/hajimehoshi/go-mp3"
)

const framesPerBuffer = 1024

// Play decodes an mp3 file and writes it to the default output device.
// go-mp3 always decodes to 16-bit stereo PCM.
func Play(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initialize portaudio: %w", err)
	}
	defer portaudio.Terminate()

	samples := make([]int16, framesPerBuffer*2)
	stream, err := portaudio.OpenDefaultStream(0, 2, float64(dec.SampleRate()), framesPerBuffer, samples)
	if err != nil {
		return fmt.Errorf("open output stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("start output stream: %w", err)
	}
	defer stream.Stop()

	raw := make([]byte, len(samples)*2)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := io.ReadFull(dec, raw)
		if n > 0 {
			fillSamples(samples, raw, n)
			if werr := stream.Write(); werr != nil {
				return fmt.Errorf("write audio: %w", werr)
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil
			}
			return fmt.Errorf("read pcm: %w", err)
		}
	}
}

// fillSamples converts n little-endian bytes into dst, zeroing the tail so
// a short final read does not replay stale audio.
func fillSamples(dst []int16, raw []byte, n int) {
	for i := range dst {
		if i*2+1 < n {
			dst[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
		} else {
			dst[i] = 0
		}
	}
}
