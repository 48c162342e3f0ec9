package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/speakbook/speakbook/internal/audio"
	"github.com/speakbook/speakbook/internal/logging"
	"github.com/speakbook/speakbook/internal/progress"
	"github.com/speakbook/speakbook/internal/text"
	"github.com/speakbook/speakbook/internal/tts"
	"github.com/speakbook/speakbook/pkg/markdown"
)

// Pipeline runs one text-to-audio conversion: read, filter, chunk, one
// synth request per chunk, combine, clean up. Chunks are processed
// strictly in order.
type Pipeline struct {
	Synth    tts.Synthesizer
	Combiner *audio.Combiner
	Chunker  *text.Chunker
	Spinner  *progress.Spinner

	Format   string
	WorkDir  string
	KeepTemp bool
}

type Result struct {
	OutputPath string
	WorkDir    string
	Chunks     int
	Bytes      int64
	Elapsed    time.Duration
}

func (p *Pipeline) Run(ctx context.Context, inputPath string) (*Result, error) {
	started := time.Now()

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	if base == "" || base == "." {
		return nil, fmt.Errorf("cannot derive a name from input file %q", inputPath)
	}

	workDir := p.WorkDir
	if workDir == "" {
		workDir = base
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("create work directory %s: %w", workDir, err)
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("read input %s: %w", inputPath, err)
	}

	chunks, err := p.Chunker.Chunk(markdown.Filter(string(data)))
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no speakable text in %s", inputPath)
	}
	logging.Infof("split %s into %d chunks", inputPath, len(chunks))

	tempPaths, written, err := p.synthesize(ctx, workDir, chunks)
	if err != nil {
		// Keep what was already paid for so the run can be inspected.
		return nil, fmt.Errorf("%w (partial chunk files kept in %s)", err, workDir)
	}

	outputPath := filepath.Join(workDir, base+"."+p.Format)
	if err := p.Combiner.Combine(ctx, workDir, tempPaths, outputPath); err != nil {
		return nil, err
	}

	if !p.KeepTemp {
		if err := audio.Cleanup(workDir, tempPaths); err != nil {
			return nil, err
		}
	}

	return &Result{
		OutputPath: outputPath,
		WorkDir:    workDir,
		Chunks:     len(chunks),
		Bytes:      written,
		Elapsed:    time.Since(started),
	}, nil
}

func (p *Pipeline) synthesize(ctx context.Context, workDir string, chunks []string) ([]string, int64, error) {
	runStamp := time.Now().Unix()

	var (
		tempPaths []string
		written   int64
	)
	for i, chunk := range chunks {
		logging.NextChunk()

		if p.Spinner != nil {
			p.Spinner.Start(fmt.Sprintf("synthesizing chunk %d/%d", i+1, len(chunks)))
		}
		body, err := p.Synth.Synthesize(ctx, chunk)
		if p.Spinner != nil {
			p.Spinner.Stop()
		}
		if err != nil {
			return nil, 0, fmt.Errorf("synthesize chunk %d/%d: %w", i+1, len(chunks), err)
		}

		path := filepath.Join(workDir, fmt.Sprintf("tmp_%d_chunk%06d.%s", runStamp, i+1, p.Format))
		n, err := writeChunk(path, body)
		if err != nil {
			return nil, 0, err
		}

		tempPaths = append(tempPaths, path)
		written += n
		logging.Infof("saved %s (%d bytes)", path, n)
	}

	return tempPaths, written, nil
}

func writeChunk(path string, body io.ReadCloser) (int64, error) {
	defer body.Close()

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}

	n, err := io.Copy(f, body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	return n, nil
}
