package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/speakbook/speakbook/internal/logging"
)

const listFileName = "concat.txt"

// Combiner concatenates ordered chunk files into one output file using
// ffmpeg's concat demuxer with stream copy, so no re-encoding happens.
type Combiner struct {
	FFmpegPath string
}

// NewCombiner locates ffmpeg on PATH. Failing here keeps a run from
// spending API calls it cannot finish.
func NewCombiner() (*Combiner, error) {
	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}
	return &Combiner{FFmpegPath: path}, nil
}

// Combine writes a concat list for inputs and produces outputPath. The list
// file is left in place for Cleanup to remove.
func (c *Combiner) Combine(ctx context.Context, workDir string, inputs []string, outputPath string) error {
	if len(inputs) == 0 {
		return fmt.Errorf("no audio files to combine")
	}

	listPath := filepath.Join(workDir, listFileName)
	if err := writeConcatList(listPath, inputs); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, c.FFmpegPath,
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		outputPath,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	logging.Debugf("combining %d files into %s", len(inputs), outputPath)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg concat failed: %w", err)
	}
	return nil
}

func writeConcatList(listPath string, inputs []string) error {
	f, err := os.Create(listPath)
	if err != nil {
		return fmt.Errorf("create concat list: %w", err)
	}
	defer f.Close()

	for _, input := range inputs {
		abs, err := filepath.Abs(input)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", input, err)
		}
		if _, err := fmt.Fprintf(f, "file '%s'\n", abs); err != nil {
			return fmt.Errorf("write concat list: %w", err)
		}
	}
	return nil
}

// Cleanup removes the chunk files and the concat list. Missing files are
// ignored so Cleanup can run after partial failures.
func Cleanup(workDir string, inputs []string) error {
	paths := append([]string{filepath.Join(workDir, listFileName)}, inputs...)
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", path, err)
		}
	}
	return nil
}
