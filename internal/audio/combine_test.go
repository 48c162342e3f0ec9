package audio

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakeFFmpeg drops a script named ffmpeg on PATH that records its argv and
// creates the output file named by the last argument.
func fakeFFmpeg(t *testing.T) string {
	t.Helper()
	binDir := t.TempDir()
	argsFile := filepath.Join(binDir, "args.txt")
	script := "#!/bin/bash\necho \"$@\" > " + argsFile + "\ntouch \"${@: -1}\"\n"
	if err := os.WriteFile(filepath.Join(binDir, "ffmpeg"), []byte(script), 0o755); err != nil {
		t.Fatalf("write fake ffmpeg: %v", err)
	}
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	return argsFile
}

func TestCombine_WritesListAndRunsFFmpeg(t *testing.T) {
	argsFile := fakeFFmpeg(t)

	workDir := t.TempDir()
	inputs := []string{
		filepath.Join(workDir, "tmp_1_chunk000001.flac"),
		filepath.Join(workDir, "tmp_1_chunk000002.flac"),
	}
	for _, input := range inputs {
		if err := os.WriteFile(input, []byte("x"), 0o600); err != nil {
			t.Fatalf("write input: %v", err)
		}
	}
	output := filepath.Join(workDir, "book.flac")

	combiner, err := NewCombiner()
	if err != nil {
		t.Fatalf("NewCombiner() error = %v", err)
	}
	if err := combiner.Combine(context.Background(), workDir, inputs, output); err != nil {
		t.Fatalf("Combine() error = %v", err)
	}

	args, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("read recorded args: %v", err)
	}
	for _, want := range []string{"-f concat", "-safe 0", "-c copy", output} {
		if !strings.Contains(string(args), want) {
			t.Fatalf("expected ffmpeg args to contain %q, got %q", want, args)
		}
	}

	list, err := os.ReadFile(filepath.Join(workDir, listFileName))
	if err != nil {
		t.Fatalf("read concat list: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(list)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 list entries, got %q", list)
	}
	if !strings.Contains(lines[0], "chunk000001") || !strings.Contains(lines[1], "chunk000002") {
		t.Fatalf("list entries out of order: %q", lines)
	}
}

func TestCombine_NoInputs(t *testing.T) {
	fakeFFmpeg(t)
	combiner, err := NewCombiner()
	if err != nil {
		t.Fatalf("NewCombiner() error = %v", err)
	}
	if err := combiner.Combine(context.Background(), t.TempDir(), nil, "out.flac"); err == nil {
		t.Fatalf("expected error for empty input list")
	}
}

func TestCleanup(t *testing.T) {
	workDir := t.TempDir()
	inputs := []string{
		filepath.Join(workDir, "tmp_1_chunk000001.flac"),
		filepath.Join(workDir, "tmp_1_chunk000002.flac"),
	}
	for _, input := range inputs {
		if err := os.WriteFile(input, []byte("x"), 0o600); err != nil {
			t.Fatalf("write input: %v", err)
		}
	}
	listPath := filepath.Join(workDir, listFileName)
	if err := os.WriteFile(listPath, []byte("file 'x'\n"), 0o600); err != nil {
		t.Fatalf("write list: %v", err)
	}
	keep := filepath.Join(workDir, "book.flac")
	if err := os.WriteFile(keep, []byte("x"), 0o600); err != nil {
		t.Fatalf("write output: %v", err)
	}

	if err := Cleanup(workDir, inputs); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}

	for _, gone := range append(inputs, listPath) {
		if _, err := os.Stat(gone); !os.IsNotExist(err) {
			t.Fatalf("expected %s to be removed", gone)
		}
	}
	if _, err := os.Stat(keep); err != nil {
		t.Fatalf("expected output to survive cleanup: %v", err)
	}

	// Second run over missing files must be a no-op.
	if err := Cleanup(workDir, inputs); err != nil {
		t.Fatalf("Cleanup() rerun error = %v", err)
	}
}

func TestFillSamples(t *testing.T) {
	dst := make([]int16, 4)
	raw := []byte{0x01, 0x00, 0xff, 0x7f, 0x00, 0x80}
	fillSamples(dst, raw, len(raw))

	want := []int16{1, 32767, -32768, 0}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("sample %d = %d, want %d", i, dst[i], want[i])
		}
	}
}
