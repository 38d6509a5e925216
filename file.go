package abiz

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/arloliu/abiz/errs"
	"github.com/arloliu/abiz/format"
)

// outputFileMode is the permission of files written by CompressFile and DecompressFile.
const outputFileMode fs.FileMode = 0o644

// FileConfig describes the files of a CompressFile or DecompressFile run.
type FileConfig struct {
	// InputPath is the file to read. Required.
	InputPath string
	// OutputPath is the file to write. When empty, CompressFile appends ".abiz"
	// to InputPath and DecompressFile strips it.
	OutputPath string
	// Overwrite allows replacing an existing output file.
	Overwrite bool
}

func (c FileConfig) compressOutput() (string, error) {
	if c.InputPath == "" {
		return "", fmt.Errorf("%w: input path is required", errs.ErrInvalidConfig)
	}
	out := c.OutputPath
	if out == "" {
		out = c.InputPath + format.FileExtension
	}

	return out, c.checkDistinct(out)
}

func (c FileConfig) decompressOutput() (string, error) {
	if c.InputPath == "" {
		return "", fmt.Errorf("%w: input path is required", errs.ErrInvalidConfig)
	}
	out := c.OutputPath
	if out == "" {
		trimmed, ok := strings.CutSuffix(c.InputPath, format.FileExtension)
		if !ok || trimmed == "" || strings.HasSuffix(trimmed, string(filepath.Separator)) {
			return "", fmt.Errorf("%w: cannot derive output path from %q, set OutputPath", errs.ErrInvalidConfig, c.InputPath)
		}
		out = trimmed
	}

	return out, c.checkDistinct(out)
}

func (c FileConfig) checkDistinct(out string) error {
	if filepath.Clean(out) == filepath.Clean(c.InputPath) {
		return fmt.Errorf("%w: output path equals input path %q", errs.ErrInvalidConfig, c.InputPath)
	}

	return nil
}

// CompressFile compresses cfg.InputPath into an abiz file.
//
// The output is written to a temporary file next to the destination and
// renamed into place only after every byte was written. On failure no file
// appears under the output path.
//
// Returns:
//   - Stats: Size metrics of the run
//   - error: ErrInvalidConfig, ErrOutputExists, ErrIO, or any error of Compress
func CompressFile(cfg FileConfig, opts ...Option) (Stats, error) {
	outPath, err := cfg.compressOutput()
	if err != nil {
		return Stats{}, err
	}
	conf, err := newConfig(opts...)
	if err != nil {
		return Stats{}, err
	}

	data, err := readInput(cfg.InputPath)
	if err != nil {
		return Stats{}, err
	}
	if len(data) == 0 {
		return Stats{}, fmt.Errorf("%w: %s", errs.ErrEmptyInput, cfg.InputPath)
	}
	if err := checkOutput(outPath, cfg.Overwrite); err != nil {
		return Stats{}, err
	}

	var stats Stats
	err = writeFileAtomic(outPath, cfg.Overwrite, func(w io.Writer) error {
		var werr error
		stats, werr = CompressTo(w, data, opts...)

		return werr
	})
	if err != nil {
		return stats, err
	}

	conf.Logger.Info("file compressed",
		slog.String("input", cfg.InputPath),
		slog.String("output", outPath),
		slog.Int64("original_size", stats.OriginalSize),
		slog.Int64("compressed_size", stats.CompressedSize()),
	)

	return stats, nil
}

// DecompressFile decodes the abiz file cfg.InputPath.
//
// The output is written atomically, like CompressFile.
func DecompressFile(cfg FileConfig, opts ...Option) (Stats, error) {
	outPath, err := cfg.decompressOutput()
	if err != nil {
		return Stats{}, err
	}
	conf, err := newConfig(opts...)
	if err != nil {
		return Stats{}, err
	}

	f, err := os.Open(cfg.InputPath)
	if err != nil {
		return Stats{}, fmt.Errorf("%w: open input: %w", errs.ErrIO, err)
	}
	defer f.Close()

	out, stats, err := DecompressFrom(bufio.NewReader(f), opts...)
	if err != nil {
		return stats, fmt.Errorf("decompress %s: %w", cfg.InputPath, err)
	}
	if err := checkOutput(outPath, cfg.Overwrite); err != nil {
		return stats, err
	}

	err = writeFileAtomic(outPath, cfg.Overwrite, func(w io.Writer) error {
		_, werr := w.Write(out)
		return werr
	})
	if err != nil {
		return stats, err
	}

	conf.Logger.Info("file decompressed",
		slog.String("input", cfg.InputPath),
		slog.String("output", outPath),
		slog.Int64("original_size", stats.OriginalSize),
	)

	return stats, nil
}

func readInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read input: %w", errs.ErrIO, err)
	}

	return data, nil
}

func checkOutput(path string, overwrite bool) error {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil
	case err != nil:
		return fmt.Errorf("%w: stat output: %w", errs.ErrIO, err)
	case info.IsDir():
		return fmt.Errorf("%w: output %s is a directory", errs.ErrInvalidConfig, path)
	case !overwrite:
		return fmt.Errorf("%w: %s", errs.ErrOutputExists, path)
	}

	return nil
}

// writeFileAtomic writes path through a temporary file in the same directory.
//
// The temporary file is removed if write, flush, sync or rename fail.
func writeFileAtomic(path string, overwrite bool, write func(w io.Writer) error) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temporary file: %w", errs.ErrIO, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err = write(bw); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("%w: write output: %w", errs.ErrIO, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("%w: sync output: %w", errs.ErrIO, err)
	}
	if err = tmp.Chmod(outputFileMode); err != nil {
		return fmt.Errorf("%w: chmod output: %w", errs.ErrIO, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: close output: %w", errs.ErrIO, err)
	}

	// The target may have appeared while writing.
	if err = checkOutput(path, overwrite); err != nil {
		return err
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: rename output: %w", errs.ErrIO, err)
	}

	return nil
}
