// Command abiz compresses files into the .abiz Huffman format and restores them.
//
// Usage:
//
//	abiz compress [-o out] [-f] [-verify] [-compare zstd,s2,lz4,huff0] [-v] <input>
//	abiz decompress [-o out] [-f] [-v] <input.abiz>
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/arloliu/abiz"
	"github.com/arloliu/abiz/format"
)

const usage = `usage:
  abiz compress [-o out] [-f] [-verify] [-compare zstd,s2,lz4,huff0] [-v] <input>
  abiz decompress [-o out] [-f] [-v] <input.abiz>
`

var errUsage = errors.New("invalid usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	var err error
	switch args[0] {
	case "compress", "c":
		err = runCompress(args[1:], stdout, stderr)
	case "decompress", "d":
		err = runDecompress(args[1:], stdout, stderr)
	case "help", "-h", "-help", "--help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		err = fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(stderr, "abiz: %v\n", err)
		}
		fmt.Fprint(stderr, usage)

		return 2
	default:
		fmt.Fprintf(stderr, "abiz: %v\n", err)
		return 1
	}
}

type commonFlags struct {
	output    string
	overwrite bool
	verbose   bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.output, "o", "", "output file path")
	fs.BoolVar(&c.overwrite, "f", false, "overwrite the output file if it exists")
	fs.BoolVar(&c.verbose, "v", false, "log per-stage details to stderr")
}

func (c *commonFlags) logger(stderr io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if c.verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
}

func parseInput(fs *flag.FlagSet, args []string) (string, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return "", err
		}

		return "", fmt.Errorf("%w: %w", errUsage, err)
	}
	if fs.NArg() != 1 {
		return "", fmt.Errorf("%w: expected one input file, got %d", errUsage, fs.NArg())
	}

	return fs.Arg(0), nil
}

func runCompress(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("compress", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var common commonFlags
	common.register(fs)
	verify := fs.Bool("verify", false, "decode the output and compare it with the input")
	compare := fs.String("compare", "", "comma-separated baseline codecs: zstd,s2,lz4,huff0 or all")

	input, err := parseInput(fs, args)
	if err != nil {
		return err
	}
	baselines, err := parseBaselines(*compare)
	if err != nil {
		return err
	}

	stats, err := abiz.CompressFile(
		abiz.FileConfig{InputPath: input, OutputPath: common.output, Overwrite: common.overwrite},
		abiz.WithLogger(common.logger(stderr)),
		abiz.WithVerify(*verify),
		abiz.WithBaselines(baselines...),
	)
	if err != nil {
		return err
	}

	printCompressReport(stdout, stats)

	return nil
}

func runDecompress(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("decompress", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var common commonFlags
	common.register(fs)

	input, err := parseInput(fs, args)
	if err != nil {
		return err
	}

	stats, err := abiz.DecompressFile(
		abiz.FileConfig{InputPath: input, OutputPath: common.output, Overwrite: common.overwrite},
		abiz.WithLogger(common.logger(stderr)),
	)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Compressed size:   %d bytes\n", stats.CompressedSize())
	fmt.Fprintf(stdout, "Restored size:     %d bytes\n", stats.OriginalSize)
	fmt.Fprintf(stdout, "Digest (xxh64):    %016x\n", stats.InputDigest)
	fmt.Fprintf(stdout, "Elapsed:           %s\n", stats.Elapsed.Round(time.Microsecond))

	return nil
}

func parseBaselines(list string) ([]format.CompressionType, error) {
	list = strings.TrimSpace(list)
	if list == "" {
		return nil, nil
	}
	if strings.EqualFold(list, "all") {
		return format.BaselineTypes, nil
	}

	var types []format.CompressionType
	for name := range strings.SplitSeq(list, ",") {
		typ, ok := format.ParseCompressionType(name)
		if !ok || typ == format.CompressionNone {
			return nil, fmt.Errorf("%w: unknown baseline codec %q", errUsage, strings.TrimSpace(name))
		}
		types = append(types, typ)
	}

	return types, nil
}

func printCompressReport(w io.Writer, stats abiz.Stats) {
	fmt.Fprintf(w, "Original size:     %d bytes\n", stats.OriginalSize)
	fmt.Fprintf(w, "Payload size:      %d bytes (%d bits, %.3f bits/byte)\n",
		stats.PayloadSize, stats.TotalBits, stats.BitsPerByte())
	fmt.Fprintf(w, "Header size:       %d bytes (%d symbols)\n", stats.HeaderSize, stats.Symbols)
	fmt.Fprintf(w, "Padding:           %d bits\n", stats.Padding)
	fmt.Fprintf(w, "Compressed size:   %d bytes (%.1f%% saved)\n", stats.CompressedSize(), stats.SpaceSavings())
	fmt.Fprintf(w, "Elapsed:           %s\n", stats.Elapsed.Round(time.Microsecond))

	if len(stats.Baselines) == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-8s %12s %8s %12s %12s\n", "codec", "size", "ratio", "compress", "decompress")
	fmt.Fprintf(w, "%-8s %12d %8.3f %12s %12s\n", "abiz",
		stats.CompressedSize(), stats.CompressionRatio(), stats.Elapsed.Round(time.Microsecond), "-")
	for _, b := range stats.Baselines {
		fmt.Fprintf(w, "%-8s %12d %8.3f %12s %12s\n", b.Algorithm,
			b.CompressedSize, b.CompressionRatio(),
			b.CompressionTime.Round(time.Microsecond), b.DecompressionTime.Round(time.Microsecond))
	}
}
