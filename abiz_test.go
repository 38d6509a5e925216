package abiz

import (
	"bytes"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/abiz/errs"
	"github.com/arloliu/abiz/format"
	"github.com/arloliu/abiz/internal/hash"
)

func TestCompress_Scenario(t *testing.T) {
	out, stats, err := Compress([]byte("AAABBC"))
	require.NoError(t, err)

	// A=0 C=10 B=11, payload bits 000 11 11 10 + 7 padding bits
	expected := []byte{
		0x02,
		'A', 1, '0',
		'B', 2, '1', '1',
		'C', 2, '1', '0',
		0x07,
		0b00011111, 0b00000000,
	}
	require.Equal(t, expected, out)

	require.Equal(t, int64(6), stats.OriginalSize)
	require.Equal(t, uint64(9), stats.TotalBits)
	require.Equal(t, uint8(7), stats.Padding)
	require.Equal(t, int64(2), stats.PayloadSize)
	require.Equal(t, int64(13), stats.HeaderSize)
	require.Equal(t, int64(15), stats.CompressedSize())
	require.Equal(t, 3, stats.Symbols)
	require.Equal(t, hash.Sum([]byte("AAABBC")), stats.InputDigest)
	require.InDelta(t, 1.5, stats.BitsPerByte(), 1e-9)

	restored, err := Decompress(out)
	require.NoError(t, err)
	require.Equal(t, []byte("AAABBC"), restored)
}

func TestCompress_SingleByte(t *testing.T) {
	out, stats, err := Compress([]byte("X"))
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 'X', 1, '0', 0x07, 0x00}, out)
	require.Equal(t, uint8(7), stats.Padding)
	require.Equal(t, int64(1), stats.PayloadSize)

	restored, err := Decompress(out)
	require.NoError(t, err)
	require.Equal(t, []byte("X"), restored)
}

func TestCompress_EmptyInput(t *testing.T) {
	_, _, err := Compress(nil)
	require.ErrorIs(t, err, errs.ErrEmptyInput)

	var buf bytes.Buffer
	_, err = CompressTo(&buf, []byte{})
	require.ErrorIs(t, err, errs.ErrEmptyInput)
	require.Zero(t, buf.Len())
}

func testData() map[string][]byte {
	rng := rand.New(rand.NewSource(11))

	all := make([]byte, 256*4)
	for i := range all {
		all[i] = byte(i)
	}
	skewed := make([]byte, 100_000)
	for i := range skewed {
		skewed[i] = byte(min(rng.ExpFloat64()*16, 255))
	}
	random := make([]byte, 50_000)
	rng.Read(random)

	return map[string][]byte{
		"text":      bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog\n"), 200),
		"repeated":  bytes.Repeat([]byte{0xFF}, 4096),
		"two bytes": []byte{0x00, 0x01},
		"all bytes": all,
		"skewed":    skewed,
		"random":    random,
	}
}

func TestCompress_RoundTrip(t *testing.T) {
	for name, data := range testData() {
		t.Run(name, func(t *testing.T) {
			out, stats, err := Compress(data, WithVerify(true))
			require.NoError(t, err)
			require.Equal(t, stats.CompressedSize(), int64(len(out)))
			require.Equal(t, (8-stats.TotalBits%8)%8, uint64(stats.Padding))

			restored, err := Decompress(out)
			require.NoError(t, err)
			require.True(t, bytes.Equal(data, restored), "round trip mismatch")
		})
	}
}

func TestCompress_SkewedDataShrinks(t *testing.T) {
	data := testData()["skewed"]

	_, stats, err := Compress(data)
	require.NoError(t, err)
	require.Less(t, stats.CompressionRatio(), 0.8)
	require.Positive(t, stats.SpaceSavings())
}

func TestCompressTo_MatchesCompress(t *testing.T) {
	data := testData()["text"]

	out, _, err := Compress(data)
	require.NoError(t, err)

	var buf bytes.Buffer
	stats, err := CompressTo(&buf, data)
	require.NoError(t, err)
	require.Equal(t, out, buf.Bytes())
	require.Equal(t, int64(buf.Len()), stats.CompressedSize())
}

type failingWriter struct{}

var errWriter = errors.New("disk full")

func (failingWriter) Write([]byte) (int, error) { return 0, errWriter }

func TestCompressTo_WriteError(t *testing.T) {
	_, err := CompressTo(failingWriter{}, []byte("data"))
	require.ErrorIs(t, err, errs.ErrIO)
	require.ErrorIs(t, err, errWriter)
}

func TestDecompressFrom(t *testing.T) {
	data := testData()["skewed"]
	out, cstats, err := Compress(data)
	require.NoError(t, err)

	restored, dstats, err := DecompressFrom(bytes.NewReader(out))
	require.NoError(t, err)
	require.True(t, bytes.Equal(data, restored))
	require.Equal(t, cstats.OriginalSize, dstats.OriginalSize)
	require.Equal(t, cstats.HeaderSize, dstats.HeaderSize)
	require.Equal(t, cstats.PayloadSize, dstats.PayloadSize)
	require.Equal(t, cstats.TotalBits, dstats.TotalBits)
	require.Equal(t, cstats.Padding, dstats.Padding)
	require.Equal(t, cstats.Symbols, dstats.Symbols)
	require.Equal(t, cstats.InputDigest, dstats.InputDigest)
}

func TestDecompress_Errors(t *testing.T) {
	valid, _, err := Compress([]byte("AAABBC"))
	require.NoError(t, err)

	flipped := bytes.Clone(valid)
	flipped[len(flipped)-1] = 0x01 // set a padding bit

	tests := []struct {
		name string
		data []byte
		err  error
	}{
		{"empty", nil, errs.ErrTruncatedHeader},
		{"truncated header", valid[:5], errs.ErrTruncatedHeader},
		{"bad padding", append(bytes.Clone(valid[:12]), 0x09), errs.ErrInvalidPadding},
		{"truncated payload", valid[:14], errs.ErrCorruptPayload},
		{"non-zero padding bits", flipped, errs.ErrCorruptPayload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decompress(tt.data)
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestVerifyStream_Mismatch(t *testing.T) {
	out, stats, err := Compress([]byte("verify"))
	require.NoError(t, err)

	require.NoError(t, verifyStream(out, stats.InputDigest))
	require.ErrorIs(t, verifyStream(out, stats.InputDigest+1), errs.ErrVerifyMismatch)
	require.ErrorIs(t, verifyStream(out[:3], stats.InputDigest), errs.ErrVerifyMismatch)
}

func TestCompress_Baselines(t *testing.T) {
	data := testData()["text"]

	_, stats, err := Compress(data, WithBaselines(format.BaselineTypes...))
	require.NoError(t, err)
	require.Len(t, stats.Baselines, len(format.BaselineTypes))
	for i, typ := range format.BaselineTypes {
		require.Equal(t, typ, stats.Baselines[i].Algorithm)
		require.Equal(t, int64(len(data)), stats.Baselines[i].OriginalSize)
		require.Positive(t, stats.Baselines[i].CompressedSize)
	}
}

func TestOptions(t *testing.T) {
	cfg, err := newConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg.Logger)
	require.False(t, cfg.Verify)
	require.Empty(t, cfg.Baselines)

	cfg, err = newConfig(WithLogger(nil), WithVerify(true), WithBaselines(format.CompressionS2))
	require.NoError(t, err)
	require.NotNil(t, cfg.Logger)
	require.True(t, cfg.Verify)
	require.Equal(t, []format.CompressionType{format.CompressionS2}, cfg.Baselines)

	_, err = newConfig(WithBaselines(format.CompressionType(0x7F)))
	require.Error(t, err)

	_, _, err = Compress([]byte("abc"), WithBaselines(format.CompressionType(0x7F)))
	require.Error(t, err)
}

func TestWithLogger(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, _, err := Compress([]byte("logged input"), WithLogger(logger), WithVerify(true))
	require.NoError(t, err)

	require.Contains(t, logs.String(), "code table built")
	require.Contains(t, logs.String(), "round trip verified")
	require.Contains(t, logs.String(), "compression finished")
}

func TestCompress_Concurrent(t *testing.T) {
	inputs := testData()

	var wg sync.WaitGroup
	for name, data := range inputs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 4 {
				out, _, err := Compress(data)
				if !assertNoError(t, name, err) {
					return
				}
				restored, err := Decompress(out)
				if !assertNoError(t, name, err) {
					return
				}
				if !bytes.Equal(data, restored) {
					t.Errorf("%s: round trip mismatch", name)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func assertNoError(t *testing.T, name string, err error) bool {
	t.Helper()
	if err != nil {
		t.Errorf("%s: %v", name, err)
		return false
	}

	return true
}

func FuzzRoundTrip(f *testing.F) {
	f.Add([]byte("AAABBC"))
	f.Add([]byte("X"))
	f.Add([]byte{0x00, 0xFF, 0x00, 0xFF, 0x7F})

	f.Fuzz(func(t *testing.T, data []byte) {
		out, _, err := Compress(data)
		if len(data) == 0 {
			require.ErrorIs(t, err, errs.ErrEmptyInput)
			return
		}
		require.NoError(t, err)

		restored, err := Decompress(out)
		require.NoError(t, err)
		require.Equal(t, data, restored)
	})
}

func BenchmarkCompress(b *testing.B) {
	data := testData()["skewed"]
	b.SetBytes(int64(len(data)))

	for b.Loop() {
		_, _, _ = Compress(data)
	}
}

func BenchmarkDecompress(b *testing.B) {
	data := testData()["skewed"]
	out, _, err := Compress(data)
	require.NoError(b, err)
	b.SetBytes(int64(len(data)))

	for b.Loop() {
		_, _ = Decompress(out)
	}
}
