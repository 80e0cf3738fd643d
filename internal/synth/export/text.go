package export

import (
	"bufio"
	"flightplan-synth/internal/synth/flightplan"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

func compressed(path string) bool {
	return strings.HasSuffix(path, ".zst")
}

// WritePlans writes plans in their text form to path, zstd-compressed if
// the path ends in .zst.
func WritePlans(path string, plans []*flightplan.FlightPlan) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := EncodePlans(f, plans, compressed(path)); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

func EncodePlans(w io.Writer, plans []*flightplan.FlightPlan, compress bool) error {
	if !compress {
		bw := bufio.NewWriter(w)
		if _, err := bw.WriteString(flightplan.Format(plans)); err != nil {
			return err
		}
		return bw.Flush()
	}

	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	defer zw.Close()

	if _, err := io.WriteString(zw, flightplan.Format(plans)); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to close zstd writer: %w", err)
	}
	return nil
}

// ReadPlans parses the plans in path, decompressing it first if the path
// ends in .zst.
func ReadPlans(path string) ([]*flightplan.FlightPlan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return DecodePlans(f, compressed(path))
}

func DecodePlans(r io.Reader, compress bool) ([]*flightplan.FlightPlan, error) {
	if compress {
		zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(0))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		r = zr
	}
	return flightplan.Parse(r)
}
