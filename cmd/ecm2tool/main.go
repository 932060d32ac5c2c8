// Command ecm2tool encodes CD-ROM sector streams to ECM2 containers and
// decodes them back to byte-exact BIN images.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/afero"

	"github.com/ecm2tool/go-ecm2"
	"github.com/ecm2tool/go-ecm2/archive"
	"github.com/ecm2tool/go-ecm2/internal/blockdevice"
	"github.com/ecm2tool/go-ecm2/sector"
)

// cdromImageStartSector is the absolute sector address of the first sector
// of track 1, the same lead-in offset the C encoder hardcodes.
const cdromImageStartSector = 150

// bufferSectors is only reported in the analysis progress message; the
// encoder processes the whole input in one call and prints no per-batch
// progress.
const bufferSectors = 100

var (
	inputPath   = flag.String("i", "", "input file path (required)")
	outputPath  = flag.String("o", "", "output file path (required)")
	decode      = flag.Bool("d", false, "decode an ECM2 container back to a raw sector stream")
	optOverride = flag.String("opt", "", "optimization mask override, 0-255 (default: best-per-stream on encode)")
	useZstd     = flag.Bool("z", false, "zstd-compress the ECM2 container (encode) or expect a zstd-compressed one (decode)")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n\n")
		fmt.Fprintf(os.Stderr, "  To encode:\n")
		fmt.Fprintf(os.Stderr, "    %s -i cdimage.bin -o image.ecm2\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  To decode:\n")
		fmt.Fprintf(os.Stderr, "    %s -d -i image.ecm2 -o cdimage.bin\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *inputPath == "" || *outputPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "\nERROR: %v\n", err)
		_ = fs.Remove(*outputPath)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "\nThe file was processed without any problem.\n")
}

// fs is the filesystem the driver removes the output through on failure.
// Plain input reads and the output write go through this too; raw
// block-device input and archive input are read through the os package.
var fs = afero.NewOsFs()

func run() error {
	mask, useBest, err := parseOptOverride(*optOverride)
	if err != nil {
		return err
	}

	input, err := readInput(*inputPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	if *useZstd && *decode {
		input, err = zstdDecompress(input)
		if err != nil {
			return fmt.Errorf("zstd decompress: %w", err)
		}
	}

	var output []byte
	if *decode {
		output, err = runDecode(input)
	} else {
		output, err = runEncode(input, mask, useBest)
	}
	if err != nil {
		return err
	}

	if *useZstd && !*decode {
		output, err = zstdCompress(output)
		if err != nil {
			return fmt.Errorf("zstd compress: %w", err)
		}
	}

	fmt.Fprintf(os.Stderr, "Writing %d bytes to %s.\n", len(output), *outputPath)
	if err := afero.WriteFile(fs, *outputPath, output, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// parseOptOverride turns the -opt flag into a mask and whether the refiner
// should still run. An empty flag means: use every optimization bit and let
// the refiner narrow it, matching the original encoder's always-maximal
// OPTIMIZATIONS default.
func parseOptOverride(raw string) (sector.Mask, bool, error) {
	if raw == "" {
		return sector.Full, true, nil
	}
	v, err := strconv.ParseUint(raw, 10, 8)
	if err != nil {
		return 0, false, fmt.Errorf("invalid -opt value %q: %w", raw, err)
	}
	return sector.Mask(v), false, nil
}

func runEncode(input []byte, mask sector.Mask, useBest bool) ([]byte, error) {
	sectors := len(input) / sector.Size
	fmt.Fprintf(os.Stderr, "Analizing %d sectors (in batches of %d) to determine the best optimizations and generate the index.\n",
		sectors, bufferSectors)
	enc := ecm2.NewEncoder()
	container, err := enc.Encode(input, ecm2.Options{
		Mask:                 mask,
		UseBestOptimizations: useBest,
		FirstSector:          cdromImageStartSector,
	})
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Packing the index and storing the configuration.\n")
	return container, nil
}

func runDecode(container []byte) ([]byte, error) {
	fmt.Fprintf(os.Stderr, "Reading the input file header and unpacking the index.\n")
	dec := ecm2.NewDecoder()
	output, header, err := dec.Decode(container, cdromImageStartSector)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Optimizations: %d, Sectors: %d, Index Pack Mode: %d.\n",
		header.Optimizations, header.Sectors, header.IndexPackMode)
	return output, nil
}

// readInput loads the whole input into memory, dispatching to the raw
// block-device path, the archive path, or a plain afero read depending on
// what path names.
func readInput(path string) ([]byte, error) {
	if blockdevice.Is(path) {
		f, err := os.Open(path) //nolint:gosec // CLI argument is the intended target file
		if err != nil {
			return nil, fmt.Errorf("open block device: %w", err)
		}
		defer func() { _ = f.Close() }()
		return io.ReadAll(f)
	}

	if archivePath, err := archive.ParsePath(path); err != nil {
		return nil, fmt.Errorf("parse archive path: %w", err)
	} else if archivePath != nil {
		return readFromArchive(*archivePath)
	}

	return afero.ReadFile(fs, path)
}

func readFromArchive(p archive.Path) ([]byte, error) {
	arc, err := archive.Open(p.ArchivePath)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer func() { _ = arc.Close() }()

	internalPath := p.InternalPath
	if internalPath == "" {
		internalPath, err = archive.DetectImageFile(arc)
		if err != nil {
			return nil, fmt.Errorf("detect image track in archive: %w", err)
		}
	}

	reader, _, err := arc.Open(internalPath)
	if err != nil {
		return nil, fmt.Errorf("open %s in archive: %w", internalPath, err)
	}
	defer func() { _ = reader.Close() }()

	return io.ReadAll(reader)
}

func zstdCompress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = enc.Close() }()
	return enc.EncodeAll(data, nil), nil
}

func zstdDecompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return out, nil
}
