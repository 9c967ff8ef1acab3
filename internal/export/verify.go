package export

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"
)

// binarySTLHeaderSize is the fixed comment header preceding the facet count
// in a binary STL file.
const binarySTLHeaderSize = 80

// facetRecordSize is the size of one binary STL facet record: a normal and
// three vertices (12 floats) plus a 2-byte attribute word.
const facetRecordSize = 50

// ReadFacetCount opens an exported STL file and returns its facet count.
// Both encodings are handled: binary files carry the count as a uint32
// after the 80-byte header, ASCII files ("solid ..." prefix) are scanned
// for endfacet lines.
//
// The count is also checked against the file size for binary files, so a
// truncated export is reported as an error rather than a bogus count.
func ReadFacetCount(path string) (int64, error) {
	f, err := os.Open(path) //nolint:gosec // Path was produced by this run
	if err != nil {
		return 0, fmt.Errorf("failed to open exported file: %w", err)
	}
	defer f.Close()

	// Sniff the encoding the way STL readers do: ASCII files start with
	// the "solid" keyword.
	prefix := make([]byte, 6)
	n, err := f.Read(prefix)
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("failed to read file header: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("failed to rewind file: %w", err)
	}

	if n >= 5 && strings.HasPrefix(string(prefix[:n]), "solid") {
		return countASCIIFacets(f)
	}
	return countBinaryFacets(f)
}

// countBinaryFacets reads the facet count field and validates it against
// the actual file length.
func countBinaryFacets(f *os.File) (int64, error) {
	header := make([]byte, binarySTLHeaderSize)
	if _, err := io.ReadFull(f, header); err != nil {
		return 0, fmt.Errorf("file too short for binary STL header: %w", err)
	}

	var count uint32
	if err := binary.Read(f, binary.LittleEndian, &count); err != nil {
		return 0, fmt.Errorf("failed to read facet count: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to stat exported file: %w", err)
	}

	want := int64(binarySTLHeaderSize) + 4 + int64(count)*facetRecordSize
	if info.Size() < want {
		return 0, fmt.Errorf("truncated binary STL: header declares %d facets (%d bytes) but file has %d bytes",
			count, want, info.Size())
	}

	return int64(count), nil
}

// countASCIIFacets counts endfacet lines in an ASCII STL body.
func countASCIIFacets(f *os.File) (int64, error) {
	var count int64
	scanner := bufio.NewScanner(f)
	// Vertex lines in generated files can be long; give the scanner room.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if bytes.Equal(line, []byte("endfacet")) {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("failed to scan ASCII STL: %w", err)
	}
	return count, nil
}
