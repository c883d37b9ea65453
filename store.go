// ═══════════════════════════════════════════════════════════════════════════════
// STORE LAYOUT OVERVIEW
// ═══════════════════════════════════════════════════════════════════════════════
// The on-disk store is a pair of "blob + offsets" files, used twice: once for
// document payloads (docs.bin / offsets.bin) and once for posting-list
// payloads (inverted_index.bin / index_offsets.bin). Both pairs share the
// exact same framing, so one reader/writer pair serves both:
//
//	blob:    zlib(record_0) || zlib(record_1) || ... || zlib(record_{n-1})
//	offsets: u32le[0], u32le[1], ..., u32le[n]     (n+1 entries)
//
// record i occupies blob bytes [offsets[i], offsets[i+1]). The writer never
// frames individual records beyond what zlib itself frames, so the offsets
// table is the only index into the blob.
// ═══════════════════════════════════════════════════════════════════════════════

package coogle

import (
	"bufio"
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// decodePosting parses a posting-list record's decompressed JSON payload,
// a flat [doc0, tf0, doc1, tf1, ...] array, into the same flat []int form.
func decodePosting(raw []byte) ([]int, error) {
	var pairs []int
	if err := json.Unmarshal(raw, &pairs); err != nil {
		return nil, fmt.Errorf("%w: decoding posting list: %v", ErrCorrupt, err)
	}
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("%w: posting list has an odd element count", ErrCorrupt)
	}
	return pairs, nil
}

// blobWriter appends independently zlib-compressed records to a blob file
// and tracks the byte offset of each, so the offsets table can be written
// once the last record is known.
type blobWriter struct {
	f       *os.File
	w       *bufio.Writer
	offsets []uint32
	cur     uint32
}

func newBlobWriter(blobPath string) (*blobWriter, error) {
	f, err := os.Create(blobPath)
	if err != nil {
		return nil, fmt.Errorf("%w: creating %s: %v", ErrIO, blobPath, err)
	}
	return &blobWriter{
		f:       f,
		w:       bufio.NewWriter(f),
		offsets: []uint32{0},
	}, nil
}

// writeRecord zlib-compresses data and appends it to the blob.
func (bw *blobWriter) writeRecord(data []byte) error {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return fmt.Errorf("%w: compressing record: %v", ErrIO, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("%w: compressing record: %v", ErrIO, err)
	}

	n, err := bw.w.Write(buf.Bytes())
	if err != nil {
		return fmt.Errorf("%w: writing record: %v", ErrIO, err)
	}
	bw.cur += uint32(n)
	bw.offsets = append(bw.offsets, bw.cur)
	return nil
}

// close flushes the blob and writes the offsets table to offsetsPath.
func (bw *blobWriter) close(offsetsPath string) error {
	if err := bw.w.Flush(); err != nil {
		return fmt.Errorf("%w: flushing blob: %v", ErrIO, err)
	}
	if err := bw.f.Close(); err != nil {
		return fmt.Errorf("%w: closing blob: %v", ErrIO, err)
	}

	of, err := os.Create(offsetsPath)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrIO, offsetsPath, err)
	}
	defer of.Close()

	ow := bufio.NewWriter(of)
	for _, offset := range bw.offsets {
		if err := binary.Write(ow, binary.LittleEndian, offset); err != nil {
			return fmt.Errorf("%w: writing offsets: %v", ErrIO, err)
		}
	}
	return ow.Flush()
}

// blobReader provides random access into a blob file given its offsets
// table, which is small enough to load entirely into memory. The blob file
// itself is opened fresh for each read, per the store's read-on-demand
// concurrency model.
type blobReader struct {
	blobPath string
	offsets  []uint32
}

func newBlobReader(blobPath, offsetsPath string) (*blobReader, error) {
	raw, err := os.ReadFile(offsetsPath)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrIO, offsetsPath, err)
	}
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("%w: %s has a non-multiple-of-4 length", ErrCorrupt, offsetsPath)
	}

	offsets := make([]uint32, len(raw)/4)
	for i := range offsets {
		offsets[i] = binary.LittleEndian.Uint32(raw[i*4 : i*4+4])
	}

	if _, err := os.Stat(blobPath); err != nil {
		return nil, fmt.Errorf("%w: stat %s: %v", ErrIO, blobPath, err)
	}

	return &blobReader{blobPath: blobPath, offsets: offsets}, nil
}

// len returns the number of records in the blob (one less than the number
// of offset entries).
func (br *blobReader) len() int {
	if len(br.offsets) == 0 {
		return 0
	}
	return len(br.offsets) - 1
}

// read returns the decompressed bytes of record i. Fails with ErrOutOfRange
// if i is at or beyond len().
func (br *blobReader) read(i int) ([]byte, error) {
	if i < 0 || i >= br.len() {
		return nil, fmt.Errorf("%w: record %d (have %d)", ErrOutOfRange, i, br.len())
	}

	start, end := br.offsets[i], br.offsets[i+1]
	if end < start {
		return nil, fmt.Errorf("%w: record %d has a decreasing offset range", ErrCorrupt, i)
	}

	f, err := os.Open(br.blobPath)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrIO, br.blobPath, err)
	}
	defer f.Close()

	if _, err := f.Seek(int64(start), io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: seeking %s: %v", ErrIO, br.blobPath, err)
	}

	compressed := make([]byte, end-start)
	if _, err := io.ReadFull(f, compressed); err != nil {
		return nil, fmt.Errorf("%w: reading record %d: %v", ErrIO, i, err)
	}

	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("%w: decompressing record %d: %v", ErrCorrupt, i, err)
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: decompressing record %d: %v", ErrCorrupt, i, err)
	}
	return out, nil
}
