package record

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/inhies/go-bytesize"

	"github.com/hailam/chessplay/internal/board"
)

// Source is a record file, possibly compressed, read line by line.
type Source interface {
	Open() error
	Close() error
	Scan() bool
	Text() string
	Err() error
	Path() string
	// The size (or estimated size in case of archives) of the data
	Size() bytesize.ByteSize
	// Decompressed bytes read so far
	BytesRead() bytesize.ByteSize
}

// ByteCountingReader counts the bytes passing through it. Wrapping both the
// compressed input and the decompressed output gives a compression ratio.
type ByteCountingReader struct {
	reader    io.Reader
	bytesRead bytesize.ByteSize
}

func (bcr *ByteCountingReader) Read(p []byte) (n int, err error) {
	c, err := bcr.reader.Read(p)
	bcr.bytesRead += bytesize.ByteSize(uint64(c))
	return c, err
}

type closeFn func() error

func openFile(path string) (io.Reader, bytesize.ByteSize, closeFn, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, nil, err
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, 0, nil, err
	}

	return file, bytesize.ByteSize(stat.Size()), file.Close, nil
}

// SourceFor picks the Source implementation by file extension: .zst,
// .bz2, or .txt and no extension for plain text.
func SourceFor(path string) (Source, error) {
	switch filepath.Ext(path) {
	case ".zst":
		return NewZstRecord(path), nil
	case ".bz2":
		return NewBzip2Record(path), nil
	case ".txt", "":
		return NewPlainRecord(path), nil
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
}

// Open returns an opened Source for path.
func Open(path string) (Source, error) {
	src, err := SourceFor(path)
	if err != nil {
		return nil, err
	}
	if err := src.Open(); err != nil {
		return nil, err
	}
	return src, nil
}

// ReadSource reads every move from an opened source.
func ReadSource(src Source) ([]board.Move, error) {
	moves, err := scanMoves(src.Scan, src.Text, src.Err)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Path(), err)
	}
	return moves, nil
}

// Load opens, reads and closes the record at path.
func Load(path string) ([]board.Move, error) {
	src, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return ReadSource(src)
}

// Save writes moves to path, compressing according to its extension.
func Save(path string, moves []board.Move) (err error) {
	if _, err := SourceFor(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	switch filepath.Ext(path) {
	case ".zst":
		return writeZst(file, moves)
	case ".bz2":
		return writeBzip2(file, moves)
	default:
		return Write(file, moves)
	}
}

// Collect lists the record files directly inside dir, sorted by name.
// Subdirectories and files with unknown extensions are skipped.
func Collect(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if _, err := SourceFor(path); err == nil {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths, nil
}
