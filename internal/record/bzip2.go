package record

import (
	"bufio"
	"io"

	"github.com/dsnet/compress/bzip2"
	"github.com/inhies/go-bytesize"

	"github.com/hailam/chessplay/internal/board"
)

type Bzip2Record struct {
	reader *bzip2.Reader
	lines  *bufio.Scanner
	close  closeFn
	path   string
	size   bytesize.ByteSize
}

func NewBzip2Record(path string) *Bzip2Record {
	return &Bzip2Record{
		path: path,
	}
}

func (s *Bzip2Record) Open() error {
	reader, size, close, err := openFile(s.path)
	if err != nil {
		return err
	}

	s.reader, err = bzip2.NewReader(reader, nil)
	if err != nil {
		_ = close()
		return err
	}

	s.size = size
	s.close = close
	s.lines = bufio.NewScanner(bufio.NewReader(s.reader))

	return nil
}

func (s *Bzip2Record) Close() error {
	_ = s.reader.Close()
	return s.close()
}

func (s *Bzip2Record) Scan() bool {
	return s.lines.Scan()
}

func (s *Bzip2Record) Text() string {
	return s.lines.Text()
}

func (s *Bzip2Record) Err() error {
	return s.lines.Err()
}

func (s *Bzip2Record) Path() string {
	return s.path
}

func (s *Bzip2Record) Size() bytesize.ByteSize {
	if s.reader.InputOffset > 0 {
		return s.size * bytesize.ByteSize(float64(s.reader.OutputOffset)/float64(s.reader.InputOffset))
	}

	return s.size
}

func (s *Bzip2Record) BytesRead() bytesize.ByteSize {
	return bytesize.ByteSize(s.reader.OutputOffset)
}

func writeBzip2(w io.Writer, moves []board.Move) error {
	bw, err := bzip2.NewWriter(w, &bzip2.WriterConfig{Level: bzip2.BestCompression})
	if err != nil {
		return err
	}
	if err := Write(bw, moves); err != nil {
		_ = bw.Close()
		return err
	}
	return bw.Close()
}
