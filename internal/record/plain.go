package record

import (
	"bufio"

	"github.com/inhies/go-bytesize"
)

type PlainRecord struct {
	lines  *bufio.Scanner
	reader *ByteCountingReader
	close  closeFn
	path   string
	size   bytesize.ByteSize
}

func NewPlainRecord(path string) *PlainRecord {
	return &PlainRecord{
		path: path,
	}
}

func (s *PlainRecord) Open() error {
	reader, size, close, err := openFile(s.path)
	if err != nil {
		return err
	}

	s.close = close
	s.reader = &ByteCountingReader{reader: reader}
	s.size = size
	s.lines = bufio.NewScanner(bufio.NewReader(s.reader))

	return nil
}

func (s *PlainRecord) Close() error {
	return s.close()
}

func (s *PlainRecord) Scan() bool {
	return s.lines.Scan()
}

func (s *PlainRecord) Text() string {
	return s.lines.Text()
}

func (s *PlainRecord) Err() error {
	return s.lines.Err()
}

func (s *PlainRecord) Path() string {
	return s.path
}

func (s *PlainRecord) Size() bytesize.ByteSize {
	return s.size
}

func (s *PlainRecord) BytesRead() bytesize.ByteSize {
	return s.reader.bytesRead
}
