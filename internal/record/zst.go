package record

import (
	"bufio"
	"io"

	"github.com/inhies/go-bytesize"
	"github.com/klauspost/compress/zstd"

	"github.com/hailam/chessplay/internal/board"
)

type ZstRecord struct {
	lines        *bufio.Scanner
	decoder      *zstd.Decoder
	inputReader  *ByteCountingReader
	outputReader *ByteCountingReader
	close        closeFn
	path         string
	size         bytesize.ByteSize
}

func NewZstRecord(path string) *ZstRecord {
	return &ZstRecord{
		path: path,
	}
}

func (s *ZstRecord) Open() error {
	reader, size, close, err := openFile(s.path)
	if err != nil {
		return err
	}
	// Count both sides of the decoder to estimate the decompressed size.
	s.inputReader = &ByteCountingReader{reader: reader}
	s.decoder, err = zstd.NewReader(s.inputReader)
	if err != nil {
		_ = close()
		return err
	}

	s.outputReader = &ByteCountingReader{reader: s.decoder}
	s.close = close
	s.size = size
	s.lines = bufio.NewScanner(bufio.NewReader(s.outputReader))

	return nil
}

func (s *ZstRecord) Close() error {
	s.decoder.Close()
	return s.close()
}

func (s *ZstRecord) Scan() bool {
	return s.lines.Scan()
}

func (s *ZstRecord) Text() string {
	return s.lines.Text()
}

func (s *ZstRecord) Err() error {
	return s.lines.Err()
}

func (s *ZstRecord) Path() string {
	return s.path
}

func (s *ZstRecord) Size() bytesize.ByteSize {
	if s.inputReader.bytesRead > 0 {
		return s.size * (s.outputReader.bytesRead / s.inputReader.bytesRead)
	}

	return s.size
}

func (s *ZstRecord) BytesRead() bytesize.ByteSize {
	return s.outputReader.bytesRead
}

func writeZst(w io.Writer, moves []board.Move) error {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	if err := Write(enc, moves); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}
