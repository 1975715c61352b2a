package record

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hailam/chessplay/internal/board"
)

// randomGame plays n random pseudo-legal plies and returns the moves and
// the resulting board.
func randomGame(seed int64, n int) ([]board.Move, *board.Board) {
	rng := rand.New(rand.NewSource(seed))
	g := board.NewBitboardGenerator(nil)
	b := board.NewBoard()
	var moves []board.Move
	for i := 0; i < n; i++ {
		ml := board.Moves(g, b, nil)
		if ml.Len() == 0 {
			break
		}
		m := ml.Get(rng.Intn(ml.Len()))
		b.ApplyMove(m.From, m.To)
		moves = append(moves, m)
	}
	return moves, b
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		line    string
		want    board.Move
		wantErr bool
	}{
		{"57 42", board.NewMove(57, 42), false},
		{"0 63", board.NewMove(0, 63), false},
		{"57 64", board.NoMove, true},
		{"-1 3", board.NoMove, true},
		{"57  42", board.NoMove, true},
		{"57,42", board.NoMove, true},
		{"e2 e4", board.NoMove, true},
		{"57", board.NoMove, true},
	}
	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			got, err := ParseLine(tc.line)
			if tc.wantErr {
				if !errors.Is(err, ErrMalformedLine) {
					t.Errorf("err = %v, want ErrMalformedLine", err)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Errorf("ParseLine(%q) = %v, %v", tc.line, got, err)
			}
		})
	}
}

func TestReadReportsLineNumber(t *testing.T) {
	_, err := Read(strings.NewReader("52 36\n12 28\nbogus\n"))
	if !errors.Is(err, ErrMalformedLine) {
		t.Fatalf("err = %v, want ErrMalformedLine", err)
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Errorf("error %q does not name line 3", err)
	}

	if _, err := Read(strings.NewReader("52 36\n\n12 28\n")); !errors.Is(err, ErrMalformedLine) {
		t.Errorf("blank line inside the record accepted: %v", err)
	}

	moves, err := Read(strings.NewReader("52 36\n12 28\n\n\n"))
	if err != nil || len(moves) != 2 {
		t.Errorf("trailing blank lines: %v, %v", moves, err)
	}
}

// TestRoundTripReplay saves applied moves and replays them from scratch.
func TestRoundTripReplay(t *testing.T) {
	moves, want := randomGame(3, 80)

	var buf bytes.Buffer
	if err := Write(&buf, moves); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if lines := strings.Count(buf.String(), "\n"); lines != len(moves) {
		t.Errorf("wrote %d lines for %d moves", lines, len(moves))
	}

	read, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	got, err := Replay(read)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if got.Placement != want.Placement || got.Turn != want.Turn {
		t.Errorf("replay differs:\n%s\nwant\n%s", got, want)
	}
	if got.Score != want.Score {
		t.Errorf("score = %d, want %d", got.Score, want.Score)
	}
}

func TestSaveLoadFormats(t *testing.T) {
	moves, want := randomGame(11, 60)
	dir := t.TempDir()

	for _, name := range []string{"game.txt", "game", "game.zst", "game.bz2"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := Save(path, moves); err != nil {
				t.Fatalf("Save: %v", err)
			}

			src, err := Open(path)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			read, err := ReadSource(src)
			if err != nil {
				t.Fatalf("ReadSource: %v", err)
			}
			if src.BytesRead() == 0 {
				t.Error("BytesRead reported nothing")
			}
			if src.Size() == 0 {
				t.Error("Size reported nothing")
			}
			if err := src.Close(); err != nil {
				t.Errorf("Close: %v", err)
			}

			got, err := Replay(read)
			if err != nil {
				t.Fatalf("Replay: %v", err)
			}
			if got.Placement != want.Placement || got.Turn != want.Turn {
				t.Errorf("replay from %s differs", name)
			}
		})
	}

	if err := Save(filepath.Join(dir, "game.pgn"), moves); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Save .pgn: err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.txt", "a.zst", "notes.md", "c.bz2"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	paths, err := Collect(dir)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	var names []string
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	if got := strings.Join(names, ","); got != "a.zst,b.txt,c.bz2" {
		t.Errorf("Collect = %s", got)
	}
}

func TestGame(t *testing.T) {
	g := NewGame()
	g.Apply(board.NewMove(52, 36))
	g.Apply(board.NewMove(12, 28))

	other := NewGame()
	if err := other.Load(g.Moves); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if other.Board.Placement != g.Board.Placement || len(other.Moves) != 2 {
		t.Error("Load did not reproduce the game")
	}

	if err := other.Load([]board.Move{board.NewMove(30, 31)}); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("Load of an empty-square move: err = %v, want ErrIllegalMove", err)
	}
	if other.Board.Placement != g.Board.Placement || len(other.Moves) != 2 {
		t.Error("failed Load changed the game")
	}
}

func TestReplayRejectsIllegalMoves(t *testing.T) {
	tests := []struct {
		name  string
		moves []board.Move
		line  int
	}{
		{"Empty from square", []board.Move{board.NewMove(30, 31)}, 1},
		{"Wrong side", []board.Move{board.NewMove(12, 28)}, 1},
		{"Unreachable destination", []board.Move{board.NewMove(52, 20)}, 1},
		{"Own piece on destination", []board.Move{board.NewMove(56, 48)}, 1},
		{"After legal moves", []board.Move{
			board.NewMove(52, 36), board.NewMove(12, 28), board.NewMove(36, 28),
		}, 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, err := Replay(tc.moves)
			if !errors.Is(err, ErrIllegalMove) {
				t.Fatalf("err = %v, want ErrIllegalMove", err)
			}
			if b != nil {
				t.Error("board returned with the error")
			}
			if want := fmt.Sprintf("line %d", tc.line); !strings.Contains(err.Error(), want) {
				t.Errorf("error %q does not name %s", err, want)
			}
		})
	}
}
