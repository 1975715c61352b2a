// Package ui draws a session with Ebitengine and turns mouse clicks and
// key presses into session actions.
package ui

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog/log"

	"github.com/hailam/chessplay/internal/board"
	"github.com/hailam/chessplay/internal/engine"
	"github.com/hailam/chessplay/internal/session"
)

// UI Constants
const (
	SquareSize   = 80
	BoardSize    = 8 * SquareSize
	StatusHeight = 72
	ScreenWidth  = BoardSize
	ScreenHeight = BoardSize + StatusHeight
)

const noticeDuration = 3 * time.Second

// Game implements ebiten.Game interface.
type Game struct {
	session  *session.Session
	renderer *Renderer
	input    *InputHandler
	audio    *AudioManager

	sound       bool
	notice      string
	noticeUntil time.Time
}

// NewGame creates the window state for a session built from opts.
func NewGame(opts session.Options, sound bool) *Game {
	g := &Game{
		renderer: NewRenderer(SquareSize),
		input:    NewInputHandler(),
		audio:    NewAudioManager(sound),
		sound:    sound,
	}
	opts.OnEvent = g.audio.Play
	g.session = session.New(opts)
	return g
}

// Session returns the game being shown.
func (g *Game) Session() *session.Session {
	return g.session
}

// Update handles game logic updates.
func (g *Game) Update() error {
	g.input.Update()

	switch g.input.Command() {
	case CmdNewGame:
		g.session.NewGame()
		g.setNotice("New game")
	case CmdSave:
		if err := g.session.Save(); err != nil {
			log.Warn().Err(err).Msg("save-game")
			g.setNotice("Save failed: " + err.Error())
		} else {
			g.setNotice("Game saved")
		}
	case CmdLoad:
		if err := g.session.Load(); err != nil {
			log.Warn().Err(err).Msg("load-game")
			g.setNotice("Load failed: " + err.Error())
		} else {
			g.setNotice("Game loaded")
		}
	case CmdToggleRandomize:
		if g.session.ToggleRandomize() {
			g.setNotice("Randomisation on")
		} else {
			g.setNotice("Randomisation off")
		}
	case CmdToggleSound:
		g.sound = !g.sound
		g.audio.SetEnabled(g.sound)
		if g.sound {
			g.setNotice("Sound on")
		} else {
			g.setNotice("Sound off")
		}
	}

	if x, y, ok := g.input.Click(); ok {
		if sq := ScreenToSquare(x, y, SquareSize); sq != board.NoSquare {
			g.session.Click(sq)
		}
	}

	g.session.Update()
	return nil
}

func (g *Game) setNotice(s string) {
	g.notice = s
	g.noticeUntil = time.Now().Add(noticeDuration)
}

// Draw renders the game.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.renderer.Theme().Background)

	g.renderer.DrawBoard(screen)
	g.renderer.DrawHighlights(screen, g.session.Selected(), g.session.Targets(), g.session.LastMove())
	g.renderer.DrawPieces(screen, g.session.Board())
	g.renderer.DrawStatus(screen, g.statusLines()...)
}

// statusLines describes the turn, the last search and any notice.
func (g *Game) statusLines() []string {
	s := g.session
	turn := s.Board().Turn

	var first string
	switch over, _ := s.Over(); {
	case over:
		first = s.Result()
	case s.Thinking():
		first = fmt.Sprintf("%s (%s) is thinking...", turn, s.Player(turn))
	default:
		first = fmt.Sprintf("%s (%s) to move", turn, s.Player(turn))
	}

	second := fmt.Sprintf("Score %s", engine.ScoreToString(s.Board().Rate()))
	if res := s.LastSearch(); !res.Move.IsNone() {
		second += fmt.Sprintf("   last search: %s depth %d, %.1fk nodes in %v",
			res.Move, res.Depth, float64(res.Nodes)/1e3, res.Elapsed.Round(time.Millisecond))
	}

	third := fmt.Sprintf("N new   S save   L load   R randomise (%v)   M sound (%v)", s.Randomize(), g.sound)
	if g.notice != "" && time.Now().Before(g.noticeUntil) {
		third = g.notice
	}
	return []string{first, second, third}
}

// Layout returns the game's screen dimensions.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}

// Close abandons any bot search in flight.
func (g *Game) Close() {
	g.session.Close()
}
