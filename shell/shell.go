// Package shell implements an interactive REPL for loading a retrograde
// analysis problem and running the deduction core against it, following
// the teacher's readline-backed shell structure (a banner, a line-prefix
// command dispatch, and a Loop that exits cleanly on Ctrl-D/Ctrl-C).
package shell

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	shellquote "github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/euclide-go/euclide/config"
	"github.com/euclide-go/euclide/driver"
	"github.com/euclide-go/euclide/piece"
	"github.com/euclide-go/euclide/problem"
	"github.com/euclide-go/euclide/square"
)

// Controller drives one interactive session: at most one loaded Problem and
// the Pieces produced by the last Solve.
type Controller struct {
	l *readline.Instance

	cfg     config.Config
	current *problem.Problem
	pieces  []*piece.Piece
}

func filterInput(r rune) (rune, bool) {
	if r == readline.CharCtrlZ {
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

// New builds a Controller with cfg as its solver tunables.
func New(cfg config.Config) *Controller {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31meuclide>\033[0m ",
		HistoryFile:     "/tmp/euclide_readline.tmp",
		EOFPrompt:       "quit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	return &Controller{l: l, cfg: cfg}
}

// Loop reads commands until EOF, Ctrl-C on an empty line, or a "quit"
// command. On EOF or Ctrl-C it sends SIGINT to sig before returning; a
// "quit" command returns without signalling.
func (c *Controller) Loop(sig chan os.Signal) {
	defer c.l.Close()

	for {
		line, err := c.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			}
			continue
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}

		line = strings.TrimSpace(line)
		if err := c.dispatch(line); err != nil {
			if err == errQuit {
				break
			}
			showMessage("error: "+err.Error(), c.l.Stderr())
		}
	}

	log.Debug().Msg("shell: exiting readline loop")
}

var errQuit = fmt.Errorf("quit")

// dispatch tokenizes line with shellquote (the teacher's shell package uses
// the same library to split a command line into fields for its completer,
// shell/autocomplete.go) so a quoted forsythe string survives as one field,
// then matches the command name against fields[0].
func (c *Controller) dispatch(line string) error {
	fields, err := shellquote.Split(line)
	if err != nil {
		return fmt.Errorf("invalid command line: %w", err)
	}
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "quit", "exit":
		return errQuit
	case "load":
		if len(fields) < 2 {
			return fmt.Errorf("usage: load <forsythe>")
		}
		return c.cmdLoad(strings.Join(fields[1:], " "))
	case "run":
		if len(fields) != 1 {
			return fmt.Errorf("usage: run")
		}
		return c.cmdRun()
	case "piece":
		if len(fields) != 2 {
			return fmt.Errorf("usage: piece <square>")
		}
		return c.cmdPiece(fields[1])
	case "show":
		if len(fields) != 1 {
			return fmt.Errorf("usage: show")
		}
		return c.cmdShow()
	default:
		return fmt.Errorf("unknown command %q", fields[0])
	}
}

func (c *Controller) cmdLoad(forsythe string) error {
	p, err := problem.Parse(forsythe)
	if err != nil {
		return err
	}
	c.current = p
	c.pieces = nil
	showMessage(fmt.Sprintf("loaded problem: half-moves=%d", p.Moves(square.White)+p.Moves(square.Black)), c.l.Stdout())
	return nil
}

func (c *Controller) cmdRun() error {
	if c.current == nil {
		return fmt.Errorf("no problem loaded, use: load <forsythe>")
	}

	d := driver.New(c.current, c.cfg)
	pieces, err := d.Solve(context.Background())
	if err != nil {
		return err
	}
	c.pieces = pieces
	showMessage(fmt.Sprintf("solved: %d pieces quiesced", len(pieces)), c.l.Stdout())
	return nil
}

func (c *Controller) cmdPiece(arg string) error {
	if len(c.pieces) == 0 {
		return fmt.Errorf("no solved pieces, use: run")
	}
	sq, err := parseSquare(arg)
	if err != nil {
		return err
	}
	for _, pc := range c.pieces {
		if pc.InitialSquare() == sq {
			showMessage(describePiece(pc), c.l.Stdout())
			return nil
		}
	}
	return fmt.Errorf("no piece starts on %s", sq)
}

func (c *Controller) cmdShow() error {
	if len(c.pieces) == 0 {
		return fmt.Errorf("no solved pieces, use: run")
	}
	for _, pc := range c.pieces {
		showMessage(describePiece(pc), c.l.Stdout())
	}
	return nil
}

func describePiece(pc *piece.Piece) string {
	final, ok := pc.FinalSquare()
	finalStr := "?"
	if ok {
		finalStr = final.String()
	}
	return fmt.Sprintf("%s%s %s->%s required=%d/%d available=%d/%d",
		pc.Color(), pc.Glyph(), pc.InitialSquare(), finalStr,
		pc.RequiredMoves(), pc.RequiredCaptures(), pc.AvailableMoves(), pc.AvailableCaptures())
}

func parseSquare(s string) (square.Square, error) {
	if len(s) != 2 {
		return square.NoSquare, fmt.Errorf("invalid square %q", s)
	}
	file := int(s[0] - 'a')
	rank, err := strconv.Atoi(string(s[1]))
	if err != nil || file < 0 || file >= square.NumFiles || rank < 1 || rank > square.NumRanks {
		return square.NoSquare, fmt.Errorf("invalid square %q", s)
	}
	return square.FromFileRank(square.File(file), square.Rank(rank-1)), nil
}
