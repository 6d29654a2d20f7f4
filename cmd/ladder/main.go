// Command ladder plays the word ladder in a terminal.
//
//	ladder [-dict words.txt] [-length 4] [-daily] [-max-visits 50000]
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/m36h4/word-transform-game/internal/daily"
	"github.com/m36h4/word-transform-game/internal/game"
	"github.com/m36h4/word-transform-game/internal/words"
)

var (
	dictPath  = flag.String("dict", "", "word list (.txt or .json); embedded default when empty")
	length    = flag.Int("length", 4, "word length for new puzzles (3-8)")
	dailyMode = flag.Bool("daily", false, "play today's shared puzzle")
	salt      = flag.String("salt", "local_dev_salt", "salt for -daily puzzles")
	maxVisits = flag.Int("max-visits", 50000, "hint search cap, 0 = no cap")
	debug     = flag.Bool("debug", false, "debug logging")
)

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func usage(w io.Writer) {
	io.WriteString(w, "commands:\n")
	io.WriteString(w, "new [n]  - start a puzzle with n-letter words\n")
	io.WriteString(w, "<word>   - change one letter of the current word\n")
	io.WriteString(w, "undo     - take back the last move\n")
	io.WriteString(w, "hint     - show the next word on a shortest ladder\n")
	io.WriteString(w, "history  - show moves so far\n")
	io.WriteString(w, "restart  - give up the current puzzle\n")
	io.WriteString(w, "exit     - quit\n")
}

func main() {
	flag.Parse()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	dict, err := words.Load(*dictPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load dictionary")
	}
	var intn func(int) int
	if *dailyMode {
		intn = daily.Source(time.Now(), *salt)
	}
	sess := game.NewSession(dict, game.NewPairGenerator(dict, intn), game.NewHintFinder(dict, *maxVisits))

	l, err := readline.NewEx(&readline.Config{
		Prompt:              "\033[32mladder>\033[0m ",
		HistoryFile:         "/tmp/ladder-readline.tmp",
		EOFPrompt:           "exit",
		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("readline")
	}
	defer l.Close()

	out := l.Stdout()
	usage(out)
	start(out, sess, *length)

	for {
		line, err := l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				return
			}
			continue
		} else if err == io.EOF {
			return
		}
		line = strings.TrimSpace(line)
		fields := strings.Fields(line)
		switch {
		case line == "":
		case line == "exit" || line == "bye":
			return
		case line == "help":
			usage(out)
		case fields[0] == "new":
			n := *length
			if len(fields) > 1 {
				if n, err = strconv.Atoi(fields[1]); err != nil {
					fmt.Fprintf(out, "not a number: %q\n", fields[1])
					continue
				}
			}
			start(out, sess, n)
		case line == "undo":
			if !sess.Undo() {
				fmt.Fprintln(out, "nothing to undo")
			}
			show(out, sess)
		case line == "hint":
			h, err := sess.RequestHint()
			if err != nil {
				fmt.Fprintln(out, "start a puzzle first (new)")
				continue
			}
			switch h.Kind {
			case game.HintNext:
				fmt.Fprintf(out, "Hint: try %q (%d moves to go)\n", h.Word, h.Distance)
			case game.HintAlreadyAtTarget:
				fmt.Fprintln(out, "Hint: you are already there")
			default:
				fmt.Fprintln(out, "Hint: no valid path")
			}
		case line == "history":
			fmt.Fprintln(out, strings.Join(sess.History(), " → "))
		case line == "restart":
			sess.Restart()
			fmt.Fprintln(out, "puzzle cleared; type 'new' to play again")
		default:
			submit(out, sess, line)
		}
	}
}

func start(w io.Writer, sess *game.Session, n int) {
	if err := sess.Start(n); err != nil {
		fmt.Fprintf(w, "%v (choose %d-%d)\n", err, words.MinLength, words.MaxLength)
		return
	}
	if sess.Fallback() {
		fmt.Fprintln(w, "(dictionary too small for this length; using a built-in puzzle)")
	}
	fmt.Fprintf(w, "Transform %s to %s\n", sess.StartWord(), sess.TargetWord())
}

func submit(w io.Writer, sess *game.Session, word string) {
	err := sess.Submit(word)
	switch {
	case errors.Is(err, game.ErrNotInProgress):
		fmt.Fprintln(w, "no puzzle in progress; type 'new'")
		return
	case errors.Is(err, game.ErrInvalidWord):
		fmt.Fprintln(w, "Invalid word: that word is not in the dictionary.")
		return
	case errors.Is(err, game.ErrInvalidTransformation):
		fmt.Fprintln(w, "Invalid transformation: only one letter can be changed.")
		return
	}
	if sess.Status() == game.StatusWon {
		fmt.Fprintf(w, "Congratulations! You reached %s in %d moves.\n", sess.TargetWord(), sess.Moves())
		return
	}
	show(w, sess)
}

func show(w io.Writer, sess *game.Session) {
	if sess.Status() != game.StatusInProgress {
		return
	}
	fmt.Fprintf(w, "%s  (target %s, %d moves)\n", sess.CurrentWord(), sess.TargetWord(), sess.Moves())
}
