package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/conorfennell/eqflash/internal/app"
	"github.com/conorfennell/eqflash/internal/config"
	"github.com/conorfennell/eqflash/internal/domain"
	"github.com/conorfennell/eqflash/internal/importer"
	"github.com/conorfennell/eqflash/internal/storage"
)

const usage = `Usage: eqflash [flags] <command> [args]

Commands:
  add        --equation E --solution S [--difficulty D]
  edit <id>  [--equation E] [--solution S] [--difficulty D]
  rm <id>    delete a card
  list       [--search TEXT] [--difficulty easy|medium|hard|all]
  undo       revert the last card change
  redo       re-apply the last undone change
  study      [--shuffle] review the active set
  stats      show mastery statistics
  sets       list study sets
  set-add    --name N [--description D]
  set-edit <id> [--name N] [--description D]
  set-rm <id>
  use <id>   switch the active study set
  import <dir|git-url>

Flags:
`

func main() {
	flags := pflag.NewFlagSet("eqflash", pflag.ContinueOnError)
	flags.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flags.PrintDefaults()
	}
	config.Flags(flags)
	registerCommandFlags(flags)
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		os.Exit(2)
	}
	if flags.NArg() == 0 {
		flags.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "eqflash: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(cfg.LogLevel, os.Stderr))

	db, err := storage.Open(cfg.DB)
	if err != nil {
		slog.Error("Failed to open database", "path", cfg.DB, "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Debug("database opened", "path", cfg.DB)

	state, err := app.New(db, app.Options{
		MaxHistory: cfg.MaxHistory,
		Observer:   render(os.Stdout),
		Importer:   &importer.Importer{ReposDir: cfg.ReposDir, Progress: os.Stderr},
	})
	if err != nil {
		slog.Error("Failed to load state", "error", err)
		os.Exit(1)
	}

	sh := &shell{state: state, cfg: cfg, flags: flags, in: os.Stdin, out: os.Stdout}
	if err := sh.run(flags.Arg(0), flags.Args()[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "eqflash: %v\n", err)
		db.Close()
		os.Exit(1)
	}
}

func newLogger(level string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func registerCommandFlags(f *pflag.FlagSet) {
	f.StringP("equation", "e", "", "Card equation")
	f.StringP("solution", "s", "", "Card solution")
	f.StringP("difficulty", "d", "", "Card difficulty (easy, medium, hard); 'all' when listing")
	f.String("search", "", "Case-insensitive text to search for when listing")
	f.String("name", "", "Study set name")
	f.String("description", "", "Study set description")
}

// render prints notifications; listings are printed by the commands.
func render(w io.Writer) app.Observer {
	return func(v app.View) {
		if v.Message != "" {
			fmt.Fprintln(w, v.Message)
		}
	}
}

func parseID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: expected exactly one id", domain.ErrInvalidInput)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad id %q", domain.ErrInvalidInput, args[0])
	}
	return id, nil
}
