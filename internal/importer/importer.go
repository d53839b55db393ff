// Package importer loads cards from markdown files in a directory or git repository.
package importer

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/conorfennell/eqflash/internal/domain"
	"github.com/conorfennell/eqflash/internal/gitsource"
	"github.com/conorfennell/eqflash/internal/knol"
	"github.com/conorfennell/eqflash/internal/parser"
)

// Sink receives imported cards. Existing cards are listed for deduplication.
type Sink interface {
	List(f domain.Filter) []domain.Card
	Create(fields domain.CardFields) (domain.Card, error)
}

// Report summarises an import run.
type Report struct {
	Source     string
	Files      int
	Parsed     int
	Added      []domain.Card
	Duplicates int
	Errors     []error
}

// Importer walks sources for markdown card files.
type Importer struct {
	ReposDir string    // where git sources are checked out
	Progress io.Writer // git progress output, may be nil
	Logger   *slog.Logger
}

// Import reads every *.md file under source and adds the cards not already
// in the sink. Source is a local directory or a git URL. Per-card problems
// are collected in the report; only an unreadable source is an error.
func (im *Importer) Import(source string, sink Sink) (Report, error) {
	log := im.Logger
	if log == nil {
		log = slog.Default()
	}
	report := Report{Source: source}

	dir := source
	if gitsource.IsRemote(source) {
		local, err := gitsource.LocalPath(im.ReposDir, source)
		if err != nil {
			return report, err
		}
		if err := os.MkdirAll(filepath.Dir(local), 0o755); err != nil {
			return report, fmt.Errorf("failed to create repos directory: %w", err)
		}
		if err := gitsource.Sync(source, local, im.Progress); err != nil {
			return report, err
		}
		dir = local
	}

	seen := knol.Index{}
	for _, c := range sink.List(domain.Filter{}) {
		seen.Add(c.Equation, c.Solution)
	}

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}
		report.Files++
		cards, parseErr := parser.ParseFile(path)
		if parseErr != nil {
			report.Errors = append(report.Errors, fmt.Errorf("parsing %s: %w", path, parseErr))
		}
		for _, pc := range cards {
			report.Parsed++
			im.add(sink, seen, path, pc, &report, log)
		}
		return nil
	})
	if walkErr != nil {
		return report, fmt.Errorf("error walking directory %s: %w", dir, walkErr)
	}

	log.Info("import complete",
		"source", source,
		"files", report.Files,
		"parsed_cards", report.Parsed,
		"added", len(report.Added),
		"duplicates", report.Duplicates,
		"errors", len(report.Errors),
	)
	return report, nil
}

func (im *Importer) add(sink Sink, seen knol.Index, path string, pc parser.Card, report *Report, log *slog.Logger) {
	difficulty, err := domain.ParseDifficulty(pc.Difficulty)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Errorf("%s:%d: %w", path, pc.Line, err))
		return
	}
	fields, err := domain.CardFields{Equation: pc.Equation, Solution: pc.Solution, Difficulty: difficulty}.Normalize()
	if err != nil {
		report.Errors = append(report.Errors, fmt.Errorf("%s:%d: %w", path, pc.Line, err))
		return
	}
	if !seen.Add(fields.Equation, fields.Solution) {
		report.Duplicates++
		return
	}
	card, err := sink.Create(fields)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Errorf("%s:%d: %w", path, pc.Line, err))
		return
	}
	log.Debug("imported card", "id", card.ID, "file", path, "line", pc.Line)
	report.Added = append(report.Added, card)
}
