package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/conorfennell/eqflash/internal/app"
	"github.com/conorfennell/eqflash/internal/config"
	"github.com/conorfennell/eqflash/internal/domain"
	"github.com/conorfennell/eqflash/internal/mastery"
)

// shell maps command-line intents onto app.State and prints the results.
type shell struct {
	state *app.State
	cfg   config.Config
	flags *pflag.FlagSet
	in    io.Reader
	out   io.Writer
}

func (sh *shell) run(cmd string, args []string) error {
	switch cmd {
	case "add":
		return sh.add()
	case "edit":
		return sh.edit(args)
	case "rm":
		id, err := parseID(args)
		if err != nil {
			return err
		}
		_, err = sh.state.DeleteCard(id)
		return err
	case "list":
		return sh.list()
	case "undo":
		if _, ok, err := sh.state.Undo(); err != nil || !ok {
			return nothingTo("undo", ok, err)
		}
		return nil
	case "redo":
		if _, ok, err := sh.state.Redo(); err != nil || !ok {
			return nothingTo("redo", ok, err)
		}
		return nil
	case "study":
		return sh.study()
	case "stats":
		sh.stats()
		return nil
	case "sets":
		sh.sets()
		return nil
	case "set-add":
		_, err := sh.state.CreateSet(domain.SetFields{Name: sh.str("name"), Description: sh.str("description")})
		return err
	case "set-edit":
		return sh.editSet(args)
	case "set-rm":
		id, err := parseID(args)
		if err != nil {
			return err
		}
		_, err = sh.state.DeleteSet(id)
		return err
	case "use":
		id, err := parseID(args)
		if err != nil {
			return err
		}
		return sh.state.SelectSet(id)
	case "import":
		return sh.importCards(args)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func nothingTo(action string, ok bool, err error) error {
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("nothing to %s", action)
	}
	return nil
}

func (sh *shell) str(name string) string {
	v, _ := sh.flags.GetString(name)
	return v
}

func (sh *shell) cardFields() (domain.CardFields, error) {
	d, err := domain.ParseDifficulty(sh.str("difficulty"))
	if err != nil {
		return domain.CardFields{}, err
	}
	return domain.CardFields{Equation: sh.str("equation"), Solution: sh.str("solution"), Difficulty: d}, nil
}

func (sh *shell) add() error {
	fields, err := sh.cardFields()
	if err != nil {
		return err
	}
	card, err := sh.state.CreateCard(fields)
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "id %d\n", card.ID)
	return nil
}

// edit starts from the stored card so only the flags given are changed.
func (sh *shell) edit(args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	card, err := sh.state.Card(id)
	if err != nil {
		return err
	}
	fields := domain.CardFields{Equation: card.Equation, Solution: card.Solution, Difficulty: card.Difficulty}
	if sh.flags.Changed("equation") {
		fields.Equation = sh.str("equation")
	}
	if sh.flags.Changed("solution") {
		fields.Solution = sh.str("solution")
	}
	if sh.flags.Changed("difficulty") {
		if fields.Difficulty, err = domain.ParseDifficulty(sh.str("difficulty")); err != nil {
			return err
		}
	}
	_, err = sh.state.EditCard(id, fields)
	return err
}

func (sh *shell) editSet(args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	var current domain.StudySet
	for _, set := range sh.state.Sets() {
		if set.ID == id {
			current = set
		}
	}
	if current.ID == 0 {
		return fmt.Errorf("study set %d: %w", id, domain.ErrNotFound)
	}
	fields := domain.SetFields{Name: current.Name, Description: current.Description}
	if sh.flags.Changed("name") {
		fields.Name = sh.str("name")
	}
	if sh.flags.Changed("description") {
		fields.Description = sh.str("description")
	}
	_, err = sh.state.EditSet(id, fields)
	return err
}

func (sh *shell) list() error {
	f := domain.Filter{SearchText: sh.str("search"), Difficulty: domain.DifficultyAll}
	if d := strings.ToLower(sh.str("difficulty")); d != "" && d != string(domain.DifficultyAll) {
		parsed, err := domain.ParseDifficulty(d)
		if err != nil {
			return err
		}
		f.Difficulty = parsed
	}
	cards := sh.state.Cards(f)
	if len(cards) == 0 {
		fmt.Fprintln(sh.out, "No flashcards.")
		return nil
	}
	tw := tabwriter.NewWriter(sh.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEQUATION\tSOLUTION\tDIFFICULTY\tMASTERY\tSTUDIED")
	for _, c := range cards {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d/%d\t%d\n",
			c.ID, oneLine(c.Equation), oneLine(c.Solution), c.Difficulty, c.Mastery, domain.MaxMastery, c.TimesStudied)
	}
	return tw.Flush()
}

func (sh *shell) sets() {
	v := sh.state.View("")
	tw := tabwriter.NewWriter(sh.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tNAME\tCARDS\tMASTERED")
	for _, s := range v.Sets {
		marker := ""
		if s.Active {
			marker = "*"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%d\n", marker, s.ID, s.Name, s.Cards, s.Mastery.Mastered)
	}
	tw.Flush()
}

func (sh *shell) stats() {
	st := sh.state.Stats()
	set := sh.state.ActiveSet()
	fmt.Fprintf(sh.out, "Set %q: %d cards, %d new, %d learning, %d mastered (%.0f%%), average mastery %.1f\n",
		set.Name, st.Set.Total, st.Set.New, st.Set.Learning, st.Set.Mastered, st.Set.Progress()*100, st.Set.Average)
	fmt.Fprintf(sh.out, "All sets: %d cards, %d reviews, %d mastered\n",
		st.Overall.Total, st.Overall.TimesStudied, st.Overall.Mastered)
	fmt.Fprintf(sh.out, "Studied today: %d\n", st.Today)
}

func (sh *shell) importCards(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: expected a directory or git URL", domain.ErrInvalidInput)
	}
	report, err := sh.state.Import(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "%d files, %d cards found, %d added, %d duplicates\n",
		report.Files, report.Parsed, len(report.Added), report.Duplicates)
	for _, e := range report.Errors {
		fmt.Fprintf(sh.out, "- %s\n", e)
	}
	return nil
}

// study runs an interactive session on stdin:
// enter flips, k/l mark known/learning, n/p move, s shuffles, q quits.
func (sh *shell) study() error {
	shuffle, _ := sh.flags.GetBool("shuffle")
	card, err := sh.state.StartStudy(shuffle || sh.cfg.Shuffle)
	if err != nil {
		return err
	}
	scanner := bufio.NewScanner(sh.in)
	flipped := false
	for {
		p := sh.state.View("").Study
		if flipped {
			fmt.Fprintf(sh.out, "Card %d of %d  solution: %s\n[k]nown [l]earning [n]ext [p]rev [s]huffle [q]uit > ", p.Position+1, p.Total, card.Solution)
		} else {
			fmt.Fprintf(sh.out, "Card %d of %d  equation: %s\n[enter] flip [n]ext [p]rev [s]huffle [q]uit > ", p.Position+1, p.Total, card.Equation)
		}
		if !scanner.Scan() {
			sh.state.EndStudy()
			return scanner.Err()
		}

		var ok bool
		switch cmd := strings.ToLower(strings.TrimSpace(scanner.Text())); cmd {
		case "":
			flipped = !flipped
			continue
		case "k", "l":
			outcome, _ := mastery.ParseOutcome(cmd)
			card, ok, err = sh.state.Mark(outcome)
			if errors.Is(err, domain.ErrNotFound) {
				fmt.Fprintln(sh.out, "Card no longer exists, skipping.")
				card, err = sh.state.CurrentCard()
				ok = err == nil
			} else if err != nil {
				return err
			}
		case "n":
			card, ok = sh.state.NextCard()
		case "p":
			card, err = sh.state.PrevCard()
			ok = err == nil
		case "s":
			card, err = sh.state.ShuffleDeck()
			ok = err == nil
		case "q":
			sh.state.EndStudy()
			return nil
		default:
			fmt.Fprintln(sh.out, "?")
			continue
		}
		flipped = false
		if !ok {
			p := sh.state.View("").Study
			fmt.Fprintf(sh.out, "Known %d, still learning %d.\n", p.Known, p.Learning)
			return nil
		}
	}
}

func oneLine(s string) string {
	return strings.ReplaceAll(s, "\n", " / ")
}
