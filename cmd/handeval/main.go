package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/alecthomas/kong"
	"simplepoker-server/internal/rng"
	"simplepoker-server/pkg/deck"
	"simplepoker-server/pkg/poker"
)

// CLI evaluates poker hands from the command line
type CLI struct {
	Hands []string `arg:"" optional:"" help:"Cards for each hand, e.g. '14h,4s' (hole cards) or '2h,7h,9h,11h,13h'"`
	Board string   `short:"b" help:"Community cards added to every hand, e.g. '2c,5d,7h,9s,11c'"`
	Deal  int      `short:"d" help:"Deal this many random two-card hands and a board instead" default:"0"`
	Seed  int64    `help:"Random seed for --deal, 0 is time based" default:"0"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("handeval"),
		kong.Description("Finds the best five card hand for each player and picks the winner"),
		kong.UsageOnError(),
	)

	if err := run(cli, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		ctx.Exit(1)
	}
}

type evaluated struct {
	cards deck.Hand
	best  deck.Hand
	rank  poker.HandRank
}

func run(cli CLI, w io.Writer) error {
	hands, board, err := cli.cards()
	if err != nil {
		return err
	}

	if len(hands) == 0 {
		return errors.New("no hands to evaluate")
	}

	results := make([]evaluated, len(hands))
	for i, hand := range hands {
		cards := append(hand.Clone(), board...)
		if cards.HasDuplicates() {
			return fmt.Errorf("hand %d: duplicate cards in %s", i+1, cards)
		}

		rank, best, err := poker.BestHand(cards)
		if err != nil {
			return fmt.Errorf("hand %d: %w", i+1, err)
		}

		results[i] = evaluated{cards: hand, best: best, rank: rank}
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "#\tCARDS\tBEST\tHAND")
	for i, r := range results {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, r.cards, r.best.Descending(), r.rank)
	}

	if len(board) > 0 {
		_, _ = fmt.Fprintf(tw, "board\t%s\t\t\n", board)
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	winners := []int{0}
	for i := 1; i < len(results); i++ {
		switch poker.Compare(results[i].rank, results[winners[0]].rank) {
		case 1:
			winners = []int{i}
		case 0:
			winners = append(winners, i)
		}
	}

	if len(results) < 2 {
		return nil
	}

	if len(winners) > 1 {
		_, err = fmt.Fprintf(w, "tie between hands %v\n", oneBased(winners))
		return err
	}

	_, err = fmt.Fprintf(w, "hand %d wins with %s\n", winners[0]+1, results[winners[0]].rank.Category)
	return err
}

func (c CLI) cards() ([]deck.Hand, deck.Hand, error) {
	if c.Deal > 0 {
		if len(c.Hands) > 0 || c.Board != "" {
			return nil, nil, errors.New("--deal cannot be combined with hands or a board")
		}

		d := deck.NewShuffled(rng.NewMath(c.Seed))
		hands := make([]deck.Hand, c.Deal)
		for i := range hands {
			hand, err := d.Draw(2)
			if err != nil {
				return nil, nil, err
			}

			hands[i] = hand
		}

		board, err := d.Draw(5)
		if err != nil {
			return nil, nil, err
		}

		return hands, board, nil
	}

	hands := make([]deck.Hand, len(c.Hands))
	for i, s := range c.Hands {
		hand, err := deck.ParseCards(s)
		if err != nil {
			return nil, nil, fmt.Errorf("hand %d: %w", i+1, err)
		}

		hands[i] = hand
	}

	var board deck.Hand
	if c.Board != "" {
		var err error
		if board, err = deck.ParseCards(c.Board); err != nil {
			return nil, nil, fmt.Errorf("board: %w", err)
		}
	}

	return hands, board, nil
}

func oneBased(idx []int) []int {
	out := make([]int, len(idx))
	for i, v := range idx {
		out[i] = v + 1
	}

	return out
}
