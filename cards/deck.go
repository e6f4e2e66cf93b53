package cards

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"lukechampine.com/frand"
)

// DeckSize is the number of cards in play for one game.
const DeckSize = 5

// Deck is the five cards of a game, dealt as red's two, blue's two, and
// the table card last.
type Deck [DeckSize]Card

func (d Deck) Red() [2]Card {
	return [2]Card{d[0], d[1]}
}

func (d Deck) Blue() [2]Card {
	return [2]Card{d[2], d[3]}
}

func (d Deck) Table() Card {
	return d[4]
}

// Validate checks that every card is known and that no card repeats.
func (d Deck) Validate() error {
	for _, c := range d {
		if !c.Valid() {
			return fmt.Errorf("%w: %d", ErrUnknownCard, c)
		}
	}
	if dups := lo.FindDuplicates(d[:]); len(dups) > 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateCard, dups[0])
	}
	return nil
}

func (d Deck) String() string {
	return strings.Join(lo.Map(d[:], func(c Card, _ int) string {
		return c.String()
	}), " ")
}

// Draw deals five distinct cards at random.
func Draw() Deck {
	var d Deck
	perm := frand.Perm(int(NumCards))
	for i := range d {
		d[i] = Card(perm[i])
	}
	return d
}

// ParseDeck reads five card names in deal order.
func ParseDeck(names []string) (Deck, error) {
	var d Deck
	if len(names) != DeckSize {
		return d, fmt.Errorf("need %d cards, got %d", DeckSize, len(names))
	}
	for i, n := range names {
		c, err := Parse(n)
		if err != nil {
			return d, err
		}
		d[i] = c
	}
	return d, d.Validate()
}
