package automatic

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/domino14/onitama/cards"
)

// GenerateDecks deals n random decks, for runs that should be repeatable
// later with LoadDecks.
func GenerateDecks(n int) []cards.Deck {
	decks := make([]cards.Deck, n)
	for i := range decks {
		decks[i] = cards.Draw()
	}
	return decks
}

// SaveDecks writes decks to a file, one per line in deal order.
func SaveDecks(decks []cards.Deck, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create deck file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	_, err = writer.WriteString("# red1 red2 blue1 blue2 table\n")
	if err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, d := range decks {
		if _, err = writer.WriteString(d.String() + "\n"); err != nil {
			return fmt.Errorf("failed to write deck %d: %w", i, err)
		}
	}
	return writer.Flush()
}

// LoadDecks reads a file written by SaveDecks.
func LoadDecks(path string) ([]cards.Deck, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open deck file: %w", err)
	}
	defer file.Close()

	var decks []cards.Deck
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		d, err := cards.ParseDeck(strings.Fields(line))
		if err != nil {
			return nil, fmt.Errorf("bad deck at line %d: %w", lineNum, err)
		}
		decks = append(decks, d)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading deck file: %w", err)
	}
	return decks, nil
}
