package automatic

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/domino14/onitama/board"
	"github.com/domino14/onitama/cards"
)

// AnalyzeLogFile reads a per-game CSV written by StartCompVCompGames and
// summarises it. Move lists are not in that file, so every game counts as
// distinct unless its id repeats.
func AnalyzeLogFile(filepath string) (Summary, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return Summary{}, err
	}
	defer file.Close()
	r := csv.NewReader(file)

	// Record looks like:
	// gameID,deck,firstmover,winner,plies
	var results []GameResult
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Summary{}, err
		}
		if record[0] == "gameID" {
			continue
		}
		res, err := parseGameRecord(record)
		if err != nil {
			return Summary{}, fmt.Errorf("game %s: %w", record[0], err)
		}
		results = append(results, res)
	}
	return Summarize(results), nil
}

func parseGameRecord(record []string) (GameResult, error) {
	if len(record) != 5 {
		return GameResult{}, fmt.Errorf("expected 5 fields, got %d", len(record))
	}
	d, err := cards.ParseDeck(strings.Fields(record[1]))
	if err != nil {
		return GameResult{}, err
	}
	first, err := board.ParseSide(record[2])
	if err != nil {
		return GameResult{}, err
	}
	plies, err := strconv.Atoi(record[4])
	if err != nil {
		return GameResult{}, err
	}
	res := GameResult{
		ID:         record[0],
		Deck:       d,
		FirstMover: first,
		Plies:      plies,
		// the id keeps fingerprints apart
		Moves: []string{record[0]},
	}
	if record[3] == "draw" {
		res.Draw = true
		return res, nil
	}
	if res.Winner, err = board.ParseSide(record[3]); err != nil {
		return GameResult{}, err
	}
	return res, nil
}
