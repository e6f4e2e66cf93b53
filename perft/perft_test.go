package perft

import (
	"context"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/onitama/cards"
	"github.com/domino14/onitama/game"
	"github.com/domino14/onitama/move"
)

// Red holds Elephant and Horse, Blue holds Boar and Ox, Crab is on the
// table. Crab is a blue card, so Blue moves first.
var fixtureDeck = cards.Deck{cards.Elephant, cards.Horse, cards.Boar, cards.Ox, cards.Crab}

var fixtureCounts = []uint64{1, 10, 130, 1989, 28509, 487780, 7748422}

func fixture(t testing.TB) game.State {
	s, err := game.FromDeck(fixtureDeck)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func maxFixtureDepth() int {
	if testing.Short() {
		return 4
	}
	return 5
}

func TestPerft(t *testing.T) {
	is := is.New(t)
	s := fixture(t)
	for d := 0; d <= maxFixtureDepth(); d++ {
		is.Equal(Perft(&s, d), fixtureCounts[d])
	}
}

func TestBulkMatchesPerft(t *testing.T) {
	is := is.New(t)
	s := fixture(t)
	for d := 0; d <= maxFixtureDepth(); d++ {
		is.Equal(Bulk(&s, d), fixtureCounts[d])
	}
}

func TestPerftDepth6(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping deep perft in short mode")
	}
	is := is.New(t)
	s := fixture(t)
	n, err := Parallel(context.Background(), &s, 6, 8)
	is.NoErr(err)
	is.Equal(n, fixtureCounts[6])
}

func TestDivide(t *testing.T) {
	is := is.New(t)
	s := fixture(t)
	entries := Divide(&s, 3)
	is.Equal(len(entries), int(fixtureCounts[1]))
	var total uint64
	for _, e := range entries {
		total += e.Nodes
	}
	is.Equal(total, fixtureCounts[3])
	is.Equal(entries[0].Move, move.New(0, 5, 0))
	is.Equal(entries[0].Card, "Boar")
	is.Equal(entries[1].Move, move.New(0, 5, 1))
	is.Equal(entries[1].Card, "Ox")
	is.Equal(Divide(&s, 0), nil)
}

func TestParallel(t *testing.T) {
	is := is.New(t)
	s := fixture(t)
	for _, threads := range []int{1, 3, 16} {
		n, err := Parallel(context.Background(), &s, 4, threads)
		is.NoErr(err)
		is.Equal(n, fixtureCounts[4])
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Parallel(ctx, &s, 4, 2)
	is.True(err != nil)
}

func TestRedFirst(t *testing.T) {
	is := is.New(t)
	// Frog is a red card, so Red opens this deal.
	s, err := game.FromDeck(cards.Deck{cards.Boar, cards.Ox, cards.Elephant, cards.Horse, cards.Frog})
	is.NoErr(err)
	want := []uint64{1, 10, 130, 1599, 22914}
	for d, n := range want {
		is.Equal(Perft(&s, d), n)
	}
}

func TestTerminalCountsOnce(t *testing.T) {
	is := is.New(t)
	s := fixture(t)
	s.InProgress = false
	is.Equal(Perft(&s, 3), uint64(1))
	is.Equal(Bulk(&s, 3), uint64(1))
}

func TestNegativeDepth(t *testing.T) {
	is := is.New(t)
	s := fixture(t)
	for _, d := range []int{-1, -5} {
		is.Equal(Perft(&s, d), uint64(1))
		is.Equal(Bulk(&s, d), uint64(1))
		is.Equal(len(Divide(&s, d)), 0)
		n, err := Parallel(context.Background(), &s, d, 2)
		is.NoErr(err)
		is.Equal(n, uint64(1))
	}
}

func BenchmarkPerft4(b *testing.B) {
	s := fixture(b)
	for b.Loop() {
		Perft(&s, 4)
	}
}

func BenchmarkBulk5(b *testing.B) {
	s := fixture(b)
	for b.Loop() {
		Bulk(&s, 5)
	}
}
