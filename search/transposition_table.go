package search

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/domino14/onitama/tinymove"
)

const (
	TTExact = 0x01
	TTLower = 0x02
	TTUpper = 0x03
)

const entrySize = 24

const (
	minTableBits = 16
	maxTableBits = 24
)

// 24 bytes (entrySize)
type TableEntry struct {
	hash  uint64
	score int32
	kind  kind
	flag  uint8
	depth uint8
	play  tinymove.TinyMove
}

func (t TableEntry) valid() bool {
	// a table flag is 1, 2, or 3.
	return t.flag != 0
}

func (t TableEntry) value() Value {
	return Value{kind: t.kind, n: t.score}
}

type TableLock interface {
	Lock()
	Unlock()
	RLock()
	RUnlock()
}

type FakeLock struct{}

func (f FakeLock) Lock()    {}
func (f FakeLock) Unlock()  {}
func (f FakeLock) RLock()   {}
func (f FakeLock) RUnlock() {}

// TranspositionTable is a fixed-size, always-replace hash table of search
// results keyed by zobrist hash.
type TranspositionTable struct {
	TableLock
	table        []TableEntry
	created      atomic.Uint64
	lookups      atomic.Uint64
	hits         atomic.Uint64
	sizePowerOf2 int
	sizeMask     uint64
	// "type 2" collisions: an unrelated position already lives in the slot.
	t2collisions atomic.Uint64
}

func (t *TranspositionTable) SetSingleThreadedMode() {
	t.TableLock = &FakeLock{}
}

func (t *TranspositionTable) SetMultiThreadedMode() {
	t.TableLock = new(sync.RWMutex)
}

func (t *TranspositionTable) lookup(zval uint64) TableEntry {
	t.RLock()
	defer t.RUnlock()
	t.lookups.Add(1)
	idx := zval & t.sizeMask
	entry := t.table[idx]
	if entry.hash != zval {
		if entry.valid() {
			t.t2collisions.Add(1)
		}
		return TableEntry{}
	}
	t.hits.Add(1)
	return entry
}

func (t *TranspositionTable) store(zval uint64, v Value, flag uint8, depth int, play tinymove.TinyMove) {
	idx := zval & t.sizeMask
	entry := TableEntry{
		hash:  zval,
		score: v.n,
		kind:  v.kind,
		flag:  flag,
		depth: uint8(depth),
		play:  play,
	}
	t.Lock()
	defer t.Unlock()
	// just overwrite whatever is there for now.
	t.table[idx] = entry
	t.created.Add(1)
}

// Reset sizes the table to roughly the given fraction of system memory
// and clears it.
func (t *TranspositionTable) Reset(fractionOfMemory float64) {
	totalMem := memory.TotalMemory()
	desiredNElems := fractionOfMemory * (float64(totalMem) / float64(entrySize))
	// find biggest power of 2 lower than desired.
	bits := minTableBits
	if desiredNElems > 1 {
		bits = int(math.Log2(desiredNElems))
	}
	bits = min(max(bits, minTableBits), maxTableBits)
	t.ResetBits(bits)
	log.Debug().Int("num-elems", len(t.table)).
		Float64("desired-num-elems", desiredNElems).
		Int("estimated-total-memory-bytes", len(t.table)*entrySize).
		Uint64("total-system-memory-bytes", totalMem).
		Msg("transposition-table-size")
}

// ResetBits sizes the table to exactly 2^bits entries and clears it.
func (t *TranspositionTable) ResetBits(bits int) {
	if t.TableLock == nil {
		t.TableLock = &FakeLock{}
	}
	t.Lock()
	defer t.Unlock()
	t.sizePowerOf2 = bits
	numElems := 1 << bits
	t.sizeMask = uint64(numElems - 1)
	if t.table != nil && len(t.table) == numElems {
		clear(t.table)
	} else {
		t.table = make([]TableEntry, numElems)
	}
	t.created.Store(0)
	t.lookups.Store(0)
	t.hits.Store(0)
	t.t2collisions.Store(0)
}

// TTStats are the table counters since the last reset.
type TTStats struct {
	Created      uint64
	Lookups      uint64
	Hits         uint64
	T2Collisions uint64
}

func (t *TranspositionTable) Stats() TTStats {
	return TTStats{
		Created:      t.created.Load(),
		Lookups:      t.lookups.Load(),
		Hits:         t.hits.Load(),
		T2Collisions: t.t2collisions.Load(),
	}
}
