package main

import (
	"fmt"
)

// Virtual heap for PTB programs: a fixed byte arena managed by a boundary tag
// free list. A parallel notebook mirrors the arena word for word; a block
// spanning words [i, i+s) carries the note size<<1|state at both i and i+s-1,
// which makes coalescing on free a constant-time operation. A rotating
// first-fit cursor (the rover) spreads allocations across the arena.

const (
	// HeapWordSize is the granularity of heap bookkeeping, in bytes.
	HeapWordSize = 8

	// DefaultHeapSize is the arena size used unless overridden.
	DefaultHeapSize = 0x1000000 // 16 MiB
)

// Block states stored in the low bit of a note
const (
	blockOccupied = 0
	blockFree     = 1
)

// VirtualHeap is a fixed-size byte arena with first-fit allocation and
// coalescing free. Word 0 holds a one-word occupied sentinel so that byte
// offset 0 is never handed out and can serve as NULL.
type VirtualHeap struct {
	arena    []byte
	notebook []uint64
	rover    int
}

func makeNote(sizeWords uint64, state uint64) uint64 {
	return sizeWords<<1 | state
}

func noteSize(note uint64) uint64 {
	return note >> 1
}

func noteFree(note uint64) bool {
	return note&1 == blockFree
}

// NewVirtualHeap creates an arena of the given byte size, rounded up to a
// whole number of words (at least one). The whole arena starts as a single
// free block, then one word is reserved at offset 0.
func NewVirtualHeap(size int) *VirtualHeap {
	if size < HeapWordSize {
		size = HeapWordSize
	}
	words := (size + HeapWordSize - 1) / HeapWordSize
	h := &VirtualHeap{
		arena:    make([]byte, words*HeapWordSize),
		notebook: make([]uint64, words),
	}
	h.notebook[0] = makeNote(uint64(words), blockFree)
	h.notebook[words-1] = makeNote(uint64(words), blockFree)
	if h.Allocate(1) != 0 {
		// The first allocation on a fresh arena lands at word 0.
		panic("virtual heap sentinel allocation did not return offset 0")
	}
	return h
}

// Size returns the arena size in bytes.
func (h *VirtualHeap) Size() int {
	return len(h.arena)
}

// Allocate reserves n bytes and returns the byte offset of the block, or 0 if
// no free block is large enough. A zero-byte request is rounded up to one
// word, so every returned offset names a real block. The scan starts at the
// rover and wraps around the arena exactly once.
func (h *VirtualHeap) Allocate(n uint64) uint64 {
	if n > uint64(len(h.arena)) {
		// Cannot fit, and rounding such a request up to words could
		// wrap around.
		return 0
	}
	words := (n + HeapWordSize - 1) / HeapWordSize
	if words == 0 {
		words = 1
	}
	total := uint64(len(h.notebook))
	i := uint64(h.rover)
	wrapped := false
	for {
		if i >= total {
			if wrapped {
				return 0
			}
			wrapped = true
			i = 0
		}
		note := h.notebook[i]
		size := noteSize(note)
		if size == 0 || i+size > total {
			// Stale note under the rover after a merge; restart from
			// the front where every head note is authoritative.
			i = total
			continue
		}
		if noteFree(note) && size >= words {
			if size > words {
				remainder := makeNote(size-words, blockFree)
				h.notebook[i+words] = remainder
				h.notebook[i+size-1] = remainder
			}
			taken := makeNote(words, blockOccupied)
			h.notebook[i] = taken
			h.notebook[i+words-1] = taken
			h.rover = int(i + words)
			return i * HeapWordSize
		}
		i += size
	}
}

// Free releases the block at the given byte offset, coalescing with free
// neighbors on both sides. The merged size is derived from a fresh read of
// each neighbor's own note. The rover is left where it is.
func (h *VirtualHeap) Free(offset uint64) error {
	if offset == 0 {
		return fmt.Errorf("free of reserved address 0")
	}
	if offset%HeapWordSize != 0 {
		return fmt.Errorf("free of misaligned address %d", offset)
	}
	i := offset / HeapWordSize
	total := uint64(len(h.notebook))
	if i >= total {
		return fmt.Errorf("free of address %d outside the arena", offset)
	}
	note := h.notebook[i]
	size := noteSize(note)
	if noteFree(note) {
		return fmt.Errorf("double free at address %d", offset)
	}
	if size == 0 || i+size > total {
		return fmt.Errorf("free of address %d which is not a block start", offset)
	}
	start := i
	merged := size
	if left := h.notebook[i-1]; noteFree(left) {
		leftSize := noteSize(left)
		start -= leftSize
		merged += leftSize
	}
	if i+size < total {
		if right := h.notebook[i+size]; noteFree(right) {
			merged += noteSize(right)
		}
	}
	freed := makeNote(merged, blockFree)
	h.notebook[start] = freed
	h.notebook[start+merged-1] = freed
	return nil
}

// Load reads one byte from the arena.
func (h *VirtualHeap) Load(addr uint64) (byte, error) {
	if addr >= uint64(len(h.arena)) {
		return 0, fmt.Errorf("heap read at address %d outside the arena", addr)
	}
	return h.arena[addr], nil
}

// Store writes one byte into the arena.
func (h *VirtualHeap) Store(addr uint64, b byte) error {
	if addr >= uint64(len(h.arena)) {
		return fmt.Errorf("heap write at address %d outside the arena", addr)
	}
	h.arena[addr] = b
	return nil
}

// ReadBE reads size bytes starting at addr as a big-endian unsigned value,
// zero-extended to 64 bits. size must be 1..8.
func (h *VirtualHeap) ReadBE(addr uint64, size int) (uint64, error) {
	if size < 1 || size > 8 {
		return 0, fmt.Errorf("heap read of %d bytes (must be 1..8)", size)
	}
	if addr+uint64(size) > uint64(len(h.arena)) || addr > uint64(len(h.arena)) {
		return 0, fmt.Errorf("heap read at address %d outside the arena", addr)
	}
	var v uint64
	for _, b := range h.arena[addr : addr+uint64(size)] {
		v = v<<8 | uint64(b)
	}
	return v, nil
}

// WriteBE writes the low size bytes of v big-endian starting at addr.
// size must be 1..8.
func (h *VirtualHeap) WriteBE(addr uint64, v uint64, size int) error {
	if size < 1 || size > 8 {
		return fmt.Errorf("heap write of %d bytes (must be 1..8)", size)
	}
	if addr+uint64(size) > uint64(len(h.arena)) || addr > uint64(len(h.arena)) {
		return fmt.Errorf("heap write at address %d outside the arena", addr)
	}
	for i := 0; i < size; i++ {
		h.arena[addr+uint64(i)] = byte(v >> (uint(size-i-1) * 8))
	}
	return nil
}

// CString reads a NUL-terminated string starting at addr. Reaching the arena
// end before a NUL byte is an error rather than a read past the arena.
func (h *VirtualHeap) CString(addr uint64) ([]byte, error) {
	for end := addr; end < uint64(len(h.arena)); end++ {
		if h.arena[end] == 0 {
			return h.arena[addr:end], nil
		}
	}
	return nil, fmt.Errorf("unterminated string at address %d", addr)
}
