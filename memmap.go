// memmap.go - memory-mapping dispatch shared by the 68k and Z80 cores

/*
(c) 2024 - 2026 Zayn Otley

License: GPLv3 or later
*/

/*
A memory map is an ordered list of chunks, each covering an address range
and backed either by a raw buffer (fast path) or by read/write callbacks
(slow path, for memory-mapped I/O and bank switches).

Both CPU cores build their own fast-path pointer table over a shared Map
by walking its chunks once at construction time:

  - the 68k keys its table by addr>>16 (256 entries over the 24-bit space)
  - the Z80 keys its table by addr>>13 (8 entries over its 64 KiB space)

A fast-path slot is only installed when the chunk is aligned, fully covers
its page, and carries no ONLY_ODD/ONLY_EVEN/PTR_IDX restriction. Everything
else falls through to the chunk's callbacks, which may be absent
(FlagFuncNull) in which case reads return 0 and writes are dropped.
*/

package cpu

import "sort"

// ChunkFlag is a bitset of memory region properties attached to a Chunk.
type ChunkFlag uint16

const (
	FlagRead     ChunkFlag = 1 << 0
	FlagWrite    ChunkFlag = 1 << 1
	FlagCode     ChunkFlag = 1 << 2
	FlagOnlyOdd  ChunkFlag = 1 << 3 // 8-bit device on the high byte of a 16-bit bus
	FlagOnlyEven ChunkFlag = 1 << 4 // 8-bit device on the low byte of a 16-bit bus
	FlagPtrIdx   ChunkFlag = 1 << 5 // buffer selected at runtime via Chunk.PtrIndex
	FlagFuncNull ChunkFlag = 1 << 6 // nil callbacks are tolerated; use region defaults
)

// Read8Func/Write8Func/Read16Func/Write16Func are the slow-path callbacks a
// Chunk may supply instead of (or alongside) a direct buffer. ctx is the
// opaque context attached to the chunk; writes return it unchanged.
type (
	Read8Func   func(addr uint32, ctx any) uint8
	Write8Func  func(addr uint32, value uint8, ctx any) any
	Read16Func  func(addr uint32, ctx any) uint16
	Write16Func func(addr uint32, value uint16, ctx any) any
)

// Chunk is one entry of an ordered, non-overlapping memory map.
type Chunk struct {
	Start, End  uint32
	AddressMask uint32
	Flags       ChunkFlag

	// Buffer is the direct backing store for the fast path. Buffers names
	// several swappable physical backing stores with PtrIndex selecting the
	// active one (FlagPtrIdx) - mode-switched work RAM uses this.
	Buffer   []byte
	Buffers  [][]byte
	PtrIndex uint8

	Read8   Read8Func
	Write8  Write8Func
	Read16  Read16Func
	Write16 Write16Func

	// Ctx is passed to every callback on this chunk.
	Ctx any
}

func (c *Chunk) activeBuffer() []byte {
	if c.Flags&FlagPtrIdx != 0 {
		if int(c.PtrIndex) < len(c.Buffers) {
			return c.Buffers[c.PtrIndex]
		}
		return nil
	}
	return c.Buffer
}

// fastPathEligible reports whether this chunk may be represented as a
// direct buffer pointer in a fast-path table.
func (c *Chunk) fastPathEligible() bool {
	if c.Flags&(FlagOnlyOdd|FlagOnlyEven|FlagPtrIdx) != 0 {
		return false
	}
	return c.activeBuffer() != nil
}

// Map is an ordered, non-overlapping list of Chunks.
type Map struct {
	chunks []*Chunk
}

// NewMap builds a Map from chunks, sorted by start address. Chunks must not
// overlap; lookup returns the first matching chunk.
func NewMap(chunks []*Chunk) *Map {
	sorted := make([]*Chunk, len(chunks))
	copy(sorted, chunks)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })
	return &Map{chunks: sorted}
}

// FindChunk returns the first chunk covering addr, or nil if unmapped.
func (m *Map) FindChunk(addr uint32) *Chunk {
	for _, c := range m.chunks {
		if addr >= c.Start && addr <= c.End {
			return c
		}
	}
	return nil
}

// NativePointer returns the direct buffer backing addr's chunk, offset to
// addr, or nil if the chunk has no fast-path buffer.
func (m *Map) NativePointer(addr uint32) []byte {
	c := m.FindChunk(addr)
	if c == nil || !c.fastPathEligible() {
		return nil
	}
	buf := c.activeBuffer()
	off := addr - c.Start
	if int(off) >= len(buf) {
		return nil
	}
	return buf[off:]
}

// buildPointerTable constructs an entries-long fast-path table keyed by
// addr>>shift. Each live slot points at the chunk's buffer, offset so that
// table[base][0] is the byte at the start of that page. need filters on the
// chunk's access flags, so a ROM region gets a read slot but no write slot.
func (m *Map) buildPointerTable(shift uint, entries int, need ChunkFlag) [][]byte {
	table := make([][]byte, entries)
	for base := 0; base < entries; base++ {
		addr := uint32(base) << shift
		c := m.FindChunk(addr)
		if c == nil || !c.fastPathEligible() {
			continue
		}
		if need != 0 && c.Flags&need == 0 {
			continue
		}
		// Only install the pointer if the whole page stays inside this
		// chunk; a page-crossing access would otherwise run past the
		// chunk's backing buffer.
		pageEnd := addr + (uint32(1)<<shift - 1)
		if pageEnd > c.End {
			continue
		}
		buf := c.activeBuffer()
		off := addr - c.Start
		if int(off) >= len(buf) {
			continue
		}
		table[base] = buf[off:]
	}
	return table
}

// read8Slow resolves a byte read through the chunk's callback, or returns
// the region default when no chunk or no callback is present. An 8-bit
// device bridged to one lane of a 16-bit bus (ONLY_ODD/ONLY_EVEN) answers
// only on its own lane; the unconsumed lane reads as 1-bits.
func read8Slow(m *Map, addr uint32) uint8 {
	c := m.FindChunk(addr)
	if c == nil {
		return 0
	}
	if c.Flags&FlagOnlyOdd != 0 && addr&1 == 0 {
		return 0xFF
	}
	if c.Flags&FlagOnlyEven != 0 && addr&1 == 1 {
		return 0xFF
	}
	if c.Read8 == nil {
		if buf := c.activeBuffer(); buf != nil {
			off := (addr - c.Start) & chunkMask(c)
			if int(off) < len(buf) {
				return buf[off]
			}
		}
		return 0
	}
	return c.Read8(addr, c.Ctx)
}

func write8Slow(m *Map, addr uint32, value uint8) {
	c := m.FindChunk(addr)
	if c == nil {
		return
	}
	if c.Flags&FlagOnlyOdd != 0 && addr&1 == 0 {
		return
	}
	if c.Flags&FlagOnlyEven != 0 && addr&1 == 1 {
		return
	}
	if c.Write8 == nil {
		if c.Flags&FlagWrite == 0 {
			return
		}
		if buf := c.activeBuffer(); buf != nil {
			off := (addr - c.Start) & chunkMask(c)
			if int(off) < len(buf) {
				buf[off] = value
			}
		}
		return
	}
	c.Write8(addr, value, c.Ctx)
}

func read16Slow(m *Map, addr uint32) uint16 {
	c := m.FindChunk(addr)
	if c == nil {
		return 0
	}
	if c.Read16 != nil {
		return c.Read16(addr, c.Ctx)
	}
	hi := uint16(read8Slow(m, addr))
	lo := uint16(read8Slow(m, addr+1))
	return hi<<8 | lo
}

func write16Slow(m *Map, addr uint32, value uint16) {
	c := m.FindChunk(addr)
	if c == nil {
		return
	}
	if c.Write16 != nil {
		c.Write16(addr, value, c.Ctx)
		return
	}
	write8Slow(m, addr, uint8(value>>8))
	write8Slow(m, addr+1, uint8(value))
}

func chunkMask(c *Chunk) uint32 {
	if c.AddressMask != 0 {
		return c.AddressMask
	}
	return 0xFFFFFFFF
}
