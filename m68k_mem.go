// m68k_mem.go - 68k memory-access fast path

/*
(c) 2024 - 2026 Zayn Otley

License: GPLv3 or later
*/

/*
Every 68k memory access first tries readPointers[addr>>16] /
writePointers[addr>>16]; a nil slot falls through to the shared Map's
callback path. The tables only cover the lower 24-bit address space, so
accesses above 16 MB on 32-bit-space variants always take the slow path.

16-bit bus words are stored big-endian in the backing buffers, so byte
accesses index straight in and word accesses assemble the two bytes in
bus order.
*/

package cpu

import "encoding/binary"

func (c *CPU68k) Read8(addr uint32) uint8 {
	addr = c.addressMask(addr)
	if page := addr >> 16; page < 256 {
		if ptr := c.readPointers[page]; ptr != nil {
			if off := addr & 0xFFFF; int(off) < len(ptr) {
				return ptr[off]
			}
		}
	}
	return read8Slow(c.mem, addr)
}

func (c *CPU68k) Write8(addr uint32, value uint8) {
	addr = c.addressMask(addr)
	if page := addr >> 16; page < 256 {
		if ptr := c.writePointers[page]; ptr != nil {
			if off := addr & 0xFFFF; int(off) < len(ptr) {
				ptr[off] = value
				return
			}
		}
	}
	write8Slow(c.mem, addr, value)
}

func (c *CPU68k) Read16(addr uint32) uint16 {
	addr = c.addressMask(addr)
	if page := addr >> 16; page < 256 {
		if ptr := c.readPointers[page]; ptr != nil {
			if off := addr & 0xFFFF; int(off)+1 < len(ptr) {
				return binary.BigEndian.Uint16(ptr[off:])
			}
		}
	}
	return read16Slow(c.mem, addr)
}

func (c *CPU68k) Write16(addr uint32, value uint16) {
	addr = c.addressMask(addr)
	if page := addr >> 16; page < 256 {
		if ptr := c.writePointers[page]; ptr != nil {
			if off := addr & 0xFFFF; int(off)+1 < len(ptr) {
				binary.BigEndian.PutUint16(ptr[off:], value)
				return
			}
		}
	}
	write16Slow(c.mem, addr, value)
}

func (c *CPU68k) Read32(addr uint32) uint32 {
	hi := uint32(c.Read16(addr))
	lo := uint32(c.Read16(addr + 2))
	return hi<<16 | lo
}

func (c *CPU68k) Write32(addr uint32, value uint32) {
	c.Write16(addr, uint16(value>>16))
	c.Write16(addr+2, uint16(value))
}

func (c *CPU68k) Fetch16() uint16 {
	v := c.Read16(c.PC)
	c.PC += 2
	return v
}

func (c *CPU68k) Fetch32() uint32 {
	v := c.Read32(c.PC)
	c.PC += 4
	return v
}

func (c *CPU68k) Push16(v uint16) {
	c.setSP(c.getSP() - 2)
	c.Write16(c.getSP(), v)
}

func (c *CPU68k) Push32(v uint32) {
	c.setSP(c.getSP() - 4)
	c.Write32(c.getSP(), v)
}

func (c *CPU68k) Pop16() uint16 {
	v := c.Read16(c.getSP())
	c.setSP(c.getSP() + 2)
	return v
}

func (c *CPU68k) Pop32() uint32 {
	v := c.Read32(c.getSP())
	c.setSP(c.getSP() + 4)
	return v
}

func (c *CPU68k) getSP() uint32  { return c.A[7] }
func (c *CPU68k) setSP(v uint32) { c.A[7] = v }

func (c *CPU68k) supervisor() bool { return c.SR&SRFlagS != 0 }
