// m68k_ops_020.go - 68020 extended integer set: bit fields (BFTST/
// BFEXTU/BFEXTS/BFCHG/BFCLR/BFSET/BFFFO/BFINS), CAS/CAS2, CHK2/CMP2,
// PACK/UNPK, and the module call pair CALLM/RTM.

/*
(c) 2024 - 2026 Zayn Otley

License: GPLv3 or later
*/

package cpu

// Bit-field extension word: o o o o o (offset) w w w w w (width), with
// bit 11 selecting offset-from-Dn and bit 5 width-from-Dn; bits 14-12
// name the data register of the extract/insert/ffo forms.
const (
	bfOffsetFromReg = 0x0800
	bfWidthFromReg  = 0x0020
)

// execBitField decodes and runs one of the eight bit-field operations,
// selected by bits 10-8 of the opcode. A data-register operand treats
// the register as a 32-bit container with the offset taken modulo 32; a
// memory operand spans up to four bytes starting at the effective
// address plus offset/8.
func (c *CPU68k) execBitField(opcode uint16) {
	if c.profile.masks&Mask020OrLater == 0 {
		c.raiseException(VecIllegal)
		return
	}
	kind := (opcode >> 8) & 7
	mode := (opcode >> 3) & 7
	reg := opcode & 7
	if mode == AMAddrReg {
		c.raiseException(VecIllegal)
		return
	}

	ext := c.Fetch16()
	destReg := (ext >> 12) & 7

	var offset uint32
	if ext&bfOffsetFromReg != 0 {
		offset = c.D[(ext>>6)&7] & 0x1F
	} else {
		offset = uint32((ext >> 6) & 0x1F)
	}
	var width uint32
	if ext&bfWidthFromReg != 0 {
		width = c.D[ext&7] & 0x1F
	} else {
		width = uint32(ext & 0x1F)
	}
	if width == 0 {
		width = 32
	}
	mask := uint32(0xFFFFFFFF)
	if width < 32 {
		mask = 1<<width - 1
	}

	// Load the container and extract the right-aligned field.
	isReg := mode == AMDataReg
	var data, field, shift uint32
	var addr uint32
	var span uint32
	if isReg {
		off := offset % 32
		if off+width <= 32 {
			shift = 32 - off - width
		}
		data = c.D[reg]
		if width == 32 {
			field = data
		} else {
			field = data >> shift & mask
		}
	} else {
		e := c.resolveEA(mode, reg, SizeByte)
		c.CurrentCycle += uint64(c.eaCycles(e, SizeByte))
		addr = e.addr + offset/8
		shift = offset % 8
		span = (shift + width + 7) / 8
		if span > 4 {
			span = 4
		}
		data = c.readBFSpan(addr, span)
		field = data >> shift & mask
	}

	write := false
	switch kind {
	case 0: // BFTST: flags only
	case 1: // BFEXTU
		c.D[destReg] = field
	case 3: // BFEXTS
		v := field
		if width < 32 && v>>(width-1)&1 != 0 {
			v |= ^(uint32(1)<<width - 1)
		}
		c.D[destReg] = v
	case 5: // BFFFO: scan from the field's MSB; misses return offset+width
		res := offset + width
		for i := uint32(0); i < width; i++ {
			if field>>(width-1-i)&1 != 0 {
				res = offset + i
				break
			}
		}
		c.D[destReg] = res
	case 7: // BFINS: flags reflect the inserted value
		ins := c.D[destReg] & mask
		data = data&^(mask<<shift) | ins<<shift
		field = ins
		write = true
	case 6: // BFSET
		data |= mask << shift
		write = true
	case 4: // BFCLR
		data &^= mask << shift
		write = true
	case 2: // BFCHG
		data ^= mask << shift
		write = true
	}

	if write {
		if isReg {
			c.D[reg] = data
		} else {
			c.writeBFSpan(addr, span, data)
		}
	}

	c.SR &^= SRFlagN | SRFlagZ | SRFlagV | SRFlagC
	if field == 0 {
		c.SR |= SRFlagZ
	}
	if field>>(width-1)&1 != 0 {
		c.SR |= SRFlagN
	}
	c.CurrentCycle += uint64(6 * c.clockDivider)
}

// readBFSpan/writeBFSpan move a bit-field container of 1..4 bytes, kept
// in bus order within a uint32.
func (c *CPU68k) readBFSpan(addr, span uint32) uint32 {
	switch span {
	case 1:
		return uint32(c.Read8(addr))
	case 2:
		return uint32(c.Read16(addr))
	case 3:
		return uint32(c.Read16(addr))<<8 | uint32(c.Read8(addr+2))
	default:
		return c.Read32(addr)
	}
}

func (c *CPU68k) writeBFSpan(addr, span uint32, data uint32) {
	switch span {
	case 1:
		c.Write8(addr, uint8(data))
	case 2:
		c.Write16(addr, uint16(data))
	case 3:
		c.Write16(addr, uint16(data>>8))
		c.Write8(addr+2, uint8(data))
	default:
		c.Write32(addr, data)
	}
}

// execCas: compare Dc with the memory operand; on match store Du, on
// mismatch reload Dc with what memory held. Flags are those of
// CMP Dc,<ea> either way.
func (c *CPU68k) execCas(size int, mode, reg uint16) {
	if c.profile.masks&Mask020OrLater == 0 {
		c.raiseException(VecIllegal)
		return
	}
	ext := c.Fetch16()
	dc := ext & 7
	du := (ext >> 6) & 7
	if mode == AMDataReg || mode == AMAddrReg {
		c.raiseException(VecIllegal)
		return
	}

	e := c.resolveEA(mode, reg, size)
	c.CurrentCycle += uint64(c.eaCycles(e, size))
	mask := sizeMask(size)
	dest := c.readMem(e.addr, size)
	compare := c.D[dc] & mask

	result := (dest - compare) & mask
	c.setFlagsSub(dest, compare, result, size, false)

	if c.SR&SRFlagZ != 0 {
		c.writeMem(e.addr, size, c.D[du]&mask)
	} else {
		c.D[dc] = c.D[dc]&^mask | dest&mask
	}
	c.CurrentCycle += uint64(8 * c.clockDivider)
}

// execCas2 is the two-location form, addresses taken from the registers
// named in the extension words. Only word and long sizes exist. On any
// mismatch both compare registers reload, and the flags come from the
// first unequal pair.
func (c *CPU68k) execCas2(size int) {
	if c.profile.masks&Mask020OrLater == 0 {
		c.raiseException(VecIllegal)
		return
	}
	ext1 := c.Fetch16()
	ext2 := c.Fetch16()
	dc1, du1, rn1 := ext1&7, (ext1>>6)&7, (ext1>>12)&0xF
	dc2, du2, rn2 := ext2&7, (ext2>>6)&7, (ext2>>12)&0xF

	regVal := func(rn uint16) uint32 {
		if rn&8 != 0 {
			return c.A[rn&7]
		}
		return c.D[rn&7]
	}
	addr1 := regVal(rn1)
	addr2 := regVal(rn2)

	mask := sizeMask(size)
	dest1 := c.readMem(addr1, size)
	dest2 := c.readMem(addr2, size)
	compare1 := c.D[dc1] & mask
	compare2 := c.D[dc2] & mask

	if compare1 == dest1 && compare2 == dest2 {
		c.setFlagsSub(compare1, dest1, 0, size, false)
		c.writeMem(addr1, size, c.D[du1]&mask)
		c.writeMem(addr2, size, c.D[du2]&mask)
	} else {
		if compare1 != dest1 {
			c.setFlagsSub(compare1, dest1, (compare1-dest1)&mask, size, false)
		} else {
			c.setFlagsSub(compare2, dest2, (compare2-dest2)&mask, size, false)
		}
		c.D[dc1] = c.D[dc1]&^mask | dest1&mask
		c.D[dc2] = c.D[dc2]&^mask | dest2&mask
	}
	c.CurrentCycle += uint64(16 * c.clockDivider)
}

// execChk2Cmp2 reads a bounds pair at the effective address and compares
// the register named by the extension word against it: Z for a bound
// hit, C for out of range. The CHK2 form (extension bit 11) traps
// through the CHK vector on a violation; CMP2 only sets flags.
func (c *CPU68k) execChk2Cmp2(size int, mode, reg uint16) {
	if c.profile.masks&Mask020OrLater == 0 {
		c.raiseException(VecIllegal)
		return
	}
	ext := c.Fetch16()
	rn := (ext >> 12) & 0xF
	isChk := ext&0x0800 != 0

	e := c.resolveEA(mode, reg, size)
	c.CurrentCycle += uint64(c.eaCycles(e, size))

	check := c.D[rn&7]
	if rn&8 != 0 {
		check = c.A[rn&7]
	}
	var lower, upper uint32
	switch size {
	case SizeByte:
		lower = uint32(c.Read8(e.addr))
		upper = uint32(c.Read8(e.addr + 1))
		check &= 0xFF
	case SizeWord:
		lower = uint32(c.Read16(e.addr))
		upper = uint32(c.Read16(e.addr + 2))
		check &= 0xFFFF
	default:
		lower = c.Read32(e.addr)
		upper = c.Read32(e.addr + 4)
	}

	c.SR &^= SRFlagZ | SRFlagC
	if check == lower || check == upper {
		c.SR |= SRFlagZ
	}
	if check < lower || check > upper {
		c.SR |= SRFlagC
	}
	c.CurrentCycle += uint64(8 * c.clockDivider)

	if isChk && c.SR&SRFlagC != 0 {
		c.raiseException(VecCHK)
	}
}

// execPackUnpk converts between an unpacked pair of BCD digits (one per
// byte of a word) and a packed byte, in register or -(Ax),-(Ay) form,
// with the adjustment word added to the converted value.
func (c *CPU68k) execPackUnpk(opcode uint16, pack bool) {
	if c.profile.masks&Mask020OrLater == 0 {
		c.raiseException(VecIllegal)
		return
	}
	ry := (opcode >> 9) & 7
	rx := opcode & 7
	memForm := opcode&0x0008 != 0
	adjustment := c.Fetch16()

	if pack {
		var src uint16
		if memForm {
			c.A[rx] -= 2
			src = c.Read16(c.A[rx])
		} else {
			src = uint16(c.D[rx])
		}
		packed := (src>>8&0x0F)<<4 | src&0x0F
		packed += adjustment
		if memForm {
			c.A[ry]--
			c.Write8(c.A[ry], uint8(packed))
		} else {
			c.D[ry] = c.D[ry]&^0xFF | uint32(uint8(packed))
		}
	} else {
		var src uint8
		if memForm {
			c.A[rx]--
			src = c.Read8(c.A[rx])
		} else {
			src = uint8(c.D[rx])
		}
		unpacked := uint16(src>>4)<<8 | uint16(src&0x0F)
		unpacked += adjustment
		if memForm {
			c.A[ry] -= 2
			c.Write16(c.A[ry], unpacked)
		} else {
			c.D[ry] = c.D[ry]&^0xFFFF | uint32(unpacked)
		}
	}
	c.CurrentCycle += uint64(2 * c.clockDivider)
}

// execCallm pushes a module stack frame and enters the module named by
// the descriptor at the effective address. The pair exists only on the
// 68020; Motorola dropped it again in the 68030.
func (c *CPU68k) execCallm(mode, reg uint16) {
	if c.variant != Variant68020 {
		c.raiseException(VecIllegal)
		return
	}
	argCount := c.Fetch16() & 0xFF
	e := c.resolveEA(mode, reg, SizeLong)
	c.CurrentCycle += uint64(c.eaCycles(e, SizeLong))
	descAddr := e.addr

	// A negative module type marks a supervisor-only module.
	modType := int16(c.Read16(descAddr))
	if modType < 0 && !c.supervisor() {
		c.raiseException(VecPrivilege)
		return
	}

	c.Push32(c.PC)
	ctrl := uint16(0)
	if modType < 0 {
		ctrl |= 1 << 15
	}
	c.Push16(ctrl)
	c.Push16(argCount)
	c.Push32(descAddr + 2)
	c.PC = c.Read32(descAddr + 4)
	c.CurrentCycle += uint64(60 * c.clockDivider)
}

// execRtm unwinds a CALLM frame. The module register operand and the
// control word's saved-mode bit carry no state this core tracks, so the
// unwind is the pop sequence alone.
func (c *CPU68k) execRtm(regField uint16) {
	if c.variant != Variant68020 {
		c.raiseException(VecIllegal)
		return
	}
	_ = regField
	c.Pop32() // static frame pointer
	c.Pop16() // argument count
	c.Pop16() // control word
	c.PC = c.Pop32()
	c.CurrentCycle += uint64(22 * c.clockDivider)
}
