// m68k_020_test.go - the 68020 extended integer set: bit fields,
// CAS/CAS2, CHK2/CMP2, PACK/UNPK, CALLM/RTM, and the decode boundaries
// that keep these patterns out of the immediate/logic handlers

/*
(c) 2024 - 2026 Zayn Otley

License: GPLv3 or later
*/

package cpu

import "testing"

func TestM68kBfextuFromRegister(t *testing.T) {
	// bfextu d0{8:8},d1
	r := new68kRig(t, Variant68020, 0xE9C0, 0x1208)
	r.cpu.D[0] = 0x12345678

	r.cpu.Step()

	requireU32(t, "D1", r.cpu.D[1], 0x34)
	requireSRFlags(t, r.cpu, "0000-")
}

func TestM68kBfextsSignExtends(t *testing.T) {
	// bfexts d0{8:8},d1
	r := new68kRig(t, Variant68020, 0xEBC0, 0x1208)
	r.cpu.D[0] = 0x12845678

	r.cpu.Step()

	requireU32(t, "D1", r.cpu.D[1], 0xFFFFFF84)
	requireSRFlags(t, r.cpu, "1000-")
}

func TestM68kBfffoFindsFirstSetBit(t *testing.T) {
	// bfffo d0{8:16},d1
	r := new68kRig(t, Variant68020, 0xEDC0, 0x1210)
	r.cpu.D[0] = 0x00008000

	r.cpu.Step()

	requireU32(t, "D1", r.cpu.D[1], 16)

	// An empty field reports offset+width and sets Z.
	r = new68kRig(t, Variant68020, 0xEDC0, 0x1210)
	r.cpu.D[0] = 0
	r.cpu.Step()
	requireU32(t, "D1 empty", r.cpu.D[1], 24)
	requireSRFlags(t, r.cpu, "01---")
}

func TestM68kBfinsIntoRegister(t *testing.T) {
	// bfins d1,d0{16:8}
	r := new68kRig(t, Variant68020, 0xEFC0, 0x1408)
	r.cpu.D[0] = 0xFFFFFFFF
	r.cpu.D[1] = 0xAB

	r.cpu.Step()

	requireU32(t, "D0", r.cpu.D[0], 0xFFFFABFF)
	requireSRFlags(t, r.cpu, "10---") // flags follow the inserted value
}

func TestM68kBfclrMemorySpansTwoBytes(t *testing.T) {
	// bfclr (a0){4:8}
	r := new68kRig(t, Variant68020, 0xECD0, 0x0108)
	r.cpu.A[0] = 0x800
	r.mem[0x800] = 0xFF
	r.mem[0x801] = 0xFF

	r.cpu.Step()

	requireU8(t, "first byte", r.mem[0x800], 0xF0)
	requireU8(t, "second byte", r.mem[0x801], 0x0F)
	requireSRFlags(t, r.cpu, "10---") // the field was all ones before
}

func TestM68kBfsetAndBfchgRegister(t *testing.T) {
	// bfset d0{24:8}
	r := new68kRig(t, Variant68020, 0xEEC0, 0x0608)
	r.cpu.D[0] = 0

	r.cpu.Step()
	requireU32(t, "D0", r.cpu.D[0], 0x000000FF)
	requireSRFlags(t, r.cpu, "01---") // flags are pre-modification

	// bfchg d0{24:8}
	r = new68kRig(t, Variant68020, 0xEAC0, 0x0608)
	r.cpu.D[0] = 0x0F

	r.cpu.Step()
	requireU32(t, "D0 toggled", r.cpu.D[0], 0xF0)
}

func TestM68kBitFieldTrapsBelow020(t *testing.T) {
	r := new68kRig(t, Variant68000, 0xE9C0, 0x1208)
	r.write32(uint32(VecIllegal)*4, 0x00000500)

	r.cpu.Step()
	requireU32(t, "PC", r.cpu.PC, 0x500)
}

func TestM68kCasHitAndMiss(t *testing.T) {
	// cas.w d1,d2,(a0): compare D1 with memory, store D2 on match.
	r := new68kRig(t, Variant68020, 0x0CD0, 0x0081)
	r.cpu.A[0] = 0x800
	r.write16(0x800, 0x1234)
	r.cpu.D[1] = 0x1234
	r.cpu.D[2] = 0x5678

	r.cpu.Step()
	requireU16(t, "memory updated", r.read16(0x800), 0x5678)
	requireSRFlags(t, r.cpu, "01---")

	// Miss: memory stays, D1 reloads with what memory held.
	r = new68kRig(t, Variant68020, 0x0CD0, 0x0081)
	r.cpu.A[0] = 0x800
	r.write16(0x800, 0x9999)
	r.cpu.D[1] = 0x1234
	r.cpu.D[2] = 0x5678

	r.cpu.Step()
	requireU16(t, "memory kept", r.read16(0x800), 0x9999)
	requireU16(t, "D1 reloaded", uint16(r.cpu.D[1]), 0x9999)
	requireSRFlags(t, r.cpu, "-0---")
}

func TestM68kCasRejectsRegisterOperand(t *testing.T) {
	// cas.w d1,d2,d3 does not exist; the pattern must trap, not
	// compare-and-swap a register.
	r := new68kRig(t, Variant68020, 0x0CC3, 0x0081)
	r.write32(uint32(VecIllegal)*4, 0x00000500)

	r.cpu.Step()
	requireU32(t, "PC", r.cpu.PC, 0x500)
}

func TestM68kCas2BothMatch(t *testing.T) {
	// cas2.w d1:d2,d3:d4,(a0):(a1)
	r := new68kRig(t, Variant68020, 0x0CFC, 0x80C1, 0x9102)
	r.cpu.A[0] = 0x800
	r.cpu.A[1] = 0x900
	r.write16(0x800, 0x1111)
	r.write16(0x900, 0x2222)
	r.cpu.D[1] = 0x1111
	r.cpu.D[2] = 0x2222
	r.cpu.D[3] = 0x3333
	r.cpu.D[4] = 0x4444

	r.cpu.Step()

	requireU16(t, "first cell", r.read16(0x800), 0x3333)
	requireU16(t, "second cell", r.read16(0x900), 0x4444)
	requireSRFlags(t, r.cpu, "01---")
}

func TestM68kCas2MismatchReloadsBoth(t *testing.T) {
	r := new68kRig(t, Variant68020, 0x0CFC, 0x80C1, 0x9102)
	r.cpu.A[0] = 0x800
	r.cpu.A[1] = 0x900
	r.write16(0x800, 0x1111)
	r.write16(0x900, 0xFFFF) // second compare fails
	r.cpu.D[1] = 0x1111
	r.cpu.D[2] = 0x2222
	r.cpu.D[3] = 0x3333
	r.cpu.D[4] = 0x4444

	r.cpu.Step()

	requireU16(t, "first cell kept", r.read16(0x800), 0x1111)
	requireU16(t, "second cell kept", r.read16(0x900), 0xFFFF)
	requireU16(t, "D1 reloaded", uint16(r.cpu.D[1]), 0x1111)
	requireU16(t, "D2 reloaded", uint16(r.cpu.D[2]), 0xFFFF)
	requireSRFlags(t, r.cpu, "-0---")
}

func TestM68kCmp2AndChk2(t *testing.T) {
	// cmp2.w (a0),d1 with bounds [0x10,0x20]
	r := new68kRig(t, Variant68020, 0x02D0, 0x1000)
	r.cpu.A[0] = 0x800
	r.write16(0x800, 0x0010)
	r.write16(0x802, 0x0020)
	r.cpu.D[1] = 0x0015

	r.cpu.Step()
	requireSRFlags(t, r.cpu, "-0-0-") // in range

	// On a bound: Z.
	r = new68kRig(t, Variant68020, 0x02D0, 0x1000)
	r.cpu.A[0] = 0x800
	r.write16(0x800, 0x0010)
	r.write16(0x802, 0x0020)
	r.cpu.D[1] = 0x0020
	r.cpu.Step()
	requireSRFlags(t, r.cpu, "-1-0-")

	// chk2.w out of range traps through the CHK vector.
	r = new68kRig(t, Variant68020, 0x02D0, 0x1800)
	r.write32(uint32(VecCHK)*4, 0x00000500)
	r.cpu.A[0] = 0x800
	r.write16(0x800, 0x0010)
	r.write16(0x802, 0x0020)
	r.cpu.D[1] = 0x0030
	r.cpu.Step()
	requireU32(t, "PC", r.cpu.PC, 0x500)
}

func TestM68kPackRegisterAndMemory(t *testing.T) {
	// pack d1,d0,#0
	r := new68kRig(t, Variant68020, 0x8141, 0x0000)
	r.cpu.D[1] = 0x0402 // unpacked 4 and 2
	r.cpu.D[0] = 0xFFFFFF00

	r.cpu.Step()
	requireU8(t, "packed byte", uint8(r.cpu.D[0]), 0x42)
	requireU32(t, "upper bytes kept", r.cpu.D[0]>>8, 0xFFFFFF)

	// pack -(a1),-(a2),#0
	r = new68kRig(t, Variant68020, 0x8549, 0x0000)
	r.cpu.A[1] = 0x802
	r.cpu.A[2] = 0x900
	r.write16(0x800, 0x0703)

	r.cpu.Step()
	requireU32(t, "A1", r.cpu.A[1], 0x800)
	requireU32(t, "A2", r.cpu.A[2], 0x8FF)
	requireU8(t, "packed to memory", r.mem[0x8FF], 0x73)
}

func TestM68kUnpkWithAdjustment(t *testing.T) {
	// unpk d1,d0,#$3030 - the classic to-ASCII adjustment
	r := new68kRig(t, Variant68020, 0x8181, 0x3030)
	r.cpu.D[1] = 0x42

	r.cpu.Step()
	requireU16(t, "unpacked word", uint16(r.cpu.D[0]), 0x3432)
}

func TestM68kPackTrapsBelow020(t *testing.T) {
	// On a 68000 the PACK pattern is not an OR into D0 - it traps.
	r := new68kRig(t, Variant68000, 0x8141, 0x0000)
	r.write32(uint32(VecIllegal)*4, 0x00000500)
	r.cpu.D[0] = 0xDEAD
	r.cpu.D[1] = 0xBEEF

	r.cpu.Step()
	requireU32(t, "PC", r.cpu.PC, 0x500)
	requireU32(t, "D0 untouched", r.cpu.D[0], 0xDEAD)
}

func TestM68kOrDataRegisterToMemory(t *testing.T) {
	// The Dn->ea direction of OR targets memory; its register-operand
	// encodings in group 8 are SBCD/PACK/UNPK, so the logic handler
	// only sees this direction with a memory destination.
	r := new68kRig(t, Variant68020, 0x8190, 0x0000) // or.l d0,(a0)
	r.cpu.A[0] = 0x800
	r.cpu.D[0] = 0x0F
	r.cpu.Step()
	requireU32(t, "memory OR", r.read32(0x800), 0x0F)
}

func TestM68kCallmRtmRoundTrip(t *testing.T) {
	// callm #2,(a0); module descriptor at 0x800: user module, entry at
	// 0x600. The handler there is rtm d0.
	r := new68kRig(t, Variant68020, 0x06D0, 0x0002)
	r.cpu.A[0] = 0x800
	r.write16(0x800, 0x0000) // module type: user
	r.write32(0x804, 0x00000600)
	r.write16(0x600, 0x06C0) // rtm d0

	r.cpu.Step()
	requireU32(t, "PC in module", r.cpu.PC, 0x600)
	requireU32(t, "A7 framed", r.cpu.A[7], 0x1000-12)
	requireU32(t, "stacked return", r.read32(0x1000-4), 0x404)

	r.cpu.Step()
	requireU32(t, "PC back", r.cpu.PC, 0x404)
	requireU32(t, "A7 unwound", r.cpu.A[7], 0x1000)
}

func TestM68kCallmSupervisorModuleNeedsPrivilege(t *testing.T) {
	r := new68kRig(t, Variant68020, 0x06D0, 0x0000)
	r.write32(uint32(VecPrivilege)*4, 0x00000500)
	r.cpu.A[0] = 0x800
	r.write16(0x800, 0x8000) // supervisor module
	r.write32(0x804, 0x00000600)
	r.cpu.SR &^= SRFlagS

	r.cpu.Step()
	requireU32(t, "PC", r.cpu.PC, 0x500)
}

func TestM68kCallmAbsentFrom030On(t *testing.T) {
	// Motorola removed CALLM/RTM after the 68020; later parts trap.
	r := new68kRig(t, Variant68030, 0x06D0, 0x0002)
	r.write32(uint32(VecIllegal)*4, 0x00000500)
	r.cpu.A[0] = 0x800

	r.cpu.Step()
	requireU32(t, "PC", r.cpu.PC, 0x500)
}

func TestM68kCallmPatternTrapsOn68000(t *testing.T) {
	// On a 68000 the CALLM pattern must trap as illegal, not decode as
	// ADDI and eat an immediate word.
	r := new68kRig(t, Variant68000, 0x06D0, 0x0002)
	r.write32(uint32(VecIllegal)*4, 0x00000500)
	r.cpu.A[0] = 0x800
	before := r.read16(0x800)

	r.cpu.Step()
	requireU32(t, "PC", r.cpu.PC, 0x500)
	requireU16(t, "no bogus ADDI", r.read16(0x800), before)
}

func TestM68kCas2PatternTrapsOn68000(t *testing.T) {
	// On a 68000 the CAS2 pattern must trap as illegal, not decode as
	// CMPI and consume its extension words as an immediate.
	r := new68kRig(t, Variant68000, 0x0CFC, 0x80C1, 0x9102)
	r.write32(uint32(VecIllegal)*4, 0x00000500)

	r.cpu.Step()
	requireU32(t, "PC", r.cpu.PC, 0x500)
}
