// z80_ops_test.go - loads, exchanges, stack discipline and I/O ops

/*
(c) 2024 - 2026 Zayn Otley

License: GPLv3 or later
*/

package cpu

import "testing"

func TestZ80SixteenBitLoads(t *testing.T) {
	r := newZ80Rig(t,
		0x21, 0x34, 0x12, // ld hl,$1234
		0x22, 0x00, 0x90, // ld ($9000),hl
		0x2A, 0x00, 0x90, // ld hl,($9000)
	)
	z := r.cpu

	z.Step()
	requireU16(t, "HL", z.HL(), 0x1234)

	z.Step()
	requireU8(t, "low byte first", r.mem[0x9000], 0x34)
	requireU8(t, "high byte second", r.mem[0x9001], 0x12)
	requireU16(t, "WZ", z.WZ, 0x9001)

	z.SetHL(0)
	z.Step()
	requireU16(t, "HL reloaded", z.HL(), 0x1234)
}

func TestZ80ExchangeFamily(t *testing.T) {
	r := newZ80Rig(t, 0x08, 0xD9, 0xEB) // ex af,af'; exx; ex de,hl
	z := r.cpu
	z.A, z.F = 0x11, 0x22
	z.A2, z.F2 = 0x33, 0x44
	z.SetBC(0x1111)
	z.SetDE(0x2222)
	z.SetHL(0x3333)

	z.Step()
	requireU8(t, "A", z.A, 0x33)
	requireU8(t, "F", z.F, 0x44)

	z.Step()
	requireU16(t, "BC swapped out", z.BC(), 0x0000)

	z.Exx() // put them back for the DE/HL exchange
	z.Step()
	requireU16(t, "DE", z.DE(), 0x3333)
	requireU16(t, "HL", z.HL(), 0x2222)
}

func TestZ80PushPopOrder(t *testing.T) {
	r := newZ80Rig(t, 0xC5, 0xF1) // push bc; pop af
	z := r.cpu
	z.SetBC(0xABCD)

	z.Step()
	requireU16(t, "SP", z.SP, 0xFFFC)
	requireU8(t, "low at SP", r.mem[0xFFFC], 0xCD)
	requireU8(t, "high above", r.mem[0xFFFD], 0xAB)

	z.Step()
	requireU16(t, "AF", z.AF(), 0xABCD)
	requireU16(t, "SP restored", z.SP, 0xFFFE)
}

func TestZ80CallStacksReturnAddress(t *testing.T) {
	r := newZ80Rig(t, 0xCD, 0x00, 0x20) // call $2000
	r.mem[0x2000] = 0xC9                // ret
	z := r.cpu

	z.Step()
	requireU16(t, "PC", z.PC, 0x2000)
	requireU16(t, "stacked", uint16(r.mem[0xFFFC])|uint16(r.mem[0xFFFD])<<8, 0x0003)

	z.Step()
	requireU16(t, "returned", z.PC, 0x0003)
}

func TestZ80InROutRC(t *testing.T) {
	r := newZ80Rig(t, 0xED, 0x58, 0xED, 0x51) // in e,(c); out (c),d
	z := r.cpu
	z.SetBC(0x12FE)
	z.D = 0x77
	r.inValue = 0x80

	z.Step()
	requireU8(t, "E", z.E, 0x80)
	if z.F&zfS == 0 {
		t.Error("S clear after reading 0x80")
	}

	z.Step()
	if len(r.outPorts) != 1 || r.outPorts[0] != 0x12FE || r.outValues[0] != 0x77 {
		t.Fatalf("out log = %04X:%v", r.outPorts, r.outValues)
	}
}

func TestZ80RetnRestoresIFF1(t *testing.T) {
	r := newZ80Rig(t, 0xED, 0x45) // retn
	z := r.cpu
	z.IFF1 = false
	z.IFF2 = true
	z.push16(0x1234)

	z.Step()
	requireU16(t, "PC", z.PC, 0x1234)
	requireBool(t, "IFF1 restored", z.IFF1, true)
}

func TestZ80IMSelect(t *testing.T) {
	r := newZ80Rig(t, 0xED, 0x5E, 0xED, 0x56, 0xED, 0x46) // im 2; im 1; im 0
	z := r.cpu

	z.Step()
	requireU8(t, "IM", z.IM, 2)
	z.Step()
	requireU8(t, "IM", z.IM, 1)
	z.Step()
	requireU8(t, "IM", z.IM, 0)
}

func TestZ80JPHLAndLDSPHL(t *testing.T) {
	r := newZ80Rig(t, 0xE9) // jp (hl)
	z := r.cpu
	z.SetHL(0x4321)
	z.Step()
	requireU16(t, "PC", z.PC, 0x4321)

	r = newZ80Rig(t, 0xF9) // ld sp,hl
	z = r.cpu
	z.SetHL(0x8000)
	z.Step()
	requireU16(t, "SP", z.SP, 0x8000)
}

func TestZ80IndexedStore(t *testing.T) {
	r := newZ80Rig(t,
		0xDD, 0x36, 0x03, 0x5A, // ld (ix+3),$5a
		0xDD, 0x70, 0x04, // ld (ix+4),b
	)
	z := r.cpu
	z.IX = 0x8000
	z.B = 0x66

	z.Step()
	requireU8(t, "immediate store", r.mem[0x8003], 0x5A)
	z.Step()
	requireU8(t, "register store", r.mem[0x8004], 0x66)
}

func TestZ80LdAIndirectWZ(t *testing.T) {
	r := newZ80Rig(t, 0x3A, 0x00, 0x90) // ld a,($9000)
	r.mem[0x9000] = 0x7E
	z := r.cpu

	z.Step()
	requireU8(t, "A", z.A, 0x7E)
	requireU16(t, "WZ", z.WZ, 0x9001)
}
