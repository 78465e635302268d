// rig_test.go - shared test rigs for the 68k and Z80 cores

/*
(c) 2024 - 2026 Zayn Otley

License: GPLv3 or later
*/

package cpu

import (
	"encoding/binary"
	"testing"
)

// m68kRig is a 68k over one flat 64 KiB RAM chunk, vectors at 0, stack
// at 0x1000, program at 0x0400.
type m68kRig struct {
	cpu *CPU68k
	mem []byte
}

func new68kRig(t *testing.T, variant Variant, words ...uint16) *m68kRig {
	t.Helper()
	mem := make([]byte, 0x10000)
	binary.BigEndian.PutUint32(mem[0:], 0x00001000) // reset SSP
	binary.BigEndian.PutUint32(mem[4:], 0x00000400) // reset PC
	off := 0x400
	for _, w := range words {
		binary.BigEndian.PutUint16(mem[off:], w)
		off += 2
	}
	m := NewMap([]*Chunk{
		{Start: 0x000000, End: 0x00FFFF, Flags: FlagRead | FlagWrite | FlagCode, Buffer: mem},
	})
	return &m68kRig{cpu: NewCPU68k(m, Options{Variant: variant}), mem: mem}
}

func (r *m68kRig) write16(addr uint32, v uint16) {
	binary.BigEndian.PutUint16(r.mem[addr:], v)
}

func (r *m68kRig) write32(addr uint32, v uint32) {
	binary.BigEndian.PutUint32(r.mem[addr:], v)
}

func (r *m68kRig) read16(addr uint32) uint16 {
	return binary.BigEndian.Uint16(r.mem[addr:])
}

func (r *m68kRig) read32(addr uint32) uint32 {
	return binary.BigEndian.Uint32(r.mem[addr:])
}

// z80Rig is a Z80 over one flat 64 KiB RAM chunk, program at 0.
type z80Rig struct {
	cpu *Z80
	mem []byte

	outPorts  []uint16
	outValues []uint8
	inValue   uint8
}

func newZ80Rig(t *testing.T, program ...byte) *z80Rig {
	t.Helper()
	mem := make([]byte, 0x10000)
	copy(mem, program)
	m := NewMap([]*Chunk{
		{Start: 0x0000, End: 0xFFFF, Flags: FlagRead | FlagWrite | FlagCode, Buffer: mem},
	})
	r := &z80Rig{mem: mem}
	r.cpu = NewZ80(m, Z80Options{})
	r.cpu.In = func(port uint16) uint8 { return r.inValue }
	r.cpu.Out = func(port uint16, v uint8) {
		r.outPorts = append(r.outPorts, port)
		r.outValues = append(r.outValues, v)
	}
	r.cpu.SP = 0xFFFE
	return r
}

func requireU8(t *testing.T, name string, got, want uint8) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %02X, want %02X", name, got, want)
	}
}

func requireU16(t *testing.T, name string, got, want uint16) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %04X, want %04X", name, got, want)
	}
}

func requireU32(t *testing.T, name string, got, want uint32) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %08X, want %08X", name, got, want)
	}
}

func requireBool(t *testing.T, name string, got, want bool) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

// requireSRFlags checks the 68k condition codes against an "nzvcx"
// pattern: '1' set, '0' clear, '-' don't care.
func requireSRFlags(t *testing.T, c *CPU68k, pattern string) {
	t.Helper()
	flags := []struct {
		name string
		mask uint16
	}{
		{"N", SRFlagN}, {"Z", SRFlagZ}, {"V", SRFlagV}, {"C", SRFlagC}, {"X", SRFlagX},
	}
	for i, f := range flags {
		switch pattern[i] {
		case '1':
			if c.SR&f.mask == 0 {
				t.Errorf("flag %s clear, want set (SR=%04X)", f.name, c.SR)
			}
		case '0':
			if c.SR&f.mask != 0 {
				t.Errorf("flag %s set, want clear (SR=%04X)", f.name, c.SR)
			}
		}
	}
}
