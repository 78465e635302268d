// z80_serialize.go - fixed-layout state snapshots for the Z80 core

/*
(c) 2024 - 2026 Zayn Otley

License: GPLv3 or later
*/

package cpu

import (
	"encoding/binary"
	"errors"
)

const z80SerializeVersion = 1

// z80SerializeSize is the number of bytes produced by Serialize. Update
// this constant whenever the binary layout changes.
const z80SerializeSize = 90

// SerializeSize returns the number of bytes needed for Serialize.
func (z *Z80) SerializeSize() int { return z80SerializeSize }

// Serialize writes the full architectural and line state into buf. The
// memory map, cycle tables and host hooks are not included.
func (z *Z80) Serialize(buf []byte) error {
	if len(buf) < z80SerializeSize {
		return errors.New("cpu: z80 serialize buffer too small")
	}

	buf[0] = z80SerializeVersion
	be := binary.BigEndian
	off := 1

	for _, b := range []byte{
		z.A, z.F, z.B, z.C, z.D, z.E, z.H, z.L,
		z.A2, z.F2, z.B2, z.C2, z.D2, z.E2, z.H2, z.L2,
	} {
		buf[off] = b
		off++
	}

	for _, w := range []uint16{z.IX, z.IY, z.SP, z.PC, z.WZ, z.PPC} {
		be.PutUint16(buf[off:], w)
		off += 2
	}

	buf[off] = z.I
	buf[off+1] = z.R
	buf[off+2] = z.R2
	buf[off+3] = z.IM
	off += 4

	buf[off] = boolByte(z.IFF1)
	buf[off+1] = boolByte(z.IFF2)
	buf[off+2] = boolByte(z.Halted)
	buf[off+3] = boolByte(z.AfterEI)
	buf[off+4] = boolByte(z.AfterLDAIR)
	off += 5

	be.PutUint32(buf[off:], uint32(int32(z.ICount)))
	off += 4

	be.PutUint64(buf[off:], z.CurrentCycle)
	off += 8
	be.PutUint64(buf[off:], z.TargetCycle)
	off += 8
	be.PutUint64(buf[off:], z.IntPulseStart)
	off += 8
	be.PutUint64(buf[off:], z.IntPulseEnd)
	off += 8

	buf[off] = boolByte(z.nmiLatch)
	off++
	be.PutUint64(buf[off:], z.nmiCycle)
	off += 8

	buf[off] = boolByte(z.resetLine)
	buf[off+1] = boolByte(z.busreq)
	buf[off+2] = boolByte(z.busack)
	off += 3

	be.PutUint32(buf[off:], z.IRQVector)
	return nil
}

// Deserialize restores state previously written by Serialize.
func (z *Z80) Deserialize(buf []byte) error {
	if len(buf) < z80SerializeSize {
		return errors.New("cpu: z80 deserialize buffer too small")
	}
	if buf[0] != z80SerializeVersion {
		return errors.New("cpu: z80 snapshot version mismatch")
	}

	be := binary.BigEndian
	off := 1

	regs := []*byte{
		&z.A, &z.F, &z.B, &z.C, &z.D, &z.E, &z.H, &z.L,
		&z.A2, &z.F2, &z.B2, &z.C2, &z.D2, &z.E2, &z.H2, &z.L2,
	}
	for _, p := range regs {
		*p = buf[off]
		off++
	}

	words := []*uint16{&z.IX, &z.IY, &z.SP, &z.PC, &z.WZ, &z.PPC}
	for _, p := range words {
		*p = be.Uint16(buf[off:])
		off += 2
	}

	z.I = buf[off]
	z.R = buf[off+1]
	z.R2 = buf[off+2]
	z.IM = buf[off+3]
	off += 4

	z.IFF1 = buf[off] != 0
	z.IFF2 = buf[off+1] != 0
	z.Halted = buf[off+2] != 0
	z.AfterEI = buf[off+3] != 0
	z.AfterLDAIR = buf[off+4] != 0
	off += 5

	z.ICount = int(int32(be.Uint32(buf[off:])))
	off += 4

	z.CurrentCycle = be.Uint64(buf[off:])
	off += 8
	z.TargetCycle = be.Uint64(buf[off:])
	off += 8
	z.IntPulseStart = be.Uint64(buf[off:])
	off += 8
	z.IntPulseEnd = be.Uint64(buf[off:])
	off += 8

	z.nmiLatch = buf[off] != 0
	off++
	z.nmiCycle = be.Uint64(buf[off:])
	off += 8

	z.resetLine = buf[off] != 0
	z.busreq = buf[off+1] != 0
	z.busack = buf[off+2] != 0
	off += 3

	z.IRQVector = be.Uint32(buf[off:])
	return nil
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
