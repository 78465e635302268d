// m68k_serialize.go - fixed-layout state snapshots for the 68k core

/*
(c) 2024 - 2026 Zayn Otley

License: GPLv3 or later
*/

package cpu

import (
	"encoding/binary"
	"errors"
)

// m68kSerializeVersion is incremented whenever the binary layout changes.
const m68kSerializeVersion = 1

// m68kSerializeSize is the number of bytes produced by Serialize. Update
// this constant whenever the binary layout changes.
const m68kSerializeSize = 121

// SerializeSize returns the number of bytes needed for Serialize.
func (c *CPU68k) SerializeSize() int { return m68kSerializeSize }

// Serialize writes the full architectural state into buf, which must be
// at least SerializeSize() bytes. The memory map and host hooks are not
// included; a restored context must be constructed over an equivalent
// map.
func (c *CPU68k) Serialize(buf []byte) error {
	if len(buf) < m68kSerializeSize {
		return errors.New("cpu: 68k serialize buffer too small")
	}

	buf[0] = m68kSerializeVersion
	be := binary.BigEndian
	off := 1

	for i := 0; i < 8; i++ {
		be.PutUint32(buf[off:], c.D[i])
		off += 4
	}
	for i := 0; i < 8; i++ {
		be.PutUint32(buf[off:], c.A[i])
		off += 4
	}

	be.PutUint32(buf[off:], c.USP)
	off += 4
	be.PutUint32(buf[off:], c.SSP)
	off += 4
	be.PutUint32(buf[off:], c.PC)
	off += 4
	be.PutUint32(buf[off:], c.PPC)
	off += 4

	be.PutUint16(buf[off:], c.SR)
	off += 2
	be.PutUint16(buf[off:], c.IR)
	off += 2

	be.PutUint32(buf[off:], c.VBR)
	off += 4
	buf[off] = c.SFC
	off++
	buf[off] = c.DFC
	off++
	be.PutUint32(buf[off:], c.CACR)
	off += 4
	be.PutUint32(buf[off:], c.CAAR)
	off += 4

	buf[off] = c.Stopped
	off++
	buf[off] = uint8(c.RunMode)
	off++
	be.PutUint16(buf[off:], c.IntMask)
	off += 2
	buf[off] = c.IntPending
	off++
	buf[off] = c.IntAck
	off++

	be.PutUint64(buf[off:], c.CurrentCycle)
	off += 8
	be.PutUint64(buf[off:], c.TargetCycle)
	return nil
}

// Deserialize restores state previously written by Serialize.
func (c *CPU68k) Deserialize(buf []byte) error {
	if len(buf) < m68kSerializeSize {
		return errors.New("cpu: 68k deserialize buffer too small")
	}
	if buf[0] != m68kSerializeVersion {
		return errors.New("cpu: 68k snapshot version mismatch")
	}

	be := binary.BigEndian
	off := 1

	for i := 0; i < 8; i++ {
		c.D[i] = be.Uint32(buf[off:])
		off += 4
	}
	for i := 0; i < 8; i++ {
		c.A[i] = be.Uint32(buf[off:])
		off += 4
	}

	c.USP = be.Uint32(buf[off:])
	off += 4
	c.SSP = be.Uint32(buf[off:])
	off += 4
	c.PC = be.Uint32(buf[off:])
	off += 4
	c.PPC = be.Uint32(buf[off:])
	off += 4

	c.SR = be.Uint16(buf[off:])
	off += 2
	c.IR = be.Uint16(buf[off:])
	off += 2

	c.VBR = be.Uint32(buf[off:])
	off += 4
	c.SFC = buf[off]
	off++
	c.DFC = buf[off]
	off++
	c.CACR = be.Uint32(buf[off:])
	off += 4
	c.CAAR = be.Uint32(buf[off:])
	off += 4

	c.Stopped = buf[off]
	off++
	c.RunMode = RunMode(buf[off])
	off++
	c.IntMask = be.Uint16(buf[off:])
	off += 2
	c.IntPending = buf[off]
	off++
	c.IntAck = buf[off]
	off++

	c.CurrentCycle = be.Uint64(buf[off:])
	off += 8
	c.TargetCycle = be.Uint64(buf[off:])
	return nil
}
