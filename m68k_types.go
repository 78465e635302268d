// m68k_types.go - 68000-family register file, variant gating and options

/*
(c) 2024 - 2026 Zayn Otley

License: GPLv3 or later
*/

/*
Architectural state of the 68k core and the variant-gating scheme that
lets one interpreter serve the 68000, 68010, 68020/EC020, 68030/EC030,
68040/EC040, CPU32, and ColdFire members of the family.

Each variant exposes its own legal-SR-bits mask, address-space width and
stack-frame behaviour, selected once at construction from a per-variant
profile table. Opcode availability is gated off the profile's bitmask at
decode time.
*/

package cpu

// Variant identifies one member of the 68000 family.
type Variant int

const (
	Variant68000 Variant = iota
	Variant68010
	Variant68020
	Variant68030
	Variant68040
	VariantCPU32
	VariantColdfire
)

// VariantMask gates opcode availability and decode behaviour.
type VariantMask uint16

const (
	Mask24BitSpace VariantMask = 1 << 0
	Mask32BitSpace VariantMask = 1 << 1
	Mask010OrLater VariantMask = 1 << 2
	Mask020OrLater VariantMask = 1 << 3
	Mask030OrLater VariantMask = 1 << 4
	Mask040OrLater VariantMask = 1 << 5
)

// variantProfile collects the per-variant facts the interpreter consults
// at construction and during exception processing.
type variantProfile struct {
	masks        VariantMask
	legalSRMask  uint16
	hasMBit      bool // M bit in SR, 68020+
	addressWidth uint32
}

var variantProfiles = map[Variant]variantProfile{
	Variant68000: {
		masks:       Mask24BitSpace,
		legalSRMask: 0xA71F, // T1 S - I2I1I0 - - - X N Z V C (no T0, no M)
	},
	Variant68010: {
		masks:       Mask24BitSpace | Mask010OrLater,
		legalSRMask: 0xA71F,
	},
	Variant68020: {
		masks:        Mask32BitSpace | Mask010OrLater | Mask020OrLater,
		legalSRMask:  0xF71F,
		hasMBit:      true,
		addressWidth: 0xFFFFFFFF,
	},
	Variant68030: {
		masks:        Mask32BitSpace | Mask010OrLater | Mask020OrLater | Mask030OrLater,
		legalSRMask:  0xF71F,
		hasMBit:      true,
		addressWidth: 0xFFFFFFFF,
	},
	Variant68040: {
		masks:        Mask32BitSpace | Mask010OrLater | Mask020OrLater | Mask030OrLater | Mask040OrLater,
		legalSRMask:  0xF71F,
		hasMBit:      true,
		addressWidth: 0xFFFFFFFF,
	},
	VariantCPU32: {
		masks:       Mask24BitSpace | Mask010OrLater,
		legalSRMask: 0xA71F,
	},
	VariantColdfire: {
		masks:        Mask32BitSpace | Mask010OrLater | Mask020OrLater,
		legalSRMask:  0xA71F,
		addressWidth: 0xFFFFFFFF,
	},
}

// SR / CCR bit masks: T1 T0 S M 0 I2 I1 I0 0 0 0 X N Z V C.
const (
	SRFlagC    uint16 = 0x0001
	SRFlagV    uint16 = 0x0002
	SRFlagZ    uint16 = 0x0004
	SRFlagN    uint16 = 0x0008
	SRFlagX    uint16 = 0x0010
	SRMaskIPL  uint16 = 0x0700
	SRFlagM    uint16 = 0x1000
	SRFlagS    uint16 = 0x2000
	SRFlagT0   uint16 = 0x4000
	SRFlagT1   uint16 = 0x8000
	SRMaskCCR  uint16 = 0x001F
	SRIPLShift        = 8
)

// Operand sizes.
const (
	SizeByte = iota
	SizeWord
	SizeLong
)

// stopped bit flags.
const (
	StopLevelStop uint8 = 1 << 0
	StopLevelHalt uint8 = 1 << 1
)

// RunMode is the 68k's exception-state machine. Reset processing runs in
// RunModeBerrAerrReset so trace stays disabled during the reset sequence.
type RunMode int

const (
	RunModeNormal RunMode = iota
	RunModeBerrAerrReset
)

// InterruptAck is the result a vector resolver hands back to the
// interrupt-servicing path.
type InterruptAck int

const (
	AckVectored InterruptAck = iota
	AckAutovector
	AckSpurious
)

// Options configures a CPU68k at construction.
type Options struct {
	Variant      Variant
	ClockDivider uint32 // multiplies every cycle-table entry once; 0 treated as 1
}

// CPU68k is the 68000-family architectural state and interpreter.
type CPU68k struct {
	D [8]uint32
	A [8]uint32

	// USP/SSP shadow the inactive A7; the active copy is exchanged
	// exactly on the S-bit edge.
	USP uint32
	SSP uint32

	PC  uint32
	PPC uint32
	SR  uint16
	IR  uint16

	VBR  uint32 // vector base register, 68010+
	SFC  uint8
	DFC  uint8
	CACR uint32 // 68020+, held but not interpreted
	CAAR uint32

	Stopped    uint8
	RunMode    RunMode
	InstrMode  int
	IntMask    uint16
	IntPending uint8
	IntAck     uint8

	CurrentCycle uint64
	TargetCycle  uint64

	variant      Variant
	profile      variantProfile
	clockDivider uint32

	cycInstruction []uint8  // 65536 entries, pre-scaled by the clock divider
	cycException   []uint16 // 256 entries
	eaIdxCycle     [64]uint8

	mem           *Map
	readPointers  [256][]byte
	writePointers [256][]byte

	// InterruptAcknowledge resolves the vector for a pending interrupt
	// level. A nil hook always autovectors.
	InterruptAcknowledge func(level uint8) (ack InterruptAck, vector uint16)

	// UnemulatedException is invoked for bus/address/format/FP/MMU
	// exceptions, which are counted in cycles but never delivered.
	UnemulatedException func(vector uint8)

	// ResetPeripherals is invoked by the RESET instruction, which pulses
	// the external reset line without touching CPU state. The Genesis
	// wires this to the Z80/VDP reset circuitry.
	ResetPeripherals func()
}

// NewCPU68k constructs a 68k interpreter over mem, wiring the fast-path
// pointer tables and variant-specific cycle tables, then performs the
// power-on reset.
func NewCPU68k(mem *Map, opts Options) *CPU68k {
	if mem == nil {
		panic("cpu: NewCPU68k requires a non-nil memory map")
	}
	profile, ok := variantProfiles[opts.Variant]
	if !ok {
		panic("cpu: unknown 68k variant")
	}
	divider := opts.ClockDivider
	if divider == 0 {
		divider = 1
	}
	c := &CPU68k{
		variant:      opts.Variant,
		profile:      profile,
		clockDivider: divider,
		mem:          mem,
	}
	c.buildCycleTables()
	c.readPointers = toFixed256(mem.buildPointerTable(16, 256, FlagRead))
	c.writePointers = toFixed256(mem.buildPointerTable(16, 256, FlagWrite))
	c.Reset()
	return c
}

// RebuildPointerTables re-walks the memory map, picking up bank switches
// applied to PTR_IDX chunks since construction.
func (c *CPU68k) RebuildPointerTables() {
	c.readPointers = toFixed256(c.mem.buildPointerTable(16, 256, FlagRead))
	c.writePointers = toFixed256(c.mem.buildPointerTable(16, 256, FlagWrite))
}

func toFixed256(s [][]byte) [256][]byte {
	var out [256][]byte
	copy(out[:], s)
	return out
}

func (c *CPU68k) addressMask(addr uint32) uint32 {
	if c.profile.masks&Mask24BitSpace != 0 {
		return addr & 0x00FFFFFF
	}
	return addr
}
