// m68k_vectors.go - exception vector numbers

/*
(c) 2024 - 2026 Zayn Otley

License: GPLv3 or later
*/

package cpu

const (
	VecResetSSP         uint16 = 0
	VecResetPC          uint16 = 1
	VecBusError         uint16 = 2
	VecAddressError     uint16 = 3
	VecIllegal          uint16 = 4
	VecZeroDivide       uint16 = 5
	VecCHK              uint16 = 6
	VecTrapV            uint16 = 7
	VecPrivilege        uint16 = 8
	VecTrace            uint16 = 9
	VecLineA            uint16 = 10
	VecLineF            uint16 = 11
	VecFormatError      uint16 = 14
	VecUninitializedInt uint16 = 15
	VecSpurious         uint16 = 24
	VecAutovector1      uint16 = 25
	VecAutovector7      uint16 = 31
	VecTrapBase         uint16 = 32
	VecFPBase           uint16 = 48
	VecMMUBase          uint16 = 56
	VecUserBase         uint16 = 64
)
