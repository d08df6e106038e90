package wheel

// NumbersPerByte is the numeric width of one sieve byte.
const NumbersPerByte = 30

// BitValues maps each bit position of a sieve byte to its numeric offset
// relative to the start of the byte's 30-block. Offset 31 denotes offset 1
// of the following block.
var BitValues = [8]uint64{7, 11, 13, 17, 19, 23, 29, 31}

// Gaps holds the distances between consecutive wheel residues, indexed by
// the wheel index of the current residue: 1->7, 7->11, 11->13, 13->17,
// 17->19, 19->23, 23->29, 29->31.
var Gaps = [8]uint64{6, 4, 2, 4, 2, 4, 6, 2}

// indexes maps a residue mod 30 to its wheel index (position within the
// ascending residue sequence 1, 7, 11, 13, 17, 19, 23, 29), or 0xff for
// residues that are not coprime to 30.
var indexes = [30]uint8{
	0xff, 0, 0xff, 0xff, 0xff, 0xff, 0xff, 1, 0xff, 0xff,
	0xff, 2, 0xff, 3, 0xff, 0xff, 0xff, 4, 0xff, 5,
	0xff, 0xff, 0xff, 6, 0xff, 0xff, 0xff, 0xff, 0xff, 7,
}

// nextOffsets maps a residue mod 30 to the distance up to the next residue
// coprime to 30 (0 if the residue itself is coprime).
var nextOffsets = [30]uint64{
	1, 0, 5, 4, 3, 2, 1, 0, 3, 2,
	1, 0, 1, 0, 3, 2, 1, 0, 1, 0,
	3, 2, 1, 0, 5, 4, 3, 2, 1, 0,
}

// bitMasks maps a residue mod 30 to the single-bit mask of its sieve bit,
// or 0 for residues that are not coprime to 30. Residue 1 belongs to the
// previous byte (offset 31) and is handled separately by ClearBit.
var bitMasks = [30]uint8{
	0, 0, 0, 0, 0, 0, 0, 0x01, 0, 0,
	0, 0x02, 0, 0x04, 0, 0, 0, 0x08, 0, 0x10,
	0, 0, 0, 0x20, 0, 0, 0, 0, 0, 0x40,
}

// ByteRemainder returns the position of n within its 30-block, folding
// remainders of 0 and 1 upward by 30 so the result always lands on or
// between representable offsets. The result is in [2, 31].
func ByteRemainder(n uint64) uint64 {
	r := n % NumbersPerByte
	if r <= 1 {
		r += NumbersPerByte
	}
	return r
}

// LowerBoundMask returns the byte mask that clears all bits whose numeric
// offset is below rem. rem must be a ByteRemainder result.
func LowerBoundMask(rem uint64) uint8 {
	i := 0
	for i < 8 && BitValues[i] < rem {
		i++
	}
	return uint8(0xff << i)
}

// UpperBoundMask returns the byte mask that clears all bits whose numeric
// offset is above rem. rem must be a ByteRemainder result. A remainder
// beyond all representable offsets exhausts the scan and keeps every bit.
func UpperBoundMask(rem uint64) uint8 {
	i := 0
	for i < 8 && BitValues[i] <= rem {
		i++
	}
	return ^uint8(0xff << i)
}

// ClearBit clears the candidate bit of the coprime number at offset off
// from the segment base. The base must be 30-aligned and off must be the
// offset of a number coprime to 30 that is representable in the segment,
// i.e. off >= 7.
func ClearBit(sieve []byte, off uint64) {
	i := off / NumbersPerByte
	r := off % NumbersPerByte
	if r == 1 {
		sieve[i-1] &^= 0x80
		return
	}
	sieve[i] &^= bitMasks[r]
}

// Index returns the wheel index of a residue coprime to 30.
func Index(rem uint64) uint8 {
	return indexes[rem]
}

// FirstMultiple returns the smallest multiple m of the sieving prime p that
// is coprime to 30 and >= max(p*p, low+7), together with the wheel index of
// its cofactor. Stepping m by p*Gaps[idx] (advancing idx cyclically) visits
// exactly the coprime multiples of p in ascending order.
func FirstMultiple(p, low uint64) (m uint64, idx uint8) {
	min := low + 7
	if pp := p * p; pp > min {
		min = pp
	}
	q := (min + p - 1) / p
	q += nextOffsets[q%NumbersPerByte]
	return p * q, indexes[q%NumbersPerByte]
}
