package wasmrw

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/harmonize-build/harmonize/address"
	"github.com/harmonize-build/harmonize/typesig"
)

func addrFor(lo, size uint64) address.TypeAddress {
	s := uint32(size)
	a := uint32(1)
	return address.TypeAddress{
		Signature: typesig.TypeSignature{Kind: typesig.KindOpaque, Id: typesig.NewStableId("c", "T"), Size: &s, Align: &a},
		Address:   address.Range{Lo: lo, Hi: lo + size},
	}
}

// TestRetargetFunction_CarriedConstant reproduces the rewriter's worked
// example: an i32.const carrying 0xFFFFFE00 followed by a load at offset 4
// resolves to memory index 1, since 0xFFFFFE00+4 falls inside the known
// range.
func TestRetargetFunction_CarriedConstant(t *testing.T) {
	addrs := []address.TypeAddress{addrFor(0xFFFFFE00, 256)}

	fn := Function{Instructions: []Instruction{
		{Opcode: OpI32Const, I32Const: int32(uint32(0xFFFFFE00))},
		{Opcode: OpI32Load, MemArg: &MemArg{Offset: 4}},
	}}

	n := retargetFunction(&fn, addrs, logrus.NewEntry(logrus.New()), 0)

	require.Equal(t, 1, n)
	require.True(t, fn.Instructions[1].Retargeted)
	require.Equal(t, uint32(1), fn.Instructions[1].MemArg.MemoryIndex)
}

// TestRetargetFunction_NoCarryNoMatch reproduces the negative case: a bare
// load with no preceding i32.const and no containing range is left alone.
func TestRetargetFunction_NoCarryNoMatch(t *testing.T) {
	addrs := []address.TypeAddress{addrFor(0xFFFFFE00, 256)}

	fn := Function{Instructions: []Instruction{
		{Opcode: OpI32Load, MemArg: &MemArg{Offset: 4}},
	}}

	n := retargetFunction(&fn, addrs, nil, 0)

	require.Zero(t, n)
	require.False(t, fn.Instructions[0].Retargeted)
}

// TestRetargetFunction_CarryClearedByIntervening verifies the carry is
// dropped by an intervening non-i32.const instruction (a drop), so the
// following load is not retargeted.
func TestRetargetFunction_CarryClearedByIntervening(t *testing.T) {
	addrs := []address.TypeAddress{addrFor(0xFFFFFE00, 256)}

	fn := Function{Instructions: []Instruction{
		{Opcode: OpI32Const, I32Const: int32(uint32(0xFFFFFE00))},
		{Opcode: OpDrop},
		{Opcode: OpI32Load, MemArg: &MemArg{Offset: 4}},
	}}

	n := retargetFunction(&fn, addrs, nil, 0)

	require.Zero(t, n)
}

func TestInstructionEncode_RoundTripsUnretargeted(t *testing.T) {
	raw := []byte{byte(OpI32Load), 0x02, 0x04}
	i := Instruction{Opcode: OpI32Load, MemArg: &MemArg{Align: 2, Offset: 4}, Raw: raw}
	require.Equal(t, raw, i.encode(nil))
}

func TestInstructionEncode_RetargetedSetsMultiMemoryFlag(t *testing.T) {
	i := Instruction{Opcode: OpI32Load, Retargeted: true, MemArg: &MemArg{Align: 2, MemoryIndex: 3, Offset: 4}}
	out := i.encode(nil)

	decoded, _, err := decodeInstruction(out, 0)
	require.NoError(t, err)
	require.True(t, decoded.MemArg.explicitMemIdx)
	require.Equal(t, uint32(3), decoded.MemArg.MemoryIndex)
	require.Equal(t, uint32(4), decoded.MemArg.Offset)
}
