package manifest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/harmonize-build/harmonize/schedule"
	"github.com/harmonize-build/harmonize/typesig"
)

// TestEncodeDecode_RoundTrip builds a manifest exercising every TypeSignature
// kind, a resource, and a schedule with every constraint kind, then checks
// Decode(Encode(m)) reproduces it exactly.
func TestEncodeDecode_RoundTrip(t *testing.T) {
	keyTy := typesig.NewStableId("std", "String")
	valTy := typesig.NewStableId("std", "u32")

	m := ModManifest{
		WasmHash: WasmHash{1, 2, 3, 4},
		Types: []typesig.TypeSignature{
			{
				Kind: typesig.KindStruct, Id: typesig.NewStableId("game", "Position"),
				Size: u32(8), Align: u32(4), Generics: []typesig.StableId{},
				Fields: []typesig.FieldSignature{
					{Name: "x", Type: typesig.NewStableId("std", "f32")},
					{Name: "y", Type: typesig.NewStableId("std", "f32")},
				},
			},
			{
				Kind: typesig.KindEnum, Id: typesig.NewStableId("game", "Facing"),
				Generics: []typesig.StableId{},
				Variants: []typesig.VariantSignature{
					{Name: "North", Kind: typesig.VariantUnit},
					{Name: "Offset", Kind: typesig.VariantTuple, Tuple: []typesig.StableId{valTy}},
					{Name: "Named", Kind: typesig.VariantStruct, Fields: []typesig.FieldSignature{
						{Name: "amount", Type: valTy},
					}},
				},
			},
			{
				Kind: typesig.KindMap, Id: typesig.NewStableId("game", "Inventory"),
				Generics: []typesig.StableId{}, KeyType: &keyTy, ValueType: &valTy,
			},
			{
				Kind: typesig.KindArray, Id: typesig.NewStableId("game", "Grid"),
				Generics: []typesig.StableId{}, Elements: []typesig.StableId{valTy}, Len: u32(16),
			},
			{
				Kind: typesig.KindOpaque, Id: typesig.NewStableId("game", "Handle"),
				Size: u32(4), Align: u32(4), Generics: []typesig.StableId{},
			},
		},
		Features: []FeatureDescriptor{
			{
				Name: "game",
				Resources: []ResourceDefault{
					{Type: typesig.NewStableId("game", "Handle"), Default: []byte{9, 9, 9, 9}},
				},
				Schedules: []schedule.Descriptor{
					{
						Id:    typesig.NewStableId("bevy_harmonize", "Update"),
						Label: schedule.Update,
						Schedule: schedule.Schedule{
							Systems: []schedule.System{
								{Id: typesig.NewSystemId("game::move_player"), Name: "move_player", Params: []typesig.Param{
									typesig.CommandParam(),
									typesig.ResParam(typesig.NewStableId("game", "Handle"), true),
								}},
							},
							Constraints: []schedule.Constraint{
								schedule.OrderConstraint(
									schedule.AnonymousSet(typesig.NewSystemId("a")),
									schedule.AnonymousSet(typesig.NewSystemId("b")),
								),
								schedule.ConditionConstraint(
									schedule.AnonymousSet(typesig.NewSystemId("c")),
									typesig.NewSystemId("cond"),
								),
								schedule.IncludesConstraint(
									typesig.NewStableId("game", "Parent"),
									schedule.NamedSet(typesig.NewStableId("game", "Child")),
								),
							},
						},
					},
				},
			},
		},
	}

	encoded := Encode(m)
	decoded, err := Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, m, decoded)
}

func TestDecode_TruncatedBufferErrors(t *testing.T) {
	_, err := Decode([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestEncode_EmptyManifest(t *testing.T) {
	m := ModManifest{Types: []typesig.TypeSignature{}, Features: []FeatureDescriptor{}}
	decoded, err := Decode(Encode(m))
	require.NoError(t, err)
	require.Equal(t, m, decoded)
}
