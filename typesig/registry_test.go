package typesig

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_FirstSeenOrderPreserved(t *testing.T) {
	r := NewRegistry()
	r.Register(TypeSignature{Kind: KindOpaque, Id: NewStableId("c", "B")})
	r.Register(TypeSignature{Kind: KindOpaque, Id: NewStableId("c", "A")})
	r.Register(TypeSignature{Kind: KindOpaque, Id: NewStableId("c", "B")})

	sigs := r.Signatures()
	require.Len(t, sigs, 2)
	require.Equal(t, "B", sigs[0].Id.Name)
	require.Equal(t, "A", sigs[1].Id.Name)
}

func TestRegistry_RefinesInPlaceWithoutMovingPosition(t *testing.T) {
	size, align := uint32(4), uint32(4)
	r := NewRegistry()
	r.Register(TypeSignature{Kind: KindOpaque, Id: NewStableId("c", "A")})
	r.Register(TypeSignature{Kind: KindOpaque, Id: NewStableId("c", "B")})
	r.Register(TypeSignature{Kind: KindOpaque, Id: NewStableId("c", "A"), Size: &size, Align: &align})

	sigs := r.Signatures()
	require.Len(t, sigs, 2)
	require.Equal(t, "A", sigs[0].Id.Name)
	require.True(t, sigs[0].HasLayout())
	require.Equal(t, "B", sigs[1].Id.Name)
}

func TestRegistry_DoesNotOverwriteLayoutWithNoLayout(t *testing.T) {
	size, align := uint32(4), uint32(4)
	r := NewRegistry()
	r.Register(TypeSignature{Kind: KindOpaque, Id: NewStableId("c", "A"), Size: &size, Align: &align})
	r.Register(TypeSignature{Kind: KindOpaque, Id: NewStableId("c", "A")})

	sigs := r.Signatures()
	require.True(t, sigs[0].HasLayout())
}

func TestNewSystemId_Deterministic(t *testing.T) {
	require.Equal(t, NewSystemId("crate::module::func"), NewSystemId("crate::module::func"))
	require.NotEqual(t, NewSystemId("crate::module::func"), NewSystemId("crate::module::other"))
}

func TestValidLayout(t *testing.T) {
	mk := func(size, align uint32) TypeSignature {
		return TypeSignature{Kind: KindStruct, Size: &size, Align: &align}
	}
	require.True(t, mk(128, 128).ValidLayout())
	require.False(t, mk(128, 256).ValidLayout())
	require.False(t, mk(0, 4).ValidLayout())
	require.False(t, mk(4, 0).ValidLayout())
	require.False(t, mk(3, 3).ValidLayout())
	require.False(t, mk(4, 8).ValidLayout())
	require.True(t, TypeSignature{Kind: KindList}.ValidLayout())
}
