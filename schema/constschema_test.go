package schema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/harmonize-build/harmonize/schedule"
	"github.com/harmonize-build/harmonize/typesig"
)

func TestConstSchema_RegistrationOrderPreserved(t *testing.T) {
	s := New("m")
	a := typesig.TypeSignature{Kind: typesig.KindOpaque, Id: typesig.NewStableId("c", "A")}
	b := typesig.TypeSignature{Kind: typesig.KindOpaque, Id: typesig.NewStableId("c", "B")}
	require.NoError(t, s.RegisterType(a))
	require.NoError(t, s.RegisterType(b))
	require.Equal(t, []typesig.TypeSignature{a, b}, s.Types())
}

func TestConstSchema_AddResourceRegistersType(t *testing.T) {
	s := New("m")
	ty := typesig.TypeSignature{Kind: typesig.KindOpaque, Id: typesig.NewStableId("c", "R")}
	require.NoError(t, s.AddResource(ty, []byte{1, 2}))
	require.Len(t, s.Types(), 1)
	require.Len(t, s.Resources(), 1)
	require.Equal(t, ty.Id, s.Resources()[0].Type)
}

func TestConstSchema_RejectsOverCapacity(t *testing.T) {
	s := New("m")
	for i := 0; i < MaxSchedules; i++ {
		require.NoError(t, s.AddSchedule(typesig.NewStableId("c", "L"), schedule.Schedule{}))
	}
	err := s.AddSchedule(typesig.NewStableId("c", "L"), schedule.Schedule{})
	require.Error(t, err)
}

func TestConstSchema_TypeCapacity(t *testing.T) {
	s := New("m")
	for i := 0; i < MaxTypes; i++ {
		require.NoError(t, s.RegisterType(typesig.TypeSignature{Kind: typesig.KindOpaque, Id: typesig.NewStableId("c", string(rune(i)))}))
	}
	err := s.RegisterType(typesig.TypeSignature{Kind: typesig.KindOpaque, Id: typesig.NewStableId("c", "overflow")})
	require.Error(t, err)
}
