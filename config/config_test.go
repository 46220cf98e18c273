package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	c := NewConfig()
	require.Equal(t, ".", c.CargoDir())
	require.Equal(t, "./mods", c.WatchDir())
}

func TestWithCargoDir_ClonesRatherThanMutates(t *testing.T) {
	c := NewConfig()
	c2 := c.WithCargoDir("/other")
	require.Equal(t, ".", c.CargoDir())
	require.Equal(t, "/other", c2.CargoDir())
}

func TestWithWatchDir_ClonesRatherThanMutates(t *testing.T) {
	c := NewConfig()
	c2 := c.WithWatchDir("/mods2")
	require.Equal(t, "./mods", c.WatchDir())
	require.Equal(t, "/mods2", c2.WatchDir())
}
