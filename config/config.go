// Package config holds the host-facing Config the pipeline driver reads
// its two filesystem roots from.
package config

// Config controls where the pipeline driver looks for plug-in sources and
// where its compiled outputs come from, with the default implementation as
// NewConfig.
type Config struct {
	cargoDir string
	watchDir string
}

// defaultConfig helps avoid copy/pasting the wrong defaults.
var defaultConfig = &Config{
	cargoDir: ".",
	watchDir: "./mods",
}

// NewConfig returns a Config with cargo dir "." and watch dir "./mods".
func NewConfig() *Config {
	return defaultConfig.clone()
}

// clone ensures all fields are copied even if nil.
func (c *Config) clone() *Config {
	ret := *c
	return &ret
}

// CargoDir is the directory the external compiler is invoked from.
func (c *Config) CargoDir() string { return c.cargoDir }

// WatchDir is the directory scanned for plug-in source files.
func (c *Config) WatchDir() string { return c.watchDir }

// WithCargoDir returns a copy of c with CargoDir set to dir.
func (c *Config) WithCargoDir(dir string) *Config {
	ret := c.clone()
	ret.cargoDir = dir
	return ret
}

// WithWatchDir returns a copy of c with WatchDir set to dir.
func (c *Config) WithWatchDir(dir string) *Config {
	ret := c.clone()
	ret.watchDir = dir
	return ret
}
