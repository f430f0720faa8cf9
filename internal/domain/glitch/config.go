package glitch

import "bytes"

// PatternConfig is an immutable snapshot of the corruption parameters: the
// byte sequences to find and write, the target container, and the protection
// and activity flags. The engine replaces the whole value on every setter
// call; in-flight operations keep whichever snapshot they took at entry
// (last write wins, no mid-flight mutation).
type PatternConfig struct {
	SourceBytes      []byte
	DestBytes        []byte
	Mode             string
	HeaderProtection bool
	Active           bool
}

// WithPattern derives fresh source/dest byte sequences from the UTF-8
// encoding of the given strings. Empty strings are legal and disable
// substitution.
func (c PatternConfig) WithPattern(source, dest string) PatternConfig {
	c.SourceBytes = []byte(source)
	c.DestBytes = []byte(dest)
	return c
}

// WithMode records the requested container format. The value is not
// validated here: an unrecognised mode surfaces as ErrUnknownMode when the
// engine dispatches on it.
func (c PatternConfig) WithMode(mode string) PatternConfig {
	c.Mode = mode
	return c
}

func (c PatternConfig) WithHeaderProtection(enabled bool) PatternConfig {
	c.HeaderProtection = enabled
	return c
}

func (c PatternConfig) WithActive(enabled bool) PatternConfig {
	c.Active = enabled
	return c
}

// noop reports whether substitution is disabled by the pattern itself:
// identical sequences or an empty side mean there is nothing to rewrite.
func (c PatternConfig) noop() bool {
	if len(c.SourceBytes) == 0 || len(c.DestBytes) == 0 {
		return true
	}
	return bytes.Equal(c.SourceBytes, c.DestBytes)
}
