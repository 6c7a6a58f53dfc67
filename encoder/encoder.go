// Package encoder writes rendered tones to FLAC.
package encoder

const (
	Channels      = 1
	BitsPerSample = 16
	BlockSize     = 4096
)
