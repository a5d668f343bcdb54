//go:build !linux

package main

import "github.com/pkg/errors"

// setRawIO has no termios-based implementation outside Linux in this
// repository; non-Linux builds fall back to line-buffered input
// (mirrors cmd/retro/term_windows.go's stub).
func setRawIO() (func(), error) {
	return nil, errors.New("raw IO not supported on this platform")
}
