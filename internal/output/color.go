package output

import (
	"fmt"
	"io"

	"github.com/mattn/go-isatty"
)

// ColorMode is the value of the --color flag.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode validates a --color value. Empty means auto.
func ParseColorMode(s string) (ColorMode, error) {
	switch mode := ColorMode(s); mode {
	case "":
		return ColorAuto, nil
	case ColorAuto, ColorAlways, ColorNever:
		return mode, nil
	default:
		return "", NewUserError(fmt.Sprintf("invalid --color %q: use auto, always or never", s))
	}
}

// Enabled reports whether output to w should be styled.
func (m ColorMode) Enabled(w io.Writer) bool {
	switch m {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return IsTTY(w)
	}
}

// fder is implemented by *os.File.
type fder interface {
	Fd() uintptr
}

// IsTTY reports whether w is a terminal, including Cygwin and MSYS ptys.
func IsTTY(w io.Writer) bool {
	f, ok := w.(fder)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
