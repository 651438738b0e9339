// Package fmtx is the formatting surface used for log lines and console
// output. Keeping call sites on fmtx lets firmware builds swap in a
// smaller formatter without touching them.
package fmtx

import (
	"fmt"
	"io"
)

func Sprintf(format string, a ...any) string                    { return fmt.Sprintf(format, a...) }
func Sprint(a ...any) string                                    { return fmt.Sprint(a...) }
func Fprintf(w io.Writer, format string, a ...any) (int, error) { return fmt.Fprintf(w, format, a...) }
func Fprint(w io.Writer, a ...any) (int, error)                 { return fmt.Fprint(w, a...) }
