// Package logger writes gels diagnostics.
//
// Diagnostics are plain lines on stderr, one per problem, prefixed with the
// program name. None of them stop a listing.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/brickster241/gels/utils"
	"github.com/brickster241/gels/utils/constants"
	"github.com/fatih/color"
)

// Console logs diagnostics to a writer.
// Color output is enabled automatically when writing to a terminal.
type Console struct {
	writer      io.Writer
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsole creates a Console that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
func NewConsole(writer io.Writer) *Console {
	return &Console{
		writer:      writer,
		colorOutput: isTerminal(writer),
	}
}

// isTerminal checks if the writer is a terminal that supports colors. NO_COLOR and TERM=dumb turn colors off.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || !utils.IsTerminal(f) {
		return false
	}
	return os.Getenv("NO_COLOR") == "" && os.Getenv("TERM") != "dumb"
}

// Warnf logs a non-fatal problem: a stat failure, an unopenable repository or a dangling link.
func (c *Console) Warnf(format string, args ...any) {
	c.log(color.FgYellow, format, args...)
}

// Errorf logs a problem that makes the run fail.
func (c *Console) Errorf(format string, args ...any) {
	c.log(color.FgRed, format, args...)
}

func (c *Console) log(attr color.Attribute, format string, args ...any) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.writer == nil {
		return
	}

	prefix := constants.ProgramName + ":"
	if c.colorOutput {
		col := color.New(attr)
		col.EnableColor()
		prefix = col.Sprint(prefix)
	}

	message := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	fmt.Fprintf(c.writer, "%s %s\n", prefix, message)
}
