// Package console handles the interactive prompts of the run command.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// maxAttempts bounds how often Int re-asks after invalid input.
const maxAttempts = 3

var (
	labelColor = color.New(color.FgCyan, color.Bold)
	errColor   = color.New(color.FgRed)
)

// Prompter reads answers line by line from r and writes prompts to w.
type Prompter struct {
	r *bufio.Reader
	w io.Writer
}

// New returns a Prompter over r and w.
func New(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{r: bufio.NewReader(r), w: w}
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p *Prompter) ask(label, def string) (string, error) {
	if def != "" {
		labelColor.Fprintf(p.w, "%s [%s]: ", label, def)
	} else {
		labelColor.Fprintf(p.w, "%s: ", label)
	}
	ans, err := p.readLine()
	if err != nil {
		return "", err
	}
	if ans == "" {
		return def, nil
	}
	return ans, nil
}

// String asks for a value. An empty answer selects def. Surrounding quotes
// are removed so paths pasted from Explorer work.
func (p *Prompter) String(label, def string) (string, error) {
	ans, err := p.ask(label, def)
	if err != nil {
		return "", err
	}
	return strings.Trim(ans, `"'`), nil
}

// Int asks for a non-negative integer, re-asking on invalid input.
func (p *Prompter) Int(label string, def int) (int, error) {
	for range maxAttempts {
		ans, err := p.ask(label, strconv.Itoa(def))
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(ans)
		if err == nil && n >= 0 {
			return n, nil
		}
		errColor.Fprintf(p.w, "  %q is not a valid count\n", ans)
	}
	return 0, fmt.Errorf("no valid %s after %d attempts", strings.ToLower(label), maxAttempts)
}

// Pause prints msg and waits for Enter. End of input counts as Enter.
func (p *Prompter) Pause(msg string) {
	fmt.Fprint(p.w, msg)
	_, _ = p.readLine()
}
