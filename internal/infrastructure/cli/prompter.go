package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/doeshing/wtf-go/internal/domain"
	"github.com/doeshing/wtf-go/internal/ports"
)

// Prompter implements ConfirmationPrompter using stdin/stderr.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter constructs a prompter referencing stdio.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stderr
	}
	return &Prompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Confirm lists findings and asks before command runs. End of input declines.
func (p *Prompter) Confirm(command string, findings []domain.Finding) (bool, error) {
	if len(findings) > 0 {
		fmt.Fprintln(p.out)
		for _, finding := range findings {
			fmt.Fprintf(p.out, "%s %s\n", findingLabel(finding.Level), finding.Message)
		}
	}
	fmt.Fprintf(p.out, "\nAbout to execute: %s\nContinue? [y/N]: ", command)

	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	if errors.Is(err, io.EOF) && line == "" {
		fmt.Fprintln(p.out)
		return false, nil
	}
	line = strings.ToLower(strings.TrimSpace(line))
	return line == "y" || line == "yes", nil
}

func findingLabel(level domain.RiskLevel) string {
	label := "[" + strings.ToUpper(string(level)) + "]"
	if level.Severity() >= domain.RiskHigh.Severity() {
		return errorStyle.Render(label)
	}
	return warnStyle.Render(label)
}

var _ ports.ConfirmationPrompter = (*Prompter)(nil)
