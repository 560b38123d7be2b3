package executor

import (
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/doeshing/wtf-go/internal/domain"
	"github.com/doeshing/wtf-go/internal/ports"
)

// SyntaxChecker parses commands for POSIX-family shells before they run.
// Shells the parser does not understand are skipped.
type SyntaxChecker struct {
	shell string
}

// NewSyntaxChecker checks commands as written for shell.
func NewSyntaxChecker(shell string) *SyntaxChecker {
	return &SyntaxChecker{shell: shell}
}

// Review implements ports.CommandReviewer.
func (s *SyntaxChecker) Review(command string) []domain.Finding {
	variant, ok := parserVariant(s.shell)
	if !ok {
		return nil
	}
	parser := syntax.NewParser(syntax.Variant(variant))
	if _, err := parser.Parse(strings.NewReader(command), ""); err != nil {
		return []domain.Finding{{
			Level:   domain.RiskMedium,
			Message: fmt.Sprintf("%s syntax error: %v", s.shell, err),
		}}
	}
	return nil
}

func parserVariant(shell string) (syntax.LangVariant, bool) {
	switch shell {
	case "bash":
		return syntax.LangBash, true
	case "sh", "dash", "ash":
		return syntax.LangPOSIX, true
	case "ksh", "mksh":
		return syntax.LangMirBSDKorn, true
	default:
		return 0, false
	}
}

var _ ports.CommandReviewer = (*SyntaxChecker)(nil)
