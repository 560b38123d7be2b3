package security

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/wtf-go/internal/domain"
	"github.com/doeshing/wtf-go/internal/ports"
)

// Guardrail flags generated commands that match known dangerous patterns.
type Guardrail struct {
	patterns []compiledPattern
}

type compiledPattern struct {
	re   *regexp.Regexp
	rule DangerPattern
}

// DangerPattern describes a regex-based guardrail rule.
type DangerPattern struct {
	Pattern string `yaml:"pattern"`
	Level   string `yaml:"level"`
	Message string `yaml:"message"`
}

// RulesFile is the YAML schema root.
type RulesFile struct {
	Rules struct {
		DangerPatterns []DangerPattern `yaml:"danger_patterns"`
	} `yaml:"rules"`
}

// NewGuardrail loads rules from path, using the built-in rules when path is
// empty, missing, or lists no patterns.
func NewGuardrail(path string) (*Guardrail, error) {
	rules, err := loadRules(path)
	if err != nil {
		return nil, err
	}

	compiled := make([]compiledPattern, 0, len(rules.Rules.DangerPatterns))
	for _, pattern := range rules.Rules.DangerPatterns {
		re, err := regexp.Compile(pattern.Pattern)
		if err != nil {
			return nil, fmt.Errorf("guardrail pattern %q: %w", pattern.Pattern, err)
		}
		compiled = append(compiled, compiledPattern{re: re, rule: pattern})
	}
	return &Guardrail{patterns: compiled}, nil
}

// Review implements ports.CommandReviewer. Findings are ordered most severe first.
func (g *Guardrail) Review(command string) []domain.Finding {
	var findings []domain.Finding
	for _, pattern := range g.patterns {
		if pattern.re.MatchString(command) {
			findings = append(findings, domain.Finding{
				Level:   parseRiskLevel(pattern.rule.Level),
				Message: pattern.rule.Message,
			})
		}
	}
	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Level.Severity() > findings[j].Level.Severity()
	})
	return findings
}

func loadRules(path string) (RulesFile, error) {
	var rules RulesFile
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &rules); err != nil {
				return RulesFile{}, fmt.Errorf("parse guardrail rules %s: %w", path, err)
			}
		case !errors.Is(err, fs.ErrNotExist):
			return RulesFile{}, err
		}
	}
	if len(rules.Rules.DangerPatterns) == 0 {
		rules.Rules.DangerPatterns = defaultPatterns()
	}
	return rules, nil
}

func parseRiskLevel(value string) domain.RiskLevel {
	switch strings.ToLower(value) {
	case "critical":
		return domain.RiskCritical
	case "high":
		return domain.RiskHigh
	case "medium":
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

func defaultPatterns() []DangerPattern {
	return []DangerPattern{
		{Pattern: `rm\s+-(rf|fr)\s+/(\s|$)`, Level: "critical", Message: "Deleting root directory"},
		{Pattern: `rm\s+-(rf|fr)\s+\*`, Level: "critical", Message: "Recursive delete everything"},
		{Pattern: `rm\s+-(rf|fr)\s+(~|\$HOME)`, Level: "high", Message: "Deleting home directory"},
		{Pattern: `dd\s+if=`, Level: "critical", Message: "Raw disk writing"},
		{Pattern: `mkfs\.`, Level: "critical", Message: "Formatting filesystem"},
		{Pattern: `>\s*/dev/(sd[a-z]|nvme|disk)`, Level: "critical", Message: "Writing to block device"},
		{Pattern: `:\(\)\s*\{\s*:\|:&\s*\};\s*:`, Level: "critical", Message: "Fork bomb"},
		{Pattern: `(curl|wget).*\|\s*(sudo\s+)?(ba|z)?sh`, Level: "high", Message: "Piping a remote script into a shell"},
		{Pattern: `chmod\s+(-R\s+)?777`, Level: "medium", Message: "Overly permissive chmod"},
		{Pattern: `\bsudo\b`, Level: "medium", Message: "Runs with elevated privileges"},
		{Pattern: `git\s+push\s+.*(--force|-f)\b`, Level: "medium", Message: "Force push rewrites remote history"},
		{Pattern: `\b(shutdown|reboot|halt)\b`, Level: "medium", Message: "Stops or restarts the machine"},
	}
}

var _ ports.CommandReviewer = (*Guardrail)(nil)
