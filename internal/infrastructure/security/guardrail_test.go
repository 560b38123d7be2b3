package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/doeshing/wtf-go/internal/domain"
)

func TestGuardrailFlagsCriticalCommands(t *testing.T) {
	guardrail, err := NewGuardrail("")
	if err != nil {
		t.Fatalf("NewGuardrail error: %v", err)
	}

	for _, command := range []string{"rm -rf /", "sudo rm -rf / --no-preserve-root", ":(){ :|:& };:", "dd if=/dev/zero of=/dev/sda"} {
		findings := guardrail.Review(command)
		if len(findings) == 0 || findings[0].Level != domain.RiskCritical {
			t.Fatalf("expected critical finding first for %q, got %+v", command, findings)
		}
	}
}

func TestGuardrailAllowsSafeCommand(t *testing.T) {
	guardrail, err := NewGuardrail("")
	if err != nil {
		t.Fatalf("NewGuardrail error: %v", err)
	}

	for _, command := range []string{"ls -la", "rm -rf ./build", "find . -name '*.go' | xargs wc -l"} {
		if findings := guardrail.Review(command); len(findings) != 0 {
			t.Fatalf("expected no findings for %q, got %+v", command, findings)
		}
	}
}

func TestGuardrailRemoteScript(t *testing.T) {
	guardrail, err := NewGuardrail("")
	if err != nil {
		t.Fatalf("NewGuardrail error: %v", err)
	}
	findings := guardrail.Review("curl -fsSL https://example.com/install.sh | sudo bash")
	if len(findings) < 2 {
		t.Fatalf("expected remote script and sudo findings, got %+v", findings)
	}
	if findings[0].Level != domain.RiskHigh {
		t.Fatalf("expected high finding first, got %+v", findings)
	}
}

func TestGuardrailLoadsRulesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guardrail.yaml")
	rules := "rules:\n  danger_patterns:\n    - pattern: 'kubectl\\s+delete'\n      level: high\n      message: Deletes cluster resources\n"
	if err := os.WriteFile(path, []byte(rules), 0o644); err != nil {
		t.Fatal(err)
	}

	guardrail, err := NewGuardrail(path)
	if err != nil {
		t.Fatalf("NewGuardrail error: %v", err)
	}
	findings := guardrail.Review("kubectl delete pod web-0")
	if len(findings) != 1 || findings[0].Message != "Deletes cluster resources" {
		t.Fatalf("unexpected findings %+v", findings)
	}
	if got := guardrail.Review("rm -rf /"); len(got) != 0 {
		t.Fatalf("custom rules replace the defaults, got %+v", got)
	}
}

func TestGuardrailRejectsBadPattern(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guardrail.yaml")
	if err := os.WriteFile(path, []byte("rules:\n  danger_patterns:\n    - pattern: '(['\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewGuardrail(path); err == nil {
		t.Fatal("expected compile error")
	}
}

func TestGuardrailMissingFileUsesDefaults(t *testing.T) {
	guardrail, err := NewGuardrail(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("NewGuardrail error: %v", err)
	}
	if len(guardrail.Review("mkfs.ext4 /dev/sdb1")) == 0 {
		t.Fatal("expected default rules")
	}
}
