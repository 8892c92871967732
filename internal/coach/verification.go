package coach

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// VerificationRule associates trigger keywords with the verification
// commands suggested when any keyword appears in the prompt. Triggers are
// matched as case-insensitive substrings.
type VerificationRule struct {
	// Name identifies the technical domain the rule covers.
	Name string `yaml:"name" validate:"required"`

	// Triggers is the keyword set; one hit fires the rule.
	Triggers []string `yaml:"triggers" validate:"required,min=1,dive,required"`

	// Commands are the suggested checks, emitted in declaration order.
	Commands []string `yaml:"commands" validate:"required,min=1,dive,required"`
}

// DefaultVerificationRules is the built-in ordered rule table. Rules fire in
// declaration order; duplicate commands across rules are suppressed.
func DefaultVerificationRules() []VerificationRule {
	return []VerificationRule{
		{
			Name:     "ansible",
			Triggers: []string{"ansible", "playbook", "idempotent"},
			Commands: []string{
				"ansible-lint playbook.yml",
				"ansible-playbook --syntax-check playbook.yml",
				"ansible-playbook --check playbook.yml",
			},
		},
		{
			Name:     "python",
			Triggers: []string{"python", "pytest", "pip ", "def "},
			Commands: []string{
				"ruff check .",
				"mypy .",
				"pytest -q",
			},
		},
		{
			Name:     "postgres",
			Triggers: []string{"postgres", "postgresql", "psql", "sql"},
			Commands: []string{
				`psql -v ON_ERROR_STOP=1 --single-transaction -f migration.sql --echo-errors`,
				`psql -c "EXPLAIN ANALYZE <query>"`,
			},
		},
		{
			Name:     "shell",
			Triggers: []string{"bash", "shell script", "sh script", "#!/bin"},
			Commands: []string{
				"shellcheck script.sh",
				"bash -n script.sh",
			},
		},
		{
			Name:     "terraform",
			Triggers: []string{"terraform", "hcl"},
			Commands: []string{
				"terraform fmt -check",
				"terraform validate",
				"terraform plan",
			},
		},
		{
			Name:     "docker",
			Triggers: []string{"docker", "dockerfile", "container image"},
			Commands: []string{
				"hadolint Dockerfile",
				"docker build --no-cache .",
			},
		},
		{
			Name:     "kubernetes",
			Triggers: []string{"kubernetes", "k8s", "kubectl", "helm"},
			Commands: []string{
				"kubeconform manifest.yaml",
				"kubectl apply --dry-run=server -f manifest.yaml",
			},
		},
		{
			Name:     "go",
			Triggers: []string{"golang", " go ", "go module", "goroutine"},
			Commands: []string{
				"go vet ./...",
				"go test ./...",
			},
		},
		{
			Name:     "yaml",
			Triggers: []string{"yaml", "yml"},
			Commands: []string{
				"yamllint .",
			},
		},
	}
}

// RulesFromYAML decodes a rule table from YAML, preserving document order.
// Each rule must declare at least one trigger and one command.
//
// Example document:
//
//	- name: ansible
//	  triggers: [ansible, playbook]
//	  commands: ["ansible-lint playbook.yml"]
func RulesFromYAML(data []byte) ([]VerificationRule, error) {
	var rules []VerificationRule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("decode verification rules: %w", err)
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("verification rule table is empty")
	}
	for i, rule := range rules {
		if err := validate.Struct(rule); err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i, rule.Name, err)
		}
	}
	return rules, nil
}

// InferVerification returns the verification commands whose rules fire for
// text, in rule-declaration order with duplicates suppressed. Matching is
// case-insensitive and idempotent: repeated trigger keywords in the input
// change nothing. No match yields an empty list.
func InferVerification(text string, rules []VerificationRule) []string {
	folded := normalize(text)

	var commands []string
	seen := make(map[string]struct{})

	for _, rule := range rules {
		fired := false
		for _, trigger := range rule.Triggers {
			if strings.Contains(folded, normalize(trigger)) {
				fired = true
				break
			}
		}
		if !fired {
			continue
		}
		for _, cmd := range rule.Commands {
			if _, dup := seen[cmd]; dup {
				continue
			}
			seen[cmd] = struct{}{}
			commands = append(commands, cmd)
		}
	}

	return commands
}
