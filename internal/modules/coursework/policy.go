package coursework

import (
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// AttemptPolicy picks which attempt drives the quiz component of progress.
type AttemptPolicy string

const (
	AttemptBest   AttemptPolicy = "best"
	AttemptLatest AttemptPolicy = "latest"
)

const (
	DefaultModuleWeight    = 0.5
	DefaultQuizWeight      = 0.5
	DefaultPassThreshold   = 80.0
	DefaultQuestionCount   = 5
	DefaultConflictRetries = 3
	CompletionProgress     = 100.0
	weightTolerance        = 1e-6
)

// Policy holds the tunable constants of the engine.
type Policy struct {
	ModuleWeight         float64       `yaml:"module_weight"`
	QuizWeight           float64       `yaml:"quiz_weight"`
	AttemptPolicy        AttemptPolicy `yaml:"attempt_policy"`
	PassThreshold        float64       `yaml:"pass_threshold"`
	DefaultQuestionCount int           `yaml:"default_question_count"`
	ConflictRetries      int           `yaml:"conflict_retries"`
}

func DefaultPolicy() Policy {
	return Policy{
		ModuleWeight:         DefaultModuleWeight,
		QuizWeight:           DefaultQuizWeight,
		AttemptPolicy:        AttemptBest,
		PassThreshold:        DefaultPassThreshold,
		DefaultQuestionCount: DefaultQuestionCount,
		ConflictRetries:      DefaultConflictRetries,
	}
}

func (p Policy) Validate() error {
	if p.ModuleWeight < 0 || p.QuizWeight < 0 {
		return fmt.Errorf("progress weights must be non-negative (module=%v quiz=%v)", p.ModuleWeight, p.QuizWeight)
	}
	if math.Abs(p.ModuleWeight+p.QuizWeight-1) > weightTolerance {
		return fmt.Errorf("progress weights must sum to 1 (module=%v quiz=%v)", p.ModuleWeight, p.QuizWeight)
	}
	switch p.AttemptPolicy {
	case AttemptBest, AttemptLatest:
	default:
		return fmt.Errorf("unknown attempt policy %q", p.AttemptPolicy)
	}
	if p.PassThreshold < 0 || p.PassThreshold > 100 {
		return fmt.Errorf("pass threshold %v out of range [0,100]", p.PassThreshold)
	}
	if p.DefaultQuestionCount <= 0 {
		return fmt.Errorf("default question count must be positive")
	}
	if p.ConflictRetries <= 0 {
		return fmt.Errorf("conflict retries must be positive")
	}
	return nil
}

// LoadPolicyFile overlays the YAML document at path on DefaultPolicy.
// Fields absent from the file keep their defaults.
func LoadPolicyFile(path string) (Policy, error) {
	p := DefaultPolicy()
	raw, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read policy file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("parse policy file: %w", err)
	}
	p.AttemptPolicy = AttemptPolicy(strings.ToLower(strings.TrimSpace(string(p.AttemptPolicy))))
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clampPercent(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
