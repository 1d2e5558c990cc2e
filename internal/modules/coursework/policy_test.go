package coursework

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePolicy(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadPolicyFile_OverlaysDefaults(t *testing.T) {
	path := writePolicy(t, "module_weight: 0.4\nquiz_weight: 0.6\nattempt_policy: Latest\n")
	p, err := LoadPolicyFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0.4, p.ModuleWeight)
	assert.Equal(t, 0.6, p.QuizWeight)
	assert.Equal(t, AttemptLatest, p.AttemptPolicy)
	assert.Equal(t, DefaultPassThreshold, p.PassThreshold)
	assert.Equal(t, DefaultQuestionCount, p.DefaultQuestionCount)
	assert.Equal(t, DefaultConflictRetries, p.ConflictRetries)
}

func TestLoadPolicyFile_Rejects(t *testing.T) {
	cases := map[string]string{
		"weights do not sum":  "module_weight: 0.7\nquiz_weight: 0.7\n",
		"negative weight":     "module_weight: -0.5\nquiz_weight: 1.5\n",
		"unknown policy":      "attempt_policy: worst\n",
		"threshold too large": "pass_threshold: 120\n",
		"bad yaml":            "module_weight: [\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadPolicyFile(writePolicy(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadPolicyFile_Missing(t *testing.T) {
	_, err := LoadPolicyFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestRound2AndClamp(t *testing.T) {
	assert.Equal(t, 87.5, round2(87.5))
	assert.Equal(t, 66.67, round2(200.0/3))
	assert.Equal(t, 0.0, clampPercent(-3))
	assert.Equal(t, 100.0, clampPercent(100.01))
}
