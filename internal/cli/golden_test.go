package cli

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

func TestValidateLintOutputGolden(t *testing.T) {
	path := writeTestDocument(t, "bad.yaml", lintFailingYAML)

	stdout, _, err := executeCommand(t, "validate", path)
	require.Error(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "validate_lint", []byte(stdout))
}
