package integration_tests

import (
	"os"
	"runtime"
	"testing"

	"github.com/specialistvlad/nanopost/internal/testutil"
	"github.com/stretchr/testify/require"
)

// TestDryRun_OneFilePerDataset checks that the dryrun backend writes one
// request document per dataset and never stops on a single dataset.
func TestDryRun_OneFilePerDataset(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"datasets.txt": `# comment
/TTbar_TuneCP5_13p6TeV_pythia8/RunIII2024Summer24NanoAODv15-150X_mcRun3_2024_realistic_v2/NANOAODSIM
/GluGluHToTauTau_M125_TuneCP5_13p6TeV_powheg-pythia8/RunIII2024Summer24NanoAODv15-150X_mcRun3_2024_realistic_v2/NANOAODSIM

/ZZ_TuneCP5_13p6TeV_pythia8/RunIII2024Summer24NanoAODv15-150X_mcRun3_2024_realistic_v2/NANOAODSIM
`,
	}
	result := testutil.RunIntegrationTest(t, files,
		"submit", "-f", "$DIR/datasets.txt", "-w", "$DIR/area", "-o", "HHbbtt/2024_MC",
		"-t", "MC", "-u", "bucky", "--backend", "dryrun")

	require.NoError(t, result.Err)
	entries, err := os.ReadDir(result.Path("area"))
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Contains(t, result.Output, "Submitted: 3, Failed: 0")
	testutil.AssertLogged(t, result, "All datasets processed.")
}

// TestCrab_FailureIsIsolated drives the crab backend with a fake client that
// rejects one request.
func TestCrab_FailureIsIsolated(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake client is a shell script")
	}
	t.Parallel()

	files := map[string]string{
		"datasets.txt": "/A/B-v1/NANOAODSIM\n/Bad/B-v1/NANOAODSIM\n/C/D-v1/NANOAODSIM\n",
		"bin/crab": `#!/bin/sh
case "$3" in
  *Bad*) echo "Task submission failed" >&2; exit 1 ;;
esac
echo "Success: Your task has been delivered"
`,
	}
	result := testutil.RunIntegrationTest(t, files,
		"submit", "-f", "$DIR/datasets.txt", "-w", "$DIR/area", "-o", "out",
		"-t", "MC", "-u", "bucky", "--crab-command", "$DIR/bin/crab")

	require.NoError(t, result.Err)
	require.Contains(t, result.Output, "Submitted: 2, Failed: 1")
	require.Contains(t, result.Output, "Task submission failed")
	testutil.AssertLogged(t, result, "Failed submitting dataset")
	require.FileExists(t, result.Path("area/crabConfig_C.py"))
}
