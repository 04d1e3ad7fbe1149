package cmds

import (
	"io"
	"path"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/FuturFusion/compute-manager/cmd/compute-manager/config"
)

func TestCheckConfigStatus(t *testing.T) {
	tmpDir := t.TempDir()

	asker := &AskerMock{
		AskStringFunc: func(question string, defaultAnswer string, validate func(string) error) (string, error) {
			return "https://compute.local:6444", nil
		},
		AskBoolFunc: func(question string, defaultAnswer string) (bool, error) {
			return true, nil
		},
	}

	cmd := &cobra.Command{}
	cmd.SetOut(io.Discard)

	global := &CmdGlobal{
		Asker:  asker,
		Cmd:    cmd,
		config: config.NewConfig(tmpDir),
	}

	err := global.CheckConfigStatus()
	require.NoError(t, err)

	require.Len(t, asker.AskStringCalls(), 1)
	require.Len(t, asker.AskBoolCalls(), 1)

	// The answers are persisted for the next invocation.
	loaded, err := config.LoadConfig(path.Join(tmpDir, "config.yml"))
	require.NoError(t, err)
	require.Equal(t, "https://compute.local:6444", loaded.ComputeManagerServer)
	require.True(t, loaded.AllowInsecureTLS)

	// A configured server short-circuits the prompts.
	err = global.CheckConfigStatus()
	require.NoError(t, err)
	require.Len(t, asker.AskStringCalls(), 1)
}

func TestValidateFlagFormat(t *testing.T) {
	tests := []struct {
		name   string
		format string

		assertErr require.ErrorAssertionFunc
	}{
		{
			name:   "table",
			format: "table",

			assertErr: require.NoError,
		},
		{
			name:   "csv with header",
			format: "csv,header",

			assertErr: require.NoError,
		},
		{
			name:   "compact without header",
			format: "compact,noheader",

			assertErr: require.NoError,
		},
		{
			name:   "error - unknown format",
			format: "xml",

			assertErr: require.Error,
		},
		{
			name:   "error - unknown modifier",
			format: "table,wide",

			assertErr: require.Error,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.assertErr(t, validateFlagFormat(tc.format))
		})
	}
}
