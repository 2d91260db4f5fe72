package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "atelier", cmd.Use)
	assert.Contains(t, cmd.Long, "page manifest")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{
		"get", "set", "list", "new", "image", "export", "import", "reset",
		"history", "edit", "render", "validate", "serve", "test",
	}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	t.Setenv(EnvDatabase, "")
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	dbFlag := cmd.PersistentFlags().Lookup("db")
	require.NotNil(t, dbFlag)
	assert.Equal(t, defaultDatabasePath, dbFlag.DefValue)

	pageFlag := cmd.PersistentFlags().Lookup("page")
	require.NotNil(t, pageFlag)
	assert.Equal(t, "", pageFlag.DefValue)

	idsFlag := cmd.PersistentFlags().Lookup("ids")
	require.NotNil(t, idsFlag)
	assert.Equal(t, "counter", idsFlag.DefValue)
}

func TestDatabaseFromEnv(t *testing.T) {
	t.Setenv(EnvDatabase, "/tmp/elsewhere.db")
	cmd := NewRootCommand()

	dbFlag := cmd.PersistentFlags().Lookup("db")
	require.NotNil(t, dbFlag)
	assert.Equal(t, "/tmp/elsewhere.db", dbFlag.DefValue)
}

func TestImageSubcommands(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"set", "list"} {
		sub, _, err := cmd.Find([]string{"image", name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}

	setCmd, _, err := cmd.Find([]string{"image", "set"})
	require.NoError(t, err)
	assert.NotNil(t, setCmd.Flags().Lookup("file"))
}

func TestTestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	testCmd, _, err := cmd.Find([]string{"test"})
	require.NoError(t, err)

	updateFlag := testCmd.Flags().Lookup("update")
	require.NotNil(t, updateFlag)
	assert.Equal(t, "false", updateFlag.DefValue)

	assert.NotNil(t, testCmd.Flags().Lookup("filter"))
	assert.NotNil(t, testCmd.Flags().Lookup("golden"))
}

func TestServeCommandFlags(t *testing.T) {
	t.Setenv(EnvAdminToken, "secret")
	cmd := NewRootCommand()
	serveCmd, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)

	addrFlag := serveCmd.Flags().Lookup("addr")
	require.NotNil(t, addrFlag)
	assert.Equal(t, "127.0.0.1:8080", addrFlag.DefValue)

	tokenFlag := serveCmd.Flags().Lookup("token")
	require.NotNil(t, tokenFlag)
	assert.Equal(t, "secret", tokenFlag.DefValue)
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--format", "invalid", "list", "--db", ":memory:"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}
