package root

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"fjacquet/expense-ledger/internal/container"
	"fjacquet/expense-ledger/internal/logging"
	"fjacquet/expense-ledger/internal/prompt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty directory and home, with a memory
// filesystem for the container, and resets the package state afterwards.
func isolate(t *testing.T) {
	t.Helper()
	Init()
	appContainer = nil

	dir := t.TempDir()
	original, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{"LEDGER_STORE_FILE", "LEDGER_LOG_LEVEL", "LEDGER_CATEGORIZATION_DEFAULT_CATEGORY"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	ContainerOptions = container.Options{
		Fs:     afero.NewMemMapFs(),
		In:     strings.NewReader(""),
		Out:    &bytes.Buffer{},
		Logger: logging.NewMockLogger(),
	}

	t.Cleanup(func() {
		require.NoError(t, os.Chdir(original))
		ContainerOptions = container.Options{}
		appContainer = nil
		Cmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	})
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "expense-ledger", Cmd.Use)
	assert.Contains(t, Cmd.Long, "without storing\nany transaction twice")
	assert.NotNil(t, Cmd.PersistentPreRunE)
	assert.NotNil(t, Cmd.PersistentPostRun)
}

func TestInit_RegistersFlagsOnce(t *testing.T) {
	Init()
	assert.NotPanics(t, Init)

	for _, name := range []string{"config", "log-level", "log-format", "store", "rules", "default-category", "no-color"} {
		assert.NotNil(t, Cmd.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "s", Cmd.PersistentFlags().Lookup("store").Shorthand)
}

func TestInitContainer_FromEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("LEDGER_STORE_FILE", "/env/ledger.csv")

	_, err := RequireContainer()
	require.Error(t, err)

	require.NoError(t, initContainer(Cmd, nil))

	c, err := RequireContainer()
	require.NoError(t, err)
	assert.Equal(t, "/env/ledger.csv", c.GetLedgerStore().Path())
	assert.Equal(t, c.GetConfig(), GetConfig())
	assert.Equal(t, c.GetLogger(), GetLogger())
}

func TestInitContainer_FlagsOverrideConfiguration(t *testing.T) {
	isolate(t)
	t.Setenv("LEDGER_STORE_FILE", "/env/ledger.csv")
	require.NoError(t, Cmd.PersistentFlags().Set("store", "/flag/ledger.csv"))
	require.NoError(t, Cmd.PersistentFlags().Set("default-category", "GROCERY"))

	require.NoError(t, initContainer(Cmd, nil))

	c := GetContainer()
	assert.Equal(t, "/flag/ledger.csv", c.GetLedgerStore().Path())
	fixed, ok := c.GetOracle().(*prompt.FixedOracle)
	require.True(t, ok)
	assert.Equal(t, "g", fixed.Category().Code())
}

func TestInitContainer_InvalidOverride(t *testing.T) {
	isolate(t)
	require.NoError(t, Cmd.PersistentFlags().Set("log-level", "chatty"))

	err := initContainer(Cmd, nil)
	assert.ErrorContains(t, err, "invalid log level")
	assert.Nil(t, GetContainer())
}

func TestInitContainer_MissingConfigFile(t *testing.T) {
	isolate(t)
	require.NoError(t, Cmd.PersistentFlags().Set("config", "/does/not/exist.yaml"))

	assert.Error(t, initContainer(Cmd, nil))
}

func TestGetLogger_BeforeInit(t *testing.T) {
	appContainer = nil
	assert.NotNil(t, GetLogger())
	assert.Nil(t, GetConfig())
	assert.NotPanics(t, func() { Cmd.PersistentPostRun(&cobra.Command{}, nil) })
}
