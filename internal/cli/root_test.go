package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "homelist", cmd.Use)
	assert.Contains(t, cmd.Long, "listings")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"reset"},
		{"auth", "signup"}, {"auth", "login"}, {"auth", "logout"}, {"auth", "whoami"},
		{"auth", "passwd"}, {"auth", "forgot"}, {"auth", "reset-password"},
		{"listing", "list"}, {"listing", "show"}, {"listing", "mine"}, {"listing", "create"}, {"listing", "update"},
		{"listing", "delete"}, {"listing", "hide"}, {"listing", "unhide"}, {"listing", "contact"},
		{"listing", "export"},
		{"favorite", "list"}, {"favorite", "add"}, {"favorite", "remove"},
		{"search", "save"}, {"search", "list"}, {"search", "delete"}, {"search", "run"},
		{"chat", "list"}, {"chat", "show"}, {"chat", "start"}, {"chat", "send"},
		{"user", "show"}, {"user", "list"},
		{"agent", "show"}, {"agent", "list"}, {"agent", "for-user"},
		{"scenario", "run"},
	}

	for _, path := range commands {
		name := path[len(path)-1]
		t.Run(path[0]+"_"+name, func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "command %v should exist", path)
			require.NotNil(t, subCmd)
			assert.Equal(t, name, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	for _, name := range []string{"config", "env-file", "db", "backend"} {
		f := cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, f, name)
		assert.Empty(t, f.DefValue, name)
	}
}

func TestListingCreateFlags(t *testing.T) {
	cmd := NewRootCommand()
	createCmd, _, err := cmd.Find([]string{"listing", "create"})
	require.NoError(t, err)

	fileFlag := createCmd.Flags().Lookup("file")
	require.NotNil(t, fileFlag)
	assert.Equal(t, "f", fileFlag.Shorthand)
}

func TestListingListFilterFlags(t *testing.T) {
	cmd := NewRootCommand()
	listCmd, _, err := cmd.Find([]string{"listing", "list"})
	require.NoError(t, err)

	for _, name := range []string{"type", "property", "min-price", "max-price", "min-area", "max-area", "bedrooms", "district", "city", "query", "all"} {
		assert.NotNil(t, listCmd.Flags().Lookup(name), name)
	}

	saveCmd, _, err := cmd.Find([]string{"search", "save"})
	require.NoError(t, err)
	assert.Nil(t, saveCmd.Flags().Lookup("all"), "saved searches never include hidden listings")
}

func TestIsValidFormat(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))
	assert.False(t, isValidFormat("yaml"))
}
