package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCmd_LogFlag_DefaultsToInfo(t *testing.T) {
	// GIVEN the root command with its persistent flags registered
	flag := rootCmd.PersistentFlags().Lookup("log")

	// WHEN checking the default value
	// THEN it must be "info"
	assert.NotNil(t, flag, "log flag must be registered")
	assert.Equal(t, "info", flag.DefValue)
}

func TestGenerateAcceleratorCmd_RequiredFlagsRegistered(t *testing.T) {
	for _, name := range []string{"mlb", "weight-buf", "input-buf", "output-buf", "projection"} {
		flag := generateAcceleratorCmd.Flags().Lookup(name)
		assert.NotNil(t, flag, "flag %q must be registered on generate-accelerator", name)
	}
}

func TestMapWorkloadCmd_FlagsRegistered(t *testing.T) {
	for _, name := range []string{"hwb", "workload", "mac-budget", "soft", "preload-output", "preload-input"} {
		flag := mapWorkloadCmd.Flags().Lookup(name)
		assert.NotNil(t, flag, "flag %q must be registered on map-workload", name)
	}
}

func TestSubCommands_Registered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"generate-accelerator", "generate-statemachine", "simulate-accelerator", "map-workload"} {
		assert.True(t, names[want], "expected %q to be registered on the root command", want)
	}
}
