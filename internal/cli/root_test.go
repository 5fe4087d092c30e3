package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestCommandsRegistered(t *testing.T) {
	want := map[string]bool{
		"serve":   false,
		"reindex": false,
		"ask":     false,
		"spaces":  false,
	}
	for _, cmd := range rootCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestAsk_RequiresQuestion(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ask"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	if err := rootCmd.Execute(); err == nil {
		t.Error("expected an argument error for ask without a question")
	}
}

func TestSpaces_RequiresCredentials(t *testing.T) {
	t.Setenv("CONFLUENCE_URL", "")
	t.Setenv("CONFLUENCE_EMAIL", "")
	t.Setenv("CONFLUENCE_API_TOKEN", "")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"spaces"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("expected a configuration error")
	}
	if !strings.Contains(err.Error(), "CONFLUENCE_URL") {
		t.Errorf("error = %v, want missing variable names", err)
	}
}
