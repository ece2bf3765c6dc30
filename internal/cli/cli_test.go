package cli

import (
	"io"
	"testing"
)

func TestRootCommandWiring(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	if root.Use != appName {
		t.Errorf("root.Use = %q, want %q", root.Use, appName)
	}

	want := []string{"search", "place", "zoom", "conflicts", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command is missing subcommand %q", name)
		}
	}
}

func TestSearchSamplingFlags(t *testing.T) {
	c := New(io.Discard, LogInfo)
	cmd := c.searchCommand()

	// --multi toggles pre-sampling, --multi-sample sets the trial count.
	f := cmd.Flags().Lookup("multi")
	if f == nil || f.Value.Type() != "bool" {
		t.Errorf("--multi should be a bool flag, got %+v", f)
	}
	if f != nil && f.DefValue != "true" {
		t.Errorf("--multi default = %q, want true", f.DefValue)
	}
	f = cmd.Flags().Lookup("multi-sample")
	if f == nil || f.Value.Type() != "int" {
		t.Errorf("--multi-sample should be an int flag, got %+v", f)
	}
}

func TestExactArgs(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"search", "only-one-arg"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	if err := root.Execute(); err == nil {
		t.Error("search with one argument should fail validation")
	}
}
