package handlers

import "testing"

func TestNewRootCmdSubcommands(t *testing.T) {
	root := NewRootCmd()

	want := []string{"scrape", "process", "digest", "deliver", "cache"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestDigestSubcommands(t *testing.T) {
	digestCmd := NewDigestCmd()

	want := []string{"generate", "list", "show"}
	for _, name := range want {
		found := false
		for _, cmd := range digestCmd.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("digest command missing subcommand %q", name)
		}
	}
}
