package main

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	root := newRootCmd()

	want := map[string]bool{
		"version":   false,
		"config":    false,
		"movies":    false,
		"tv":        false,
		"search":    false,
		"discover":  false,
		"genres":    false,
		"details":   false,
		"similar":   false,
		"featured":  false,
		"news":      false,
		"watchlist": false,
		"explore":   false,
		"mcp-serve": false,
		"bot":       false,
	}

	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}

	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRootCommand_ConfigFlag(t *testing.T) {
	root := newRootCmd()
	flag := root.PersistentFlags().Lookup("config")
	if flag == nil {
		t.Fatal("--config flag not registered")
	}
	if flag.DefValue != "configs/cinescope.yaml" {
		t.Errorf("--config default = %q, want %q", flag.DefValue, "configs/cinescope.yaml")
	}
	if flag.Shorthand != "c" {
		t.Errorf("--config shorthand = %q, want %q", flag.Shorthand, "c")
	}
}

func TestRootCommand_SilencesErrors(t *testing.T) {
	root := newRootCmd()
	if !root.SilenceErrors || !root.SilenceUsage {
		t.Error("root command should silence errors and usage")
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := newVersionCmd()
	if cmd.Use != "version" {
		t.Errorf("Use = %q, want %q", cmd.Use, "version")
	}
}

func subcommandNames(cmd *cobra.Command) map[string]bool {
	names := make(map[string]bool)
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	return names
}

func TestMediaCommands_Lists(t *testing.T) {
	tests := []struct {
		name string
		cmd  *cobra.Command
		want []string
	}{
		{"movies", newMoviesCmd(), []string{"popular", "top-rated", "now-playing", "upcoming", "trending", "genre"}},
		{"tv", newTVCmd(), []string{"popular", "top-rated", "on-the-air", "trending", "genre"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			names := subcommandNames(tt.cmd)
			for _, w := range tt.want {
				if !names[w] {
					t.Errorf("%s is missing %q", tt.name, w)
				}
			}
			if len(names) != len(tt.want) {
				t.Errorf("%s has %d subcommands, want %d", tt.name, len(names), len(tt.want))
			}
		})
	}
}

func TestListCommand_FallbackFlagOnlyForMovies(t *testing.T) {
	movies, _, err := newMoviesCmd().Find([]string{"popular"})
	if err != nil {
		t.Fatalf("find movies popular: %v", err)
	}
	if movies.Flags().Lookup("fallback") == nil {
		t.Error("movies popular should have --fallback")
	}

	tv, _, err := newTVCmd().Find([]string{"popular"})
	if err != nil {
		t.Fatalf("find tv popular: %v", err)
	}
	if tv.Flags().Lookup("fallback") != nil {
		t.Error("tv popular should not have --fallback")
	}
}

func TestWatchlistCommand_HasSubcommands(t *testing.T) {
	names := subcommandNames(newWatchlistCmd())
	for _, w := range []string{"list", "add", "remove", "clear"} {
		if !names[w] {
			t.Errorf("watchlist is missing %q", w)
		}
	}
}

func TestCommandArgs(t *testing.T) {
	tests := []struct {
		name    string
		cmd     *cobra.Command
		args    []string
		wantErr bool
	}{
		{"search_requires_text", newSearchCmd(), nil, true},
		{"search_accepts_words", newSearchCmd(), []string{"breaking", "bad"}, false},
		{"details_requires_key", newDetailsCmd(), nil, true},
		{"details_one_key", newDetailsCmd(), []string{"movie:550"}, false},
		{"details_too_many", newDetailsCmd(), []string{"movie:550", "tv:1"}, true},
		{"discover_no_args", newDiscoverCmd(), []string{"extra"}, true},
		{"featured_any", newFeaturedCmd(), []string{"movie:1", "tv:2"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Args(tt.cmd, tt.args)
			if (err != nil) != tt.wantErr {
				t.Errorf("Args(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
		})
	}
}
