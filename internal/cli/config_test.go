package cli_test

// The config subcommands write the real user config file, so these tests
// redirect it into a temp dir with t.Setenv and cannot run in parallel.

import (
	"errors"
	"strings"
	"testing"

	"github.com/yhzhou/feedsum/internal/cli"
	"github.com/yhzhou/feedsum/internal/config"
)

func TestConfigCmd(t *testing.T) {
	t.Run("set rejects unknown keys", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())

		env := cli.NewEnv(cli.WithStderr(new(strings.Builder)))
		err := execute(t, env, cli.ConfigCmd, "set", "no-such-key", "value")
		if !errors.Is(err, cli.ErrUnknownConfigKey) {
			t.Errorf("error = %v, want ErrUnknownConfigKey", err)
		}
	})

	t.Run("set then list round trips", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())

		var stderr strings.Builder
		env := cli.NewEnv(cli.WithStderr(&stderr))
		if err := execute(t, env, cli.ConfigCmd, "set", config.KeyModel, "deepseek-reasoner"); err != nil {
			t.Fatalf("set error: %v", err)
		}
		if err := execute(t, env, cli.ConfigCmd, "list"); err != nil {
			t.Fatalf("list error: %v", err)
		}
		if !strings.Contains(stderr.String(), "model=deepseek-reasoner") {
			t.Errorf("list output = %q, want the saved pair", stderr.String())
		}
	})

	t.Run("list with no file reports nothing set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())

		var stderr strings.Builder
		env := cli.NewEnv(cli.WithStderr(&stderr))
		if err := execute(t, env, cli.ConfigCmd, "list"); err != nil {
			t.Fatalf("list error: %v", err)
		}
		if !strings.Contains(stderr.String(), "No configuration set") {
			t.Errorf("list output = %q", stderr.String())
		}
	})
}
