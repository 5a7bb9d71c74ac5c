package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/yhzhou/feedsum/internal/config"
)

// validConfigKeys lists the keys the config subcommand accepts.
var validConfigKeys = map[string]bool{
	config.KeySourceDir:    true,
	config.KeyDestDir:      true,
	config.KeyModel:        true,
	config.KeyBaseURL:      true,
	config.KeySummaryChars: true,
	config.KeyChunkTokens:  true,
	config.KeyChunkOverlap: true,
	config.KeyConcurrency:  true,
	config.KeyFeeds:        true,
	config.KeyStateFile:    true,
}

// ConfigCmd creates the config command with set/list subcommands.
func ConfigCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage feedsum configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Example: `  feedsum config set model deepseek-reasoner
  feedsum config set feeds "https://export.arxiv.org/rss/cs.AI,https://techcrunch.com/tag/artificial-intelligence/feed/"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if !validConfigKeys[key] {
				return fmt.Errorf("%q: %w", key, ErrUnknownConfigKey)
			}
			if err := config.Save(key, value); err != nil {
				return err
			}
			fmt.Fprintf(env.Stderr, "Set %s=%s\n", key, value)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List configured values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.List()
			if err != nil {
				return err
			}
			if len(data) == 0 {
				fmt.Fprintln(env.Stderr, "No configuration set")
				return nil
			}
			keys := make([]string, 0, len(data))
			for k := range data {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(env.Stderr, "%s=%s\n", k, data[k])
			}
			return nil
		},
	})

	return cmd
}
