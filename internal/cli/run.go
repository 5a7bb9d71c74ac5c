package cli

import (
	"github.com/spf13/cobra"
)

// RunCmd creates the run command: fetch then translate in one invocation.
func RunCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch feeds and translate the results in one go",
		Long: `Fetch new RSS entries into the source directory, then run the
translation and summarization pipeline over everything unprocessed there.
Equivalent to "feedsum fetch" followed by "feedsum translate".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := env.ConfigLoader.Load(env.Getenv, env.Now())
			if err != nil {
				return err
			}
			if err := runFetch(cmd.Context(), env, cfg); err != nil {
				return err
			}
			return runTranslate(cmd.Context(), env, cfg)
		},
	}
	return cmd
}
