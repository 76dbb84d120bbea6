package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/IamTheFij/release-gitter/internal/cli/config"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a " + config.DefaultFileName + " template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := writeIfNotExists(config.DefaultFileName, configTemplate()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "initialized: "+config.DefaultFileName)
			return nil
		},
	}
	return cmd
}

func writeIfNotExists(path, content string) error {
	_, err := os.Stat(path)
	if err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

func configTemplate() string {
	return `# Defaults for release-gitter. Explicit command line flags win.
format: "tool-{version}-{system}-{arch}.tar.gz"
# dest: bin
# hostname: github.com
# owner: acme
# repo: tool
# version: latest
# extract_files:
#   - tool
# exec:
#   - chmod +x tool
`
}
