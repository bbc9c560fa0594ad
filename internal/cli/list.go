package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrz1836/gitid/internal/domain"
)

// AddListCommand adds the list command to the root command.
func AddListCommand(root *cobra.Command) {
	root.AddCommand(newListCmd())
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured identities",
		Long: `List every identity in the registry with its provider, email, and
signing configuration.

Examples:
  gitid list
  gitid list --output json`,
		Aliases: []string{"ls"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd.Context(), cmd, os.Stdout)
		},
	}
}

func runList(ctx context.Context, cmd *cobra.Command, w io.Writer) error {
	_, reg, err := loadConfigAndRegistry(ctx)
	if err != nil {
		return err
	}

	ids := reg.List()

	if cmd.Flag("output").Value.String() == OutputJSON {
		responses := make([]IdentityResponse, 0, len(ids))
		for _, id := range ids {
			responses = append(responses, identityToResponse(id))
		}
		return printJSON(w, responses)
	}

	checkNoColor()
	styles := newCLIStyles()

	if len(ids) == 0 {
		fmt.Fprintln(w, styles.dim.Render("No identities configured. Add one with 'gitid add'."))
		return nil
	}

	fmt.Fprintln(w, styles.header.Render("Identities"))
	for _, id := range ids {
		fmt.Fprintf(w, "  %s  %s\n",
			styles.key.Render(id.Name),
			styles.value.Render(fmt.Sprintf("%s <%s>", id.Provider, id.Email)))
		fmt.Fprintf(w, "    %s\n", styles.dim.Render(describeSigning(id.Signing)))
	}
	return nil
}

// describeSigning summarizes an identity's signing configuration in one line.
func describeSigning(cfg domain.SigningConfig) string {
	if cfg.Empty() {
		return "signing: not configured"
	}
	if cfg.Format == domain.FormatSSH {
		return fmt.Sprintf("signing: ssh key %s", cfg.SSHKeyPath)
	}
	key := cfg.KeyID
	if cfg.AutoKey() || key == "" {
		key = "auto (resolved by email)"
	}
	if cfg.HardwareKey {
		return fmt.Sprintf("signing: gpg key %s (hardware)", key)
	}
	return fmt.Sprintf("signing: gpg key %s", key)
}
