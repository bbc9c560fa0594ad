package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/mrz1836/gitid/internal/errors"
)

// AddRemoveCommand adds the remove command to the root command.
func AddRemoveCommand(root *cobra.Command) {
	root.AddCommand(newRemoveCmd())
}

func newRemoveCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove an identity from the registry",
		Long: `Remove a named identity from the registry. Repository git settings
already written by 'gitid switch' are left untouched.

Examples:
  gitid remove old-work
  gitid remove old-work --force`,
		Aliases: []string{"rm"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(cmd.Context(), args[0], force, os.Stdout)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")

	return cmd
}

func runRemove(ctx context.Context, name string, force bool, w io.Writer) error {
	logger := GetLogger()

	_, reg, err := loadConfigAndRegistry(ctx)
	if err != nil {
		return err
	}

	// Fail on unknown names before prompting.
	if _, err := reg.Get(name); err != nil {
		return err
	}

	if !force {
		confirmed := false
		confirm := huh.NewConfirm().
			Title(fmt.Sprintf("Remove identity %q?", name)).
			Affirmative("Yes").
			Negative("No").
			Value(&confirmed)
		if err := huh.NewForm(huh.NewGroup(confirm)).Run(); err != nil {
			if stderrors.Is(err, huh.ErrUserAborted) {
				return errors.ErrOperationCanceled
			}
			return errors.Wrap(err, "confirm prompt failed")
		}
		if !confirmed {
			return errors.ErrOperationCanceled
		}
	}

	if err := reg.Remove(name); err != nil {
		return err
	}
	if err := reg.Save(); err != nil {
		return err
	}

	logger.Info().Str("identity", name).Msg("identity removed")

	checkNoColor()
	styles := newCLIStyles()
	fmt.Fprintln(w, styles.success.Render(fmt.Sprintf("Removed identity %q", name)))
	return nil
}
