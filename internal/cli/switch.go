package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrz1836/gitid/internal/domain"
	"github.com/mrz1836/gitid/internal/errors"
)

// confirmPrompt asks the user a yes/no question. Injected so tests can run
// the switch flow without a terminal.
type confirmPrompt func(title string) (bool, error)

// huhConfirm is the interactive confirmPrompt implementation.
func huhConfirm(title string) (bool, error) {
	confirmed := false
	field := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed)
	if err := huh.NewForm(huh.NewGroup(field)).Run(); err != nil {
		if stderrors.Is(err, huh.ErrUserAborted) {
			return false, errors.ErrOperationCanceled
		}
		return false, errors.Wrap(err, "confirm prompt failed")
	}
	return confirmed, nil
}

// switchFlags holds the flag values for the switch command.
type switchFlags struct {
	repo string
	yes  bool
}

// AddSwitchCommand adds the switch command to the root command.
func AddSwitchCommand(root *cobra.Command) {
	root.AddCommand(newSwitchCmd())
}

func newSwitchCmd() *cobra.Command {
	flags := &switchFlags{}

	cmd := &cobra.Command{
		Use:   "switch <name>",
		Short: "Apply an identity to a repository",
		Long: `Apply a named identity to a repository: set the author name and email,
evaluate signing readiness, and write the signing configuration.

When the identity cannot sign right now (hardware token absent, touch
policy unsatisfiable, trial signature failing), the command asks before
writing a signing configuration that would break commits.

Examples:
  gitid switch work
  gitid switch work --repo ~/src/service
  gitid switch work --yes --output json`,
		Aliases: []string{"use"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSwitch(cmd.Context(), cmd, args[0], flags, huhConfirm, os.Stdout)
		},
	}

	cmd.Flags().StringVar(&flags.repo, "repo", ".", "repository to configure")
	cmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "proceed without confirmation when signing is not ready")

	return cmd
}

func runSwitch(ctx context.Context, cmd *cobra.Command, name string, flags *switchFlags, confirm confirmPrompt, w io.Writer) error {
	logger := GetLogger()
	jsonOut := cmd.Flag("output").Value.String() == OutputJSON

	cfg, reg, err := loadConfigAndRegistry(ctx)
	if err != nil {
		return err
	}
	id, err := reg.Get(name)
	if err != nil {
		return err
	}

	tk := newToolkit(logger, cfg)
	if !tk.git.IsRepository(ctx, flags.repo) {
		return errors.Wrapf(errors.ErrNotGitRepo, "path %s", flags.repo)
	}

	// Author settings go in unconditionally; signing readiness only gates
	// the signing configuration.
	authorName := id.User
	if authorName == "" {
		authorName = id.Name
	}
	if err := tk.git.Set(ctx, flags.repo, "user.name", authorName); err != nil {
		return err
	}
	if err := tk.git.Set(ctx, flags.repo, "user.email", id.Email); err != nil {
		return err
	}

	applied, signingMsg, err := applySigning(ctx, tk, flags, id, confirm, logger)
	if err != nil {
		return err
	}

	resp := SwitchResponse{
		Identity: name,
		Repo:     flags.repo,
		Applied:  applied,
		Signing:  signingMsg,
		Message:  fmt.Sprintf("Switched to %s <%s>", authorName, id.Email),
	}
	if jsonOut {
		return printJSON(w, resp)
	}

	checkNoColor()
	styles := newCLIStyles()
	fmt.Fprintln(w, styles.success.Render(resp.Message))
	if signingMsg != "" {
		if applied {
			fmt.Fprintln(w, styles.value.Render(signingMsg))
		} else {
			fmt.Fprintln(w, styles.warning.Render(signingMsg))
		}
	}
	return nil
}

// applySigning evaluates readiness and writes (or clears) the repository
// signing configuration. It returns whether a signing configuration was
// applied and the outcome message.
func applySigning(ctx context.Context, tk *toolkit, flags *switchFlags, id domain.Identity, confirm confirmPrompt, logger zerolog.Logger) (bool, string, error) {
	configurator := tk.configurator(logger)

	// An identity without signing configuration clears any signing settings
	// left behind by the previous identity.
	if id.Signing.Empty() {
		if err := configurator.DisableSigning(ctx, flags.repo); err != nil {
			return false, "", err
		}
		return false, fmt.Sprintf("No signing configuration for %s; repository signing disabled", id.Name), nil
	}

	result := tk.evaluator(logger).Evaluate(ctx, id)
	logger.Debug().
		Bool("can_sign", result.CanSign).
		Str("key_id", result.KeyID).
		Bool("hardware", result.IsHardwareKey).
		Msg("readiness evaluated")

	if !result.CanSign && !flags.yes {
		proceed, err := confirm(fmt.Sprintf("Signing is not ready (%s). Configure signing anyway?", result.Message))
		if err != nil {
			return false, "", err
		}
		if !proceed {
			if err := configurator.DisableSigning(ctx, flags.repo); err != nil {
				return false, "", err
			}
			return false, fmt.Sprintf("Signing left disabled: %s", result.Message), nil
		}
	}

	ok, msg := configurator.ConfigureIdentity(ctx, flags.repo, id)
	if !ok {
		return false, "", errors.Wrap(errors.ErrConfigWrite, msg)
	}
	return true, msg, nil
}
