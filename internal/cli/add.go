package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/mrz1836/gitid/internal/domain"
	"github.com/mrz1836/gitid/internal/errors"
)

// addFlags holds the flag values for the add command.
type addFlags struct {
	provider    string
	host        string
	hostname    string
	user        string
	email       string
	keyID       string
	format      string
	sshKeyPath  string
	signCommits bool
	signTags    bool
	autoSignoff bool
	hardwareKey bool
}

// AddAddCommand adds the add command to the root command.
func AddAddCommand(root *cobra.Command) {
	root.AddCommand(newAddCmd())
}

func newAddCmd() *cobra.Command {
	flags := &addFlags{}

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Register a new identity",
		Long: `Register a new named identity in the registry.

When --email is omitted, the command prompts interactively for the
identity details.

Examples:
  gitid add work --provider github --email me@corp.example --key auto
  gitid add oss --provider gitlab --email me@example.org --format ssh --ssh-key ~/.ssh/id_ed25519_sk.pub
  gitid add personal`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd.Context(), args[0], flags, os.Stdout)
		},
	}

	cmd.Flags().StringVar(&flags.provider, "provider", "other", "hosting provider (github|gitlab|bitbucket|other)")
	cmd.Flags().StringVar(&flags.host, "host", "", "SSH alias used in remote URLs")
	cmd.Flags().StringVar(&flags.hostname, "hostname", "", "real hostname behind the alias")
	cmd.Flags().StringVar(&flags.user, "user", "", "account username on the provider")
	cmd.Flags().StringVar(&flags.email, "email", "", "commit author email")
	cmd.Flags().StringVar(&flags.keyID, "key", "", "GPG key id, or 'auto' to resolve by email")
	cmd.Flags().StringVar(&flags.format, "format", "", "signing format (gpg|ssh)")
	cmd.Flags().StringVar(&flags.sshKeyPath, "ssh-key", "", "SSH public key path for ssh signing")
	cmd.Flags().BoolVar(&flags.signCommits, "sign-commits", false, "enable commit signing")
	cmd.Flags().BoolVar(&flags.signTags, "sign-tags", false, "enable tag signing")
	cmd.Flags().BoolVar(&flags.autoSignoff, "signoff", false, "add Signed-off-by trailers")
	cmd.Flags().BoolVar(&flags.hardwareKey, "hardware", false, "mark the key as hardware-backed")

	return cmd
}

func runAdd(ctx context.Context, name string, flags *addFlags, w io.Writer) error {
	logger := GetLogger()

	if flags.email == "" {
		if err := promptIdentityDetails(flags); err != nil {
			return err
		}
	}

	provider, err := domain.ParseProvider(flags.provider)
	if err != nil {
		return err
	}

	id := domain.Identity{
		Name:     name,
		Provider: provider,
		Host:     flags.host,
		Hostname: flags.hostname,
		User:     flags.user,
		Email:    flags.email,
		Signing: domain.SigningConfig{
			KeyID:       flags.keyID,
			Format:      domain.SigningFormat(flags.format),
			SSHKeyPath:  flags.sshKeyPath,
			SignCommits: flags.signCommits,
			SignTags:    flags.signTags,
			AutoSignoff: flags.autoSignoff,
			HardwareKey: flags.hardwareKey,
		},
	}

	if id.Signing.Format == domain.FormatSSH && id.Signing.SSHKeyPath == "" {
		return errors.Wrap(errors.ErrEmptyValue, "ssh signing needs --ssh-key")
	}

	_, reg, err := loadConfigAndRegistry(ctx)
	if err != nil {
		return err
	}
	if err := reg.Add(id); err != nil {
		return err
	}
	if err := reg.Save(); err != nil {
		return err
	}

	logger.Info().Str("identity", name).Str("provider", provider.String()).Msg("identity added")

	checkNoColor()
	styles := newCLIStyles()
	fmt.Fprintln(w, styles.success.Render(fmt.Sprintf("Added identity %q (%s <%s>)", name, provider, id.Email)))
	return nil
}

// promptIdentityDetails collects the identity fields interactively.
func promptIdentityDetails(flags *addFlags) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Provider").
				Options(
					huh.NewOption("GitHub", "github"),
					huh.NewOption("GitLab", "gitlab"),
					huh.NewOption("Bitbucket", "bitbucket"),
					huh.NewOption("Other", "other"),
				).
				Value(&flags.provider),
			huh.NewInput().
				Title("Commit author email").
				Validate(func(s string) error {
					if s == "" {
						return stderrors.New("email is required")
					}
					return nil
				}).
				Value(&flags.email),
			huh.NewInput().
				Title("Account username (optional)").
				Value(&flags.user),
			huh.NewSelect[string]().
				Title("Signing format").
				Options(
					huh.NewOption("None", ""),
					huh.NewOption("GPG", "gpg"),
					huh.NewOption("SSH", "ssh"),
				).
				Value(&flags.format),
		),
	)

	if err := form.Run(); err != nil {
		if stderrors.Is(err, huh.ErrUserAborted) {
			return errors.ErrOperationCanceled
		}
		return errors.Wrap(err, "identity prompt failed")
	}

	if flags.format == "gpg" && flags.keyID == "" {
		flags.keyID = "auto"
	}
	if flags.format == "ssh" && flags.sshKeyPath == "" {
		input := huh.NewInput().
			Title("SSH public key path").
			Value(&flags.sshKeyPath)
		if err := huh.NewForm(huh.NewGroup(input)).Run(); err != nil {
			if stderrors.Is(err, huh.ErrUserAborted) {
				return errors.ErrOperationCanceled
			}
			return errors.Wrap(err, "identity prompt failed")
		}
	}
	return nil
}
