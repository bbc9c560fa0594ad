package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrz1836/gitid/internal/domain"
	"github.com/mrz1836/gitid/internal/provider"
)

// AddVerifyCommand adds the verify command to the root command.
func AddVerifyCommand(root *cobra.Command) {
	root.AddCommand(newVerifyCmd())
}

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify [name]",
		Short: "Check that signing keys are registered with their providers",
		Long: `Query each identity's hosting provider through its authenticated CLI
(gh, glab) and report whether the identity's signing key is registered
with the account.

Three outcomes are possible: registered, not registered, and query
failed. A failed query (CLI missing, not authenticated, network down) is
never reported as "not registered".

Without arguments every identity is checked.

Examples:
  gitid verify
  gitid verify work
  gitid verify --output json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return runVerify(cmd.Context(), cmd, name, os.Stdout)
		},
	}
}

func runVerify(ctx context.Context, cmd *cobra.Command, name string, w io.Writer) error {
	logger := GetLogger()

	cfg, reg, err := loadConfigAndRegistry(ctx)
	if err != nil {
		return err
	}

	var ids []domain.Identity
	if name != "" {
		id, err := reg.Get(name)
		if err != nil {
			return err
		}
		ids = []domain.Identity{id}
	} else {
		ids = reg.List()
	}

	keys := newToolkit(logger, cfg).keys

	responses := make([]VerifyResponse, 0, len(ids))
	for _, id := range ids {
		verifier := provider.ForProvider(id.Provider, keys, provider.WithLogger(logger))

		// Each provider query gets its own deadline so one hung CLI does
		// not stall the whole audit.
		queryCtx, cancel := context.WithTimeout(ctx, cfg.Verify.Timeout)
		result := verifier.Verify(queryCtx, id)
		cancel()

		responses = append(responses, verifyToResponse(id.Name, result))
	}

	if cmd.Flag("output").Value.String() == OutputJSON {
		return printJSON(w, responses)
	}

	checkNoColor()
	styles := newCLIStyles()

	if len(responses) == 0 {
		fmt.Fprintln(w, styles.dim.Render("No identities configured. Add one with 'gitid add'."))
		return nil
	}

	fmt.Fprintln(w, styles.header.Render("Provider key registration"))
	for _, resp := range responses {
		status := statusFromString(resp.Status)
		fmt.Fprintf(w, "  %s  %s\n", styles.key.Render(resp.Identity), verifyBadge(status, styles))
		fmt.Fprintf(w, "    %s\n", styles.value.Render(resp.Message))
		if resp.SettingsURL != "" {
			fmt.Fprintf(w, "    %s\n", styles.dim.Render("register at "+resp.SettingsURL))
		}
	}
	return nil
}

// statusFromString maps a serialized verify status back to its enum value
// for badge rendering.
func statusFromString(s string) domain.VerifyStatus {
	switch s {
	case domain.VerifyRegistered.String():
		return domain.VerifyRegistered
	case domain.VerifyNotRegistered.String():
		return domain.VerifyNotRegistered
	default:
		return domain.VerifyQueryFailed
	}
}
