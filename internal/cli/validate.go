package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrz1836/gitid/internal/domain"
)

// AddValidateCommand adds the validate command to the root command.
func AddValidateCommand(root *cobra.Command) {
	root.AddCommand(newValidateCmd())
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [name]",
		Short: "Check signing readiness for identities",
		Long: `Evaluate whether each identity can produce a valid signature right now:
the signing tool is installed, the key exists, a hardware token (if any)
is connected with a satisfiable touch policy, and a software key passes a
bounded trial signature.

Identities are evaluated one at a time; a hardware token only answers one
session at a time.

Without arguments every identity is checked.

Examples:
  gitid validate
  gitid validate work
  gitid validate --output json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return runValidate(cmd.Context(), cmd, name, os.Stdout)
		},
	}
}

func runValidate(ctx context.Context, cmd *cobra.Command, name string, w io.Writer) error {
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

	evaluator := newToolkit(logger, cfg).evaluator(logger)

	// Strictly sequential: the card probe and trial signature contend for
	// the same token session.
	responses := make([]ReadinessResponse, 0, len(ids))
	for _, id := range ids {
		result := evaluator.Evaluate(ctx, id)
		responses = append(responses, readinessToResponse(id.Name, result))
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

	fmt.Fprintln(w, styles.header.Render("Signing readiness"))
	for i, resp := range responses {
		result := domain.ReadinessResult{
			Available: resp.Available,
			CanSign:   resp.CanSign,
		}
		fmt.Fprintf(w, "  %s  %s\n", styles.key.Render(resp.Identity), readinessBadge(result, styles))
		fmt.Fprintf(w, "    %s\n", styles.value.Render(resp.Message))
		if resp.Recommendation != "" {
			fmt.Fprintf(w, "    %s\n", styles.dim.Render("hint: "+resp.Recommendation))
		}
		if card := resp.Card; card != nil && card.Present {
			fmt.Fprintf(w, "    %s\n", styles.dim.Render(describeCard(card)))
		}
		if i < len(responses)-1 {
			fmt.Fprintln(w)
		}
	}
	return nil
}

// describeCard summarizes a connected token in one line.
func describeCard(card *CardResponse) string {
	label := card.CardType
	if label == "" {
		label = "token"
	}
	desc := fmt.Sprintf("%s serial %s", label, card.SerialNumber)
	if card.Firmware != "" {
		desc += fmt.Sprintf(" (firmware %s)", card.Firmware)
	}
	if card.TouchSig != "" {
		desc += fmt.Sprintf(", signature touch policy %s", card.TouchSig)
	}
	return desc
}
