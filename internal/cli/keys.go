package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/gitid/internal/domain"
)

// AddKeysCommand adds the keys command to the root command.
func AddKeysCommand(root *cobra.Command) {
	root.AddCommand(newKeysCmd())
}

func newKeysCmd() *cobra.Command {
	var showCard bool

	cmd := &cobra.Command{
		Use:   "keys",
		Short: "List signing keys from the local keyring",
		Long: `List every secret key in the local GPG keyring, marking keys that live
on a connected hardware token. With --card, the hardware token status is
shown as well.

Examples:
  gitid keys
  gitid keys --card
  gitid keys --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runKeys(cmd.Context(), cmd, showCard, os.Stdout)
		},
	}

	cmd.Flags().BoolVar(&showCard, "card", false, "include hardware token status")

	return cmd
}

func runKeys(ctx context.Context, cmd *cobra.Command, showCard bool, w io.Writer) error {
	logger := GetLogger()

	cfg, _, err := loadConfigAndRegistry(ctx)
	if err != nil {
		return err
	}

	tk := newToolkit(logger, cfg)
	records := tk.keys.ListSecretKeys(ctx)

	var card domain.CardStatus
	if showCard {
		card = tk.card.Status(ctx)
	}

	responses := make([]KeyResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, KeyResponse{
			KeyID:       rec.KeyID,
			Fingerprint: rec.Fingerprint,
			Email:       rec.Email,
			Name:        rec.Name,
			Algorithm:   rec.Algorithm,
			CreatedAt:   formatKeyTime(rec.CreatedAt),
			ExpiresAt:   formatKeyTime(rec.ExpiresAt),
			Hardware:    tk.hardware.IsHardwareKey(ctx, rec.KeyID),
		})
	}

	if cmd.Flag("output").Value.String() == OutputJSON {
		payload := struct {
			Keys []KeyResponse `json:"keys"`
			Card *CardResponse `json:"card,omitempty"`
		}{Keys: responses}
		if showCard {
			payload.Card = &CardResponse{
				Present:      card.Present,
				SerialNumber: card.SerialNumber,
				CardType:     card.CardType,
				Firmware:     card.Firmware,
				TouchSig:     card.TouchSig,
				TouchEnc:     card.TouchEnc,
				TouchAut:     card.TouchAut,
			}
		}
		return printJSON(w, payload)
	}

	checkNoColor()
	styles := newCLIStyles()

	if len(responses) == 0 {
		fmt.Fprintln(w, styles.dim.Render("No secret keys found in the local keyring."))
	} else {
		fmt.Fprintln(w, styles.header.Render("Secret keys"))
		for _, key := range responses {
			owner := key.Email
			if key.Name != "" {
				owner = fmt.Sprintf("%s <%s>", key.Name, key.Email)
			}
			line := fmt.Sprintf("%s  %s  %s", key.KeyID, key.Algorithm, owner)
			fmt.Fprintf(w, "  %s\n", styles.value.Render(line))

			details := ""
			if key.CreatedAt != "" {
				details = "created " + key.CreatedAt
			}
			if key.ExpiresAt != "" {
				if details != "" {
					details += ", "
				}
				details += "expires " + key.ExpiresAt
			}
			if key.Hardware {
				if details != "" {
					details += ", "
				}
				details += "hardware-backed"
			}
			if details != "" {
				fmt.Fprintf(w, "    %s\n", styles.dim.Render(details))
			}
		}
	}

	if showCard {
		fmt.Fprintln(w)
		if !card.Present {
			fmt.Fprintln(w, styles.warning.Render("No hardware token connected."))
			return nil
		}
		fmt.Fprintln(w, styles.header.Render("Hardware token"))
		fmt.Fprintf(w, "  %s\n", styles.value.Render(describeCard(&CardResponse{
			Present:      card.Present,
			SerialNumber: card.SerialNumber,
			CardType:     card.CardType,
			Firmware:     card.Firmware,
			TouchSig:     card.TouchSig,
		})))
		if card.TouchEnc != "" || card.TouchAut != "" {
			fmt.Fprintf(w, "  %s\n", styles.dim.Render(fmt.Sprintf(
				"touch policies: enc %s, aut %s", orUnknown(card.TouchEnc), orUnknown(card.TouchAut))))
		}
	}
	return nil
}

// formatKeyTime renders a key timestamp as a date, or "" when zero.
func formatKeyTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// orUnknown substitutes "unknown" for an empty touch policy value.
func orUnknown(policy string) string {
	if policy == "" {
		return "unknown"
	}
	return policy
}
