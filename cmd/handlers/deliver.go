package handlers

import (
	"context"
	"fmt"
	"os"

	"dailybrief/internal/config"
	"dailybrief/internal/core"
	"dailybrief/internal/email"
	"dailybrief/internal/logger"
	"dailybrief/internal/store"
	"dailybrief/internal/telegram"

	"github.com/spf13/cobra"
)

// NewDeliverCmd creates the deliver command
func NewDeliverCmd() *cobra.Command {
	deliverCmd := &cobra.Command{
		Use:   "deliver",
		Short: "Send a stored digest via email or Telegram",
		Long: `Deliver a digest to the configured channel. With --digest the named
digest is sent, otherwise the latest digest for the persona is used.`,
		Run: func(cmd *cobra.Command, args []string) {
			via, _ := cmd.Flags().GetString("via")
			digestID, _ := cmd.Flags().GetString("digest")
			persona, _ := cmd.Flags().GetString("persona")
			if err := runDeliver(cmd.Context(), via, digestID, persona); err != nil {
				logger.Error("Delivery failed", err)
				os.Exit(1)
			}
		},
	}

	deliverCmd.Flags().String("via", "email", "Delivery channel: email or telegram")
	deliverCmd.Flags().String("digest", "", "Digest ID to deliver (defaults to latest for the persona)")
	deliverCmd.Flags().StringP("persona", "p", "genai", "Persona used to pick the latest digest")
	return deliverCmd
}

func runDeliver(ctx context.Context, via, digestID, persona string) error {
	cfg := config.Get()

	st, err := store.NewStore(cfg.App.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("Failed to close store", err)
		}
	}()

	var d *core.Digest
	if digestID != "" {
		d, err = st.GetDigest(ctx, digestID)
	} else {
		d, err = st.LatestDigest(ctx, persona)
	}
	if err != nil {
		return fmt.Errorf("failed to load digest: %w", err)
	}
	if d == nil {
		return fmt.Errorf("no digest found to deliver")
	}

	switch via {
	case "email":
		sender, err := email.NewSender(cfg.Email)
		if err != nil {
			return err
		}
		if err := sender.SendDigest(*d); err != nil {
			return err
		}
		fmt.Printf("✓ Digest %s emailed to %s\n", d.ID, cfg.Email.To)
	case "telegram":
		client, err := telegram.NewClient(cfg.Telegram)
		if err != nil {
			return err
		}
		if err := client.SendDigest(ctx, *d); err != nil {
			return err
		}
		fmt.Printf("✓ Digest %s sent to Telegram\n", d.ID)
	default:
		return fmt.Errorf("unknown delivery channel %q (want email or telegram)", via)
	}
	return nil
}
