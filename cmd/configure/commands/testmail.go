package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/benvon/launch-coach/internal/config"
	"github.com/benvon/launch-coach/internal/mail"
	"github.com/spf13/cobra"
)

// NewTestMailCmd creates the testmail command
func NewTestMailCmd() *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "testmail",
		Short: "Send a test email",
		Long:  "Send a test message through the configured SMTP transport to verify delivery",
		RunE: func(cmd *cobra.Command, args []string) error {
			if to == "" {
				return fmt.Errorf("--to is required")
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			mailer, err := mail.NewSMTPMailer(mail.SMTPConfig{
				Host:        cfg.SMTPHost,
				Port:        cfg.SMTPPort,
				Username:    cfg.SMTPUsername,
				Password:    cfg.SMTPPassword,
				FromAddress: cfg.FromAddress,
				FromName:    cfg.FromName,
			}, nil)
			if err != nil {
				return fmt.Errorf("failed to create mailer: %w", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			body := fmt.Sprintf("<p>Test message sent at %s.</p>", time.Now().UTC().Format(time.RFC3339))
			if err := mailer.Send(ctx, to, "Launch Coach delivery test", body); err != nil {
				return fmt.Errorf("failed to send test mail: %w", err)
			}

			fmt.Printf("Test mail sent to %s via %s:%d\n", to, cfg.SMTPHost, cfg.SMTPPort)
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Recipient address")

	return cmd
}
