package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"picocms/internal/auth"
)

var totpSetupCmd = &cobra.Command{
	Use:   "totp-setup [png-path]",
	Short: "Generate a TOTP secret for the admin login",
	Long: `Generate a TOTP secret for the administrator and write the provisioning
QR code as a PNG (default totp.png). Scan it with an authenticator app, then
set ADMIN_TOTP_SECRET to the printed secret.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		issuer, _ := cmd.Flags().GetString("issuer")
		account, _ := cmd.Flags().GetString("account")

		path := "totp.png"
		if len(args) == 1 {
			path = args[0]
		}

		enrollment, err := auth.NewEnrollment(issuer, account)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, enrollment.QRCode, 0o600); err != nil {
			return fmt.Errorf("write qr code: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Secret:  %s\n", enrollment.Secret)
		fmt.Fprintf(out, "URL:     %s\n", enrollment.URL)
		fmt.Fprintf(out, "QR code: %s\n\n", path)
		fmt.Fprintf(out, "export ADMIN_TOTP_SECRET=%s\n", enrollment.Secret)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(totpSetupCmd)
	totpSetupCmd.Flags().String("issuer", "PicoCMS", "Issuer shown in the authenticator app")
	totpSetupCmd.Flags().String("account", envOrDefault("ADMIN_USERNAME", "admin"), "Account name shown in the authenticator app")
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
