// Command picocms runs the PicoCMS server and its maintenance helpers.
//
// Usage:
//
//	picocms                          # same as "picocms serve"
//	picocms serve                    # run the HTTP server
//	picocms hash-password <password> # print a bcrypt hash for ADMIN_PASSWORD_HASH
//	picocms totp-setup [png-path]    # enroll the admin in TOTP two-factor login
//	picocms version
//
// Configuration is read from the environment; see internal/config.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "picocms",
	Short:         "A small CMS with PicoCSS themes",
	Long:          `PicoCMS serves a blog with static pages, a contact form and a single-admin dashboard.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE:          runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
