// webbasectl is the operator CLI: inspect stored contact submissions,
// preview the notification email templates, and generate secrets.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/netidea/webbase/internal/config"
	"github.com/netidea/webbase/internal/logging"
	"github.com/netidea/webbase/internal/mailer"
	"github.com/netidea/webbase/internal/model"
	"github.com/netidea/webbase/internal/repository"
)

var cfgFile string

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "webbasectl",
		Short:         "Operator tooling for the webbase service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (defaults to environment only)")

	cmd.AddCommand(newContactsCmd())
	cmd.AddCommand(newMailPreviewCmd())
	cmd.AddCommand(newSecretCmd())
	return cmd
}

func loadConfig() (config.Config, error) {
	_ = godotenv.Load()
	path := cfgFile
	if path == "" {
		path = os.Getenv("WEBBASE_CONFIG")
	}
	return config.Load(path)
}

func newContactsCmd() *cobra.Command {
	var status string
	var limit int

	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "List stored contact submissions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			pool, err := repository.NewPool(cmd.Context(), cfg.DB.URL)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			defer pool.Close()

			repo := repository.NewPgContactRepository(pool)
			subs, err := repo.List(cmd.Context(), model.ContactListOptions{Status: status, Limit: limit})
			if err != nil {
				return fmt.Errorf("list submissions: %w", err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tSTATUS\tNAME\tEMAIL")
			for _, s := range subs {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
					s.ID, s.CreatedAt.Format("2006-01-02 15:04"), s.Status, s.Name, s.Email)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&status, "status", "all", "filter by status: all, unread, read")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of rows")
	return cmd
}

// previewKinds maps the --kind flag to a template base name and sample data.
var previewKinds = []string{"contact_owner", "contact_visitor", "booking_confirm_request", "booking_confirmed"}

func newMailPreviewCmd() *cobra.Command {
	var kind, theme, format string

	cmd := &cobra.Command{
		Use:   "mailpreview",
		Short: "Render a notification email template with sample data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			renderer, err := mailer.NewRenderer()
			if err != nil {
				return err
			}

			var data any
			switch kind {
			case "contact_owner", "contact_visitor":
				data = struct {
					Contact *model.ContactSubmission
					Theme   mailer.Theme
				}{
					Contact: &model.ContactSubmission{
						Name:      "Max Mustermann",
						Email:     "max@example.com",
						Phone:     "+49 170 0000000",
						Message:   "Guten Tag, ich interessiere mich für Ihr Angebot.",
						Consent:   true,
						WantsCopy: true,
					},
					Theme: mailer.ResolveTheme(theme),
				}
			case "booking_confirm_request", "booking_confirmed":
				data = struct {
					Booking    *model.Booking
					ConfirmURL string
				}{
					Booking:    &model.Booking{ID: 1, Name: "Max Mustermann", Email: "max@example.com"},
					ConfirmURL: "https://example.com/api/booking/confirm?token=preview",
				}
			default:
				return fmt.Errorf("unknown kind %q, expected one of %v", kind, previewKinds)
			}

			out, err := renderer.Render(kind+"."+format+".tmpl", data)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "contact_owner", "template to render: contact_owner, contact_visitor, booking_confirm_request, booking_confirmed")
	cmd.Flags().StringVar(&theme, "theme", "light", "email theme: light or dark")
	cmd.Flags().StringVar(&format, "format", "txt", "output format: txt or html")
	return cmd
}

func newSecretCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "secret",
		Short: "Generate a new 32-byte hex application secret",
		RunE: func(cmd *cobra.Command, _ []string) error {
			buf := make([]byte, 32)
			if _, err := rand.Read(buf); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(buf))
			return nil
		},
	}
}

func main() {
	logging.Setup()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
