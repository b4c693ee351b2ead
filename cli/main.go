package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Denis-Pavliha-s-p/strapi-google-auth/consumer"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "googleauth",
		Short:         "Sign in with Google for the CMS user store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config.yaml")
	root.AddCommand(newServeCmd(opts), newCredentialsCmd(opts))
	return root
}

func newCredentialsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Inspect or replace the stored Google credentials",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the stored credentials with the secret masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, func(a *app) error {
				creds, err := a.service.GetCredentials(cmd.Context())
				if err != nil {
					return err
				}
				if creds == nil {
					return printJSON(cmd, nil)
				}
				return printJSON(cmd, creds.Masked())
			})
		},
	}

	var req consumer.CredentialsRequest
	var scopes []string
	set := &cobra.Command{
		Use:   "set",
		Short: "Create or overwrite the stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Scopes = consumer.ScopeList(scopes)
			return withApp(cmd.Context(), opts, func(a *app) error {
				saved, err := a.service.SaveCredentials(cmd.Context(), req)
				if err != nil {
					return err
				}
				return printJSON(cmd, saved.Masked())
			})
		},
	}
	set.Flags().StringVar(&req.ClientID, "client-id", "", "Google OAuth client id")
	set.Flags().StringVar(&req.ClientSecret, "client-secret", "", "Google OAuth client secret")
	set.Flags().StringVar(&req.RedirectURL, "redirect-url", "", "redirect URL registered with Google")
	set.Flags().StringSliceVar(&scopes, "scopes", nil, "comma separated scopes, e.g. profile,email")

	cmd.AddCommand(show, set)
	return cmd
}

func withApp(ctx context.Context, opts *rootOptions, fn func(a *app) error) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	configureLogger(logrusLogger, cfg)
	a, err := newApp(ctx, cfg, logrusLogger)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logrusLogger.WithError(err).Error("googleauth failed")
		stop()
		os.Exit(1)
	}
}
