// Command profilectl holds developer tooling for bizledger: minting party
// keys for PROFILES_PARTY_SEEDS and issuing bearer tokens for local testing.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	jwttoken "bizledger/internal/jwt_token"
	"bizledger/internal/platform/config"
	"bizledger/internal/profile/signer"
	id "bizledger/pkg/domain"
)

func main() {
	if err := rootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd(out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "profilectl",
		Short:         "Developer tooling for the bizledger profile registry",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)
	cmd.AddCommand(keygenCmd(), tokenCmd())
	return cmd
}

func keygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen <party-name>",
		Short: "Generate a party id and signing key",
		Long: `Generate a new party with a random Ed25519 key and print its seed entry.

Append the printed line to PROFILES_PARTY_SEEDS (entries are separated by ';').`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			party, seed, err := signer.NewKeyring().Generate(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), signer.FormatSeed(party, seed))
			return nil
		},
	}
}

func tokenCmd() *cobra.Command {
	var (
		name string
		ttl  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token <party-id>",
		Short: "Issue a bearer token for a party",
		Long: `Issue an access token signed with PROFILES_JWT_SIGNING_KEY.

Issuer and audience are read from the same environment as the server.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			partyID, err := id.ParsePartyID(args[0])
			if err != nil {
				return err
			}
			var auth config.AuthConfig
			if err := config.ParseEnv(&auth); err != nil {
				return err
			}
			if ttl == 0 {
				ttl = auth.TokenTTL
			}
			tokens := jwttoken.NewJWTService(auth.JWTSigningKey, auth.JWTIssuer, auth.JWTAudience)
			token, err := tokens.GenerateAccessToken(partyID, name, ttl)
			if err != nil {
				return fmt.Errorf("issue token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Party display name carried in the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (default PROFILES_TOKEN_TTL)")
	return cmd
}
