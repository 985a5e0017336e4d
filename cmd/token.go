package cmd

import (
	"fmt"

	"github.com/shandysiswandi/coursebell/internal/app"
	"github.com/spf13/cobra"
)

var (
	tokenUserID int64
	tokenEmail  string
	tokenRole   string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Sign an admin bearer token",
	Long: `Signs a token with jwt.secret for the given user. The user id is the
casbin subject; the role is checked when the subject has no policy.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			tok, err := a.JWT().Generate(tokenUserID, tokenEmail, tokenRole)
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		})
	},
}

func init() {
	tokenCmd.Flags().Int64Var(&tokenUserID, "user-id", 0, "user id (token subject)")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "user email")
	tokenCmd.Flags().StringVar(&tokenRole, "role", "", "casbin role, e.g. admin")
	_ = tokenCmd.MarkFlagRequired("user-id")
	rootCmd.AddCommand(tokenCmd)
}
