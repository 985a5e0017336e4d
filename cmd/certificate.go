package cmd

import (
	"fmt"
	"strconv"

	"github.com/shandysiswandi/coursebell/internal/app"
	"github.com/shandysiswandi/coursebell/internal/certificate/inbound"
	"github.com/spf13/cobra"
)

var certificateCmd = &cobra.Command{
	Use:     "certificate",
	Aliases: []string{"cert"},
	Short:   "Migrate legacy certificates to the builder and back",
}

// certificateAction builds a subcommand taking one certificate id.
func certificateAction(use, short, action string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <certificate-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("certificate id: %w", err)
			}
			return runAdmin(cmd, app.ModuleCertificate, action, inbound.CertificateRequest{ID: id})
		},
	}
}

func certificateBulk(use, short, action string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd, app.ModuleCertificate, action, struct{}{})
		},
	}
}

func init() {
	certificateCmd.AddCommand(
		certificateBulk("tools", "Count the certificates the bulk tools would touch", inbound.ActionTools),
		certificateAction("migrate", "Migrate a legacy certificate", inbound.ActionMigrate),
		certificateAction("rollback", "Roll a migrated certificate back to its legacy copy", inbound.ActionRollback),
		certificateAction("delete-legacy", "Delete the legacy copy of a migrated certificate", inbound.ActionDeleteLegacy),
		certificateAction("is-legacy", "Report whether a certificate is legacy", inbound.ActionIsLegacy),
		certificateAction("legacy-of", "Report the modern certificate a legacy copy belongs to", inbound.ActionLegacyOfModern),
		certificateBulk("bulk-migrate", "Migrate every legacy certificate", inbound.ActionBulkMigrate),
		certificateBulk("bulk-rollback", "Roll back every migrated certificate", inbound.ActionBulkRollback),
	)
	rootCmd.AddCommand(certificateCmd)
}
