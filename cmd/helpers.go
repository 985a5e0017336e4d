package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shandysiswandi/coursebell/internal/app"
	"github.com/shandysiswandi/coursebell/internal/pkg/router"
	"github.com/spf13/cobra"
)

// withApp builds the application without consumers, runs fn and releases
// every resource.
func withApp(cmd *cobra.Command, fn func(a *app.App) error) error {
	a := app.New(app.Options{ConfigPath: cfgFile})
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		a.Stop(ctx)
	}()

	return fn(a)
}

// runAdmin dispatches one admin action in-process and prints the reply.
func runAdmin(cmd *cobra.Command, module, action string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	return withApp(cmd, func(a *app.App) error {
		admin, err := a.Admin(module)
		if err != nil {
			return fmt.Errorf("%s: %w", module, err)
		}

		reply := admin.Dispatch(cmd.Context(), router.Meta{
			CorrelationID: a.UUID().Generate(),
			Authorization: "Bearer " + token,
		}, router.Command{Action: action, Payload: raw})

		return printReply(cmd, reply)
	})
}

func printReply(cmd *cobra.Command, reply router.Reply) error {
	if err := reply.Err(); err != nil {
		if len(reply.Fields) > 0 {
			for field, msg := range reply.Fields {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", field, msg)
			}
		}
		return err
	}

	out, err := json.MarshalIndent(reply.Data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode reply: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
