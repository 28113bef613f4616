package main

import (
	"fmt"

	"github.com/goliatone/go-command/dispatcher"
	guestentrycmd "github.com/goliatone/go-guestentries/internal/commands/guestentry"
	"github.com/goliatone/go-guestentries/internal/di"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	deleteCollection string
	deleteID         string
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a guest entry",
	Long:  `Delete removes an entry and publishes the deleted event, exactly like the public delete endpoint.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, err := uuid.Parse(deleteID)
		if err != nil {
			return fmt.Errorf("invalid --id %q: %w", deleteID, err)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		container, err := di.NewContainer(cfg)
		if err != nil {
			return err
		}
		defer container.Close()

		registered, err := container.RegisterCommands(di.RegistrationOptions{Dispatcher: di.GoCommandDispatcher{}})
		if err != nil {
			return err
		}
		defer registered.Unsubscribe()

		if err := dispatcher.Dispatch(cmd.Context(), guestentrycmd.NewDeleteEntryCommand(deleteCollection, id)); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Entry deleted: %s\n", id)
		return nil
	},
}

func init() {
	deleteCmd.Flags().StringVar(&deleteCollection, "collection", "", "Collection handle the entry belongs to")
	deleteCmd.Flags().StringVar(&deleteID, "id", "", "Entry id")
	_ = deleteCmd.MarkFlagRequired("collection")
	_ = deleteCmd.MarkFlagRequired("id")
	rootCmd.AddCommand(deleteCmd)
}
