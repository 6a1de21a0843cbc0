package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCollectionCmd builds the collection metadata command.
func NewCollectionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "collection",
		Short: "Show vector store collection metadata",
		Args:  cobra.NoArgs,
		RunE:  runCollection,
	}
}

func runCollection(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	gateway, err := newGateway(cfg)
	if err != nil {
		return err
	}

	info, err := gateway.Info(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Collection:       %s\n", cfg.Vector.Collection)
	fmt.Printf("Points:           %d\n", info.Points)
	fmt.Printf("Status:           %s\n", info.Status)
	fmt.Printf("Optimizer status: %s\n", info.OptimizerStatus)
	return nil
}
