package commands

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var ingestsLimit int

// NewIngestsCmd builds the ingest-history command.
func NewIngestsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingests",
		Short: "List recorded ingests from the registry",
		Args:  cobra.NoArgs,
		RunE:  runIngests,
	}
	cmd.Flags().IntVar(&ingestsLimit, "limit", 20, "Maximum entries to list")
	return cmd
}

func runIngests(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Registry.DSN == "" {
		return fmt.Errorf("no registry configured (set registry.dsn or LUMEN_REGISTRY_DSN)")
	}

	ctx := cmd.Context()
	reg, err := newRegistry(ctx, cfg)
	if err != nil {
		return err
	}
	defer reg.Close()

	entries, err := reg.List(ctx, ingestsLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No ingests recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INGESTED\tTITLE\tPAGES\tCHUNKS\tDURATION\tSOURCE")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\n",
			e.IngestedAt.Format(time.RFC3339), e.Title, e.Pages, e.Chunks,
			e.Duration.Round(time.Second), e.Source)
	}
	return w.Flush()
}
