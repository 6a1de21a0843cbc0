package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewIngestCmd builds the ingest command.
func NewIngestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <url-or-path>...",
		Short: "Ingest AWS documentation PDFs into the vector store",
		Long: `Ingest downloads (or opens) each given PDF, strips the table of
contents and document history pages, converts the remainder to
markdown with corrected heading levels, chunks it along the heading
hierarchy, and stores embedded chunks in the vector store.

Examples:
  lumen ingest https://docs.aws.amazon.com/pdfs/AmazonS3/latest/userguide/s3-userguide.pdf
  lumen ingest ./local/ec2-ug.pdf`,
		Args: cobra.MinimumNArgs(1),
		RunE: runIngest,
	}
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	gateway, err := newGateway(cfg)
	if err != nil {
		return err
	}
	pipeline, reg, err := newPipeline(ctx, cfg, gateway)
	if err != nil {
		return err
	}
	if reg != nil {
		defer reg.Close()
	}

	for _, source := range args {
		result, err := pipeline.Run(ctx, source)
		if err != nil {
			return fmt.Errorf("ingest %s: %w", source, err)
		}
		fmt.Printf("Ingested %q: %d pages, %d chunks in %s\n",
			result.Title, result.Pages, result.Chunks, result.Duration.Round(10*time.Millisecond))
	}
	return nil
}
