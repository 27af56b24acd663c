package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dvigh8/10k-parser/internal/pipeline"
	"github.com/dvigh8/10k-parser/internal/render"
)

var processCmd = &cobra.Command{
	Use:   "process <pdf>...",
	Short: "Run the extraction pipeline over one or more filings",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := pipeline.NewWorker(render.PDFRenderer{}, cfg.DataDir, cfg.IndexScanPages, log)

		failed := false
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		for _, path := range args {
			job := pipeline.NewJob(path)
			w.Process(cmd.Context(), job)
			snap := job.Snapshot()
			if err := enc.Encode(snap); err != nil {
				return err
			}
			if snap.Status == pipeline.StatusFailed {
				failed = true
			}
		}
		if failed {
			return fmt.Errorf("one or more filings failed")
		}
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the upload directory and process new filings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
			return fmt.Errorf("create upload dir: %w", err)
		}

		orch := pipeline.NewOrchestrator(cfg, render.PDFRenderer{}, log)
		orch.Start(cmd.Context())
		if err := orch.Watch(cmd.Context(), cfg.UploadDir); err != nil {
			orch.Stop()
			return err
		}

		log.Info("watching for filings", "dir", cfg.UploadDir, "workers", cfg.WorkerCount)
		<-cmd.Context().Done()
		log.Info("shutting down...")
		orch.Stop()
		return nil
	},
}
