package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tanq16/chessdl/internal/scheduler"
	"github.com/tanq16/chessdl/internal/utils"
	"gopkg.in/yaml.v3"
)

type BatchFile struct {
	Downloads []utils.DownloadEntry `yaml:"downloads"`
}

func newBatchCmd() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "batch [YAML_FILE] [--output DIR]",
		Short: "Run several downloads from a YAML file, one after another",
		Long: `Run several downloads from a YAML file, one after another.

Example file:
  downloads:
    - platform: lichess
      username: DrNykterstein
      since: 2024-01-01
      time-controls: [blitz]
    - platform: chess.com
      username: hikaru
      until: 2023-12-31
      op: archives/hikaru.pgn`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			data, err := os.ReadFile(args[0])
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error reading YAML file: %v\n", err)
				os.Exit(1)
			}
			jobs, err := buildJobsFromBatch(data, outputPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error parsing YAML file: %v\n", err)
				os.Exit(1)
			}
			if len(jobs) == 0 {
				fmt.Fprintf(os.Stderr, "No valid jobs found in the batch file\n")
				os.Exit(1)
			}
			runJobs(jobs)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Default output directory or s3:// prefix for entries without op")
	return cmd
}

func buildJobsFromBatch(data []byte, defaultOutput string) ([]scheduler.Job, error) {
	var batchFile BatchFile
	if err := yaml.Unmarshal(data, &batchFile); err != nil {
		return nil, err
	}
	var jobs []scheduler.Job
	for i, entry := range batchFile.Downloads {
		req, err := utils.RequestFromEntry(entry)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: entry %d skipped: %v\n", i+1, err)
			continue
		}
		op := entry.OutputPath
		if op == "" {
			op = defaultOutput
		}
		jobs = append(jobs, scheduler.Job{Request: req, OutputPath: op})
	}
	return jobs, nil
}
