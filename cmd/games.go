package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tanq16/chessdl/internal/output"
	"github.com/tanq16/chessdl/internal/scheduler"
	"github.com/tanq16/chessdl/internal/utils"
)

type gameFlags struct {
	outputPath   string
	since        string
	until        string
	timeControls []string
}

func (f *gameFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.outputPath, "output", "o", "", "Output file, directory or s3://bucket/key (default {user}_{platform}_games.pgn)")
	cmd.Flags().StringVar(&f.since, "since", "", "Only games on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.until, "until", "", "Upper date bound (YYYY-MM-DD, default today); lichess stops at the start of this day, chess.com includes its whole month")
	cmd.Flags().StringSliceVar(&f.timeControls, "tc", []string{}, "Time controls to keep (blitz,rapid[,classical]); empty means all")
}

func (f *gameFlags) request(platform utils.Platform, username string) (utils.DownloadRequest, error) {
	start, err := utils.ParseDate(f.since)
	if err != nil {
		return utils.DownloadRequest{}, err
	}
	end, err := utils.ParseDate(f.until)
	if err != nil {
		return utils.DownloadRequest{}, err
	}
	tcs, err := utils.ParseTimeControls(f.timeControls)
	if err != nil {
		return utils.DownloadRequest{}, err
	}
	return utils.DownloadRequest{
		Platform:     platform,
		Username:     username,
		StartDate:    start,
		EndDate:      end,
		TimeControls: tcs,
	}, nil
}

func exitOnError(err error) {
	if err != nil {
		output.PrintError(err.Error())
		os.Exit(1)
	}
}

func newLichessCmd() *cobra.Command {
	var flags gameFlags
	var format string

	cmd := &cobra.Command{
		Use:     "lichess [USERNAME] [--since DATE] [--until DATE] [--tc LIST] [--format pgn|ndjson]",
		Short:   "Download games from Lichess in a single export request",
		Aliases: []string{"li"},
		Args:    cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req, err := flags.request(utils.PlatformLichess, args[0])
			exitOnError(err)
			req.Format = format
			runJobs([]scheduler.Job{{Request: req, OutputPath: flags.outputPath}})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", "pgn", "Export format (pgn or ndjson)")
	return cmd
}

func newChessComCmd() *cobra.Command {
	var flags gameFlags
	var noFilter bool

	cmd := &cobra.Command{
		Use:   "chesscom [USERNAME] [--since DATE] [--until DATE] [--tc LIST] [--no-filter]",
		Short: "Download games from Chess.com, one monthly archive at a time",
		Long: `Download games from Chess.com, one monthly archive at a time.

Chess.com cannot filter by time control, so every game is fetched and
--tc is applied locally using each game's TimeControl tag.

Examples:
  chessdl chesscom hikaru --since 2024-01-01
  chessdl chesscom hikaru --tc blitz -o s3://mybucket/pgn/`,
		Aliases: []string{"chess.com", "cc"},
		Args:    cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req, err := flags.request(utils.PlatformChessCom, args[0])
			exitOnError(err)
			runJobs([]scheduler.Job{{Request: req, OutputPath: flags.outputPath, NoFilter: noFilter}})
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&noFilter, "no-filter", false, "Keep all games even when --tc is given")
	return cmd
}
