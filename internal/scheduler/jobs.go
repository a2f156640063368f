package scheduler

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tanq16/chessdl/internal/emit"
	"github.com/tanq16/chessdl/internal/output"
	"github.com/tanq16/chessdl/internal/pgn"
	"github.com/tanq16/chessdl/internal/utils"
)

type Job struct {
	Request    utils.DownloadRequest
	OutputPath string
	NoFilter   bool // keep every chess.com game regardless of time controls
}

func (j Job) label() string {
	return fmt.Sprintf("%s@%s", j.Request.Username, j.Request.Platform)
}

type EmitterFactory func(outputPath string) (emit.Emitter, error)

// RunJobs runs each job as its own session, strictly one at a time. It returns
// the number of failed jobs; cancelled jobs are not failures.
func (o *Orchestrator) RunJobs(ctx context.Context, jobs []Job, newEmitter EmitterFactory, outputMgr *output.Manager) int {
	outputMgr.StartDisplay()
	defer outputMgr.StopDisplay()

	ids := make([]int, len(jobs))
	for i, job := range jobs {
		ids[i] = outputMgr.Register(job.label())
	}
	failures := 0
	for i, job := range jobs {
		id := ids[i]
		if ctx.Err() != nil {
			outputMgr.Warn(id, utils.MsgCancelled)
			continue
		}
		if err := o.runJob(ctx, job, id, newEmitter, outputMgr); err != nil {
			if utils.IsCancelled(err) {
				outputMgr.Warn(id, fmt.Sprintf("%s for %s", utils.MsgCancelled, job.label()))
				continue
			}
			failures++
			outputMgr.ReportError(id, err)
		}
	}
	return failures
}

func (o *Orchestrator) runJob(ctx context.Context, job Job, id int, newEmitter EmitterFactory, outputMgr *output.Manager) error {
	emitter, err := newEmitter(job.OutputPath)
	if err != nil {
		return err
	}
	outputMgr.SetMessage(id, fmt.Sprintf("Downloading games for %s", job.label()))
	result, err := o.Run(ctx, job.Request, func(percent int) {
		outputMgr.SetProgress(id, percent)
	})
	if err != nil {
		return err
	}
	payload := result.Payload
	if job.Request.Platform == utils.PlatformChessCom && !job.NoFilter && len(job.Request.TimeControls) > 0 {
		filtered, kept, total, err := pgn.FilterTimeClasses(payload, job.Request.TimeControls)
		if err != nil {
			log.Warn().Str("op", "scheduler/jobs").Err(err).Msg("time class filter skipped, saving every game")
		} else {
			log.Info().Str("op", "scheduler/jobs").Msgf("time class filter kept %d of %d games", kept, total)
			if kept == 0 {
				return utils.NewNoDataError(job.Request.Platform)
			}
			payload = filtered
		}
	}
	location, err := emitter.Emit(ctx, result.FileName, []byte(payload))
	if err != nil {
		if utils.IsContextError(err) {
			return utils.NewCancelledError(job.Request.Platform, err)
		}
		return err
	}
	message := fmt.Sprintf("Saved %s games to %s", job.label(), location)
	if len(result.SkippedUnits) > 0 {
		message = fmt.Sprintf("%s (%d of %d months skipped)", message, len(result.SkippedUnits), result.Units)
	}
	outputMgr.Complete(id, message)
	return nil
}
