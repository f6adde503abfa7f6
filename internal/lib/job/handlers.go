package job

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/deppfellow/memwarzz/internal/metrics"
	"github.com/hibiken/asynq"
)

// observe records the outcome of a task run.
func observe(task string, start time.Time, err *error) {
	metrics.RecordJobRun(task, *err == nil, time.Since(start))
}

func (j *JobService) handleWelcomeEmailTask(ctx context.Context, t *asynq.Task) (err error) {
	defer observe(TaskWelcome, time.Now(), &err)

	var p WelcomeEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal welcome email payload: %w", err)
	}

	j.logger.Info().
		Str("type", "welcome").
		Str("handle", p.Handle).
		Msg("Processing welcome email task")

	if err := j.mailer.SendWelcomeEmail(p.To, p.Username, p.Handle); err != nil {
		j.logger.Error().
			Str("type", "welcome").
			Str("handle", p.Handle).
			Err(err).
			Msg("Failed to send welcome email")
		return err
	}

	return nil
}

func (j *JobService) handleSponsorOutbidTask(ctx context.Context, t *asynq.Task) (err error) {
	defer observe(TaskSponsorOutbid, time.Now(), &err)

	var p SponsorOutbidPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal sponsor outbid payload: %w", err)
	}

	j.logger.Info().
		Str("type", "sponsor_outbid").
		Str("company", p.CompanyName).
		Msg("Processing sponsor outbid email task")

	if err := j.mailer.SendSponsorOutbidEmail(p.To, p.CompanyName, p.WinningCompany, p.WinningBid); err != nil {
		j.logger.Error().
			Str("type", "sponsor_outbid").
			Str("company", p.CompanyName).
			Err(err).
			Msg("Failed to send sponsor outbid email")
		return err
	}

	return nil
}

func (j *JobService) handleBattleResultTask(ctx context.Context, t *asynq.Task) (err error) {
	defer observe(TaskBattleResult, time.Now(), &err)

	var p BattleResultPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal battle result payload: %w", err)
	}

	err = j.mailer.SendBattleResultEmail(
		p.To,
		p.Username,
		p.Result,
		strconv.FormatInt(p.Meme1Votes, 10),
		strconv.FormatInt(p.Meme2Votes, 10),
	)
	if err != nil {
		j.logger.Error().Str("type", "battle_result").Err(err).Msg("Failed to send battle result email")
		return err
	}

	return nil
}

// handleSettleBattlesTask never retries: the next scheduled run picks up
// whatever this one missed.
func (j *JobService) handleSettleBattlesTask(ctx context.Context, t *asynq.Task) (err error) {
	defer observe(TaskSettleBattles, time.Now(), &err)

	closed, err := j.settler.SettleExpired(ctx)
	if err != nil {
		j.logger.Error().Err(err).Msg("Failed to settle expired battles")
		return err
	}

	if closed > 0 {
		j.logger.Info().Int("closed", closed).Msg("Settled expired battles")
	}
	return nil
}
