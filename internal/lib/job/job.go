// Package job provides background job processing using Asynq.
//
// Asynq is a Redis-backed job queue:
//   - Services enqueue tasks (producer) through asynq.Client.
//   - A server runs workers that process those tasks (consumer).
//   - A scheduler enqueues periodic tasks, such as closing expired battles.
package job

import (
	"context"

	"github.com/deppfellow/memwarzz/internal/config"
	"github.com/deppfellow/memwarzz/internal/lib/email"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// BattleSettler closes battles whose voting window has passed and reports
// how many it closed.
type BattleSettler interface {
	SettleExpired(ctx context.Context) (int, error)
}

// Mailer sends the transactional emails the tasks carry.
type Mailer interface {
	SendWelcomeEmail(to, username, handle string) error
	SendSponsorOutbidEmail(to, companyName, winningCompany, winningBid string) error
	SendBattleResultEmail(to, username, result, meme1Votes, meme2Votes string) error
}

// JobService holds the Asynq client (enqueue), server (worker execution)
// and scheduler (periodic enqueue).
type JobService struct {
	// Client is used by services to enqueue tasks into Redis.
	Client *asynq.Client

	server    *asynq.Server
	scheduler *asynq.Scheduler
	logger    *zerolog.Logger

	// settleSpec is the cron spec of the battle settlement task.
	settleSpec string

	mailer  Mailer
	settler BattleSettler
}

// NewJobService creates a JobService configured to use Redis from cfg.
//
// Queue weights give "critical" tasks the larger worker share:
// out of 10 workers roughly 6 serve critical, 3 default and 1 low.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Address}

	client := asynq.NewClient(redisOpt)

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				QueueCritical: 6, // settlement
				QueueDefault:  3, // welcome and outbid emails
				QueueLow:      1, // battle result emails
			},
		},
	)

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		LogLevel: asynq.WarnLevel,
	})

	return &JobService{
		Client:     client,
		server:     server,
		scheduler:  scheduler,
		logger:     logger,
		settleSpec: cfg.App.BattleSettleSpec,
	}
}

// InitHandlers wires the dependencies task handlers call into. It must run
// before Start.
func (j *JobService) InitHandlers(cfg *config.Config, logger *zerolog.Logger, settler BattleSettler) {
	j.mailer = email.NewClient(cfg, logger)
	j.settler = settler
}

// Mux routes task types to handlers.
func (j *JobService) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskWelcome, j.handleWelcomeEmailTask)
	mux.HandleFunc(TaskSponsorOutbid, j.handleSponsorOutbidTask)
	mux.HandleFunc(TaskBattleResult, j.handleBattleResultTask)
	mux.HandleFunc(TaskSettleBattles, j.handleSettleBattlesTask)
	return mux
}

// Start launches the workers and registers the periodic settlement task.
// Both run in the background; Start returns once they are up.
func (j *JobService) Start() error {
	j.logger.Info().Msg("Starting background job server")

	if err := j.server.Start(j.Mux()); err != nil {
		return err
	}

	if _, err := j.scheduler.Register(j.settleSpec, NewSettleBattlesTask()); err != nil {
		return err
	}
	if err := j.scheduler.Start(); err != nil {
		return err
	}

	j.logger.Info().Str("spec", j.settleSpec).Msg("Scheduled battle settlement")
	return nil
}

// Stop shuts the scheduler and workers down, letting running tasks finish,
// and closes the enqueue client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")
	j.scheduler.Shutdown()
	j.server.Shutdown()
	if err := j.Client.Close(); err != nil {
		j.logger.Error().Err(err).Msg("failed to close job client")
	}
}
