package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// Task type names stored in Redis.
const (
	TaskWelcome       = "email:welcome"
	TaskSponsorOutbid = "email:sponsor_outbid"
	TaskBattleResult  = "email:battle_result"
	TaskSettleBattles = "battle:settle"
)

const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

type WelcomeEmailPayload struct {
	To       string `json:"to"`
	Username string `json:"username"`
	Handle   string `json:"handle"`
}

// SponsorOutbidPayload is sent to the sponsor that lost the main slot.
type SponsorOutbidPayload struct {
	To             string `json:"to"`
	CompanyName    string `json:"company_name"`
	WinningCompany string `json:"winning_company"`
	WinningBid     string `json:"winning_bid"`
}

type BattleResultPayload struct {
	To         string `json:"to"`
	Username   string `json:"username"`
	Result     string `json:"result"`
	Meme1Votes int64  `json:"meme1_votes"`
	Meme2Votes int64  `json:"meme2_votes"`
}

func newEmailTask(taskType, queue string, payload any) (*asynq.Task, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		taskType,
		raw,
		asynq.MaxRetry(3),
		asynq.Queue(queue),
		asynq.Timeout(30*time.Second),
	), nil
}

// NewWelcomeEmailTask builds the task sent after a sign-up.
func NewWelcomeEmailTask(to, username, handle string) (*asynq.Task, error) {
	return newEmailTask(TaskWelcome, QueueDefault, WelcomeEmailPayload{
		To:       to,
		Username: username,
		Handle:   handle,
	})
}

func NewSponsorOutbidTask(p SponsorOutbidPayload) (*asynq.Task, error) {
	return newEmailTask(TaskSponsorOutbid, QueueDefault, p)
}

func NewBattleResultTask(p BattleResultPayload) (*asynq.Task, error) {
	return newEmailTask(TaskBattleResult, QueueLow, p)
}

// NewSettleBattlesTask builds the periodic settlement task. Unique keeps a
// slow run from piling up duplicates in the queue.
func NewSettleBattlesTask() *asynq.Task {
	return asynq.NewTask(
		TaskSettleBattles,
		nil,
		asynq.MaxRetry(0),
		asynq.Queue(QueueCritical),
		asynq.Timeout(50*time.Second),
		asynq.Unique(55*time.Second),
	)
}
