package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendWelcomeEmail(to, username, handle string) error {
	return m.Called(to, username, handle).Error(0)
}

func (m *mockMailer) SendSponsorOutbidEmail(to, companyName, winningCompany, winningBid string) error {
	return m.Called(to, companyName, winningCompany, winningBid).Error(0)
}

func (m *mockMailer) SendBattleResultEmail(to, username, result, meme1Votes, meme2Votes string) error {
	return m.Called(to, username, result, meme1Votes, meme2Votes).Error(0)
}

type settlerFunc func(ctx context.Context) (int, error)

func (f settlerFunc) SettleExpired(ctx context.Context) (int, error) { return f(ctx) }

func newTestService(mailer Mailer, settler BattleSettler) *JobService {
	logger := zerolog.Nop()
	return &JobService{logger: &logger, mailer: mailer, settler: settler}
}

func TestNewWelcomeEmailTask(t *testing.T) {
	task, err := NewWelcomeEmailTask("pepe@example.com", "Pepe", "pepe")
	require.NoError(t, err)
	assert.Equal(t, TaskWelcome, task.Type())

	var p WelcomeEmailPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, WelcomeEmailPayload{To: "pepe@example.com", Username: "Pepe", Handle: "pepe"}, p)
}

func TestHandleWelcomeEmailTask(t *testing.T) {
	m := &mockMailer{}
	m.On("SendWelcomeEmail", "pepe@example.com", "Pepe", "pepe").Return(nil).Once()

	task, err := NewWelcomeEmailTask("pepe@example.com", "Pepe", "pepe")
	require.NoError(t, err)

	j := newTestService(m, nil)
	assert.NoError(t, j.handleWelcomeEmailTask(context.Background(), task))
	m.AssertExpectations(t)
}

func TestHandleWelcomeEmailTask_BadPayload(t *testing.T) {
	j := newTestService(&mockMailer{}, nil)
	err := j.handleWelcomeEmailTask(context.Background(), asynq.NewTask(TaskWelcome, []byte("{")))
	assert.Error(t, err)
}

func TestHandleSponsorOutbidTask_PropagatesFailure(t *testing.T) {
	m := &mockMailer{}
	m.On("SendSponsorOutbidEmail", "ops@doge.example", "Doge Labs", "Wojak Inc", "$20.00").
		Return(errors.New("provider down")).Once()

	task, err := NewSponsorOutbidTask(SponsorOutbidPayload{
		To:             "ops@doge.example",
		CompanyName:    "Doge Labs",
		WinningCompany: "Wojak Inc",
		WinningBid:     "$20.00",
	})
	require.NoError(t, err)

	j := newTestService(m, nil)
	assert.EqualError(t, j.handleSponsorOutbidTask(context.Background(), task), "provider down")
	m.AssertExpectations(t)
}

func TestHandleBattleResultTask(t *testing.T) {
	m := &mockMailer{}
	m.On("SendBattleResultEmail", "pepe@example.com", "Pepe", "It's a tie!", "3", "3").Return(nil).Once()

	task, err := NewBattleResultTask(BattleResultPayload{
		To: "pepe@example.com", Username: "Pepe", Result: "It's a tie!", Meme1Votes: 3, Meme2Votes: 3,
	})
	require.NoError(t, err)

	j := newTestService(m, nil)
	assert.NoError(t, j.handleBattleResultTask(context.Background(), task))
	m.AssertExpectations(t)
}

func TestHandleSettleBattlesTask(t *testing.T) {
	calls := 0
	j := newTestService(nil, settlerFunc(func(ctx context.Context) (int, error) {
		calls++
		return 2, nil
	}))

	assert.NoError(t, j.handleSettleBattlesTask(context.Background(), NewSettleBattlesTask()))
	assert.Equal(t, 1, calls)

	j.settler = settlerFunc(func(ctx context.Context) (int, error) { return 0, errors.New("db down") })
	assert.Error(t, j.handleSettleBattlesTask(context.Background(), NewSettleBattlesTask()))
}

func TestNewSettleBattlesTask(t *testing.T) {
	task := NewSettleBattlesTask()
	assert.Equal(t, TaskSettleBattles, task.Type())
	assert.Empty(t, task.Payload())
}
