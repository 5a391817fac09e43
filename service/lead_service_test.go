package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	hooktest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"roicalc/events"
	"roicalc/models"
)

func TestLeadService_Record_Success(t *testing.T) {
	ctx := context.Background()
	repo := new(MockLeadRepository)
	publisher := new(MockEventPublisher)
	svc := NewLeadService(repo, publisher, nil, time.Second)

	createdAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	repo.On("Create", mock.Anything, "ap@example.com").
		Return(&models.Lead{ID: 9, Email: "ap@example.com", CreatedAt: createdAt}, nil)
	publisher.On("Emit", mock.Anything, events.LeadCapturedEvent{
		LeadID:    9,
		Email:     "ap@example.com",
		CreatedAt: createdAt,
	}).Return()

	svc.Record(ctx, "ap@example.com")

	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestLeadService_Record_FailureIsLoggedNotRaised(t *testing.T) {
	hook := hooktest.NewGlobal()
	defer hook.Reset()

	repo := new(MockLeadRepository)
	publisher := new(MockEventPublisher)
	svc := NewLeadService(repo, publisher, nil, time.Second)

	repo.On("Create", mock.Anything, "jane.doe@example.com").Return(nil, errors.New("disk full"))

	require.NotPanics(t, func() {
		svc.Record(context.Background(), "jane.doe@example.com")
	})

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, log.ErrorLevel, entry.Level)
	assert.Equal(t, "example.com", entry.Data["emailDomain"])
	for _, v := range entry.Data {
		if s, ok := v.(string); ok {
			assert.False(t, strings.Contains(s, "jane.doe"), "log entry leaks the address")
		}
	}
	publisher.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything)
}

func TestLeadService_Record_RecoversFromPanic(t *testing.T) {
	repo := new(MockLeadRepository)
	svc := NewLeadService(repo, nil, nil, 0)

	repo.On("Create", mock.Anything, "ap@example.com").Run(func(args mock.Arguments) {
		panic("driver exploded")
	})

	assert.NotPanics(t, func() {
		svc.Record(context.Background(), "ap@example.com")
	})
}

func TestLeadService_Record_AppliesTimeout(t *testing.T) {
	repo := new(MockLeadRepository)
	svc := NewLeadService(repo, nil, nil, 50*time.Millisecond)

	repo.On("Create", mock.Anything, "ap@example.com").Run(func(args mock.Arguments) {
		ctx := args.Get(0).(context.Context)
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
	}).Return(nil, context.DeadlineExceeded)

	svc.Record(context.Background(), "ap@example.com")

	repo.AssertExpectations(t)
}

func TestLeadService_CaptureAsync_Wait(t *testing.T) {
	repo := new(MockLeadRepository)
	svc := NewLeadService(repo, nil, nil, time.Second)

	repo.On("Create", mock.Anything, "first@example.com").Return(nil, errors.New("unavailable"))
	repo.On("Create", mock.Anything, "second@example.com").Return(nil, errors.New("unavailable"))

	svc.CaptureAsync("first@example.com")
	svc.CaptureAsync("second@example.com")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, svc.Wait(ctx))

	repo.AssertExpectations(t)
}

func TestLeadService_Wait_ContextExpires(t *testing.T) {
	repo := new(MockLeadRepository)
	svc := NewLeadService(repo, nil, nil, 0)

	release := make(chan struct{})
	repo.On("Create", mock.Anything, "slow@example.com").Run(func(args mock.Arguments) {
		<-release
	}).Return(nil, errors.New("too late"))

	svc.CaptureAsync("slow@example.com")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, svc.Wait(ctx), context.DeadlineExceeded)

	close(release)
	require.NoError(t, svc.Wait(context.Background()))
}

func TestEmailDomain(t *testing.T) {
	assert.Equal(t, "example.com", emailDomain("ap@example.com"))
	assert.Equal(t, "", emailDomain("not-an-email"))
}
