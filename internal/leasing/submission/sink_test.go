package submission

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leasing-wizard/internal/common/config"
	"leasing-wizard/internal/common/logger"
	"leasing-wizard/internal/models"
)

type fakeStarter struct {
	calls     int
	processID string
	vars      interface{}
	key       int64
	err       error
}

func (f *fakeStarter) StartProcess(_ context.Context, processID string, vars interface{}) (int64, error) {
	f.calls++
	f.processID = processID
	f.vars = vars
	return f.key, f.err
}

func testDraft() models.ApplicationDraft {
	d := models.NewApplicationDraft()
	d.FullName = "Jane Doe"
	d.Email = "jane@x.com"
	d.ProductType = models.ProductCar
	d.ProductModel = "Car Model"
	return d
}

func TestNoopSink_AcknowledgesWithReference(t *testing.T) {
	sink := NewNoopSink(logger.NewTestLogger(t))
	fixed := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	sink.now = func() time.Time { return fixed }

	ack, err := sink.Submit(context.Background(), testDraft())
	require.NoError(t, err)

	_, parseErr := uuid.Parse(ack.Reference)
	assert.NoError(t, parseErr)
	assert.Equal(t, fixed, ack.SubmittedAt)
	assert.Zero(t, ack.ProcessInstanceKey)
}

func TestProcessSink_StartsProcess(t *testing.T) {
	starter := &fakeStarter{key: 2251799813685249}
	sink := NewProcessSink(starter, "", logger.NewTestLogger(t))

	ack, err := sink.Submit(context.Background(), testDraft())
	require.NoError(t, err)

	assert.Equal(t, 1, starter.calls)
	assert.Equal(t, DefaultProcessID, starter.processID)
	assert.Equal(t, int64(2251799813685249), ack.ProcessInstanceKey)
	assert.Equal(t, "2251799813685249", ack.Reference)

	vars, ok := starter.vars.(ProcessVariables)
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", vars.Application.FullName)
	assert.NotEmpty(t, vars.SubmittedAt)
}

func TestProcessSink_PropagatesError(t *testing.T) {
	boom := errors.New("gateway unavailable")
	sink := NewProcessSink(&fakeStarter{err: boom}, "custom-process", logger.NewTestLogger(t))

	_, err := sink.Submit(context.Background(), testDraft())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "custom-process")
}

func TestSinkFunc(t *testing.T) {
	var got models.ApplicationDraft
	sink := SinkFunc(func(_ context.Context, d models.ApplicationDraft) (Ack, error) {
		got = d
		return Ack{Reference: "ref"}, nil
	})

	ack, err := sink.Submit(context.Background(), testDraft())
	require.NoError(t, err)
	assert.Equal(t, "ref", ack.Reference)
	assert.Equal(t, "jane@x.com", got.Email)
}

func TestFromConfig(t *testing.T) {
	log := logger.NewNoOpLogger()

	sink, closeFn, err := FromConfig(&config.Config{}, log)
	require.NoError(t, err)
	assert.IsType(t, &NoopSink{}, sink)
	assert.NoError(t, closeFn())

	_, _, err = FromConfig(&config.Config{Wizard: config.WizardConfig{Sink: "carrier-pigeon"}}, log)
	assert.Error(t, err)
}
