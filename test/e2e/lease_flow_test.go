// test/e2e/lease_flow_test.go
package e2e

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leasing-wizard/internal/common/config"
	"leasing-wizard/internal/common/database"
	"leasing-wizard/internal/common/errors"
	"leasing-wizard/internal/common/logger"
	"leasing-wizard/internal/leasing/countries"
	"leasing-wizard/internal/leasing/form"
	"leasing-wizard/internal/leasing/store"
	"leasing-wizard/internal/leasing/submission"
	"leasing-wizard/internal/leasing/wizard"
	"leasing-wizard/internal/models"

	createleaserecord "leasing-wizard/internal/workers/leasing/create-lease-record"
	indexleaseapplication "leasing-wizard/internal/workers/leasing/index-lease-application"
	sendleaseconfirmation "leasing-wizard/internal/workers/leasing/send-lease-confirmation"
	validateleaseapplication "leasing-wizard/internal/workers/leasing/validate-lease-application"
)

var fixedNow = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

type recordingMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *recordingMailer) SendText(_ context.Context, from, to, subject, body string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to+"|"+subject)
	return fmt.Sprintf("msg-%d", len(m.sent)), nil
}

type fakeIndex struct {
	mu   sync.Mutex
	docs map[string]string
}

func (f *fakeIndex) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		body, _ := io.ReadAll(r.Body)
		id := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]

		f.mu.Lock()
		f.docs[id] = string(body)
		f.mu.Unlock()

		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, `{"_index":"lease-applications","_id":%q,"_version":1,"result":"created"}`, id)
	})
}

// pipeline runs the four lease workers in process order, the way the BPMN
// process would after the wizard starts it.
type pipeline struct {
	validate *validateleaseapplication.Handler
	create   *createleaserecord.Handler
	index    *indexleaseapplication.Handler
	confirm  *sendleaseconfirmation.Handler
}

func (p *pipeline) Submit(ctx context.Context, draft models.ApplicationDraft) (submission.Ack, error) {
	raw, err := json.Marshal(draft)
	if err != nil {
		return submission.Ack{}, err
	}

	validated, err := p.validate.Execute(ctx, &validateleaseapplication.Input{Application: raw})
	if err != nil {
		return submission.Ack{}, err
	}
	normalized := validated.NormalizedDraft

	record, err := p.create.Execute(ctx, &createleaserecord.Input{NormalizedDraft: &normalized, SubmittedBy: "wizard"})
	if err != nil {
		return submission.Ack{}, err
	}

	if _, err := p.index.Execute(ctx, &indexleaseapplication.Input{
		ApplicationID:   record.ApplicationID,
		NormalizedDraft: &normalized,
		CreatedAt:       record.CreatedAt,
	}); err != nil {
		return submission.Ack{}, err
	}

	if _, err := p.confirm.Execute(ctx, &sendleaseconfirmation.Input{
		ApplicationID:   record.ApplicationID,
		NormalizedDraft: &normalized,
	}); err != nil {
		return submission.Ack{}, err
	}

	return submission.Ack{Reference: record.ApplicationID, SubmittedAt: fixedNow}, nil
}

type harness struct {
	store  *store.Store
	index  *fakeIndex
	mailer *recordingMailer
	sink   *pipeline
	form   *form.Form
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()
	log := logger.NewTestLogger(t)

	db, err := database.NewSQLite(config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "leasing.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	st := store.New(db)
	require.NoError(t, st.Migrate(ctx))

	idx := &fakeIndex{docs: map[string]string{}}
	srv := httptest.NewServer(idx.handler())
	t.Cleanup(srv.Close)
	es, err := database.NewElasticsearch(config.ElasticsearchConfig{URL: srv.URL})
	require.NoError(t, err)

	var awsCfg config.AWSConfig
	awsCfg.SES.Enabled = true
	awsCfg.SES.FromEmail = "leasing@example.com"
	mailer := &recordingMailer{}

	f := form.New(form.WithClock(func() time.Time { return fixedNow }))
	wcfg := config.WorkerConfig{Timeout: 5000}

	return &harness{
		store:  st,
		index:  idx,
		mailer: mailer,
		form:   f,
		sink: &pipeline{
			validate: validateleaseapplication.NewHandler(validateleaseapplication.LoadConfig(wcfg), f, log),
			create:   createleaserecord.NewHandler(createleaserecord.LoadConfig(wcfg), st, log),
			index:    indexleaseapplication.NewHandler(indexleaseapplication.LoadConfig(config.ElasticsearchConfig{}, wcfg), es, log),
			confirm:  sendleaseconfirmation.NewHandler(sendleaseconfirmation.LoadConfig(awsCfg, wcfg), mailer, nil, log),
		},
	}
}

func fillWizard(t *testing.T, ctrl *wizard.Controller, leaseDuration string, extra map[string]string) {
	t.Helper()
	set := func(field, value string) {
		require.NoError(t, ctrl.Set(field, value), field)
	}

	set(form.FieldFullName, "Jane Doe")
	set(form.FieldEmail, "jane@x.com")
	set(form.FieldPhone, "1234567890")
	set(form.FieldDOB, "1990-01-01")
	set(form.FieldCountry, "Germany")
	require.NoError(t, ctrl.Next())

	set(form.FieldProductType, string(models.ProductCar))
	set(form.FieldLeaseDuration, leaseDuration)
	set(form.FieldMonthlyBudget, "800")
	require.NoError(t, ctrl.Next())

	set(form.FieldTerms, "true")
	for field, value := range extra {
		set(field, value)
	}
}

func TestLeaseFlow_SubmitsThroughAllWorkers(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	ctrl := wizard.New(countries.Europe, h.sink, wizard.WithForm(h.form), wizard.WithLogger(logger.NewTestLogger(t)))
	require.NoError(t, ctrl.Mount(ctx))

	fillWizard(t, ctrl, "30", map[string]string{
		form.FieldEmployerName: "Acme",
		form.FieldAnnualIncome: "50000",
	})
	require.NoError(t, ctrl.Submit(ctx))
	require.Equal(t, wizard.Submitted, ctrl.Step())

	ack, ok := ctrl.Ack()
	require.True(t, ok)

	stored, err := h.store.Get(ctx, ack.Reference)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, stored.Status)
	assert.Equal(t, "Car Model", stored.Draft.ProductModel)
	assert.Equal(t, "Acme", stored.Draft.EmployerName)

	require.Contains(t, h.index.docs, ack.Reference)
	var doc indexleaseapplication.SearchDocument
	require.NoError(t, json.Unmarshal([]byte(h.index.docs[ack.Reference]), &doc))
	assert.True(t, doc.ExtendedLease)
	assert.Equal(t, "Germany", doc.Country)

	require.Len(t, h.mailer.sent, 1)
	assert.True(t, strings.HasPrefix(h.mailer.sent[0], "jane@x.com|"))
}

func TestLeaseFlow_DuplicateApplicationIsRejected(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	first := wizard.New(countries.Europe, h.sink, wizard.WithForm(h.form))
	require.NoError(t, first.Mount(ctx))
	fillWizard(t, first, "12", nil)
	require.NoError(t, first.Submit(ctx))

	second := wizard.New(countries.Europe, h.sink, wizard.WithForm(h.form))
	require.NoError(t, second.Mount(ctx))
	fillWizard(t, second, "12", nil)
	err := second.Submit(ctx)

	require.Error(t, err)
	assert.Equal(t, wizard.Step3, second.Step())
	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeDuplicateApplication, stdErr.Code)
	assert.Len(t, h.mailer.sent, 1)
}
