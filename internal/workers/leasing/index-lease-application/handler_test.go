// internal/workers/leasing/index-lease-application/handler_test.go
package indexleaseapplication

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leasing-wizard/internal/common/config"
	"leasing-wizard/internal/common/database"
	"leasing-wizard/internal/common/errors"
	"leasing-wizard/internal/common/logger"
	"leasing-wizard/internal/models"
)

var fixedNow = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

type indexerFunc func(ctx context.Context, index, id string, doc interface{}) (*database.IndexResult, error)

func (f indexerFunc) IndexDocument(ctx context.Context, index, id string, doc interface{}) (*database.IndexResult, error) {
	return f(ctx, index, id, doc)
}

func createTestInput() *Input {
	income := 50000.0
	return &Input{
		ApplicationID: "app-1",
		CreatedAt:     "2025-06-01T11:59:00Z",
		Application: &models.ApplicationDraft{
			FullName:      "Jane Doe",
			Email:         "jane@x.com",
			Country:       "Germany",
			ProductType:   models.ProductCar,
			ProductModel:  "Car Model",
			LeaseDuration: 30,
			MonthlyBudget: 600,
			EmployerName:  "Acme",
			AnnualIncome:  &income,
		},
	}
}

func newTestHandler(t *testing.T, idx Indexer) *Handler {
	h := NewHandler(LoadConfig(config.ElasticsearchConfig{}, config.WorkerConfig{}), idx, logger.NewTestLogger(t))
	h.now = func() time.Time { return fixedNow }
	return h
}

func TestHandler_Execute_Success(t *testing.T) {
	var gotIndex, gotID string
	var gotDoc SearchDocument
	idx := indexerFunc(func(_ context.Context, index, id string, doc interface{}) (*database.IndexResult, error) {
		gotIndex, gotID = index, id
		gotDoc = doc.(SearchDocument)
		return &database.IndexResult{ID: id, Index: index, Result: "created", Version: 1}, nil
	})

	output, err := newTestHandler(t, idx).Execute(context.Background(), createTestInput())
	require.NoError(t, err)

	assert.True(t, output.Indexed)
	assert.Equal(t, "app-1", output.DocumentID)
	assert.Equal(t, "created", output.Result)
	assert.Equal(t, models.StatusIndexed, output.Status)

	assert.Equal(t, DefaultIndex, gotIndex)
	assert.Equal(t, "app-1", gotID)
	assert.True(t, gotDoc.ExtendedLease)
	assert.False(t, gotDoc.HasDocument)
	assert.Equal(t, "2025-06-01T12:00:00Z", gotDoc.IndexedAt)
}

func TestHandler_Execute_IndexFailureIsRetryable(t *testing.T) {
	idx := indexerFunc(func(context.Context, string, string, interface{}) (*database.IndexResult, error) {
		return nil, stderrors.New("cluster_block_exception")
	})

	_, err := newTestHandler(t, idx).Execute(context.Background(), createTestInput())
	stdErr := errors.Normalize(err)
	assert.Equal(t, errors.ErrCodeIndexingFailed, stdErr.Code)
	assert.Equal(t, "INDEXING_FAILED", errors.ConvertToBPMNError(stdErr).Code)
	assert.Equal(t, 3, errors.ConvertToBPMNError(stdErr).Retries)
}

func TestHandler_Execute_Timeout(t *testing.T) {
	idx := indexerFunc(func(ctx context.Context, _, _ string, _ interface{}) (*database.IndexResult, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()

	_, err := newTestHandler(t, idx).Execute(ctx, createTestInput())
	assert.Equal(t, errors.ErrCodeTimeout, errors.Normalize(err).Code)
}

func TestHandler_Execute_InvalidInput(t *testing.T) {
	idx := indexerFunc(func(context.Context, string, string, interface{}) (*database.IndexResult, error) {
		t.Fatal("indexer must not be called")
		return nil, nil
	})

	_, err := newTestHandler(t, idx).Execute(context.Background(), &Input{ApplicationID: "app-1"})
	assert.Equal(t, errors.ErrCodeInvalidPayload, errors.Normalize(err).Code)
}

func TestHandler_Execute_Elasticsearch(t *testing.T) {
	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		gotPath = r.Method + " " + r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"_index":"lease-applications","_id":"app-1","_version":1,"result":"created"}`)
	}))
	defer srv.Close()

	es, err := database.NewElasticsearch(config.ElasticsearchConfig{URL: srv.URL})
	require.NoError(t, err)

	output, err := newTestHandler(t, es).Execute(context.Background(), createTestInput())
	require.NoError(t, err)

	assert.Equal(t, "PUT /lease-applications/_doc/app-1", gotPath)
	assert.Contains(t, gotBody, `"productModel":"Car Model"`)
	assert.Contains(t, gotBody, `"extendedLease":true`)
	assert.Equal(t, "created", output.Result)
}

func TestBuildDocument_ShortLease(t *testing.T) {
	d := createTestInput().Application
	d.LeaseDuration = 24
	d.Document = &models.Document{Name: "id.pdf"}

	doc := BuildDocument("app-2", *d, "", fixedNow)
	assert.False(t, doc.ExtendedLease)
	assert.True(t, doc.HasDocument)
	assert.Empty(t, doc.CreatedAt)
}
