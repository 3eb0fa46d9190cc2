package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestResult(t *testing.T) {
	assert.Equal(t, ResultSuccess, Result(nil))
	assert.Equal(t, ResultError, Result(errors.New("boom")))
}

func TestObserveEntryOperation(t *testing.T) {
	before := testutil.ToFloat64(EntryOperations.WithLabelValues("create", ResultError))

	ObserveEntryOperation("create", errors.New("boom"))

	after := testutil.ToFloat64(EntryOperations.WithLabelValues("create", ResultError))
	assert.Equal(t, before+1, after)
}

func TestObserveEmbedding(t *testing.T) {
	before := testutil.ToFloat64(EmbeddingRequests.WithLabelValues("test-model", ResultSuccess))

	ObserveEmbedding("test-model", time.Now(), nil)

	after := testutil.ToFloat64(EmbeddingRequests.WithLabelValues("test-model", ResultSuccess))
	assert.Equal(t, before+1, after)
}

func TestObserveArchiveRequest(t *testing.T) {
	before := testutil.ToFloat64(ArchiveRequests.WithLabelValues("s3", "content", ResultSuccess))

	ObserveArchiveRequest("s3", "content", nil)

	after := testutil.ToFloat64(ArchiveRequests.WithLabelValues("s3", "content", ResultSuccess))
	assert.Equal(t, before+1, after)
}
