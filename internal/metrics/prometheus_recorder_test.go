package metrics

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorderCounts(t *testing.T) {
	pr := NewPrometheusRecorder(prom.NewRegistry())
	pr.IncTargets("ent", "page")
	pr.IncTargets("ent", "page")
	pr.IncTargets("ent", "alias")
	pr.IncWarnings("orphan", 2)
	pr.IncWarnings("orphan", 0)
	pr.IncRunOutcome(OutcomeWarning)
	pr.ObserveBranchDuration("main", 150*time.Millisecond)
	pr.ObserveRunDuration(500 * time.Millisecond)

	mfs, err := pr.Registry().Gather()
	require.NoError(t, err)
	assert.Len(t, mfs, 5)

	file := filepath.Join(t.TempDir(), "docmatrix.prom")
	require.NoError(t, pr.WriteTextfile(file))
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `docmatrix_targets_generated_total{distro="ent",kind="page"} 2`)
	assert.Contains(t, out, `docmatrix_targets_generated_total{distro="ent",kind="alias"} 1`)
	assert.Contains(t, out, `docmatrix_warnings_total{kind="orphan"} 2`)
	assert.Contains(t, out, `docmatrix_run_outcomes_total{outcome="warning"} 1`)
}

func TestWriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncRunOutcome(OutcomeSuccess)

	file := filepath.Join(t.TempDir(), "docmatrix.prom")
	require.NoError(t, pr.WriteTextfile(file))
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `docmatrix_run_outcomes_total{outcome="success"} 1`)
}

func TestHTTPHandler(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncTargets("ent", "page")

	rec := httptest.NewRecorder()
	pr.HTTPHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "docmatrix_targets_generated_total")
}
