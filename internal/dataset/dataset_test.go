package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/wara-ops/dataportal/internal/config"
	"github.com/wara-ops/dataportal/internal/info"
	"github.com/wara-ops/dataportal/internal/logging"
	"github.com/wara-ops/dataportal/internal/portal"
)

const infoDoc = `# Dataset
telemetry-2024

# Category
Metric

# Tenant
acme

# Short info
CPU counters

# Long info
Per-host CPU counters sampled every 10 s.

# Access Type
closed

# Tags
- cpu, hosts
`

// fakePortal serves the dataset endpoints and records what it received.
type fakePortal struct {
	created  *portal.CreateDatasetRequest
	deleted  string
	forced   string
	datasets []portal.Dataset
	files    []portal.File
	status   int // Non-zero: every endpoint answers with this status.
}

func (f *fakePortal) server(t *testing.T) *portal.Client {
	t.Helper()
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if f.status != 0 {
				http.Error(w, "nope", f.status)
				return
			}
			next.ServeHTTP(w, r)
		})
	})
	r.Post("/dataset", func(w http.ResponseWriter, r *http.Request) {
		var req portal.CreateDatasetRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		f.created = &req
		writeJSON(w, portal.CreatedDataset{DatasetID: 17, ContainerName: "acme-telemetry"})
	})
	r.Get("/dataset", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"Datasets": f.datasets})
	})
	r.Delete("/dataset/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.deleted = chi.URLParam(r, "id")
		f.forced = r.URL.Query().Get("force")
		writeJSON(w, map[string]string{})
	})
	r.Get("/dataset/{id}/files", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"data": f.files})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return portal.New(srv.URL, "tok", portal.WithHTTPClient(srv.Client()))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func testLogger() (*logging.Logger, *bytes.Buffer) {
	var out bytes.Buffer
	return logging.NewWriterLogger(&out, &out, false), &out
}

func writeInfo(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "info.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBuildRequest(t *testing.T) {
	doc := info.Parse(infoDoc)
	require.NoError(t, info.Validate(doc))

	assert.Equal(t, portal.CreateDatasetRequest{
		Category:   "metric",
		Tenant:     "acme",
		Name:       "telemetry-2024",
		Owner:      "alice",
		ShortInfo:  "CPU counters",
		LongInfo:   "Per-host CPU counters sampled every 10 s.",
		AccessType: "closed",
		Tags:       []string{"cpu", "hosts"},
	}, BuildRequest(doc, "alice"))
}

func TestBuildRequest_NoAccessSection(t *testing.T) {
	doc := info.Parse(strings.Replace(infoDoc, "# Access Type\nclosed\n", "", 1))
	require.NoError(t, info.Validate(doc))
	assert.Empty(t, BuildRequest(doc, "alice").AccessType)
}

func TestReadInfo_Errors(t *testing.T) {
	_, err := ReadInfo(filepath.Join(t.TempDir(), "missing.md"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = ReadInfo(writeInfo(t, "# Dataset\nx\n"))
	assert.ErrorIs(t, err, info.ErrMissingField)

	_, err = ReadInfo(writeInfo(t, strings.Replace(infoDoc, "Metric", "images", 1)))
	assert.ErrorIs(t, err, info.ErrInvalidCategory)
}

func TestCreate(t *testing.T) {
	fp := &fakePortal{}
	client := fp.server(t)
	log, _ := testLogger()
	cfg := config.DefaultConfig()
	cfg.CreateInfo = writeInfo(t, infoDoc)
	cfg.User = "alice"

	var out bytes.Buffer
	require.NoError(t, Create(context.Background(), &cfg, client, log, &out))

	require.NotNil(t, fp.created)
	assert.Equal(t, "telemetry-2024", fp.created.Name)
	assert.Equal(t, "alice", fp.created.Owner)
	assert.Contains(t, out.String(), "       17 | acme-telemetry")
}

func TestCreate_DryRun(t *testing.T) {
	fp := &fakePortal{}
	client := fp.server(t)
	log, logs := testLogger()
	cfg := config.DefaultConfig()
	cfg.CreateInfo = writeInfo(t, infoDoc)
	cfg.User = "alice"
	cfg.DryRun = true

	var out bytes.Buffer
	require.NoError(t, Create(context.Background(), &cfg, client, log, &out))
	assert.Nil(t, fp.created)
	assert.Contains(t, logs.String(), `"name": "telemetry-2024"`)
	assert.Contains(t, out.String(), "        - | -")
}

func TestCreate_InvalidInfoSendsNothing(t *testing.T) {
	fp := &fakePortal{}
	client := fp.server(t)
	log, _ := testLogger()
	cfg := config.DefaultConfig()
	cfg.CreateInfo = writeInfo(t, "# Dataset\nonly\n")
	cfg.User = "alice"

	var out bytes.Buffer
	err := Create(context.Background(), &cfg, client, log, &out)
	assert.ErrorIs(t, err, info.ErrMissingField)
	assert.Nil(t, fp.created)
	assert.Empty(t, out.String())
}

func TestCreate_ServerError(t *testing.T) {
	fp := &fakePortal{status: http.StatusConflict}
	client := fp.server(t)
	log, _ := testLogger()
	cfg := config.DefaultConfig()
	cfg.CreateInfo = writeInfo(t, infoDoc)
	cfg.User = "alice"

	err := Create(context.Background(), &cfg, client, log, &bytes.Buffer{})
	var se *portal.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusConflict, se.Code)
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name       string
		force      bool
		dryRun     bool
		wantID     string
		wantForced string
	}{
		{"plain", false, false, "5", ""},
		{"forced", true, false, "5", "true"},
		{"dry run", true, true, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp := &fakePortal{}
			client := fp.server(t)
			log, _ := testLogger()
			cfg := config.DefaultConfig()
			cfg.DatasetID = 5
			cfg.Force = tt.force
			cfg.DryRun = tt.dryRun

			require.NoError(t, Delete(context.Background(), &cfg, client, log))
			assert.Equal(t, tt.wantID, fp.deleted)
			assert.Equal(t, tt.wantForced, fp.forced)
		})
	}
}

func TestDelete_ServerError(t *testing.T) {
	fp := &fakePortal{status: http.StatusForbidden}
	client := fp.server(t)
	log, _ := testLogger()
	cfg := config.DefaultConfig()
	cfg.DatasetID = 5

	err := Delete(context.Background(), &cfg, client, log)
	assert.ErrorContains(t, err, "delete dataset 5")
}

func TestListDatasets_WithExport(t *testing.T) {
	fp := &fakePortal{datasets: []portal.Dataset{
		{DatasetID: 3, DatasetName: "telemetry", CreateDate: "2024-02-01", Category: "metric", Organization: "acme"},
	}}
	client := fp.server(t)
	log, _ := testLogger()
	cfg := config.DefaultConfig()
	cfg.ExportFile = filepath.Join(t.TempDir(), "datasets.xlsx")

	var out bytes.Buffer
	require.NoError(t, ListDatasets(context.Background(), &cfg, client, log, &out))
	assert.Contains(t, out.String(), "telemetry")

	wb, err := excelize.OpenFile(cfg.ExportFile)
	require.NoError(t, err)
	defer wb.Close()
	rows, err := wb.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "telemetry", rows[1][1])
}

func TestListFiles(t *testing.T) {
	fp := &fakePortal{files: []portal.File{
		{FileID: 1, MFileName: "m.csv", OriginName: "orig.csv", FileSize: 2048},
	}}
	client := fp.server(t)
	log, _ := testLogger()
	cfg := config.DefaultConfig()
	cfg.DatasetID = 9

	var out bytes.Buffer
	require.NoError(t, ListFiles(context.Background(), &cfg, client, log, &out))
	assert.Contains(t, out.String(), "m.csv")
	assert.Contains(t, out.String(), "2.0 KiB")
}

func TestListings_DryRunSendsNothing(t *testing.T) {
	fp := &fakePortal{status: http.StatusInternalServerError}
	client := fp.server(t)
	log, logs := testLogger()
	cfg := config.DefaultConfig()
	cfg.DatasetID = 9
	cfg.DryRun = true

	var out bytes.Buffer
	require.NoError(t, ListDatasets(context.Background(), &cfg, client, log, &out))
	require.NoError(t, ListFiles(context.Background(), &cfg, client, log, &out))
	assert.Empty(t, out.String())
	assert.Contains(t, logs.String(), "List files in dataset 9")
}

func TestListFiles_ServerError(t *testing.T) {
	fp := &fakePortal{status: http.StatusNotFound}
	client := fp.server(t)
	log, _ := testLogger()
	cfg := config.DefaultConfig()
	cfg.DatasetID = 9

	err := ListFiles(context.Background(), &cfg, client, log, &bytes.Buffer{})
	var se *portal.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)
}
