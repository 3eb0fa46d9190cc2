//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap/zaptest"

	"github.com/cloo-solutions/faqd/internal/api/handlers"
	"github.com/cloo-solutions/faqd/internal/domain"
	"github.com/cloo-solutions/faqd/internal/repository"
	"github.com/cloo-solutions/faqd/internal/server"
	"github.com/cloo-solutions/faqd/internal/service"
	"github.com/cloo-solutions/faqd/internal/storage"
	"github.com/cloo-solutions/faqd/internal/testutil"
)

const (
	testAPIToken     = "e2e-secret-token"
	testCollection   = "faq"
	stubDimensions   = 8
	archiveBucket    = "faqd-e2e"
	rustfsCredential = "rustfsadmin"
)

// E2ETestEnv holds all resources needed for E2E tests
type E2ETestEnv struct {
	T            *testing.T
	Ctx          context.Context
	PostgresC    *testutil.PostgresContainer
	RustFSC      *testutil.RustFSContainer
	Pool         *pgxpool.Pool
	Archive      *storage.S3Archive
	Embedder     *StubEmbedder
	ServerURL    string
	ServerCloser func()
	BinaryDir    string
	HTTPClient   *http.Client
}

// SetupE2EEnv creates a full E2E test environment with containers and server
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	ctx := context.Background()

	pgC := testutil.NewPostgresContainer(ctx, t)
	s3C := testutil.NewRustFSContainer(ctx, t)

	pool := testutil.NewTestPool(ctx, t, pgC)

	archive, err := storage.NewS3Archive(ctx, storage.S3ClientConfig{
		Endpoint:        s3C.Endpoint(),
		Region:          "us-east-1",
		AccessKeyID:     rustfsCredential,
		SecretAccessKey: rustfsCredential,
		Bucket:          archiveBucket,
		UsePathStyle:    true,
	})
	if err != nil {
		t.Fatalf("failed to create S3 archive: %v", err)
	}
	if err := archive.EnsureBucket(ctx); err != nil {
		t.Fatalf("failed to create bucket: %v", err)
	}

	port, err := getFreePort()
	if err != nil {
		t.Fatalf("failed to get free port: %v", err)
	}

	embedder := &StubEmbedder{}
	serverURL, serverCloser := startServer(t, pool, archive, embedder, port)

	return &E2ETestEnv{
		T:            t,
		Ctx:          ctx,
		PostgresC:    pgC,
		RustFSC:      s3C,
		Pool:         pool,
		Archive:      archive,
		Embedder:     embedder,
		ServerURL:    serverURL,
		ServerCloser: serverCloser,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Cleanup releases all resources
func (e *E2ETestEnv) Cleanup() {
	if e.ServerCloser != nil {
		e.ServerCloser()
	}
	if e.Pool != nil {
		e.Pool.Close()
	}
	if e.RustFSC != nil {
		_ = e.RustFSC.Terminate(e.Ctx)
	}
	if e.PostgresC != nil {
		_ = e.PostgresC.Terminate(e.Ctx)
	}
	if e.BinaryDir != "" {
		_ = os.RemoveAll(e.BinaryDir)
	}
}

// Reset empties the entry table between subtests.
func (e *E2ETestEnv) Reset() {
	if err := testutil.TruncateAll(e.Ctx, e.Pool); err != nil {
		e.T.Fatalf("failed to truncate: %v", err)
	}
	e.Embedder.SetFailing(false)
}

// StubEmbedder derives a deterministic vector from the SHA-256 of the text.
type StubEmbedder struct {
	mu      sync.Mutex
	failing bool
	calls   int
}

func (s *StubEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failing {
		return nil, fmt.Errorf("stub embedder: provider down")
	}
	return StubVector(text), nil
}

func (s *StubEmbedder) SetFailing(failing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing = failing
}

// StubVector is the vector StubEmbedder returns for text.
func StubVector(text string) []float32 {
	sum := sha256.Sum256([]byte(text))
	vec := make([]float32, stubDimensions)
	for i := range vec {
		vec[i] = float32(binary.BigEndian.Uint32(sum[i*4:])%1000) / 1000
	}
	return vec
}

// BuildCLI builds the faq binary
func (e *E2ETestEnv) BuildCLI() {
	tmpDir, err := os.MkdirTemp("", "faq-e2e-*")
	if err != nil {
		e.T.Fatalf("failed to create temp dir: %v", err)
	}
	e.BinaryDir = tmpDir

	cmd := exec.Command("go", "build", "-o", filepath.Join(tmpDir, "faq"), "./cmd/faq")
	cmd.Dir = "../.."
	if out, err := cmd.CombinedOutput(); err != nil {
		e.T.Fatalf("failed to build faq: %v\n%s", err, out)
	}
}

// RunFAQ runs the faq CLI against the test server
func (e *E2ETestEnv) RunFAQ(args ...string) (string, error) {
	cmd := exec.Command(filepath.Join(e.BinaryDir, "faq"), args...)
	cmd.Dir = e.BinaryDir
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("FAQ_API_TOKEN=%s", testAPIToken),
		fmt.Sprintf("FAQ_API_URL=%s", e.ServerURL),
		fmt.Sprintf("XDG_CONFIG_HOME=%s", e.BinaryDir),
	)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// APIResponse represents a standard API response
type APIResponse struct {
	StatusCode int             `json:"-"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error,omitempty"`
	Code       string          `json:"code,omitempty"`
}

// Get performs a GET request
func (e *E2ETestEnv) Get(path string) *APIResponse {
	return e.doRequest(http.MethodGet, path, nil, testAPIToken)
}

// Post performs a POST request
func (e *E2ETestEnv) Post(path string, body any) *APIResponse {
	return e.doRequest(http.MethodPost, path, body, testAPIToken)
}

// Put performs a PUT request
func (e *E2ETestEnv) Put(path string, body any) *APIResponse {
	return e.doRequest(http.MethodPut, path, body, testAPIToken)
}

// Delete performs a DELETE request
func (e *E2ETestEnv) Delete(path string) *APIResponse {
	return e.doRequest(http.MethodDelete, path, nil, testAPIToken)
}

// Raw performs a request with an explicit token ("" sends none)
func (e *E2ETestEnv) Raw(method, path string, body any, authToken string) *APIResponse {
	return e.doRequest(method, path, body, authToken)
}

func (e *E2ETestEnv) doRequest(method, path string, body any, authToken string) *APIResponse {
	e.T.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			e.T.Fatalf("failed to marshal body: %v", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, e.ServerURL+path, reqBody)
	if err != nil {
		e.T.Fatalf("failed to build request: %v", err)
	}
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		e.T.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		e.T.Fatalf("failed to read body: %v", err)
	}

	apiResp := &APIResponse{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(respBody, apiResp); err != nil {
		e.T.Fatalf("%s %s returned non-JSON (%d): %s", method, path, resp.StatusCode, respBody)
	}
	return apiResp
}

// startServer wires the real repository, services and router around the stub embedder.
func startServer(t *testing.T, pool *pgxpool.Pool, archive *storage.S3Archive, embedder service.EmbeddingClient, port int) (string, func()) {
	logger := zaptest.NewLogger(t)

	entrySvc := service.NewEntryService(repository.NewEntryRepository(pool), embedder, logger)
	archiveSvc := service.NewArchiveService(archive, testCollection, logger)

	router := server.NewRouter(server.RouterConfig{
		EntryHandler:   handlers.NewEntryHandler(entrySvc),
		ArchiveHandler: handlers.NewArchiveHandler(archiveSvc),
		Logger:         logger,
		APIToken:       testAPIToken,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := fmt.Sprintf("http://localhost:%d", port)
	waitForServer(t, serverURL, 10*time.Second)

	return serverURL, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func waitForServer(t *testing.T, url string, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("server did not start within %v", timeout)
}

func getFreePort() (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}

	l, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

// entryText mirrors the text the service embeds.
func entryText(question, answer string) string {
	return domain.EmbeddingText(question, answer)
}
