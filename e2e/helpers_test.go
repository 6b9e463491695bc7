package e2e_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	testSheetID = "sheet-e2e"
	testToken   = "e2e-access-token"
)

var (
	binaryPath     string
	binaryBuildErr error
	binaryOnce     sync.Once
	sharedTempDir  string
)

// TestMain sets up and tears down shared test resources.
func TestMain(m *testing.M) {
	var err error
	sharedTempDir, err = os.MkdirTemp("", "sheetbridge-e2e-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create temp dir: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	_ = os.RemoveAll(sharedTempDir)

	os.Exit(code)
}

// fakeGoogle serves the OAuth token endpoint and the Sheets values API.
type fakeGoogle struct {
	server *httptest.Server

	mu       sync.Mutex
	ranges   map[string][][]string
	failures map[string]int

	tokens atomic.Int32
	reads  atomic.Int32
}

func newFakeGoogle(t *testing.T) *fakeGoogle {
	t.Helper()

	f := &fakeGoogle{
		ranges:   make(map[string][][]string),
		failures: make(map[string]int),
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.serveHTTP))
	t.Cleanup(f.server.Close)
	return f
}

// SetRange sets the rows returned for an A1 range.
func (f *fakeGoogle) SetRange(a1Range string, rows [][]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ranges[a1Range] = rows
	delete(f.failures, a1Range)
}

// FailRange makes reads of a1Range answer with the given status code.
func (f *fakeGoogle) FailRange(a1Range string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[a1Range] = status
}

func (f *fakeGoogle) TokenURL() string {
	return f.server.URL + "/token"
}

func (f *fakeGoogle) APIEndpoint() string {
	return f.server.URL + "/"
}

func (f *fakeGoogle) serveHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/token" {
		f.tokens.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": testToken,
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
		return
	}

	if r.Header.Get("Authorization") != "Bearer "+testToken {
		writeGoogleError(w, http.StatusUnauthorized)
		return
	}

	prefix := "/v4/spreadsheets/" + testSheetID + "/values/"
	if !strings.HasPrefix(r.URL.Path, prefix) {
		writeGoogleError(w, http.StatusNotFound)
		return
	}
	a1Range := strings.TrimPrefix(r.URL.Path, prefix)
	f.reads.Add(1)

	f.mu.Lock()
	status, failing := f.failures[a1Range]
	rows, known := f.ranges[a1Range]
	f.mu.Unlock()

	switch {
	case failing:
		writeGoogleError(w, status)
	case !known:
		writeGoogleError(w, http.StatusBadRequest)
	default:
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"range":          a1Range,
			"majorDimension": "ROWS",
			"values":         rows,
		})
	}
}

func writeGoogleError(w http.ResponseWriter, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"code": code, "message": http.StatusText(code)},
	})
}

// writeKeyFile writes a service account key whose token_uri points at fake.
func writeKeyFile(t *testing.T, fake *fakeGoogle) string {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err, "generate rsa key")

	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err, "marshal rsa key")

	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})

	body, err := json.Marshal(map[string]string{
		"type":         "service_account",
		"client_email": "bridge@e2e.iam.gserviceaccount.com",
		"private_key":  string(keyPEM),
		"token_uri":    fake.TokenURL(),
	})
	require.NoError(t, err, "marshal key file")

	path := filepath.Join(t.TempDir(), "service-account.json")
	require.NoError(t, os.WriteFile(path, body, 0o600), "write key file")
	return path
}

// ServerConfig holds configuration for starting the sheetbridge server.
type ServerConfig struct {
	Port    int
	Journal bool
	DBType  string // sqlite, postgres
	DBDSN   string
}

// buildBinary compiles the sheetbridge binary once per test run.
func buildBinary(t *testing.T) string {
	t.Helper()

	binaryOnce.Do(func() {
		binaryPath = filepath.Join(sharedTempDir, "sheetbridge")

		cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/sheetbridge")
		cmd.Dir = getProjectRoot(t)
		output, err := cmd.CombinedOutput()
		if err != nil {
			binaryBuildErr = fmt.Errorf("build binary: %w\nOutput: %s", err, output)
			return
		}
	})

	if binaryBuildErr != nil {
		t.Fatalf("failed to build binary: %v", binaryBuildErr)
	}

	return binaryPath
}

// getProjectRoot returns the directory holding go.mod.
func getProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err, "get working directory")

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// createConfigFile writes a config with three endpoints: the two defaults
// and a "roster" endpoint that skips blank rows under a custom key.
func createConfigFile(t *testing.T, fake *fakeGoogle, cfg ServerConfig) string {
	t.Helper()

	dbType := cfg.DBType
	if dbType == "" {
		dbType = "sqlite"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `server:
  port: %d
  shutdown_timeout: 5

sheet:
  id: %s
  api_endpoint: "%s"

credentials:
  file: "%s"

upstream:
  timeout: 5
  rate_per_second: 0

journal:
  enabled: %t
  type: %s
%s
log:
  level: error

endpoints:
  - name: codes
    path: /api/codes
    range: Hoja1!A2:A
    fields: [code]
    shape: values
    error_message: Error obteniendo códigos
  - name: questions
    path: /api/questions
    range: Hoja2!A2:C
    fields: [id, question, answer]
    shape: records
    error_message: Error obteniendo preguntas
  - name: roster
    path: /api/roster
    range: Equipo!A2:B
    key: team
    fields: [name, role]
    shape: records
    blank_rows: skip
`,
		cfg.Port,
		testSheetID,
		fake.APIEndpoint(),
		writeKeyFile(t, fake),
		cfg.Journal,
		dbType,
		dsnLine(cfg.DBDSN),
	)

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(sb.String()), 0o600), "write config file")

	return configPath
}

func dsnLine(dsn string) string {
	if dsn == "" {
		return ""
	}
	return fmt.Sprintf("  dsn: %q\n", dsn)
}

// runCommand runs a sheetbridge subcommand to completion and returns stdout.
func runCommand(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()

	binary := buildBinary(t)

	cmd := exec.Command(binary, append(args, "--config", configPath)...)
	cmd.Env = cleanEnv()
	var stderr strings.Builder
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return string(out), fmt.Errorf("%w: %s", err, stderr.String())
	}
	return string(out), nil
}

// startServer starts `sheetbridge serve` and waits until /wakeup answers.
// Returns the base URL and a cleanup function that stops the server.
func startServer(t *testing.T, configPath string, port int) (string, func()) {
	t.Helper()

	binary := buildBinary(t)

	cmd := exec.Command(binary, "serve", "--config", configPath)
	cmd.Env = cleanEnv()
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	require.NoError(t, cmd.Start(), "start server")

	baseURL := fmt.Sprintf("http://localhost:%d", port)
	waitForServer(t, baseURL, 10*time.Second)

	cleanup := func() {
		if cmd.Process != nil {
			_ = cmd.Process.Signal(syscall.SIGTERM)
			_ = cmd.Wait()
		}
	}

	return baseURL, cleanup
}

// cleanEnv drops variables that would override the generated config.
func cleanEnv() []string {
	var env []string
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		switch {
		case strings.HasPrefix(name, "SHEETBRIDGE_"):
		case name == "SHEET_ID", name == "CLIENT_EMAIL", name == "PRIVATE_KEY", name == "PORT":
		default:
			env = append(env, kv)
		}
	}
	return env
}

// waitForServer polls /wakeup until it responds or times out.
func waitForServer(t *testing.T, baseURL string, timeout time.Duration) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	client := &http.Client{Timeout: 1 * time.Second}

	for time.Now().Before(deadline) {
		resp, err := client.Get(baseURL + "/wakeup")
		if err == nil {
			_ = resp.Body.Close()
			return
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Fatalf("server failed to start within %v", timeout)
}

// getOpenPort finds an available TCP port.
func getOpenPort(t *testing.T) int {
	t.Helper()

	l, err := net.Listen("tcp", ":0")
	require.NoError(t, err, "find open port")

	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close(), "close port")

	return port
}
