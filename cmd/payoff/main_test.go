package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/loan-payoff/internal/common"
	"github.com/Veraticus/loan-payoff/internal/loanfile"
	"github.com/Veraticus/loan-payoff/internal/model"
	"github.com/Veraticus/loan-payoff/internal/testutil"
)

// testEnv is a config file pointing at a scratch database.
type testEnv struct {
	dir    string
	config string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	cfg := "database:\n" +
		"  path: " + filepath.Join(dir, "payoff.db") + "\n" +
		"cache:\n" +
		"  driver: none\n" +
		"logging:\n" +
		"  level: error\n"
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))

	return &testEnv{dir: dir, config: path}
}

// run executes the CLI with args and returns what it wrote to stdout.
func (e *testEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	root := newRootCmd(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config", e.config}, args...))

	err := root.ExecuteContext(context.Background())
	return stdout.String(), err
}

// writeLoans writes loans as CSV into the env and returns the path.
func (e *testEnv) writeLoans(t *testing.T, name string, loans []model.Loan) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, loanfile.WriteCSV(f, loans))
	require.NoError(t, f.Close())
	return path
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "payoff dev\n", out)
}

func TestInvalidConfig(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.WriteFile(env.config, []byte("database:\n  driver: oracle\n"), 0o600))

	_, err := env.run(t, "", "history")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestParseOrdering(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    model.Ordering
		wantErr bool
	}{
		{name: "two loans", input: "1,0", want: model.Ordering{1, 0}},
		{name: "spaces", input: " 2, 0 ,1", want: model.Ordering{2, 0, 1}},
		{name: "single", input: "0", want: model.Ordering{0}},
		{name: "letters", input: "a,b", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseOrdering(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMigrate(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "", "migrate", "--status")
	require.NoError(t, err)
	assert.Contains(t, out, "Schema version 0 of 3")

	out, err = env.run(t, "", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "schema version 3")

	out, err = env.run(t, "", "migrate", "--status")
	require.NoError(t, err)
	assert.Contains(t, out, "Schema version 3 of 3")
}

func TestPayment(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name     string
		args     []string
		contains []string
		wantErr  error
	}{
		{
			name:     "periodic rate",
			args:     []string{"--principal", "10000", "--rate", "0.00625", "--payments", "48"},
			contains: []string{"$241.79"},
		},
		{
			name:     "annual rate with stated payment",
			args:     []string{"--principal", "10000", "--annual-rate", "7.5", "--payments", "48", "--stated", "250"},
			contains: []string{"$241.79", "$250.00", "$8.21"},
		},
		{
			name:     "json",
			args:     []string{"--principal", "10000", "--rate", "0.00625", "--payments", "48", "--stated", "241.79", "-o", "json"},
			contains: []string{`"calculated": 241.79`, `"matches": true`},
		},
		{
			name:    "zero payments",
			args:    []string{"--principal", "10000", "--rate", "0.00625", "--payments", "0"},
			wantErr: common.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := env.run(t, "", append([]string{"payment"}, tt.args...)...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestPaymentRequiresRate(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "", "payment", "--principal", "10000", "--payments", "48")
	require.Error(t, err)

	_, err = env.run(t, "", "payment", "--principal", "10000", "--payments", "48", "--rate", "0.1", "--annual-rate", "7")
	require.Error(t, err)
}

func TestEditMissingFile(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "", "edit", "--file", filepath.Join(env.dir, "missing.csv"))
	require.Error(t, err)
}

func TestHouseholdFixture(t *testing.T) {
	// Guards the CSV round trip the command tests rely on.
	env := newTestEnv(t)
	path := env.writeLoans(t, "loans.csv", testutil.HouseholdLoans())

	file, err := loanfile.Load(path)
	require.NoError(t, err)
	assert.Equal(t, testutil.HouseholdLoans(), file.Loans)
}
