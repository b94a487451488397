package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/loan-payoff/internal/common"
	"github.com/Veraticus/loan-payoff/internal/loanfile"
	"github.com/Veraticus/loan-payoff/internal/model"
	"github.com/Veraticus/loan-payoff/internal/testutil"
)

func TestPortfolioLifecycle(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeLoans(t, "loans.csv", testutil.HouseholdLoans())

	out, err := env.run(t, "", "portfolio", "import", path, "--name", "home", "--extra", "100")
	require.NoError(t, err)
	assert.Contains(t, out, `Saved portfolio "home" with 2 loans`)

	_, err = env.run(t, "", "portfolio", "import", path, "--name", "home")
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)

	_, err = env.run(t, "", "portfolio", "import", path, "--name", "home", "--extra", "50", "--force")
	require.NoError(t, err)

	out, err = env.run(t, "", "portfolio", "list", "-o", "json")
	require.NoError(t, err)
	var portfolios []model.Portfolio
	require.NoError(t, json.Unmarshal([]byte(out), &portfolios))
	require.Len(t, portfolios, 1)
	assert.Equal(t, "home", portfolios[0].Name)
	assert.Equal(t, 50.0, portfolios[0].ExtraAmount)

	out, err = env.run(t, "", "portfolio", "show", "home")
	require.NoError(t, err)
	assert.Contains(t, out, "car")
	assert.Contains(t, out, "personal")
	assert.Contains(t, out, "$50.00")

	out, err = env.run(t, "", "portfolio", "delete", "home", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, `Deleted portfolio "home"`)

	_, err = env.run(t, "", "portfolio", "show", "home")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestPortfolioDeleteConfirm(t *testing.T) {
	tests := []struct {
		name        string
		answer      string
		wantDeleted bool
	}{
		{name: "yes", answer: "y\n", wantDeleted: true},
		{name: "no", answer: "n\n", wantDeleted: false},
		{name: "no answer", answer: "", wantDeleted: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			path := env.writeLoans(t, "household.csv", testutil.HouseholdLoans())
			_, err := env.run(t, "", "portfolio", "import", path)
			require.NoError(t, err)

			out, err := env.run(t, tt.answer, "portfolio", "delete", "household")
			require.NoError(t, err)
			assert.Contains(t, out, `Delete portfolio "household"?`)

			_, err = env.run(t, "", "portfolio", "show", "household")
			if tt.wantDeleted {
				assert.ErrorIs(t, err, common.ErrNotFound)
			} else {
				assert.NoError(t, err)
				assert.Contains(t, out, "Nothing deleted")
			}
		})
	}
}

func TestPortfolioDeleteMissing(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "", "portfolio", "delete", "nope", "--yes")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestPortfolioExport(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeLoans(t, "household.csv", testutil.HouseholdLoans())
	_, err := env.run(t, "", "portfolio", "import", path, "--extra", "100")
	require.NoError(t, err)

	t.Run("yaml file", func(t *testing.T) {
		target := filepath.Join(env.dir, "export.yaml")
		out, err := env.run(t, "", "portfolio", "export", "household", target)
		require.NoError(t, err)
		assert.Contains(t, out, "Wrote 2 loans")

		file, err := loanfile.Load(target)
		require.NoError(t, err)
		assert.Equal(t, testutil.HouseholdLoans(), file.Loans)
		assert.Equal(t, 100.0, file.Extra)
	})

	t.Run("csv to stdout", func(t *testing.T) {
		out, err := env.run(t, "", "portfolio", "export", "household", "--format", "csv")
		require.NoError(t, err)

		target := filepath.Join(env.dir, "stdout.csv")
		require.NoError(t, os.WriteFile(target, []byte(out), 0o600))
		file, err := loanfile.Load(target)
		require.NoError(t, err)
		assert.Equal(t, testutil.HouseholdLoans(), file.Loans)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := env.run(t, "", "portfolio", "export", "household", filepath.Join(env.dir, "out.xlsx"))
		assert.ErrorIs(t, err, loanfile.ErrUnsupportedFormat)
	})
}

func TestHistoryLimit(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeLoans(t, "loans.csv", testutil.HouseholdLoans())

	for _, extra := range []string{"25", "50", "100"} {
		_, err := env.run(t, "", "optimize", path, "--extra", extra)
		require.NoError(t, err)
	}

	out, err := env.run(t, "", "history", "--limit", "2", "-o", "json")
	require.NoError(t, err)

	var runs []model.Run
	require.NoError(t, json.Unmarshal([]byte(out), &runs))
	assert.Len(t, runs, 2)

	out, err = env.run(t, "", "history", "--limit", "0", "-o", "json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &runs))
	assert.Len(t, runs, 3)
}
