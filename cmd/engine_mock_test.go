package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/mock"

	"mutsol.dev/pkg/mutsol/internal/domain"
	m "mutsol.dev/pkg/mutsol/internal/model"
)

// mockEngine stands in for the domain engine in command tests.
type mockEngine struct {
	mock.Mock
}

func (e *mockEngine) Mutate(ctx context.Context, args domain.MutateArgs) (m.RunReport, error) {
	ret := e.Called(ctx, args)

	report, _ := ret.Get(0).(m.RunReport)

	return report, ret.Error(1)
}

func (e *mockEngine) List(ctx context.Context, args domain.ListArgs) error {
	return e.Called(ctx, args).Error(0)
}

func (e *mockEngine) View(ctx context.Context, args domain.ViewArgs) error {
	return e.Called(ctx, args).Error(0)
}

func (e *mockEngine) Merge(ctx context.Context, args domain.MergeArgs) error {
	return e.Called(ctx, args).Error(0)
}

// installMockEngine points engineFactory at a mock for one test and
// records the config every construction received.
func installMockEngine(t *testing.T) (*mockEngine, *[]m.RunConfig) {
	t.Helper()

	eng := &mockEngine{}

	var configs []m.RunConfig

	original := engineFactory
	engineFactory = func(cfg m.RunConfig) domain.Engine {
		configs = append(configs, cfg)
		return eng
	}

	t.Cleanup(func() { engineFactory = original })

	return eng, &configs
}

// executeCommand runs a fresh command tree so flag state never leaks
// between tests. The log file is pointed at a temp dir to keep the
// working tree clean.
func executeCommand(t *testing.T, args ...string) error {
	t.Helper()

	cmd := newRootCmd()
	cmd.AddCommand(newMutateCmd(), newListCmd(), newViewCmd(), newMergeCmd(), newInitCmd(), newVersionCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--log-file", filepath.Join(t.TempDir(), "test.log")}, args...))

	return cmd.Execute()
}
