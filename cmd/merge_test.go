package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mutsol.dev/pkg/mutsol/internal/domain"
	m "mutsol.dev/pkg/mutsol/internal/model"
)

func TestMergeCmd_UsesRootOutFlagByDefault(t *testing.T) {
	eng, _ := installMockEngine(t)

	eng.On("Merge", mock.Anything, mock.MatchedBy(func(args domain.MergeArgs) bool {
		return args.OutDir == m.Path(defaultOutDir)
	})).Return(nil)

	require.NoError(t, executeCommand(t, "merge"))
}

func TestMergeCmd_RootOutFlagIsPassedThrough(t *testing.T) {
	eng, _ := installMockEngine(t)

	eng.On("Merge", mock.Anything, mock.MatchedBy(func(args domain.MergeArgs) bool {
		return args.OutDir == m.Path("./plan-runs")
	})).Return(nil)

	// The out flag is persistent, so it parses in front of the
	// subcommand as well.
	require.NoError(t, executeCommand(t, "--out", "./plan-runs", "merge"))
}

func TestMergeCmd_EngineError(t *testing.T) {
	eng, _ := installMockEngine(t)
	eng.On("Merge", mock.Anything, mock.Anything).Return(errors.New("no plan_* directories under out"))

	err := executeCommand(t, "merge")
	require.Error(t, err)
	require.Contains(t, err.Error(), "no plan_* directories")
}
