package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mutsol.dev/pkg/mutsol/internal/domain"
	m "mutsol.dev/pkg/mutsol/internal/model"
)

func TestListCmd_Defaults(t *testing.T) {
	eng, configs := installMockEngine(t)

	var got domain.ListArgs

	eng.On("List", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(domain.ListArgs) }).
		Return(nil)

	require.NoError(t, executeCommand(t, "list"))

	eng.AssertNumberOfCalls(t, "List", 1)
	assert.Equal(t, []m.Path{"."}, got.Paths)
	assert.Empty(t, got.Exclude)

	require.Len(t, *configs, 1)
	assert.Equal(t, m.Path(defaultOutDir), (*configs)[0].OutDir)
}

func TestListCmd_PathsAndExclude(t *testing.T) {
	eng, _ := installMockEngine(t)

	var got domain.ListArgs

	eng.On("List", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(domain.ListArgs) }).
		Return(nil)

	require.NoError(t, executeCommand(t, "list", "contracts", "-x", "Migrations.sol"))

	assert.Equal(t, []m.Path{"contracts"}, got.Paths)
	assert.Equal(t, []string{"Migrations.sol"}, got.Exclude)
}

func TestListCmd_EngineError(t *testing.T) {
	eng, _ := installMockEngine(t)
	eng.On("List", mock.Anything, mock.Anything).Return(errors.New("discover failed"))

	err := executeCommand(t, "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "discover failed")
}
