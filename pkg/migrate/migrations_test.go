package migrate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMigrationDirIsValid(t *testing.T) {
	require.NoError(t, ValidateDir("migrations"))
}
