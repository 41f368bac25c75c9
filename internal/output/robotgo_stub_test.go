//go:build !robotgo

package output

import (
	"testing"

	"github.com/rbright/murmur/internal/config"
	"github.com/stretchr/testify/require"
)

func TestNewRobotgoWithoutBuildTag(t *testing.T) {
	cfg := config.Default().Output
	cfg.Backend = config.BackendRobotgo

	_, err := New(cfg, nil)
	require.ErrorIs(t, err, ErrRobotgoUnavailable)
}
