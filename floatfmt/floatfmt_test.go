package floatfmt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFloat(t *testing.T) {
	require.Equal(t, "1.5", Float(1.5))
	require.Equal(t, "0", Float(0))
}

func TestDouble(t *testing.T) {
	require.Equal(t, "3.14", Double(3.14))
	require.Equal(t, "-2.5", Double(-2.5))
}
