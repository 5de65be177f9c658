package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDriver_ValidSamples(t *testing.T) {
	d := New(1, 0)

	for i := 0; i < 100; i++ {
		sample, err := d.Sense(context.Background())
		require.NoError(t, err)
		require.True(t, sample.Valid())
	}
}

func TestDriver_Faults(t *testing.T) {
	d := New(1, 1)

	sample, err := d.Sense(context.Background())
	require.NoError(t, err)
	require.False(t, sample.Valid())
}
