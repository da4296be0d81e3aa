package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Order int
	Name  string
}

func withOrder(order int) Option[*testConfig] {
	return New(func(c *testConfig) error {
		if order < 0 {
			return errors.New("order cannot be negative")
		}
		c.Order = order

		return nil
	})
}

func withName(name string) Option[*testConfig] {
	return NoError(func(c *testConfig) {
		c.Name = name
	})
}

func TestApply(t *testing.T) {
	t.Run("applies in order", func(t *testing.T) {
		cfg := &testConfig{}
		err := Apply(cfg, withOrder(1), withName("a"), withOrder(2))
		require.NoError(t, err)
		require.Equal(t, 2, cfg.Order)
		require.Equal(t, "a", cfg.Name)
	})

	t.Run("stops at first error", func(t *testing.T) {
		cfg := &testConfig{}
		err := Apply(cfg, withOrder(-1), withName("skipped"))
		require.Error(t, err)
		require.Contains(t, err.Error(), "negative")
		require.Empty(t, cfg.Name)
	})

	t.Run("skips nil options", func(t *testing.T) {
		cfg := &testConfig{}
		require.NoError(t, Apply(cfg, nil, withName("b")))
		require.Equal(t, "b", cfg.Name)
	})

	t.Run("no options", func(t *testing.T) {
		cfg := &testConfig{Order: 7}
		require.NoError(t, Apply(cfg))
		require.Equal(t, 7, cfg.Order)
	})
}

func TestMerge(t *testing.T) {
	base := []Option[*testConfig]{withOrder(1), withName("base")}
	override := []Option[*testConfig]{withOrder(2)}

	merged := Merge(base, override)
	require.Len(t, merged, 3)

	cfg := &testConfig{}
	require.NoError(t, Apply(cfg, merged...))
	require.Equal(t, 2, cfg.Order)
	require.Equal(t, "base", cfg.Name)
}
