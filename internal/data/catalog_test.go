package data

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pv-viability/internal/logging"
	"pv-viability/internal/metrics"
)

func presetYAML(name string, tariff string) string {
	return "preset:\n  name: " + name + "\n  class: grupo_b\n  tariff: " + tariff + "\n  fio_b: 0.25\n"
}

func write(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestCatalogReload(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "b.yaml", presetYAML("zeta", "0.9"))
	write(t, dir, "a.yml", presetYAML("alpha", "0.8"))
	write(t, dir, "notes.txt", "ignored")

	c := NewCatalog(dir, logging.Discard(), metrics.New())
	require.NoError(t, c.Reload())
	assert.Equal(t, 2, c.Len())

	p, ok := c.Get("alpha")
	require.True(t, ok)
	assert.InDelta(t, 0.8, p.Tariff, 1e-12)

	list := c.List()
	require.Len(t, list, 2)
	assert.Equal(t, "alpha", list[0].Name)
	assert.Equal(t, "zeta", list[1].Name)
}

func TestCatalogSkipsInvalidAndDuplicates(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a.yaml", presetYAML("alpha", "0.8"))
	write(t, dir, "b.yaml", presetYAML("alpha", "0.7"))
	write(t, dir, "c.yaml", presetYAML("broken", "0"))

	c := NewCatalog(dir, logging.Discard(), nil)
	err := c.Reload()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
	assert.Equal(t, 1, c.Len())

	_, ok := c.Get("broken")
	assert.False(t, ok)
}

func TestCatalogMissingDir(t *testing.T) {
	c := NewCatalog(filepath.Join(t.TempDir(), "missing"), logging.Discard(), nil)
	assert.Error(t, c.Reload())
}

func TestNilCatalog(t *testing.T) {
	var c *Catalog
	assert.NoError(t, c.Reload())
	assert.Zero(t, c.Len())
	assert.Empty(t, c.List())
	_, ok := c.Get("x")
	assert.False(t, ok)
}

func TestCatalogWatch(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a.yaml", presetYAML("alpha", "0.8"))

	c := NewCatalog(dir, logging.Discard(), nil)
	require.NoError(t, c.Reload())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, c.Watch(ctx))

	write(t, dir, "b.yaml", presetYAML("beta", "0.7"))
	assert.Eventually(t, func() bool {
		_, ok := c.Get("beta")
		return ok
	}, 5*time.Second, 20*time.Millisecond)
}

func TestJSONRoundTripFile(t *testing.T) {
	type doc struct {
		Name string `json:"name"`
	}
	path := filepath.Join(t.TempDir(), "out", "doc.json")
	require.NoError(t, SaveJSON(path, doc{Name: "x"}))

	var got doc
	require.NoError(t, LoadJSON(path, &got))
	assert.Equal(t, "x", got.Name)

	write(t, filepath.Dir(path), "bad.json", `{"name":"x","extra":1}`)
	assert.Error(t, LoadJSON(filepath.Join(filepath.Dir(path), "bad.json"), &got))
}
