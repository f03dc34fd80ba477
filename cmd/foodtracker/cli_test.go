package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/foodtracker"
	"github.com/aretw0/foodtracker/pkg/adapters/fs"
	"github.com/aretw0/foodtracker/pkg/core"
)

// run executes the CLI in-process and returns what it printed on stdout.
func run(t *testing.T, args ...string) string {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err)
	stdout := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = stdout }()

	resetFlags(rootCmd)
	rootCmd.SetArgs(args)
	execErr := rootCmd.Execute()

	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, execErr)
	return string(out)
}

// resetFlags restores every flag to its default so one invocation does not
// leak into the next.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func TestStars(t *testing.T) {
	assert.Equal(t, "☆☆☆☆☆", stars(0))
	assert.Equal(t, "★★★☆☆", stars(3))
	assert.Equal(t, "★★★★★", stars(5))
}

func TestCommands_EditSession(t *testing.T) {
	dir := t.TempDir()
	photo := filepath.Join(t.TempDir(), "soup.jpg")
	require.NoError(t, os.WriteFile(photo, []byte("jpeg"), 0644))

	out := run(t, "--dir", dir, "add", "--name", "Soup", "--rating", "3", "--photo", photo)
	assert.Contains(t, out, "Meal 'Soup' added at index 3.")

	out = run(t, "--dir", dir, "rate", "3", "3")
	assert.Contains(t, out, "No rating set.", "tapping the current rating resets it")

	run(t, "--dir", dir, "move", "3", "0")
	run(t, "--dir", dir, "delete", "1")

	store, err := foodtracker.Open(context.Background(), dir)
	require.NoError(t, err)
	require.Equal(t, 3, store.Len())
	soup, err := store.At(0)
	require.NoError(t, err)
	assert.True(t, soup.Equal(core.MustNewMeal("Soup", []byte("jpeg"), 0)))

	out = run(t, "--dir", dir, "list", "--json")
	var items []listItem
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 3)
	assert.Equal(t, listItem{Index: 0, Name: "Soup", Rating: 0, HasPhoto: true}, items[0])
	assert.Equal(t, "Chicken and Potatoes", items[1].Name)

	newPhoto := filepath.Join(t.TempDir(), "soup.png")
	require.NoError(t, os.WriteFile(newPhoto, []byte("png"), 0644))

	out = run(t, "--dir", dir, "edit", "0", "--name", "Tomato Soup", "--photo", newPhoto)
	assert.Contains(t, out, "Meal 0 updated: Tomato Soup")
	assertMealAt(t, dir, 0, core.MustNewMeal("Tomato Soup", []byte("png"), 0))

	run(t, "--dir", dir, "edit", "0", "--clear-photo", "--rating", "4")
	assertMealAt(t, dir, 0, core.MustNewMeal("Tomato Soup", nil, 4))
}

func assertMealAt(t *testing.T, dir string, index int, want core.Meal) {
	t.Helper()
	store, err := foodtracker.Open(context.Background(), dir)
	require.NoError(t, err)
	got, err := store.At(index)
	require.NoError(t, err)
	assert.True(t, got.Equal(want), "got %s, want %s", got, want)
}

func TestBuildStoreTree(t *testing.T) {
	tree := buildStoreTree(
		core.ServiceState{Source: core.SourceStorage, Count: 2, LastSaveError: "disk full"},
		fs.RepositoryState{Path: "/meals", Format: "json", ArchiveName: "meals", Saves: 4, CommitFailures: 1, WatcherActive: true},
	)

	assert.Equal(t, "2", tree.Metadata["meals"])
	require.Len(t, tree.Children, 1)
	repo := tree.Children[0]
	assert.Equal(t, "running", repo.Children[0].Status)
	assert.Equal(t, "failed", repo.Children[1].Status)
	assert.Equal(t, "4", repo.Children[1].Metadata["saves"])
	assert.Equal(t, "1", repo.Children[1].Metadata["commit_failures"])
}
