package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"

	"github.com/aretw0/foodtracker"
	"github.com/aretw0/foodtracker/pkg/adapters/fs"
	"github.com/aretw0/foodtracker/pkg/core"
)

var stateDiagram bool

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the internal state of the store and its repository",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		store := openStore(context.Background())

		repo, err := foodtracker.Init(resolveDir(), storeOptions()...)
		if err != nil {
			fatal("Failed to open repository", err)
		}

		out := map[string]any{"store": store.State()}
		if intro, ok := repo.(introspection.Introspectable); ok {
			out["repository"] = intro.State()
		}

		if stateDiagram {
			storeState, _ := store.State().(core.ServiceState)
			repoState, _ := out["repository"].(fs.RepositoryState)
			config := introspection.DefaultDiagramConfig()
			config.SecondaryID = "store"
			config.SecondaryLabel = "Meal Store Topology"
			fmt.Println(introspection.TreeDiagram(buildStoreTree(storeState, repoState), config))
			return
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(out); err != nil {
			fatal("Error encoding JSON", err)
		}
	},
}

type stateNode struct {
	Name     string
	Status   string
	Metadata map[string]string
	Children []stateNode
}

// buildStoreTree uses the status classes of introspection.DefaultStyles().
func buildStoreTree(store core.ServiceState, repo fs.RepositoryState) stateNode {
	watcherStatus := "suspended"
	if repo.WatcherActive {
		watcherStatus = "running"
	}
	saveStatus := "finished"
	if store.LastSaveError != "" {
		saveStatus = "failed"
	}

	repoNode := stateNode{
		Name:   "Repository",
		Status: "running",
		Metadata: map[string]string{
			"type":   "process",
			"path":   repo.Path,
			"format": repo.Format,
		},
		Children: []stateNode{
			{
				Name:     "Watcher",
				Status:   watcherStatus,
				Metadata: map[string]string{"type": "goroutine"},
			},
			{
				Name:   "Archive",
				Status: saveStatus,
				Metadata: map[string]string{
					"type":            "container",
					"name":            repo.ArchiveName,
					"saves":           strconv.Itoa(repo.Saves),
					"commit_failures": strconv.Itoa(repo.CommitFailures),
				},
			},
		},
	}

	return stateNode{
		Name:   "Meal Store",
		Status: "running",
		Metadata: map[string]string{
			"type":   "container",
			"source": string(store.Source),
			"meals":  strconv.Itoa(store.Count),
		},
		Children: []stateNode{repoNode},
	}
}

func init() {
	rootCmd.AddCommand(stateCmd)
	stateCmd.Flags().BoolVar(&stateDiagram, "diagram", false, "Print a Mermaid diagram instead of JSON")
}
