package main

import (
	"fmt"

	"github.com/jrpboutique/loom/internal/classifier"
	"github.com/jrpboutique/loom/internal/engine"
	"github.com/jrpboutique/loom/internal/registry"
	"github.com/jrpboutique/loom/internal/storage"
	"github.com/spf13/viper"
)

// loadRegistry builds the category registry from the configured definition
// file, falling back to the built-in boutique set.
func loadRegistry() (*registry.Registry, error) {
	if path := viper.GetString("categories.file"); path != "" {
		return registry.LoadFile(path)
	}
	return registry.LoadDefault()
}

// initStore creates the JSON store rooted at the configured data directory.
func initStore() (*storage.JSONStore, error) {
	store, err := storage.NewJSONStore(viper.GetString("data.dir"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	return store, nil
}

// buildEngine wires up the batch categorizer with its collaborators. The
// prompter may be nil for non-interactive commands.
func buildEngine(prompter engine.Prompter) (*engine.BatchCategorizer, *storage.JSONStore, *registry.Registry, error) {
	reg, err := loadRegistry()
	if err != nil {
		return nil, nil, nil, err
	}

	store, err := initStore()
	if err != nil {
		return nil, nil, nil, err
	}

	eng := engine.New(store, classifier.New(reg), reg, prompter)
	return eng, store, reg, nil
}

// listImages reads the configured images directory.
func listImages() ([]string, error) {
	return storage.ListImages(viper.GetString("images.dir"))
}
