/*
Package config provides type-safe configuration extraction from map[string]any
and the handler policy overrides stateshare reads from it.

# Overview

Config wraps a map[string]any and provides typed accessor methods that handle
missing keys and type mismatches by returning default values. Configuration
usually comes from a YAML or JSON file shipped with the application:

	metrics: true
	tracing: false
	handlers:
	  app.CartHandler:
	    merge: true
	  app.SearchHandler:
	    destroy_on_unmount: true

# Handler Policies

Policies returns the per-handler overrides found under the "handlers" key.
Each entry is keyed by the handler's resolved name ("pkg.Type") and may set
either flag; a flag that is absent leaves the handler's own setting alone:

	cfg, err := config.FromFile("stateshare.yaml")
	if err != nil {
	    log.Fatal(err)
	}
	for name, p := range cfg.Policies() {
	    fmt.Println(name, p.Merge != nil, p.DestroyOnUnmount != nil)
	}

# File Loading

	cfg, err := config.FromFile("stateshare.yaml")
	cfg, err = config.FromYAML(yamlBytes)
	cfg, err = config.FromJSON(jsonBytes)

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation.
*/
package config
