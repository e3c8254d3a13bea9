// Package config provides game configuration management for the Geocoin
// Carrier game.
//
// The Manager loads JSON configuration files from a directory, validates
// them through the engine's rules, and caches parsed configs behind a
// read-write mutex. Configuration IDs are filename stems: oakes.json is
// addressed as "oakes". When oakes.json exists it is the default;
// otherwise the first loadable config wins, falling back to the engine's
// built-in defaults so the server always starts.
//
// Usage:
//
//	manager, err := config.NewManager("./configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	cfg, err := manager.LoadConfig("oakes")
//	if err != nil {
//		log.Fatal(err)
//	}
package config
