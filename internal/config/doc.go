// Package config provides configuration parsing for hydrate projects.
//
// The configuration is stored in hydrate.json at the project root.
// This package handles loading, saving, and validating configuration.
//
// # Configuration File Structure
//
//	{
//	  "markers": {
//	    "open": "vg-part",
//	    "close": "/vg-part",
//	    "node": "vg-node"
//	  },
//	  "render": {
//	    "minify": false
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "hydrate"
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  },
//	  "serve": {
//	    "host": "localhost",
//	    "port": 7070
//	  },
//	  "fixtures": "fixtures"
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Address:", cfg.ServeAddress())
package config
