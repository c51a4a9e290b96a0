// Package hcl provides the HCL implementation of config.FileLoader. It parses
// `sweep` blocks, evaluates option maps with an evaluation context built from
// `locals` blocks, and converts the resulting cty values into typed options.
//
// A minimal file looks like:
//
//	sweep "smoke" {
//	  module = "memsec"
//	  mode   = "test"
//
//	  group "pipelines" {
//	    defaults = { SIMULATION_ITERATIONS = 50 }
//	    config "plain" {
//	      generics = { CRYPTO_CONFIG = 0, BLOCKS_PER_SECTOR = 1 }
//	    }
//	  }
//	}
package hcl
