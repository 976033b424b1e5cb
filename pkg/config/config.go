// Package config loads the Cypher front-end's own limits — the handful of
// guardrails this module is responsible for before handing a parsed query
// off to the host engine — from environment variables, with the same
// LoadFromEnv/Validate shape the teacher's pkg/config uses for its much
// larger Neo4j-compatible configuration surface. Everything here is a
// front-end concern only: server ports, auth, storage, and memory-decay
// settings belong to the host DBMS (spec §1's external collaborators) and
// have no home in this module.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the limits the parser, binder, and transformer enforce.
type Config struct {
	// MaxQueryLength bounds the length (bytes) of Cypher source text the
	// lexer will accept before failing fast, rather than tokenizing an
	// arbitrarily large string handed in by a misbehaving caller.
	MaxQueryLength int

	// MaxVLEUpperBound bounds the `hi` a variable-length relationship may
	// request (spec §4.7's runtime DFS has to materialize stack frames
	// proportional to this), independent of whatever the catalog's graph
	// actually allows. A relationship with no upper bound (`*`, `*2..`) is
	// not checked against it.
	MaxVLEUpperBound int

	// DefaultGraphNamespace names the graph used by `cypher(...)` calls
	// that omit an explicit graph_name (spec §6).
	DefaultGraphNamespace string
}

// LoadFromEnv loads Config from environment variables, using sensible
// defaults when unset (mirrors the teacher's pkg/config.LoadFromEnv
// shape: getEnv/getEnvInt helpers, defaults applied unconditionally).
//
//	CYPHERCORE_MAX_QUERY_LENGTH      (default 65536)
//	CYPHERCORE_MAX_VLE_UPPER_BOUND   (default 15)
//	CYPHERCORE_DEFAULT_GRAPH         (default "default")
func LoadFromEnv() *Config {
	return &Config{
		MaxQueryLength:        getEnvInt("CYPHERCORE_MAX_QUERY_LENGTH", 65536),
		MaxVLEUpperBound:      getEnvInt("CYPHERCORE_MAX_VLE_UPPER_BOUND", 15),
		DefaultGraphNamespace: getEnv("CYPHERCORE_DEFAULT_GRAPH", "default"),
	}
}

// LoadFromYAML overlays file-provided overrides onto a base Config (e.g.
// the result of LoadFromEnv), the way the teacher's stack layers
// gopkg.in/yaml.v3 config files over environment defaults elsewhere in the
// retrieval pack. Only fields present in the YAML document are
// overwritten; a zero value in the document is indistinguishable from
// "absent" for ints, so omit a key rather than set it to 0 to keep a
// default.
func LoadFromYAML(base *Config, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	var overrides struct {
		MaxQueryLength        int    `yaml:"max_query_length"`
		MaxVLEUpperBound      int    `yaml:"max_vle_upper_bound"`
		DefaultGraphNamespace string `yaml:"default_graph"`
	}
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	out := *base
	if overrides.MaxQueryLength != 0 {
		out.MaxQueryLength = overrides.MaxQueryLength
	}
	if overrides.MaxVLEUpperBound != 0 {
		out.MaxVLEUpperBound = overrides.MaxVLEUpperBound
	}
	if overrides.DefaultGraphNamespace != "" {
		out.DefaultGraphNamespace = overrides.DefaultGraphNamespace
	}
	return &out, nil
}

// Validate checks the configuration for logical errors.
func (c *Config) Validate() error {
	if c.MaxQueryLength <= 0 {
		return fmt.Errorf("invalid max query length: %d", c.MaxQueryLength)
	}
	if c.MaxVLEUpperBound <= 0 {
		return fmt.Errorf("invalid max VLE upper bound: %d", c.MaxVLEUpperBound)
	}
	if c.DefaultGraphNamespace == "" {
		return fmt.Errorf("default graph namespace must not be empty")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
