package config

import (
	"errors"
	"strings"
)

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}

// Validate checks the selected topology has the addresses it needs.
func (r *RedisConfig) Validate() error {
	switch {
	case r.UseCluster && r.UseSentinel:
		return errors.New("REDIS_USE_CLUSTER and REDIS_USE_SENTINEL are mutually exclusive")
	case r.UseSentinel && len(nonBlank(r.SentinelNodes)) == 0:
		return errors.New("REDIS_SENTINEL_NODES is required when REDIS_USE_SENTINEL is set")
	case r.UseCluster && len(nonBlank(r.ClusterNodes)) == 0 && strings.TrimSpace(r.URI) == "":
		return errors.New("REDIS_CLUSTER_NODES or REDIS_URI is required when REDIS_USE_CLUSTER is set")
	case !r.UseCluster && !r.UseSentinel && strings.TrimSpace(r.URI) == "":
		return errors.New("REDIS_URI is required")
	}
	return nil
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
