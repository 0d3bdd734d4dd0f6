// Package container wires the service with samber/do.
package container

import (
	"time"
)

// Counter store backends.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Options configures both binaries. Every field is also read from SERVICE_* environment variables.
type Options struct {
	Port      int    `default:"8888"           help:"Port to listen on"                                 short:"p"`
	LogFormat string `default:"console"        help:"Log format: console or json"`
	LogLevel  string `default:"info"           help:"Log level: debug, info, warn or error"`
	RedisAddr string `default:"localhost:6379" help:"Redis server address"                              short:"r"`

	DatabaseURL string `default:"" help:"PostgreSQL connection string; enables tier lookup and audit storage"`

	Store      string `default:"redis" help:"Counter store: memory, redis or postgres" short:"s"`
	FailClosed bool   `default:"false" help:"Deny requests when the counter store is unavailable"`

	LocalFallback bool `default:"false" help:"Count in process memory when the counter store is unavailable (limits then apply per replica)"`

	ReadLimit          int `default:"300" help:"Read requests per client per read window"`
	ReadWindow         int `default:"60"  help:"Read window in seconds"`
	WriteLimit         int `default:"60"  help:"Write requests per client per write window"`
	WriteWindow        int `default:"60"  help:"Write window in seconds"`
	ReviewLimit        int `default:"8"   help:"Public review submissions per client and share token"`
	ReviewWindow       int `default:"900" help:"Public review window in seconds"`
	NotificationLimit  int `default:"40"  help:"Notification requests per admin"`
	NotificationWindow int `default:"300" help:"Notification window in seconds"`

	SweepInterval int    `default:"60"   help:"Seconds between expired window sweeps for memory and postgres stores"`
	TierCacheTTL  int    `default:"300"  help:"Seconds to cache organization tiers in Redis"`
	DefaultTier   string `default:"free" help:"Tier assumed for every organization when no database is configured"`
	Tiers         string `default:""     help:"Organization tiers as org=tier pairs, used when no database is configured"`
	StrictTiers   bool   `default:"false" help:"Reject organizations missing from Tiers instead of assuming DefaultTier"`

	ConsumerGroup string `default:"audit" help:"Redis stream consumer group for the audit consumer"`
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
