package database

import (
	"cinegenio/config"
	"context"
	"fmt"
	"time"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/valkey-io/valkey-go"
)

// Valkey database index organization. Each index gives logical
// separation between cache categories.
const (
	// GENERAL_CACHE_INDEX (DB 0) - repository read-through caching
	// (taste profile, challenge of the week, radar snapshots)
	GENERAL_CACHE_INDEX = iota

	// CLIENT_API_CACHE_INDEX (DB 1) - responses from the TMDB catalog
	// service, keyed by endpoint+id, short TTL
	CLIENT_API_CACHE_INDEX
)

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")
	log.Info("initializing cache database")

	address := config.DatabaseCacheAddress
	port := config.DatabaseCachePort
	if address == "" || port == 0 {
		return log.Errorf("failed to initialize cache database", "address or port is empty")
	}

	var cacheDB Cache

	var err error
	cacheDB.General, err = valkey.NewClient(
		valkey.ClientOption{
			InitAddress: []string{fmt.Sprintf("%s:%d", address, port)},
			SelectDB:    GENERAL_CACHE_INDEX,
		},
	)
	if err != nil {
		return log.Err("failed to create general valkey client", err)
	}

	cacheDB.ClientAPI, err = valkey.NewClient(
		valkey.ClientOption{
			InitAddress: []string{fmt.Sprintf("%s:%d", address, port)},
			SelectDB:    CLIENT_API_CACHE_INDEX,
		},
	)
	if err != nil {
		return log.Err("failed to create client api valkey client", err)
	}

	s.Cache = cacheDB

	if config.DatabaseCacheReset != -1 {
		go clearCacheDB(config.DatabaseCacheReset, cacheDB)
	}

	return nil
}

func clearCacheDB(index int, cacheDB Cache) {
	log := logger.New("database").File("cache.database").Function("clearCacheDB")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var client CacheClient
	var dbName string

	switch index {
	case GENERAL_CACHE_INDEX:
		client = cacheDB.General
		dbName = "General"
	case CLIENT_API_CACHE_INDEX:
		client = cacheDB.ClientAPI
		dbName = "ClientAPI"
	default:
		log.Warn("Invalid cache database index", "index", index)
		return
	}

	if err := client.Do(ctx, client.B().Flushdb().Build()).Error(); err != nil {
		log.Er("Failed to clear cache database", err, "index", index, "dbName", dbName)
		return
	}

	log.Info("Successfully cleared cache database", "index", index, "dbName", dbName)
}
