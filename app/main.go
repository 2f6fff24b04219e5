package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rbhz/jp-vocabulary/app/api"
	"github.com/rbhz/jp-vocabulary/app/bot"
	"github.com/rbhz/jp-vocabulary/app/clients/jisho"
	"github.com/rbhz/jp-vocabulary/app/db"

	"github.com/jessevdk/go-flags"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"
	log "github.com/rs/zerolog/log"
	bolt "go.etcd.io/bbolt"
	"golang.org/x/sync/errgroup"
)

type Opts struct {
	BotToken   string `long:"bot-token" env:"BOT_TOKEN" description:"Telegram bot token, bot is disabled when empty"`
	Owner      int64  `long:"owner" env:"BOT_OWNER" description:"Telegram user ID allowed to use bot and API"`
	JWTSecret  string `long:"jwt" env:"JWT_SECRET" required:"true" description:"JWT secret"`
	Port       int    `long:"port" env:"PORT" default:"8080" description:"Port to listen on"`
	Storage    string `long:"storage" env:"STORAGE" default:"bolt" choice:"bolt" choice:"redis" choice:"sqlite" choice:"memory" description:"Collections storage backend"`
	BoltDB     string `long:"boltdb" env:"BOLTDB" default:"./collections.data" description:"Path to BoltDB"`
	RedisURL   string `long:"redis" env:"REDIS_URL" description:"Redis database URL"`
	SQLitePath string `long:"sqlite" env:"SQLITE_PATH" default:"./collections.sqlite" description:"Path to SQLite database"`
	Debug      bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

func main() {
	var opts Opts
	_, err := flags.ParseArgs(&opts, os.Args)
	if err != nil {
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if opts.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	kv, closeStorage, err := getStorage(opts)
	if err != nil {
		log.Fatal().Err(err).Str("storage", opts.Storage).Msg("failed to initialize storage")
	}
	defer closeStorage()
	store := db.NewCollectionStore(kv)
	searcher := jisho.NewClient()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	g, gCtx := errgroup.WithContext(ctx)

	// Start API
	g.Go(func() error {
		server := api.NewServer(store, searcher, opts.BotToken, opts.JWTSecret, opts.Owner)
		if err := server.Run(gCtx, opts.Port); err != nil {
			return fmt.Errorf("run API server: %w", err)
		}
		return nil
	})

	// initialize Telegram bot
	if opts.BotToken != "" {
		b, err := bot.NewTelegramBot(opts.BotToken, store, searcher, opts.Owner)
		if err != nil {
			log.Error().Err(err).Msg("failed to initialize telegram bot")
			cancel()
		} else {
			g.Go(func() error {
				b.Start(gCtx)
				return nil
			})
		}
	} else {
		log.Warn().Msg("bot token is not set, telegram bot disabled")
	}

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("application error")
	}
}

func getStorage(opts Opts) (db.KV, func(), error) {
	switch opts.Storage {
	case "memory":
		log.Warn().Msg("in-memory storage, collections are lost on exit")
		return db.NewInMemoryKV(), func() {}, nil
	case "redis":
		if opts.RedisURL == "" {
			return nil, nil, fmt.Errorf("redis URL is required for redis storage")
		}
		redisKV, err := db.NewRedisKV(opts.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("create redis client: %w", err)
		}
		return redisKV, func() {
			if err := redisKV.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close redis client")
			}
		}, nil
	case "sqlite":
		conn, err := sql.Open("sqlite3", opts.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite database: %w", err)
		}
		sqliteKV, err := db.NewSQLiteKV(conn)
		if err != nil {
			conn.Close()
			return nil, nil, err
		}
		return sqliteKV, func() {
			if err := conn.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close sqlite database")
			}
		}, nil
	default:
		boltDB, err := bolt.Open(opts.BoltDB, 0600, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("open boltDB database: %w", err)
		}
		boltKV, err := db.NewBoltKV(boltDB)
		if err != nil {
			boltDB.Close()
			return nil, nil, err
		}
		return boltKV, func() {
			if err := boltDB.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close boltDB database")
			}
		}, nil
	}
}
