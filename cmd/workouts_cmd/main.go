// Package main is a small admin tool for the persisted workouts collection.
//
//	workouts_cmd -env development list
//	workouts_cmd -env production -out ./workouts.json export
//	workouts_cmd -env development reset
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net"
	"os"
	"text/tabwriter"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/mapty/internal/config"
	"github.com/2beens/mapty/internal/db"
	"github.com/2beens/mapty/internal/store"
	"github.com/2beens/mapty/internal/workout"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	outPath := flag.String("out", "", "export destination (empty for stdout)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] list|export|reset\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("open store: %s", err)
	}
	defer cleanup()

	switch cmd := flag.Arg(0); cmd {
	case "list":
		err = list(ctx, s)
	case "export":
		err = export(ctx, s, *outPath)
	case "reset":
		err = s.Clear(ctx)
		if err == nil {
			log.Infof("workouts [%s] removed from the [%s] store", cfg.StoreKey, cfg.StoreBackend)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatalf("%s: %s", flag.Arg(0), err)
	}
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	var (
		rdb    *redis.Client
		dbPool *pgxpool.Pool
	)
	cleanup := func() {
		if rdb != nil {
			_ = rdb.Close()
		}
		if dbPool != nil {
			dbPool.Close()
		}
	}

	switch cfg.StoreBackend {
	case "redis":
		rdb = redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
			Password: os.Getenv("MAPTY_REDIS_PASS"),
		})
	case "postgres":
		var err error
		dbPool, err = db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:     cfg.PostgresHost,
			DBPort:     cfg.PostgresPort,
			DBName:     cfg.PostgresDBName,
			DBPassword: os.Getenv("MAPTY_POSTGRES_PASS"),
		})
		if err != nil {
			return nil, cleanup, err
		}
	}

	s, err := store.New(ctx, store.NewStoreParams{
		Backend:     cfg.StoreBackend,
		Key:         cfg.StoreKey,
		RedisClient: rdb,
		DBPool:      dbPool,
		DiskRoot:    cfg.DiskStoreRoot,
	})
	return s, cleanup, err
}

func list(ctx context.Context, s store.Store) error {
	records, err := s.Load(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDESCRIPTION\tDISTANCE\tDURATION\tRATE\tCOORDS")
	for _, r := range records {
		w, err := workout.FromRecord(r)
		if err != nil {
			log.Warnf("skipping [%s]: %s", r.ID, err)
			continue
		}
		rate := ""
		switch w.Type {
		case workout.TypeRunning:
			rate = fmt.Sprintf("%.1f min/km", w.Running.PaceMinPerKm)
		case workout.TypeCycling:
			rate = fmt.Sprintf("%.1f km/h", w.Cycling.SpeedKmPerH)
		}
		fmt.Fprintf(tw, "%s\t%s %s\t%g km\t%g min\t%s\t%.4f,%.4f\n",
			w.ID, w.Icon(), w.Description, w.DistanceKm, w.DurationMin, rate, w.Coords.Lat, w.Coords.Lng,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Printf("total: %d\n", len(records))
	return nil
}

func export(ctx context.Context, s store.Store, outPath string) error {
	records, err := s.Load(ctx)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}

	if outPath == "" {
		_, err = fmt.Println(string(data))
		return err
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return err
	}
	log.Infof("%d workouts exported to %s", len(records), outPath)
	return nil
}
