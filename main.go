package main

import (
	"context"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/telegraphfinder/finder/cache"
	"github.com/telegraphfinder/finder/config"
	"github.com/telegraphfinder/finder/finder"
	"github.com/telegraphfinder/finder/notify"
	"github.com/telegraphfinder/finder/remote"
	"github.com/telegraphfinder/finder/store"
	"github.com/telegraphfinder/finder/web"
)

func main() {
	cnf := config.Load()

	logger := newLogger(cnf.App.Dev)
	defer logger.Sync()

	center := notify.NewCenter()

	localCache, err := cache.New(afero.NewOsFs(), cnf.Cache.Path, logger)
	if err != nil {
		logger.Fatal("open local cache", zap.Error(err))
	}

	opts := finder.Options{
		Cache:       localCache,
		Notifier:    center,
		Logger:      logger,
		ListTimeout: cnf.Remote.Timeout(),
	}

	if cnf.Remote.BaseURL != "" {
		cl := remote.New(cnf.Remote.BaseURL, cnf.Remote.Timeout(), logger)
		opts.Files = cl.Files()
		opts.Folders = cl.Folders()
		opts.Structures = cl
	}

	model := finder.New(opts)
	defer model.Close()

	var st *store.Store
	if cnf.DB.DSN != "" {
		st, err = store.New(cnf.DB.DSN)
		if err != nil {
			logger.Fatal("open store", zap.Error(err))
		}

		if err := st.EnsureSchema(context.Background()); err != nil {
			logger.Fatal("ensure store schema", zap.Error(err))
		}
	}

	go web.Listen(cnf, model, st, center)

	model.Initialize(context.Background())

	select {}
}

func newLogger(dev bool) *zap.Logger {
	newFn := zap.NewProduction
	if dev {
		newFn = zap.NewDevelopment
	}

	logger, err := newFn()
	if err != nil {
		panic(err)
	}

	return logger
}
