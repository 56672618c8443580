package web

import (
	"net/http"

	"github.com/telegraphfinder/finder/config"
	"github.com/telegraphfinder/finder/finder"
	"github.com/telegraphfinder/finder/notify"
	"github.com/telegraphfinder/finder/store"
)

func Listen(conf config.Config, model *finder.Model, st *store.Store, center *notify.Center) {
	err := http.ListenAndServe(conf.App.WebListen, NewRouter(conf, model, st, center))

	panic(err)
}
