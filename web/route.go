package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/telegraphfinder/finder/config"
	"github.com/telegraphfinder/finder/finder"
	"github.com/telegraphfinder/finder/notify"
	"github.com/telegraphfinder/finder/store"
	"github.com/telegraphfinder/finder/web/handler"
	"github.com/telegraphfinder/finder/web/template"
)

type Middleware func(http.Handler) http.Handler

func NewRouter(conf config.Config, model *finder.Model, st *store.Store, center *notify.Center) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer,
		middleware.RealIP,
		middleware.Logger,
		middleware.Compress(6),
		CORS,
		middleware.RedirectSlashes,
		middleware.CleanPath,
		IPWhitelist(conf.App.IPWhitelist),
	)

	h := handler.NewHandler(model, st, center)

	r.Get("/api/view/{id}", handler.Wrap(h.View))
	r.Get("/api/search", handler.Wrap(h.Search))
	r.Get("/api/stats", handler.Wrap(h.Stats))
	r.Get("/api/notifications", handler.Wrap(h.Notifications))

	// The KV-backed collaborator API is only served when a store is
	// configured; the model runs purely local otherwise.
	if st != nil {
		r.Get("/api/files", handler.Wrap(h.FileList))
		r.Put("/api/files/{key}", handler.Wrap(h.FileUpdate))
		r.Delete("/api/files/{key}", handler.Wrap(h.FileDelete))
		r.Post("/api/folders", handler.Wrap(h.FolderCreate))
		r.Put("/api/folders/{id}", handler.Wrap(h.FolderUpdate))
		r.Delete("/api/folders/{id}", handler.Wrap(h.FolderDelete))
		r.Get("/api/structure", handler.Wrap(h.StructureGet))
		r.Put("/api/structure", handler.Wrap(h.StructurePut))
	}

	r.Get("/", func(writer http.ResponseWriter, request *http.Request) {
		tpls := template.ReadTemplates(conf.App.TemplatePath)
		tplName := request.RequestURI[1:]

		if tplName == "" {
			tplName = "index.html"
		}

		tpl := tpls.Lookup(tplName)
		if tpl == nil {
			http.NotFound(writer, request)
			return
		}

		if err := tpl.Execute(writer, map[string]interface{}{
			"request":       request,
			"stats":         model.Stats(),
			"path":          model.Path(),
			"notifications": center.List(),
		}); err != nil {
			panic(err)
		}
	})

	return r
}
