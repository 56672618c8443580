package template

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/telegraphfinder/finder/finder"
)

//go:embed *.tpl
var embeddedTemplates embed.FS

var tplFuncs = map[string]interface{}{
	"FormatSize": func(size int64) string {
		const unit = 1024
		if size < unit {
			return fmt.Sprintf("%d B", size)
		}

		div, exp := int64(unit), 0
		for n := size / unit; n >= unit; n /= unit {
			div *= unit
			exp++
		}

		return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
	},
	"TypeLabel": func(class finder.TypeClass) string {
		if class == finder.TypeOther {
			return "other"
		}

		return string(class)
	},
}

func ReadTemplates(templatesPath string) *template.Template {
	tpl := template.New("base").Funcs(tplFuncs)

	tplsFS := os.DirFS(templatesPath)
	if templatesPath == "" {
		tplsFS = embeddedTemplates
	}

	const tplSuffix = ".tpl"
	if err := fs.WalkDir(tplsFS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			panic(err)
		}

		if filepath.Ext(path) != tplSuffix {
			return nil
		}

		newTpl := tpl.New(strings.TrimSuffix(path, tplSuffix))

		tplData, _ := fs.ReadFile(tplsFS, path)

		if _, err := newTpl.Parse(string(tplData)); err != nil {
			panic(err)
		}

		return nil
	}); err != nil {
		panic(err)
	}

	return tpl
}
