package finder

import (
	"strings"

	"golang.org/x/exp/slices"
)

// System folder ids. All of them are virtual: their contents are computed
// by a filter over all files instead of structural membership.
const (
	BucketAll       = "all"
	BucketRecent    = "recent"
	BucketFavorites = "favorites"
	BucketImages    = "images"
	BucketDocuments = "documents"
	BucketVideos    = "videos"
	BucketAudio     = "audio"
)

// RecentLimit bounds the recent bucket. Fixed window, not configurable.
const RecentLimit = 20

// IsSystemID reports whether id names a built-in folder.
func IsSystemID(id string) bool {
	switch id {
	case BucketAll, BucketRecent, BucketFavorites,
		BucketImages, BucketDocuments, BucketVideos, BucketAudio:
		return true
	}

	return false
}

// bucketClass maps a type bucket id to the class it filters on. The
// bucket id is the pluralized class name.
func bucketClass(id string) TypeClass {
	return TypeClass(strings.TrimSuffix(id, "s"))
}

// bucketFiles computes the contents of a virtual bucket. Callers hold the
// model lock.
func (m *Model) bucketFiles(id string) []*File {
	var files []*File

	switch id {
	case BucketRecent:
		files = m.allFiles()
		slices.SortFunc(files, func(a, b *File) int {
			return b.UploadedAt.Compare(a.UploadedAt)
		})

		if len(files) > RecentLimit {
			files = files[:RecentLimit]
		}

		return files
	case BucketFavorites:
		for _, f := range m.files {
			if f.Favorite {
				files = append(files, f)
			}
		}
	case BucketImages, BucketDocuments, BucketVideos, BucketAudio:
		class := bucketClass(id)
		for _, f := range m.files {
			if f.Type == class {
				files = append(files, f)
			}
		}
	}

	sortFilesByName(files)

	return files
}

func (m *Model) allFiles() []*File {
	files := make([]*File, 0, len(m.files))
	for _, f := range m.files {
		files = append(files, f)
	}

	return files
}

func sortFilesByName(files []*File) {
	slices.SortFunc(files, func(a, b *File) int {
		return compareNames(a.Name, b.Name)
	})
}

func compareNames(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
