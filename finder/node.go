package finder

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// RootID is the sentinel parent id for top-level nodes.
const RootID = "root"

// Node is either a Folder or a File.
type Node interface {
	NodeID() string
	NodeName() string
}

// Folder is a container node. System folders are built in and can be
// neither renamed nor deleted.
type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  string    `json:"parentId"`
	Color     string    `json:"color"`
	System    bool      `json:"isSystem"`
	CreatedAt time.Time `json:"createdAt"`
}

func (f *Folder) NodeID() string   { return f.ID }
func (f *Folder) NodeName() string { return f.Name }

// File is a leaf node. The id equals the remote storage key.
type File struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	Type       TypeClass `json:"type"`
	URL        string    `json:"url,omitempty"`
	UploadedAt time.Time `json:"uploadDate"`
	ParentID   string    `json:"parentId"`
	Favorite   bool      `json:"favorite"`
}

func (f *File) NodeID() string   { return f.ID }
func (f *File) NodeName() string { return f.Name }

// NewID returns an id unique within the session: upload timestamp plus a
// random suffix.
func NewID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + uuid.NewString()[:8]
}

func systemFolders(now time.Time) []*Folder {
	ids := []string{
		BucketAll, BucketRecent, BucketFavorites,
		BucketImages, BucketDocuments, BucketVideos, BucketAudio,
	}
	names := map[string]string{
		BucketAll:       "All Files",
		BucketRecent:    "Recent",
		BucketFavorites: "Favorites",
		BucketImages:    "Images",
		BucketDocuments: "Documents",
		BucketVideos:    "Videos",
		BucketAudio:     "Audio",
	}

	folders := make([]*Folder, 0, len(ids))
	for _, id := range ids {
		folders = append(folders, &Folder{
			ID:        id,
			Name:      names[id],
			ParentID:  RootID,
			System:    true,
			CreatedAt: now,
		})
	}

	return folders
}
