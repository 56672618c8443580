package finder

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	// DefaultListTimeout bounds the initial remote file listing.
	DefaultListTimeout = 10 * time.Second

	defaultResyncDelay = 5 * time.Second

	cacheKeyStructure  = "structure"
	cacheFolderPrefix  = "folder:"
	resyncKeyStructure = "structure"
	resyncKeyFolders   = "folders"
	resyncFilePrefix   = "file:"
)

// RemoteFile is the remote collaborator's view of a stored file. Decoders
// apply defaults for absent metadata before the value reaches the model.
type RemoteFile struct {
	StorageKey string
	Name       string
	Size       int64
	Uploaded   time.Time
	Parent     string
	Liked      bool
	MimeType   string
	URL        string
}

// FileService is the remote file-storage collaborator.
type FileService interface {
	List(ctx context.Context) ([]RemoteFile, error)
	Delete(ctx context.Context, storageKey string) error
	Update(ctx context.Context, file RemoteFile) error
}

// FolderService mirrors folder records remotely. Optional: a nil service
// leaves folders purely local.
type FolderService interface {
	Create(ctx context.Context, folder Folder) error
	Update(ctx context.Context, folder Folder) error
	Delete(ctx context.Context, id string) error
}

// StructureService mirrors the serialized tree structure remotely.
// Optional, same policy as FolderService.
type StructureService interface {
	Structure(ctx context.Context) ([]byte, error)
	PutStructure(ctx context.Context, data []byte) error
}

// Cache is the local persistence collaborator. Get returns (nil, nil) for
// missing keys.
type Cache interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
	Keys(prefix string) ([]string, error)
}

// Notifier receives non-blocking user-facing notifications.
type Notifier interface {
	Info(message string)
	Warn(message string)
}

// Options configures a Model. Every collaborator may be nil.
type Options struct {
	Cache      Cache
	Files      FileService
	Folders    FolderService
	Structures StructureService
	Notifier   Notifier
	Logger     *zap.Logger

	ListTimeout time.Duration
	ResyncDelay time.Duration
}

// Model owns the in-memory folder tree and keeps the local cache and the
// remote collaborators in sync, best effort. The in-memory state is
// authoritative for the session: persistence failures never unwind an
// applied mutation.
type Model struct {
	mu        sync.Mutex
	folders   map[string]*Folder
	files     map[string]*File
	structure Structure
	selection map[string]struct{}
	path      []string

	cache      Cache
	fileSvc    FileService
	folderSvc  FolderService
	structSvc  StructureService
	notifier   Notifier
	resync     *Debounce
	logger     *zap.Logger
	listWindow time.Duration

	Now func() time.Time
}

func New(opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.ListTimeout <= 0 {
		opts.ListTimeout = DefaultListTimeout
	}
	if opts.ResyncDelay <= 0 {
		opts.ResyncDelay = defaultResyncDelay
	}

	return &Model{
		folders:    map[string]*Folder{},
		files:      map[string]*File{},
		structure:  NewStructure(),
		selection:  map[string]struct{}{},
		cache:      opts.Cache,
		fileSvc:    opts.Files,
		folderSvc:  opts.Folders,
		structSvc:  opts.Structures,
		notifier:   opts.Notifier,
		resync:     NewDebounce(opts.ResyncDelay),
		logger:     opts.Logger,
		listWindow: opts.ListTimeout,
		Now:        time.Now,
	}
}

// Close cancels pending resync timers.
func (m *Model) Close() {
	m.resync.Stop()
}

// Initialize loads system folders, restores persisted custom folders and
// structure through the repair routine, then fetches the remote file
// list. It never fails outright: malformed persisted data falls back to
// an empty structure and remote errors leave an empty file list, both
// surfaced as notifications only.
func (m *Model) Initialize(ctx context.Context) {
	m.mu.Lock()

	m.folders = map[string]*Folder{}
	m.files = map[string]*File{}
	m.selection = map[string]struct{}{}
	m.path = nil

	now := m.Now()
	for _, f := range systemFolders(now) {
		m.folders[f.ID] = f
	}

	m.loadStructureLocked(ctx)
	m.loadFoldersLocked()
	m.reconcileLocked()

	m.mu.Unlock()

	files := m.fetchRemoteFiles(ctx)

	m.mu.Lock()
	for _, f := range files {
		m.files[f.ID] = f
	}
	folderCount := len(m.folders)
	m.mu.Unlock()

	m.logger.Info("finder initialized",
		zap.Int("folders", folderCount),
		zap.Int("files", len(files)))
}

func (m *Model) loadStructureLocked(ctx context.Context) {
	var blob []byte

	if m.cache != nil {
		data, err := m.cache.Get(cacheKeyStructure)
		if err != nil {
			m.reportIO("structure cache read", err)
		}
		blob = data
	}

	if blob == nil && m.structSvc != nil {
		data, err := m.structSvc.Structure(ctx)
		if err != nil {
			m.reportIO("structure remote read", err)
		} else {
			blob = data
		}
	}

	structure, err := NormalizeStructure(blob)
	if err != nil {
		m.logger.Warn("persisted structure is malformed, starting empty")
		m.notifyWarn("Stored folder layout could not be read, starting with an empty one.")
	}

	m.structure = structure
}

func (m *Model) loadFoldersLocked() {
	if m.cache == nil {
		return
	}

	keys, err := m.cache.Keys(cacheFolderPrefix)
	if err != nil {
		m.reportIO("folder cache scan", err)
		return
	}

	for _, key := range keys {
		data, err := m.cache.Get(key)
		if err != nil || data == nil {
			continue
		}

		var f Folder
		if err := Unmarshal(data, &f); err != nil || f.ID == "" {
			m.logger.Warn("skipping unreadable folder record", zap.String("key", key))
			continue
		}

		if IsSystemID(f.ID) {
			continue
		}

		f.System = false
		m.folders[f.ID] = &f
	}
}

// reconcileLocked repairs drift between the folder index and the
// structure: every custom folder must be reachable from some parent set,
// and every parent reference must resolve to a live folder.
func (m *Model) reconcileLocked() {
	for id, f := range m.folders {
		if f.System {
			continue
		}

		if f.ParentID == "" {
			f.ParentID = RootID
		}

		if f.ParentID != RootID {
			parent, ok := m.folders[f.ParentID]
			if !ok || parent.System {
				m.structure.Remove(f.ParentID, id)
				f.ParentID = RootID
			}
		}

		attached := false
		for _, set := range m.structure {
			if _, ok := set[id]; ok {
				attached = true
				break
			}
		}

		if !attached {
			m.structure.Add(f.ParentID, id)
		}
	}
}

func (m *Model) fetchRemoteFiles(ctx context.Context) []*File {
	if m.fileSvc == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, m.listWindow)
	defer cancel()

	remote, err := m.fileSvc.List(ctx)
	if err != nil {
		m.logger.Warn("remote file listing failed", zap.Error(err))
		m.notifyWarn("Could not load the remote file list.")
		return nil
	}

	files := make([]*File, 0, len(remote))
	for _, rf := range remote {
		f := fileFromRemote(rf)
		files = append(files, &f)
	}

	return files
}

// ListChildren answers "what belongs in folder X". Root and the system
// buckets are computed by filters over all files; every other id resolves
// structurally. Dangling structure entries are skipped, never reported.
func (m *Model) ListChildren(folderID string) []Node {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.listChildrenLocked(folderID)
}

func (m *Model) listChildrenLocked(folderID string) []Node {
	if folderID == "" {
		folderID = RootID
	}

	switch folderID {
	case RootID, BucketAll:
		return m.structuralListingLocked(RootID)
	case BucketRecent, BucketFavorites, BucketImages, BucketDocuments, BucketVideos, BucketAudio:
		nodes := make([]Node, 0)
		for _, f := range m.bucketFiles(folderID) {
			c := *f
			nodes = append(nodes, &c)
		}

		return nodes
	default:
		return m.structuralListingLocked(folderID)
	}
}

func (m *Model) structuralListingLocked(folderID string) []Node {
	nodes := make([]Node, 0)

	var childFolders []*Folder
	for _, childID := range m.structure.Children(folderID) {
		f, ok := m.folders[childID]
		if !ok {
			// Dangling id: self-heals by being skipped.
			continue
		}

		childFolders = append(childFolders, f)
	}

	slices.SortFunc(childFolders, func(a, b *Folder) int {
		return compareNames(a.Name, b.Name)
	})

	for _, f := range childFolders {
		c := *f
		nodes = append(nodes, &c)
	}

	var childFiles []*File
	for _, f := range m.files {
		if m.fileInFolder(f, folderID) {
			childFiles = append(childFiles, f)
		}
	}

	sortFilesByName(childFiles)

	for _, f := range childFiles {
		c := *f
		nodes = append(nodes, &c)
	}

	return nodes
}

func (m *Model) fileInFolder(f *File, folderID string) bool {
	if folderID == RootID {
		return f.ParentID == RootID || f.ParentID == ""
	}

	return f.ParentID == folderID
}

// Search matches the query as a case-insensitive substring over all
// custom folders and files, ignoring the current folder scope. An empty
// query means "no filter" and returns the current view.
func (m *Model) Search(query string) []Node {
	m.mu.Lock()
	defer m.mu.Unlock()

	query = strings.TrimSpace(query)
	if query == "" {
		return m.listChildrenLocked(m.currentFolderLocked())
	}

	needle := strings.ToLower(query)

	var matchedFolders []*Folder
	for _, f := range m.folders {
		if f.System {
			continue
		}

		if strings.Contains(strings.ToLower(f.Name), needle) {
			matchedFolders = append(matchedFolders, f)
		}
	}

	slices.SortFunc(matchedFolders, func(a, b *Folder) int {
		return compareNames(a.Name, b.Name)
	})

	var matchedFiles []*File
	for _, f := range m.files {
		if strings.Contains(strings.ToLower(f.Name), needle) {
			matchedFiles = append(matchedFiles, f)
		}
	}

	sortFilesByName(matchedFiles)

	nodes := make([]Node, 0, len(matchedFolders)+len(matchedFiles))
	for _, f := range matchedFolders {
		c := *f
		nodes = append(nodes, &c)
	}
	for _, f := range matchedFiles {
		c := *f
		nodes = append(nodes, &c)
	}

	return nodes
}

// CreateFolder validates the name, inserts the folder into both mappings
// and persists best effort.
func (m *Model) CreateFolder(ctx context.Context, name, parentID, color string) (*Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationf("folder name cannot be empty")
	}

	if parentID == "" {
		parentID = RootID
	}
	if IsSystemID(parentID) {
		return nil, &PermissionError{Op: "create folders in", Name: parentID}
	}
	if parentID != RootID {
		if _, ok := m.folders[parentID]; !ok {
			return nil, &NotFoundError{ID: parentID}
		}
	}

	if m.siblingFolderTakenLocked(name, parentID, "") {
		return nil, validationf("a folder named %q already exists here", name)
	}

	now := m.Now()
	f := &Folder{
		ID:        NewID(now),
		Name:      name,
		ParentID:  parentID,
		Color:     color,
		CreatedAt: now,
	}

	m.folders[f.ID] = f
	m.structure.Add(parentID, f.ID)
	m.structure.ensure(f.ID)

	m.persistStructureLocked(ctx)
	m.persistFolderLocked(f)

	if m.folderSvc != nil {
		if err := m.folderSvc.Create(ctx, *f); err != nil {
			m.reportIO("folder remote create", err)
			m.scheduleResync(resyncKeyFolders)
		}
	}

	return f, nil
}

// RenameNode renames a folder or file under the sibling-uniqueness rule.
func (m *Model) RenameNode(ctx context.Context, nodeID, newName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	newName = strings.TrimSpace(newName)
	if newName == "" {
		return validationf("name cannot be empty")
	}

	if f, ok := m.folders[nodeID]; ok {
		if f.System {
			return &PermissionError{Op: "rename", Name: f.Name}
		}

		if m.siblingFolderTakenLocked(newName, f.ParentID, f.ID) {
			return validationf("a folder named %q already exists here", newName)
		}

		f.Name = newName
		m.persistFolderLocked(f)
		m.pushFolderRemoteLocked(ctx, f)

		return nil
	}

	if f, ok := m.files[nodeID]; ok {
		if m.siblingFileTakenLocked(newName, f.ParentID, f.ID) {
			return validationf("a file named %q already exists here", newName)
		}

		f.Name = newName
		f.Type = ClassifyName(newName)
		m.pushFileRemoteLocked(ctx, f)

		return nil
	}

	return &NotFoundError{ID: nodeID}
}

// MoveNode re-parents a node. Moving a folder into itself or one of its
// descendants is rejected. Moving to the current parent is a no-op.
func (m *Model) MoveNode(ctx context.Context, nodeID, targetFolderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if targetFolderID == "" {
		targetFolderID = RootID
	}
	if IsSystemID(targetFolderID) {
		return &PermissionError{Op: "move nodes into", Name: targetFolderID}
	}
	if targetFolderID != RootID {
		if _, ok := m.folders[targetFolderID]; !ok {
			return &NotFoundError{ID: targetFolderID}
		}
	}

	if f, ok := m.folders[nodeID]; ok {
		if f.System {
			return &PermissionError{Op: "move", Name: f.Name}
		}

		if f.ParentID == targetFolderID {
			return nil
		}

		if targetFolderID == nodeID || m.isDescendantLocked(targetFolderID, nodeID) {
			return validationf("cannot move %q into one of its own subfolders", f.Name)
		}

		m.structure.Remove(f.ParentID, nodeID)
		m.structure.Add(targetFolderID, nodeID)
		f.ParentID = targetFolderID

		m.persistStructureLocked(ctx)
		m.persistFolderLocked(f)
		m.pushFolderRemoteLocked(ctx, f)

		return nil
	}

	if f, ok := m.files[nodeID]; ok {
		if f.ParentID == targetFolderID {
			return nil
		}

		f.ParentID = targetFolderID
		m.pushFileRemoteLocked(ctx, f)

		return nil
	}

	return &NotFoundError{ID: nodeID}
}

// DeleteNode removes a node. Deleting a folder detaches, never deletes,
// its contents: files and subfolders are re-parented to root. Deleting a
// file also issues the remote delete; a remote failure is reported as a
// warning, not as an operation failure.
func (m *Model) DeleteNode(ctx context.Context, nodeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if f, ok := m.folders[nodeID]; ok {
		if f.System {
			return &PermissionError{Op: "delete", Name: f.Name}
		}

		children := m.structure.Children(nodeID)

		delete(m.folders, nodeID)
		m.structure.Detach(nodeID)
		delete(m.selection, nodeID)

		for _, childID := range children {
			child, ok := m.folders[childID]
			if !ok {
				continue
			}

			child.ParentID = RootID
			m.structure.Add(RootID, childID)
			m.persistFolderLocked(child)
		}

		for _, file := range m.files {
			if file.ParentID == nodeID {
				file.ParentID = RootID
				m.pushFileRemoteLocked(ctx, file)
			}
		}

		if m.cache != nil {
			if err := m.cache.Delete(cacheFolderPrefix + nodeID); err != nil {
				m.reportIO("folder cache delete", err)
			}
		}

		m.persistStructureLocked(ctx)

		if m.folderSvc != nil {
			if err := m.folderSvc.Delete(ctx, nodeID); err != nil {
				m.reportIO("folder remote delete", err)
			}
		}

		return nil
	}

	if _, ok := m.files[nodeID]; ok {
		delete(m.files, nodeID)
		delete(m.selection, nodeID)

		if m.fileSvc != nil {
			if err := m.fileSvc.Delete(ctx, nodeID); err != nil {
				m.reportIO("file remote delete", err)
			}
		}

		return nil
	}

	return &NotFoundError{ID: nodeID}
}

// AddFile registers an uploaded file with the model. The byte transport
// happens elsewhere; by the time this is called the file exists remotely.
// The computed metadata (parent folder in particular) is pushed to the
// remote store best effort so it survives the session.
func (m *Model) AddFile(ctx context.Context, f File) (*File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if f.ID == "" {
		f.ID = NewID(m.Now())
	}
	if _, exists := m.files[f.ID]; exists {
		return nil, validationf("file %q is already registered", f.ID)
	}

	if f.Name == "" {
		f.Name = f.ID
	}
	if f.Type == "" {
		f.Type = ClassifyName(f.Name)
	}
	if f.UploadedAt.IsZero() {
		f.UploadedAt = m.Now()
	}
	if f.ParentID == "" || IsSystemID(f.ParentID) {
		parent := m.currentFolderLocked()
		if IsSystemID(parent) {
			parent = RootID
		}
		f.ParentID = parent
	}

	m.files[f.ID] = &f
	m.pushFileRemoteLocked(ctx, &f)

	c := f
	return &c, nil
}

// SetFavorite flags a file for the favorites bucket.
func (m *Model) SetFavorite(ctx context.Context, fileID string, favorite bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.files[fileID]
	if !ok {
		return &NotFoundError{ID: fileID}
	}

	if f.Favorite == favorite {
		return nil
	}

	f.Favorite = favorite
	m.pushFileRemoteLocked(ctx, f)

	return nil
}

// RecolorFolder updates a custom folder's color.
func (m *Model) RecolorFolder(ctx context.Context, folderID, color string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.folders[folderID]
	if !ok {
		return &NotFoundError{ID: folderID}
	}
	if f.System {
		return &PermissionError{Op: "recolor", Name: f.Name}
	}

	f.Color = color
	m.persistFolderLocked(f)
	m.pushFolderRemoteLocked(ctx, f)

	return nil
}

// FolderByID returns a copy of the folder record.
func (m *Model) FolderByID(id string) (Folder, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.folders[id]
	if !ok {
		return Folder{}, false
	}

	return *f, true
}

// FileByID returns a copy of the file record.
func (m *Model) FileByID(id string) (File, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.files[id]
	if !ok {
		return File{}, false
	}

	return *f, true
}

// Stats summarizes the namespace for the index page.
type Stats struct {
	Folders   int               `json:"folders"`
	Files     int               `json:"files"`
	TotalSize int64             `json:"totalSize"`
	ByType    map[TypeClass]int `json:"byType"`
}

func (m *Model) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := Stats{ByType: map[TypeClass]int{}}

	for _, f := range m.folders {
		if !f.System {
			st.Folders++
		}
	}

	for _, f := range m.files {
		st.Files++
		st.TotalSize += f.Size
		st.ByType[f.Type]++
	}

	return st
}

// Select adds a node to the selection set.
func (m *Model) Select(nodeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.nodeExistsLocked(nodeID) {
		return &NotFoundError{ID: nodeID}
	}

	m.selection[nodeID] = struct{}{}
	return nil
}

// Deselect removes a node from the selection set.
func (m *Model) Deselect(nodeID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.selection, nodeID)
}

// ToggleSelect flips a node's selection state and reports the new state.
func (m *Model) ToggleSelect(nodeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.nodeExistsLocked(nodeID) {
		return false, &NotFoundError{ID: nodeID}
	}

	if _, ok := m.selection[nodeID]; ok {
		delete(m.selection, nodeID)
		return false, nil
	}

	m.selection[nodeID] = struct{}{}
	return true, nil
}

// Selected returns the sorted selected node ids.
func (m *Model) Selected() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := maps.Keys(m.selection)
	slices.Sort(ids)

	return ids
}

// ClearSelection empties the selection set.
func (m *Model) ClearSelection() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.selection = map[string]struct{}{}
}

// OpenFolder descends into a folder and clears the selection.
func (m *Model) OpenFolder(folderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.folders[folderID]; !ok {
		return &NotFoundError{ID: folderID}
	}

	m.path = append(m.path, folderID)
	m.selection = map[string]struct{}{}

	return nil
}

// NavigateUp ascends one level. At the root view it is a no-op.
func (m *Model) NavigateUp() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.path) == 0 {
		return
	}

	m.path = m.path[:len(m.path)-1]
	m.selection = map[string]struct{}{}
}

// NavigateTo truncates the path to depth elements. Depth 0 is the root
// view.
func (m *Model) NavigateTo(depth int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if depth < 0 || depth >= len(m.path) {
		return
	}

	m.path = m.path[:depth]
	m.selection = map[string]struct{}{}
}

// Path returns a copy of the current folder path, root first.
func (m *Model) Path() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Clone(m.path)
}

// CurrentFolder returns the open folder id, or root for the empty path.
func (m *Model) CurrentFolder() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.currentFolderLocked()
}

func (m *Model) currentFolderLocked() string {
	if len(m.path) == 0 {
		return RootID
	}

	return m.path[len(m.path)-1]
}

func (m *Model) nodeExistsLocked(nodeID string) bool {
	if _, ok := m.folders[nodeID]; ok {
		return true
	}

	_, ok := m.files[nodeID]
	return ok
}

func (m *Model) siblingFolderTakenLocked(name, parentID, excludeID string) bool {
	for id, f := range m.folders {
		if id == excludeID || f.ParentID != parentID {
			continue
		}

		if strings.EqualFold(f.Name, name) {
			return true
		}
	}

	return false
}

func (m *Model) siblingFileTakenLocked(name, parentID, excludeID string) bool {
	for id, f := range m.files {
		if id == excludeID || f.ParentID != parentID {
			continue
		}

		if strings.EqualFold(f.Name, name) {
			return true
		}
	}

	return false
}

// isDescendantLocked reports whether candidate sits below ancestor in the
// folder tree. The walk is bounded by a seen set so a corrupted parent
// chain cannot loop.
func (m *Model) isDescendantLocked(candidate, ancestor string) bool {
	seen := map[string]struct{}{}

	current := candidate
	for current != "" && current != RootID {
		if _, ok := seen[current]; ok {
			return false
		}
		seen[current] = struct{}{}

		f, ok := m.folders[current]
		if !ok {
			return false
		}

		if f.ParentID == ancestor {
			return true
		}

		current = f.ParentID
	}

	return false
}

func (m *Model) persistStructureLocked(ctx context.Context) {
	data, err := Marshal(m.structure)
	if err != nil {
		m.reportIO("structure encode", err)
		return
	}

	if m.cache != nil {
		if err := m.cache.Put(cacheKeyStructure, data); err != nil {
			m.reportIO("structure cache write", err)
		}
	}

	if m.structSvc != nil {
		if err := m.structSvc.PutStructure(ctx, data); err != nil {
			m.reportIO("structure remote write", err)
			m.scheduleResync(resyncKeyStructure)
		}
	}
}

func (m *Model) persistFolderLocked(f *Folder) {
	if m.cache == nil {
		return
	}

	data, err := Marshal(f)
	if err != nil {
		m.reportIO("folder encode", err)
		return
	}

	if err := m.cache.Put(cacheFolderPrefix+f.ID, data); err != nil {
		m.reportIO("folder cache write", err)
	}
}

func (m *Model) pushFolderRemoteLocked(ctx context.Context, f *Folder) {
	if m.folderSvc == nil {
		return
	}

	if err := m.folderSvc.Update(ctx, *f); err != nil {
		m.reportIO("folder remote update", err)
		m.scheduleResync(resyncKeyFolders)
	}
}

func (m *Model) pushFileRemoteLocked(ctx context.Context, f *File) {
	if m.fileSvc == nil {
		return
	}

	if err := m.fileSvc.Update(ctx, fileToRemote(*f)); err != nil {
		m.reportIO("file remote update", err)
		m.scheduleResync(resyncFilePrefix + f.ID)
	}
}

func (m *Model) scheduleResync(key string) {
	m.resync.Add(key, m.resyncTarget)
}

// resyncTarget re-attempts a failed remote write. Fired from the
// debounce timer, so it takes the lock itself.
func (m *Model) resyncTarget(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), m.listWindow)
	defer cancel()

	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case key == resyncKeyStructure:
		m.persistStructureLocked(ctx)
	case key == resyncKeyFolders:
		if m.folderSvc == nil {
			return
		}

		for _, f := range m.folders {
			if f.System {
				continue
			}

			m.pushFolderRemoteLocked(ctx, f)
		}
	case strings.HasPrefix(key, resyncFilePrefix):
		f, ok := m.files[strings.TrimPrefix(key, resyncFilePrefix)]
		if !ok {
			return
		}

		m.pushFileRemoteLocked(ctx, f)
	}
}

func (m *Model) reportIO(target string, err error) {
	ioErr := &TransientIOError{Target: target, Err: err}

	m.logger.Warn("persistence attempt failed",
		zap.String("target", target),
		zap.Error(err))
	m.notifyWarn(fmt.Sprintf("Sync issue: %s. Your change is kept locally.", ioErr))
}

func (m *Model) notifyWarn(message string) {
	if m.notifier != nil {
		m.notifier.Warn(message)
	}
}

func fileFromRemote(rf RemoteFile) File {
	name := rf.Name
	if name == "" {
		name = rf.StorageKey
	}

	parent := rf.Parent
	if parent == "" {
		parent = RootID
	}

	return File{
		ID:         rf.StorageKey,
		Name:       name,
		Size:       rf.Size,
		Type:       ClassifyName(name),
		URL:        rf.URL,
		UploadedAt: rf.Uploaded,
		ParentID:   parent,
		Favorite:   rf.Liked,
	}
}

func fileToRemote(f File) RemoteFile {
	return RemoteFile{
		StorageKey: f.ID,
		Name:       f.Name,
		Size:       f.Size,
		Uploaded:   f.UploadedAt,
		Parent:     f.ParentID,
		Liked:      f.Favorite,
		URL:        f.URL,
	}
}
