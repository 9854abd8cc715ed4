package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/anima2d/engine/assets/loaders"
	"github.com/spaghettifunk/anima2d/engine/core"
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
)

// capacity of the change channel; events past it are dropped with a warning
const changeQueueSize = 64

type AssetInfo struct {
	Path       string
	Type       metadata.ResourceType
	LastLoaded time.Time
}

// AssetManager indexes every file below an asset root, loads them through
// the loader registered for their resource type and optionally watches the
// tree for changes. Change notifications are delivered on Changes so the
// render thread can pick them up between frames.
type AssetManager struct {
	root    string
	assets  map[string]AssetInfo
	loaders map[metadata.ResourceType]Loader

	mutex sync.RWMutex

	done     chan struct{}
	wg       sync.WaitGroup
	fsnotify *fsnotify.Watcher
	isClosed bool
	changes  chan core.AssetEvent
}

var newWatcher = fsnotify.NewWatcher

func NewAssetManager() *AssetManager {
	am := &AssetManager{
		assets:  make(map[string]AssetInfo),
		loaders: make(map[metadata.ResourceType]Loader),
		changes: make(chan core.AssetEvent, changeQueueSize),
		done:    make(chan struct{}),
	}

	am.registerLoader(metadata.ResourceTypeText, &loaders.TextLoader{})
	am.registerLoader(metadata.ResourceTypeBinary, &loaders.TextLoader{})
	am.registerLoader(metadata.ResourceTypeImage, &loaders.ImageLoader{})
	am.registerLoader(metadata.ResourceTypeShader, &loaders.ShaderLoader{})
	am.registerLoader(metadata.ResourceTypeSystemFont, &loaders.SystemFontLoader{})
	am.registerLoader(metadata.ResourceTypeBitmapFont, &loaders.BitmapFontLoader{})

	return am
}

// Initialize indexes assetsDir. When watch is set, a filesystem watcher is
// started on the directory tree as well.
func (am *AssetManager) Initialize(assetsDir string, watch bool) error {
	root, err := filepath.Abs(assetsDir)
	if err != nil {
		return err
	}
	fi, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("%w: %s", core.ErrAssetNotFound, assetsDir)
	}
	if !fi.IsDir() {
		return fmt.Errorf("asset root %s is not a directory", assetsDir)
	}
	am.root = root

	if watch {
		w, err := newWatcher()
		if err != nil {
			return err
		}
		am.fsnotify = w
	}

	// the tree is indexed before the watcher goroutine exists, so a failed
	// walk leaves nothing running
	if err := am.watchRecursive(root, false); err != nil {
		if am.fsnotify != nil {
			_ = am.fsnotify.Close()
			am.fsnotify = nil
		}
		return err
	}

	if am.fsnotify != nil {
		am.wg.Add(1)
		go am.start()
	}
	return nil
}

// Root returns the absolute asset directory.
func (am *AssetManager) Root() string {
	return am.root
}

// Changes delivers a notification for every indexed file that is created,
// written or removed while the manager is watching.
func (am *AssetManager) Changes() <-chan core.AssetEvent {
	return am.changes
}

// Register loaders for each asset type
func (am *AssetManager) registerLoader(assetType metadata.ResourceType, loader Loader) {
	am.loaders[assetType] = loader
}

// Lookup returns the index entry for a path relative to the asset root.
func (am *AssetManager) Lookup(name string) (AssetInfo, bool) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	info, ok := am.assets[filepath.ToSlash(filepath.Clean(name))]
	return info, ok
}

// Assets lists the indexed paths of the given type.
func (am *AssetManager) Assets(resourceType metadata.ResourceType) []string {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	var paths []string
	for path, info := range am.assets {
		if info.Type == resourceType {
			paths = append(paths, path)
		}
	}
	return paths
}

// FullPath resolves a path relative to the asset root.
func (am *AssetManager) FullPath(name string) string {
	return filepath.Join(am.root, filepath.FromSlash(name))
}

// LoadAsset loads name, relative to the asset root, with the loader for
// resourceType. The file must be in the index.
func (am *AssetManager) LoadAsset(name string, resourceType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	key := filepath.ToSlash(filepath.Clean(name))

	am.mutex.Lock()
	asset, exists := am.assets[key]
	if exists {
		asset.LastLoaded = time.Now()
		am.assets[key] = asset
	}
	am.mutex.Unlock()
	if !exists {
		return nil, fmt.Errorf("%w: %s", core.ErrAssetNotFound, name)
	}

	loader, loaderExists := am.loaders[resourceType]
	if !loaderExists {
		return nil, fmt.Errorf("no loader registered for asset type: %s", resourceType)
	}

	res, err := loader.Load(am.FullPath(key), resourceType, params)
	if err != nil {
		return nil, fmt.Errorf("loading %s asset %s: %w", resourceType, name, err)
	}
	res.ResourceType = resourceType
	if res.Name == "" {
		res.Name = key
	}
	return res, nil
}

func (am *AssetManager) UnloadAsset(asset *metadata.Resource) error {
	if asset == nil {
		return nil
	}
	loader, ok := am.loaders[asset.ResourceType]
	if !ok {
		return fmt.Errorf("no loader registered for asset type: %s", asset.ResourceType)
	}
	return loader.Unload(asset)
}

// Shutdown stops the watcher. It is safe to call more than once.
func (am *AssetManager) Shutdown() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return nil
	}
	am.isClosed = true
	am.mutex.Unlock()

	close(am.done)
	am.wg.Wait()
	return nil
}

func (am *AssetManager) start() {
	defer am.wg.Done()
	for {
		select {
		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			am.handleWatchEvent(e)

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("asset watcher: %s", err)

		case <-am.done:
			if err := am.fsnotify.Close(); err != nil {
				core.LogWarn("asset watcher close: %s", err)
			}
			return
		}
	}
}

func (am *AssetManager) handleWatchEvent(e fsnotify.Event) {
	if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
		s, err := os.Stat(e.Name)
		if err != nil {
			return
		}
		if s.IsDir() {
			if e.Op&fsnotify.Create != 0 {
				if err := am.watchRecursive(e.Name, false); err != nil {
					core.LogWarn("asset watcher: %s", err)
				}
			}
			return
		}
		if path, ok := am.handleFileEvent(e.Name); ok {
			am.notify(core.AssetEvent{Path: path})
		}
		return
	}

	// a removed directory cannot be stat'ed, so the watch is dropped blindly
	if e.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		if path, ok := am.removeAsset(e.Name); ok {
			am.notify(core.AssetEvent{Path: path, Removed: true})
		}
		_ = am.fsnotify.Remove(e.Name)
	}
}

func (am *AssetManager) notify(event core.AssetEvent) {
	select {
	case am.changes <- event:
	default:
		core.LogWarn("asset change queue full, dropping event for %s", event.Path)
	}
}

// watchRecursive indexes every file below path and adds its directories to
// the watch list when a watcher is running.
func (am *AssetManager) watchRecursive(path string, unWatch bool) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if am.fsnotify == nil {
				return nil
			}
			if unWatch {
				return am.fsnotify.Remove(walkPath)
			}
			return am.fsnotify.Add(walkPath)
		}
		am.handleFileEvent(walkPath)
		return nil
	})
}

func (am *AssetManager) relative(path string) (string, bool) {
	rel, err := filepath.Rel(am.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// Handle the creation or modification of a file
func (am *AssetManager) handleFileEvent(path string) (string, bool) {
	rel, ok := am.relative(path)
	if !ok {
		return "", false
	}
	assetType, ok := DetermineAssetType(rel)
	if !ok {
		return "", false
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.assets[rel] = AssetInfo{
		Path: rel,
		Type: assetType,
	}
	return rel, true
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) (string, bool) {
	rel, ok := am.relative(path)
	if !ok {
		return "", false
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()
	if _, exists := am.assets[rel]; !exists {
		return "", false
	}
	delete(am.assets, rel)
	return rel, true
}

// DetermineAssetType maps a file extension to the resource type it is loaded
// as. Unknown extensions are not indexed.
func DetermineAssetType(path string) (metadata.ResourceType, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".bmp", ".webp", ".tif", ".tiff":
		return metadata.ResourceTypeImage, true
	case ".shadercfg":
		return metadata.ResourceTypeShader, true
	case ".ttf", ".otf", ".ttc":
		return metadata.ResourceTypeSystemFont, true
	case ".fnt":
		return metadata.ResourceTypeBitmapFont, true
	case ".vert", ".frag", ".glsl", ".txt", ".toml":
		return metadata.ResourceTypeText, true
	case ".bin":
		return metadata.ResourceTypeBinary, true
	default:
		return 0, false
	}
}

// IsNotFound reports whether err means an asset is missing from the index.
func IsNotFound(err error) bool {
	return errors.Is(err, core.ErrAssetNotFound)
}
