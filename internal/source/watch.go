package source

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Debounce is how long a source must be quiet before a change is reported.
const Debounce = 150 * time.Millisecond

// Change reports that a watched source file was written, created or removed.
type Change struct {
	Path    string
	Removed bool
}

// Watcher monitors data source files for changes using fsnotify. Bursts of
// events for the same file collapse into one Change.
type Watcher struct {
	Changes <-chan Change // Read-only external channel

	files   map[string]bool
	changes chan Change
	stop    chan struct{}
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher for the given source files. Their parent
// directories are watched so editors that replace files on save are seen.
func NewWatcher(paths []string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	files := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, err
		}
		files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, err
		}
	}

	ch := make(chan Change, 16)
	return &Watcher{
		Changes: ch,
		files:   files,
		changes: ch,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
		watcher: fw,
	}, nil
}

// Start begins delivering changes.
func (w *Watcher) Start() {
	go w.loop()
}

// Stop closes the watcher and the Changes channel. Changes nobody has
// received by then are dropped.
func (w *Watcher) Stop() {
	close(w.stop)
	w.watcher.Close()
	<-w.done
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	type pendingChange struct {
		at      time.Time
		removed bool
	}
	pending := make(map[string]pendingChange)
	ticker := time.NewTicker(Debounce / 3)
	defer ticker.Stop()

	// flush hands over what is still pending without waiting for a reader.
	flush := func() {
		for file, p := range pending {
			select {
			case w.changes <- Change{Path: file, Removed: p.removed}:
			default:
			}
		}
	}

	for {
		select {
		case <-w.stop:
			flush()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				flush()
				return
			}
			if !w.files[filepath.Clean(event.Name)] {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				removed := event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
				pending[filepath.Clean(event.Name)] = pendingChange{at: time.Now(), removed: removed}
			}

		case now := <-ticker.C:
			for file, p := range pending {
				if now.Sub(p.at) < Debounce {
					continue
				}
				select {
				case w.changes <- Change{Path: file, Removed: p.removed}:
					delete(pending, file)
				case <-w.stop:
					return
				}
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal.
		}
	}
}
