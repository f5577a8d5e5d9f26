// Package peerfile reads registry peer URLs from a YAML file and reports edits to it.
//
// File format:
//
//	peers:
//	  - http://node-a:8761/eureka/v2/
//	  - http://node-b:8761/eureka/v2/
package peerfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"myregistry/helpers"
	"myregistry/interfaces"
	"myregistry/service"

	"github.com/fsnotify/fsnotify"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"gopkg.in/yaml.v3"
)

// DefaultDebounce coalesces the burst of events one save produces.
const DefaultDebounce = 500 * time.Millisecond

type peersFile struct {
	Peers []string `yaml:"peers"`
}

// Source implements interfaces.PeerSource over a YAML file.
type Source struct {
	path      string
	debounce  time.Duration
	logger    log.Logger
	fsWatcher *fsnotify.Watcher
	onChange  chan struct{}
	done      chan struct{}
}

var _ interfaces.PeerSource = (*Source)(nil)

// New creates a source for path. Call Start to receive change notifications. Panics on empty path or nil
// logger.
func New(path string, debounce time.Duration, logger log.Logger) (*Source, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Source{
		path:      filepath.Clean(helpers.StrPanic(path, "adapters.peerfile.source.go: path is required")),
		debounce:  debounce,
		logger:    log.With(helpers.NilPanic(logger, "adapters.peerfile.source.go: logger is required"), "component", "peerfile"),
		fsWatcher: fsw,
		onChange:  make(chan struct{}, 1),
		done:      make(chan struct{}),
	}, nil
}

// Peers reads and parses the file.
func (s *Source) Peers(_ context.Context) ([]string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read peers file %s: %w", s.path, err)
	}
	var f peersFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, service.NewBadParameterError("invalid peers file "+s.path, err)
	}
	out := make([]string, 0, len(f.Peers))
	for _, p := range f.Peers {
		if p = service.NormalizePeerURL(p); p != "" {
			out = append(out, p)
		}
	}
	return out, nil
}

// Changes signals, debounced, after the file was written, created, renamed or removed.
func (s *Source) Changes() <-chan struct{} {
	return s.onChange
}

// Start watches the directory holding the file. Watching the directory keeps working when editors
// replace the file through a rename.
func (s *Source) Start() error {
	dir := filepath.Dir(s.path)
	if err := s.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("watching directory %s: %w", dir, err)
	}
	go s.loop()
	return nil
}

// Stop terminates the watcher.
func (s *Source) Stop() error {
	close(s.done)
	return s.fsWatcher.Close()
}

func (s *Source) loop() {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case event, ok := <-s.fsWatcher.Events:
			if !ok {
				return
			}
			if !s.isRelevantEvent(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(s.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(s.debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			select {
			case s.onChange <- struct{}{}:
			default:
			}

		case err, ok := <-s.fsWatcher.Errors:
			if !ok {
				return
			}
			level.Warn(s.logger).Log("msg", "peers file watch error", "path", s.path, "err", err)

		case <-s.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

func (s *Source) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	return filepath.Clean(event.Name) == s.path
}
