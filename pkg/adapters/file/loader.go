package file

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/quiztree/internal/compiler"
	"github.com/aretw0/quiztree/internal/logging"
	"github.com/aretw0/quiztree/pkg/domain"
	"github.com/fsnotify/fsnotify"
)

// Loader implements ports.QuestionnaireLoader and ports.Watchable for a
// questionnaire document on disk. YAML and JSON are both accepted.
type Loader struct {
	path     string
	parser   *compiler.Parser
	logger   *slog.Logger
	debounce time.Duration
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the logger used to report watch errors.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithDebounce sets how long Watch waits for writes to settle before signalling.
func WithDebounce(d time.Duration) LoaderOption {
	return func(l *Loader) {
		l.debounce = d
	}
}

// NewLoader creates a Loader for the document at path.
func NewLoader(path string, opts ...LoaderOption) *Loader {
	l := &Loader{
		path:     path,
		parser:   compiler.NewParser(),
		logger:   logging.NewNop(),
		debounce: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Path returns the watched document path.
func (l *Loader) Path() string {
	return l.path
}

// Load reads and compiles the document.
func (l *Loader) Load(ctx context.Context) (*domain.Questionnaire, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read questionnaire %s: %w", l.path, err)
	}
	q, err := l.parser.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.path, err)
	}
	return q, nil
}

// Watch signals on the returned channel whenever the document is written,
// created or replaced. The directory is watched rather than the file so that
// editors saving through rename are still seen. The channel is closed when ctx
// is done.
func (l *Loader) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	abs, err := filepath.Abs(l.path)
	if err != nil {
		_ = watcher.Close()
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	out := make(chan struct{}, 1)
	go l.run(ctx, watcher, abs, out)
	return out, nil
}

func (l *Loader) run(ctx context.Context, watcher *fsnotify.Watcher, target string, out chan<- struct{}) {
	defer close(out)
	defer watcher.Close()

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			pending = time.After(l.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			l.logger.Warn("questionnaire watch error", "path", target, "err", err)

		case <-pending:
			pending = nil
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}
}
