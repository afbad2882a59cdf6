// Package app wires together the settings, session, clipboard, file
// watcher, and terminal UI, and manages the application lifecycle.
package app

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/dshills/quickmd/internal/clipboard"
	"github.com/dshills/quickmd/internal/config"
	"github.com/dshills/quickmd/internal/session"
	"github.com/dshills/quickmd/internal/ui"
	"github.com/dshills/quickmd/internal/watch"
)

// starterDocument seeds a fresh session when no file is opened.
const starterDocument = "# New Document\n\nType here...\n\n" +
	"| Col A | Col B |\n" +
	"| :--- | ---: |\n" +
	"| one | 1 |\n" +
	"| two | 2 |\n"

// Options configures the application.
type Options struct {
	// ConfigPath overrides the settings file location.
	ConfigPath string

	// File is a document to open on startup, overriding the remembered
	// last file.
	File string

	// LogLevel overrides the configured logging verbosity.
	LogLevel string

	// Debug forces debug-level logging.
	Debug bool
}

// Application is the central coordinator.
type Application struct {
	opts         Options
	settingsPath string
	settings     config.Settings

	logger   *Logger
	logClose io.Closer

	sess    *session.Session
	watcher *watch.Watcher
	ui      *ui.UI

	running atomic.Bool
}

// New creates an application: settings loaded, logger opened, session
// populated from the startup file or the remembered last file.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts: opts,
		sess: session.New(clipboard.NewSystem()),
	}

	if err := app.loadSettings(); err != nil {
		return nil, NewOperationError("load settings", app.settingsPath, err)
	}
	app.openLogger()

	path := opts.File
	if path == "" {
		path = app.settings.LastFile
	}
	if path != "" {
		if err := app.sess.Load(path); err != nil {
			// A vanished last file is normal; an explicit file is not.
			if opts.File != "" {
				app.closeLogger()
				return nil, NewOperationError("open", path, err)
			}
			app.logger.Warn("last file unavailable: %v", err)
			app.sess.NewDocument(starterDocument)
		} else {
			app.rememberFile()
			app.startWatcher()
		}
	} else {
		app.sess.NewDocument(starterDocument)
	}

	return app, nil
}

// Session returns the application's session.
func (app *Application) Session() *session.Session { return app.sess }

// Logger returns the application's logger.
func (app *Application) Logger() *Logger { return app.logger }

// Run starts the terminal UI and blocks until the user quits.
func (app *Application) Run() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	u, err := ui.New(app.sess, app.logger.WithField("component", "ui"))
	if err != nil {
		return NewOperationError("init ui", "", err)
	}
	app.ui = u
	u.SetStarter(starterDocument)
	u.OnFileOpened(func(path string) {
		app.rememberFile()
		app.restartWatcher()
	})

	app.forwardWatchEvents()

	app.logger.Info("starting (file=%q)", app.sess.Path())
	if err := u.Run(); err != nil {
		if errors.Is(err, ui.ErrQuit) {
			return ErrQuit
		}
		return err
	}
	return nil
}

// Shutdown persists settings and releases resources. Safe to call more
// than once.
func (app *Application) Shutdown() {
	app.stopWatcher()
	if app.ui != nil {
		app.ui.Close()
	}
	app.settings.LastFile = app.sess.Path()
	if err := config.Save(app.settingsPath, app.settings); err != nil {
		app.logger.Error("saving settings: %v", err)
	}
	app.closeLogger()
}

func (app *Application) loadSettings() error {
	path := app.opts.ConfigPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}
	app.settingsPath = path

	settings, err := config.Load(path)
	if err != nil {
		return err
	}
	app.settings = settings
	return nil
}

// openLogger opens the configured log file. The UI owns the terminal,
// so a logger that cannot open its file is silently disabled rather
// than writing over the screen.
func (app *Application) openLogger() {
	level := app.settings.LogLevel
	if app.opts.LogLevel != "" {
		level = app.opts.LogLevel
	}

	logPath := app.settings.LogFile
	if logPath == "" {
		logPath = filepath.Join(filepath.Dir(app.settingsPath), "quickmd.log")
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		app.logger = NullLogger
		return
	}
	app.logClose = f
	app.logger = NewLogger(LoggerConfig{
		Level:  ParseLogLevel(level),
		Output: f,
		Prefix: "quickmd",
	})
	if app.opts.Debug {
		app.logger.SetLevel(LogLevelDebug)
	}
}

func (app *Application) closeLogger() {
	if app.logClose != nil {
		_ = app.logClose.Close()
		app.logClose = nil
	}
}

// rememberFile persists the current file as last_file immediately, so
// a crash still remembers it.
func (app *Application) rememberFile() {
	app.settings.LastFile = app.sess.Path()
	if err := config.Save(app.settingsPath, app.settings); err != nil {
		app.logger.Warn("saving settings: %v", err)
	}
}

func (app *Application) startWatcher() {
	if app.sess.Path() == "" {
		return
	}
	w, err := watch.New(app.sess.Path())
	if err != nil {
		app.logger.Warn("watching %s: %v", app.sess.Path(), err)
		return
	}
	app.watcher = w
}

func (app *Application) stopWatcher() {
	if app.watcher != nil {
		_ = app.watcher.Close()
		app.watcher = nil
	}
}

func (app *Application) restartWatcher() {
	app.stopWatcher()
	app.startWatcher()
	app.forwardWatchEvents()
}

// forwardWatchEvents pumps debounced on-disk change events into the UI
// event queue.
func (app *Application) forwardWatchEvents() {
	if app.watcher == nil || app.ui == nil {
		return
	}
	w := app.watcher
	go func() {
		for ev := range w.Events() {
			app.logger.Debug("file changed on disk: %s", ev.Path)
			app.ui.NotifyFileChanged(ev.Path)
		}
	}()
	go func() {
		for err := range w.Errors() {
			app.logger.Warn("watcher: %v", err)
		}
	}()
}
