package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"resumefit/internal/errors"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Inventory holds the term lists the extractor scans for. All matching
// against it is case-insensitive substring matching on normalized text.
type Inventory struct {
	Skills       []string `yaml:"skills"`
	Technologies []string `yaml:"technologies"`
	Education    []string `yaml:"education"`
}

// DefaultInventory returns the built-in term lists used when no inventory
// file is configured.
func DefaultInventory() *Inventory {
	return &Inventory{
		Skills: []string{
			// Programming languages
			"python", "java", "javascript", "typescript", "c++", "c#", "go", "rust", "scala", "kotlin",
			"php", "ruby", "swift", "objective-c", "dart", "r", "matlab", "perl", "shell", "bash",
			// Web
			"html", "css", "react", "angular", "vue", "node.js", "express", "django", "flask", "fastapi",
			"bootstrap", "tailwind", "sass", "less", "webpack", "vite", "next.js", "nuxt.js",
			// Databases
			"sql", "mysql", "postgresql", "mongodb", "redis", "elasticsearch", "cassandra", "neo4j",
			"sqlite", "oracle", "sql server", "dynamodb", "firebase",
			// Cloud and infrastructure
			"aws", "azure", "gcp", "docker", "kubernetes", "terraform", "ansible", "jenkins",
			"gitlab ci", "github actions", "ci/cd", "nginx", "apache", "linux", "ubuntu",
			// Data and ML
			"pandas", "numpy", "sklearn", "pytorch", "tensorflow", "keras", "jupyter", "matplotlib",
			"seaborn", "plotly", "apache spark", "hadoop", "airflow", "dbt", "tableau", "power bi",
			// Tooling
			"git", "jira", "confluence", "slack", "figma", "adobe", "photoshop", "illustrator",
		},
		Technologies: []string{
			"machine learning", "artificial intelligence", "deep learning", "natural language processing",
			"computer vision", "data analysis", "data science", "big data", "blockchain", "microservices",
			"api development", "mobile development", "web development", "frontend", "backend", "full stack",
		},
		Education: []string{
			"bachelor", "master", "phd", "doctorate", "mba", "b.tech", "m.tech", "b.sc", "m.sc",
			"bca", "mca", "be", "me", "diploma", "certificate", "associate degree",
		},
	}
}

// LoadInventory reads a YAML inventory file. Empty sections fall back to
// the corresponding default lists so a partial file stays usable.
func LoadInventory(path string) (*Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory file %s: %w", path, err)
	}

	var inv Inventory
	if err := yaml.Unmarshal(data, &inv); err != nil {
		return nil, fmt.Errorf("failed to parse inventory file %s: %w", path, err)
	}

	defaults := DefaultInventory()
	if len(inv.Skills) == 0 {
		inv.Skills = defaults.Skills
	}
	if len(inv.Technologies) == 0 {
		inv.Technologies = defaults.Technologies
	}
	if len(inv.Education) == 0 {
		inv.Education = defaults.Education
	}
	return &inv, nil
}

// InventoryWatcher watches an inventory file and hot-swaps the active
// inventory on change. Events are debounced so editors that write in
// several steps trigger a single reload.
type InventoryWatcher struct {
	mu sync.RWMutex

	path        string
	current     *Inventory
	lastModTime time.Time

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan   chan struct{}
	reloadChan chan struct{}

	onReload func(*Inventory)
	logger   *errors.Logger

	running bool
}

// NewInventoryWatcher loads the inventory at path and prepares a watcher
// for it. onReload may be nil; Inventory() always reflects the latest
// successfully loaded state either way.
func NewInventoryWatcher(path string, debounceDelay time.Duration, onReload func(*Inventory), logger *errors.Logger) (*InventoryWatcher, error) {
	inv, err := LoadInventory(path)
	if err != nil {
		return nil, err
	}

	if debounceDelay == 0 {
		debounceDelay = time.Second
	}

	return &InventoryWatcher{
		path:          path,
		current:       inv,
		debounceDelay: debounceDelay,
		stopChan:      make(chan struct{}),
		reloadChan:    make(chan struct{}, 1),
		onReload:      onReload,
		logger:        logger,
	}, nil
}

// Inventory returns the currently active inventory.
func (iw *InventoryWatcher) Inventory() *Inventory {
	iw.mu.RLock()
	defer iw.mu.RUnlock()
	return iw.current
}

// Start begins watching the inventory file for changes.
func (iw *InventoryWatcher) Start() error {
	iw.mu.Lock()
	defer iw.mu.Unlock()

	if iw.running {
		return fmt.Errorf("inventory watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	iw.fsWatcher = watcher

	if stat, err := os.Stat(iw.path); err == nil {
		iw.lastModTime = stat.ModTime()
	}

	if err := iw.fsWatcher.Add(iw.path); err != nil {
		iw.cleanupWatcher()
		return fmt.Errorf("failed to watch inventory file %s: %w", iw.path, err)
	}
	// Also watch the directory to catch atomic writes (rename operations).
	if err := iw.fsWatcher.Add(filepath.Dir(iw.path)); err != nil {
		iw.logger.Warn("Failed to watch inventory directory for atomic writes",
			"directory", filepath.Dir(iw.path), "error", err)
	}

	iw.running = true
	go iw.watchLoop()

	iw.logger.Info("Inventory file watcher started",
		"file", iw.path,
		"debounce_delay", iw.debounceDelay)
	return nil
}

// Stop stops the watcher.
func (iw *InventoryWatcher) Stop() error {
	iw.mu.Lock()
	defer iw.mu.Unlock()

	if !iw.running {
		return nil
	}

	close(iw.stopChan)
	if iw.debounceTimer != nil {
		iw.debounceTimer.Stop()
	}
	if iw.fsWatcher != nil {
		if err := iw.fsWatcher.Close(); err != nil {
			iw.logger.LogError(err, "Failed to close file system watcher")
			return err
		}
	}

	iw.running = false
	iw.logger.Info("Inventory file watcher stopped")
	return nil
}

// IsRunning reports whether the watcher is active.
func (iw *InventoryWatcher) IsRunning() bool {
	iw.mu.RLock()
	defer iw.mu.RUnlock()
	return iw.running
}

func (iw *InventoryWatcher) cleanupWatcher() {
	if iw.fsWatcher != nil {
		if closeErr := iw.fsWatcher.Close(); closeErr != nil {
			iw.logger.LogError(closeErr, "Failed to close file watcher during cleanup")
		}
	}
}

func (iw *InventoryWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-iw.fsWatcher.Events:
			if !ok {
				return
			}
			if iw.shouldProcessEvent(event) {
				iw.scheduleReload()
			}

		case err, ok := <-iw.fsWatcher.Errors:
			if !ok {
				return
			}
			iw.logger.LogError(err, "File watcher error")

		case <-iw.reloadChan:
			if iw.fileChanged() {
				iw.reload()
			}

		case <-iw.stopChan:
			return
		}
	}
}

func (iw *InventoryWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Name != iw.path && filepath.Base(event.Name) != filepath.Base(iw.path) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func (iw *InventoryWatcher) fileChanged() bool {
	stat, err := os.Stat(iw.path)
	if err != nil {
		return false
	}

	iw.mu.Lock()
	defer iw.mu.Unlock()
	if stat.ModTime().After(iw.lastModTime) {
		iw.lastModTime = stat.ModTime()
		return true
	}
	return false
}

// reload re-reads the file and swaps the active inventory. A file that no
// longer parses keeps the previous inventory in place.
func (iw *InventoryWatcher) reload() {
	inv, err := LoadInventory(iw.path)
	if err != nil {
		iw.logger.LogError(err, "Failed to reload inventory, keeping previous terms", "file", iw.path)
		return
	}

	iw.mu.Lock()
	iw.current = inv
	onReload := iw.onReload
	iw.mu.Unlock()

	iw.logger.Info("Inventory reloaded",
		"file", iw.path,
		"skills", len(inv.Skills),
		"technologies", len(inv.Technologies))

	if onReload != nil {
		onReload(inv)
	}
}

// scheduleReload schedules a debounced reload.
func (iw *InventoryWatcher) scheduleReload() {
	iw.mu.Lock()
	defer iw.mu.Unlock()

	if iw.debounceTimer != nil {
		iw.debounceTimer.Stop()
	}
	iw.debounceTimer = time.AfterFunc(iw.debounceDelay, func() {
		select {
		case iw.reloadChan <- struct{}{}:
		default:
		}
	})
}
