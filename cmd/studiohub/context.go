package main

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"studiohub/internal/config"
	"studiohub/internal/index"
	"studiohub/internal/ledger"
	"studiohub/internal/printing"
	"studiohub/internal/printlog"
	"studiohub/internal/queue"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// withStore opens the machine-local print queue database for the duration of fn.
func (c *commandContext) withStore(fn func(*queue.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := queue.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// loadIndex reads the shared poster index cache. A cache that has never been
// built loads as an empty index rather than an error.
func (c *commandContext) loadIndex() (*index.Index, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return index.NewStore(cfg.PosterIndexPath()).Load()
}

// openPaper opens the shared paper ledger without an event bus; one-shot
// commands read and append directly.
func (c *commandContext) openPaper() (*ledger.Ledger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return ledger.Open(cfg.PaperLedgerPath(), nil, nil)
}

// withManager wires the full print pipeline (queue, print history, paper
// ledger) for the duration of fn.
func (c *commandContext) withManager(fn func(*printing.Manager) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	paper, err := c.openPaper()
	if err != nil {
		return err
	}
	return c.withStore(func(store *queue.Store) error {
		log := printlog.NewLog(cfg.PrintLogPath())
		return fn(printing.NewManager(cfg, store, log, paper, nil))
	})
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
