package cmd

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"github.com/bnema/messenger-accounts-cli/internal/adapters/bridge"
	boltstore "github.com/bnema/messenger-accounts-cli/internal/adapters/options/bolt"
	filestore "github.com/bnema/messenger-accounts-cli/internal/adapters/options/file"
	tomlrepo "github.com/bnema/messenger-accounts-cli/internal/adapters/repo/toml"
	"github.com/bnema/messenger-accounts-cli/internal/application"
	"github.com/bnema/messenger-accounts-cli/internal/event"
	"github.com/bnema/messenger-accounts-cli/internal/logging"
	"github.com/bnema/messenger-accounts-cli/internal/ports"
	"github.com/spf13/viper"
)

const (
	optionsPathKey    = "options.path"
	optionsBackendKey = "options.backend"
	logLevelKey       = "log.level"
	logFormatKey      = "log.format"
	embeddedKey       = "session.embedded"
	usernameKey       = "session.username"
)

type app struct {
	lifecycle *application.LifecycleService
	bridge    *bridge.Service
	bus       *event.Bus
	log       logging.Logger
}

func wireApp() (*app, error) {
	cfg := viper.New()

	// NewRepository binds cfg to ~/.messenger/config.toml and reads it;
	// the remaining keys below come from the same file.
	repo, err := tomlrepo.NewRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire account repository: %w", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg.SetDefault(optionsPathKey, filepath.Join(homeDir, ".messenger", "options.db"))
	cfg.SetDefault(optionsBackendKey, "bolt")
	cfg.SetDefault(logLevelKey, "info")
	cfg.SetDefault(logFormatKey, "text")
	cfg.SetDefault(embeddedKey, true)
	cfg.SetDefault(usernameKey, localUsername())

	optionStore, err := wireOptionStore(cfg, homeDir)
	if err != nil {
		return nil, err
	}

	logger := logging.New(logging.Config{
		Level:  cfg.GetString(logLevelKey),
		Format: cfg.GetString(logFormatKey),
		Output: os.Stderr,
	})

	bus := event.NewBus()
	bus.SubscribeAll(func(e event.Event) {
		logger.Debug("event published", "type", e.EventType())
	})

	bridgeSvc := bridge.NewService(repo, ports.SystemClock{}, cfg.GetString(usernameKey))

	lifecycle := application.NewLifecycleService(application.Config{
		Service:  bridgeSvc,
		Accounts: repo,
		Options:  optionStore,
		Bus:      bus,
		Embedded: cfg.GetBool(embeddedKey),
		Logger:   logger,
	})

	// Downstream consumer of switch events: the controller only closes
	// and announces; opening the next session happens here.
	bus.Subscribe(event.TypeSwitchAccount, func(e event.Event) {
		sw, ok := e.(event.SwitchAccountEvent)
		if !ok {
			return
		}
		if err := lifecycle.OpenSession(context.Background(), sw.AccountID); err != nil {
			logger.Error("open session after switch", "account", sw.AccountID, "error", err)
		}
	})

	return &app{
		lifecycle: lifecycle,
		bridge:    bridgeSvc,
		bus:       bus,
		log:       logger,
	}, nil
}

func wireOptionStore(cfg *viper.Viper, homeDir string) (ports.OptionStore, error) {
	switch backend := cfg.GetString(optionsBackendKey); backend {
	case "bolt":
		return boltstore.NewStore(cfg.GetString(optionsPathKey)), nil
	case "file":
		return filestore.NewStore(filepath.Join(homeDir, ".messenger", "options")), nil
	default:
		return nil, fmt.Errorf("unsupported options backend %q", backend)
	}
}

func localUsername() string {
	if current, err := user.Current(); err == nil && current.Username != "" {
		return current.Username
	}
	return os.Getenv("USER")
}
