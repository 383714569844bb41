package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/escrowless/marketd/internal/core/application"
	"github.com/escrowless/marketd/internal/core/ports"
	"github.com/escrowless/marketd/internal/infrastructure/db"
	inmemoryledger "github.com/escrowless/marketd/internal/infrastructure/ledger/inmemory"
	inmemorylivestore "github.com/escrowless/marketd/internal/infrastructure/live-store/inmemory"
	timescheduler "github.com/escrowless/marketd/internal/infrastructure/scheduler/gocron"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var (
	supportedDbs = supportedType{
		"badger": {},
		"sqlite": {},
	}
	supportedSchedulers = supportedType{
		"gocron": {},
	}
	supportedLiveStores = supportedType{
		"inmemory": {},
	}
)

type Config struct {
	Datadir  string
	Port     uint32
	LogLevel int
	NoTLS    bool

	DbType        string
	DbDir         string
	SchedulerType string
	LiveStoreType string
	SweepInterval int64

	repo      ports.RepoManager
	svc       application.Service
	assets    ports.AssetLedger
	funds     ports.FundsLedger
	liveStore ports.LiveStore
	scheduler ports.SchedulerService
}

func (c *Config) String() string {
	clone := *c
	json, err := json.MarshalIndent(clone, "", "  ")
	if err != nil {
		return fmt.Sprintf("error while marshalling config JSON: %s", err)
	}
	return string(json)
}

var (
	defaultDatadir       = defaultAppDataDir("marketd")
	DefaultPort          = 7080
	defaultDbType        = "badger"
	defaultSchedulerType = "gocron"
	defaultLiveStoreType = "inmemory"
	defaultLogLevel      = 4
	defaultSweepInterval = 60 // seconds, 0 disables the sweeper
	defaultNoTLS         = true
)

// env returns a list of strings prefixed with `MARKETD_`.
// This is used as a syntax sugar for defining env vars.
func env(values ...string) []string {
	envs := make([]string, len(values))

	for i, value := range values {
		envs[i] = fmt.Sprintf("MARKETD_%s", value)
	}

	return envs
}

var (
	Datadir = &cli.StringFlag{
		Usage: "Directory to store data",
		Name:  "datadir", EnvVars: env("DATADIR"),
		Value: defaultDatadir,
	}

	Port = &cli.UintFlag{
		Usage: "Port to listen on",
		Name:  "port", EnvVars: env("PORT"),
		Value: uint(DefaultPort),
	}

	LogLevel = &cli.IntFlag{
		Usage: "Logging level (0-6, where 6 is trace)",
		Name:  "log-level", EnvVars: env("LOG_LEVEL"),
		Value: defaultLogLevel,
	}

	DbType = &cli.StringFlag{
		Usage: "Database type (badger, sqlite)",
		Name:  "db-type", EnvVars: env("DB_TYPE"),
		Value: defaultDbType,
	}

	SchedulerType = &cli.StringFlag{
		Usage: "Scheduler type (gocron)",
		Name:  "scheduler-type", EnvVars: env("SCHEDULER_TYPE"),
		Value: defaultSchedulerType,
	}

	LiveStoreType = &cli.StringFlag{
		Usage: "Live store type (inmemory)",
		Name:  "live-store-type", EnvVars: env("LIVE_STORE_TYPE"),
		Value: defaultLiveStoreType,
	}

	SweepInterval = &cli.Int64Flag{
		Usage: "How often to sweep expired listings (in seconds), 0 to disable",
		Name:  "sweep-interval", EnvVars: env("SWEEP_INTERVAL"),
		Value: int64(defaultSweepInterval),
	}

	NoTLS = &cli.BoolFlag{
		Usage: "Disable TLS",
		Name:  "no-tls", EnvVars: env("NO_TLS"),
		Value: defaultNoTLS,
	}
)

func Flags() []cli.Flag {
	return []cli.Flag{
		Datadir,
		Port,
		LogLevel,
		DbType,
		SchedulerType,
		LiveStoreType,
		SweepInterval,
		NoTLS,
	}
}

func LoadConfig(c *cli.Context) (*Config, error) {
	if err := initDatadir(c); err != nil {
		return nil, fmt.Errorf("error while creating datadir: %s", err)
	}

	datadir := c.String(Datadir.Name)
	dbPath := filepath.Join(datadir, "db")
	if err := makeDirectoryIfNotExists(dbPath); err != nil {
		return nil, fmt.Errorf("error while creating db dir: %s", err)
	}

	return &Config{
		Datadir:       datadir,
		Port:          uint32(c.Uint(Port.Name)),
		LogLevel:      c.Int(LogLevel.Name),
		NoTLS:         c.Bool(NoTLS.Name),
		DbType:        c.String(DbType.Name),
		DbDir:         dbPath,
		SchedulerType: c.String(SchedulerType.Name),
		LiveStoreType: c.String(LiveStoreType.Name),
		SweepInterval: c.Int64(SweepInterval.Name),
	}, nil
}

func initDatadir(c *cli.Context) error {
	datadir := c.String(Datadir.Name)
	return makeDirectoryIfNotExists(datadir)
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0o755)
	}
	return nil
}

func defaultAppDataDir(appName string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + appName
	}
	return filepath.Join(home, "."+appName)
}

func (c *Config) Validate() error {
	if !supportedDbs.supports(c.DbType) {
		return fmt.Errorf("db type not supported, please select one of: %s", supportedDbs)
	}
	if !supportedSchedulers.supports(c.SchedulerType) {
		return fmt.Errorf(
			"scheduler type not supported, please select one of: %s",
			supportedSchedulers,
		)
	}
	if !supportedLiveStores.supports(c.LiveStoreType) {
		return fmt.Errorf(
			"live store type not supported, please select one of: %s",
			supportedLiveStores,
		)
	}
	if c.SweepInterval < 0 {
		return fmt.Errorf("invalid sweep interval, must not be negative")
	}
	if c.SweepInterval == 0 {
		log.Debug("listing sweeper is disabled")
	}

	if err := c.repoManager(); err != nil {
		return err
	}
	if err := c.ledgerServices(); err != nil {
		return err
	}
	if err := c.liveStoreService(); err != nil {
		return err
	}
	if err := c.schedulerService(); err != nil {
		return err
	}
	return nil
}

func (c *Config) AppService() (application.Service, error) {
	if c.svc == nil {
		if err := c.appService(); err != nil {
			return nil, err
		}
	}
	return c.svc, nil
}

func (c *Config) RepoManager() ports.RepoManager {
	return c.repo
}

func (c *Config) repoManager() error {
	var dataStoreConfig []interface{}
	logger := log.New()

	switch c.DbType {
	case "badger":
		dataStoreConfig = []interface{}{c.DbDir, logger}
	case "sqlite":
		dataStoreConfig = []interface{}{c.DbDir}
	default:
		return fmt.Errorf("unknown db type")
	}

	svc, err := db.NewService(db.ServiceConfig{
		DataStoreType:   c.DbType,
		DataStoreConfig: dataStoreConfig,
	})
	if err != nil {
		return err
	}

	c.repo = svc
	return nil
}

func (c *Config) ledgerServices() error {
	c.assets = inmemoryledger.NewAssetLedger()
	c.funds = inmemoryledger.NewFundsLedger()
	return nil
}

func (c *Config) liveStoreService() error {
	switch c.LiveStoreType {
	case "inmemory":
		c.liveStore = inmemorylivestore.NewLiveStore()
	default:
		return fmt.Errorf("unknown live store type")
	}
	return nil
}

func (c *Config) schedulerService() error {
	switch c.SchedulerType {
	case "gocron":
		c.scheduler = timescheduler.NewScheduler()
	default:
		return fmt.Errorf("unknown scheduler type")
	}
	return nil
}

func (c *Config) appService() error {
	svc, err := application.NewService(
		c.repo, c.assets, c.funds, c.liveStore, c.scheduler, c.SweepInterval,
	)
	if err != nil {
		return err
	}

	c.svc = svc
	return nil
}

type supportedType map[string]struct{}

func (t supportedType) String() string {
	types := make([]string, 0, len(t))
	for tt := range t {
		types = append(types, tt)
	}
	return strings.Join(types, " | ")
}

func (t supportedType) supports(typeStr string) bool {
	_, ok := t[typeStr]
	return ok
}
