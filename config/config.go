package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/wfunc/snake/game"
	"github.com/wfunc/snake/logger"
)

const (
	MinTickTimeMS = 1
	MaxTickTimeMS = 1000
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Game     GameConfig     `mapstructure:"game"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	HTTPAddress    string `mapstructure:"http_address"`
	RPCAddress     string `mapstructure:"rpc_address"`
	GRPCAddress    string `mapstructure:"grpc_address"`
	MetricsAddress string `mapstructure:"metrics_address"`
}

type DatabaseConfig struct {
	// Driver selects the store: "gorm", "pq" or "none".
	Driver   string         `mapstructure:"driver"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

type LogConfig struct {
	Development bool `mapstructure:"development"`
}

type PointConfig struct {
	X int `mapstructure:"x"`
	Y int `mapstructure:"y"`
}

// GameConfig holds the engine settings as the user wrote them. Normalize
// must run before Options is used.
type GameConfig struct {
	Width      int           `mapstructure:"width"`
	Height     int           `mapstructure:"height"`
	FoodAmount int           `mapstructure:"food_amount"`
	TickTimeMS int           `mapstructure:"tick_time_ms"`
	Immortal   bool          `mapstructure:"immortal"`
	AIMode     bool          `mapstructure:"ai_mode"`
	Seed       uint64        `mapstructure:"seed"`
	Heading    string        `mapstructure:"heading"`
	Snake      []PointConfig `mapstructure:"snake"`
	Food       []PointConfig `mapstructure:"food"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.http_address", ":8080")
	v.SetDefault("server.rpc_address", ":8081")
	v.SetDefault("server.grpc_address", ":8082")
	v.SetDefault("server.metrics_address", ":9090")

	v.SetDefault("database.driver", "none")
	v.SetDefault("database.postgres.host", "localhost")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.user", "snake")
	v.SetDefault("database.postgres.password", "")
	v.SetDefault("database.postgres.dbname", "snake")

	v.SetDefault("log.development", false)

	v.SetDefault("game.width", 20)
	v.SetDefault("game.height", 20)
	v.SetDefault("game.food_amount", 1)
	v.SetDefault("game.tick_time_ms", 100)
	v.SetDefault("game.immortal", false)
	v.SetDefault("game.ai_mode", false)
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.heading", "right")
}

// LoadConfig reads config.yaml from path. A missing file is not an error;
// defaults and SNAKE_* environment variables still apply.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("snake")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		logger.Log.Infof("No config file in %s, using defaults", path)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	for _, fix := range config.Game.Normalize() {
		logger.Log.Warnf("game config corrected: %s", fix)
	}
	return &config, nil
}

// TickInterval is the period of the engine tick.
func (g GameConfig) TickInterval() time.Duration {
	return time.Duration(g.TickTimeMS) * time.Millisecond
}

// Options converts a normalised GameConfig into engine options. AI mode
// makes sessions start on their own.
func (g GameConfig) Options() game.Options {
	heading, _ := game.ParseDirection(g.Heading)
	return game.Options{
		Width:      g.Width,
		Height:     g.Height,
		Snake:      toCells(g.Snake),
		Heading:    heading,
		Food:       toCells(g.Food),
		FoodAmount: g.FoodAmount,
		Immortal:   g.Immortal,
		AutoStart:  g.AIMode,
		Seed:       g.Seed,
	}
}

func toCells(points []PointConfig) []game.Cell {
	cells := make([]game.Cell, 0, len(points))
	for _, p := range points {
		cells = append(cells, game.Cell{X: p.X, Y: p.Y})
	}
	return cells
}
