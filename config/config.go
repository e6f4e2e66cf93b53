// Package config holds the settings of the onitama shell and bots. Values
// come from, in increasing priority: defaults, an optional config file,
// ONITAMA_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/domino14/onitama/board"
	"github.com/domino14/onitama/cards"
	"github.com/domino14/onitama/equity"
	"github.com/domino14/onitama/search"
)

var ErrInvalidConfig = errors.New("invalid config")

const (
	ConfigDebug             = "debug"
	ConfigFile              = "config"
	ConfigSearchDepth       = "search-depth"
	ConfigSearchTime        = "search-time"
	ConfigSearchNodes       = "search-nodes"
	ConfigSearchThreads     = "search-threads"
	ConfigSearchPruning     = "search-pruning"
	ConfigSearchTTable      = "search-ttable"
	ConfigTTableFraction    = "ttable-fraction"
	ConfigSearchStrategy    = "search-strategy"
	ConfigAdaptiveMargin    = "adaptive-margin"
	ConfigEval              = "eval"
	ConfigPieceWeight       = "piece-weight"
	ConfigSquareWeight      = "square-weight"
	ConfigKingThreatWeight  = "king-threat-weight"
	ConfigKingAdvanceWeight = "king-advance-weight"
	ConfigDeck              = "deck"
	ConfigHuman             = "human"
	ConfigMaxPlies          = "max-plies"
	ConfigCPUProfile        = "cpu-profile"
)

const envPrefix = "ONITAMA"

// Config embeds a viper instance so callers can read any key directly.
type Config struct {
	viper.Viper
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(ConfigDebug, false)
	v.SetDefault(ConfigSearchDepth, search.DefaultDepth)
	v.SetDefault(ConfigSearchTime, time.Duration(0))
	v.SetDefault(ConfigSearchNodes, uint64(0))
	v.SetDefault(ConfigSearchThreads, 1)
	v.SetDefault(ConfigSearchPruning, true)
	v.SetDefault(ConfigSearchTTable, true)
	v.SetDefault(ConfigTTableFraction, search.DefaultTTableFraction)
	v.SetDefault(ConfigSearchStrategy, search.StrategyIterative.String())
	v.SetDefault(ConfigAdaptiveMargin, equity.DefaultPieceWeight)
	v.SetDefault(ConfigEval, equity.MaterialEvaluator)
	v.SetDefault(ConfigPieceWeight, equity.DefaultPieceWeight)
	v.SetDefault(ConfigSquareWeight, equity.DefaultSquareWeight)
	v.SetDefault(ConfigKingThreatWeight, 0)
	v.SetDefault(ConfigKingAdvanceWeight, 0)
	v.SetDefault(ConfigDeck, "")
	v.SetDefault(ConfigHuman, "")
	v.SetDefault(ConfigMaxPlies, 200)
	v.SetDefault(ConfigCPUProfile, "")
}

// DefaultConfig returns a config holding only the defaults.
func DefaultConfig() *Config {
	c := &Config{Viper: *viper.New()}
	setDefaults(&c.Viper)
	return c
}

func flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("onitama", pflag.ContinueOnError)
	fs.String(ConfigFile, "", "path to a config file (yaml, toml or json)")
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.Int(ConfigSearchDepth, search.DefaultDepth, "maximum search depth in plies")
	fs.Duration(ConfigSearchTime, 0, "time limit per search, 0 for none")
	fs.Uint64(ConfigSearchNodes, 0, "node limit per search, 0 for none")
	fs.Int(ConfigSearchThreads, 1, "threads for root-parallel search")
	fs.Bool(ConfigSearchPruning, true, "use alpha-beta pruning")
	fs.Bool(ConfigSearchTTable, true, "use a transposition table")
	fs.Float64(ConfigTTableFraction, search.DefaultTTableFraction, "fraction of system memory for the transposition table")
	fs.String(ConfigSearchStrategy, search.StrategyIterative.String(), "fixed, iterative or adaptive")
	fs.Int(ConfigAdaptiveMargin, equity.DefaultPieceWeight, "score margin before the adaptive strategy drops a root move")
	fs.String(ConfigEval, equity.MaterialEvaluator, "evaluator: material or kingsafety")
	fs.Int(ConfigPieceWeight, equity.DefaultPieceWeight, "evaluation weight of a piece")
	fs.Int(ConfigSquareWeight, equity.DefaultSquareWeight, "evaluation weight of a controlled cell")
	fs.Int(ConfigKingThreatWeight, 0, "evaluation weight of a threatened king")
	fs.Int(ConfigKingAdvanceWeight, 0, "evaluation weight of a king's advance")
	fs.String(ConfigDeck, "", "five comma-separated cards to deal: red1,red2,blue1,blue2,table")
	fs.String(ConfigHuman, "", "side played by a human: red or blue")
	fs.Int(ConfigMaxPlies, 200, "self-play games longer than this are drawn")
	fs.String(ConfigCPUProfile, "", "write a cpu profile to this file")
	return fs
}

// Load reads flags from args, then the environment, then the config file
// named by --config if any.
func (c *Config) Load(args []string) error {
	c.Viper = *viper.New()
	setDefaults(&c.Viper)

	fs := flagSet()
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	c.SetEnvPrefix(envPrefix)
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	if f := c.GetString(ConfigFile); f != "" {
		c.SetConfigFile(f)
		if err := c.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", f, err)
		}
	}
	return c.Validate()
}

// Validate checks the values that have a fixed vocabulary or range.
func (c *Config) Validate() error {
	if d := c.GetInt(ConfigSearchDepth); d < 1 || d > search.MaxDepth {
		return fmt.Errorf("%w: %s %d not in 1..%d", ErrInvalidConfig, ConfigSearchDepth, d, search.MaxDepth)
	}
	if c.GetInt(ConfigSearchThreads) < 1 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, ConfigSearchThreads)
	}
	if f := c.GetFloat64(ConfigTTableFraction); f <= 0 || f > 0.9 {
		return fmt.Errorf("%w: %s %v", ErrInvalidConfig, ConfigTTableFraction, f)
	}
	if _, err := search.ParseStrategy(c.GetString(ConfigSearchStrategy)); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, ConfigSearchStrategy, err)
	}
	if _, err := c.Evaluator(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, ConfigEval, err)
	}
	if _, _, err := c.Deck(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, ConfigDeck, err)
	}
	if _, _, err := c.Human(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, ConfigHuman, err)
	}
	if c.GetInt(ConfigMaxPlies) < 1 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, ConfigMaxPlies)
	}
	return nil
}

// SearchOptions are the solver options these settings describe.
func (c *Config) SearchOptions() (search.Options, error) {
	strategy, err := search.ParseStrategy(c.GetString(ConfigSearchStrategy))
	if err != nil {
		return search.Options{}, err
	}
	return search.Options{
		Depth:          c.GetInt(ConfigSearchDepth),
		Threads:        c.GetInt(ConfigSearchThreads),
		Nodes:          c.GetUint64(ConfigSearchNodes),
		Pruning:        c.GetBool(ConfigSearchPruning),
		TTable:         c.GetBool(ConfigSearchTTable),
		TTableFraction: c.GetFloat64(ConfigTTableFraction),
		Strategy:       strategy,
		AdaptiveMargin: c.GetInt(ConfigAdaptiveMargin),
	}, nil
}

func (c *Config) Evaluator() (equity.Evaluator, error) {
	return equity.New(c.GetString(ConfigEval), equity.Weights{
		Piece:       c.GetInt(ConfigPieceWeight),
		Square:      c.GetInt(ConfigSquareWeight),
		KingThreat:  c.GetInt(ConfigKingThreatWeight),
		KingAdvance: c.GetInt(ConfigKingAdvanceWeight),
	})
}

// NewSolver builds a solver from the search and evaluation settings.
func (c *Config) NewSolver() (*search.Solver, error) {
	ev, err := c.Evaluator()
	if err != nil {
		return nil, err
	}
	opts, err := c.SearchOptions()
	if err != nil {
		return nil, err
	}
	return search.NewSolver(ev, opts), nil
}

// Deck is the preset deal, or ok false when games should be dealt at
// random.
func (c *Config) Deck() (d cards.Deck, ok bool, err error) {
	s := strings.TrimSpace(c.GetString(ConfigDeck))
	if s == "" {
		return d, false, nil
	}
	d, err = cards.ParseDeck(strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' '
	}))
	if err != nil {
		return d, false, err
	}
	return d, true, nil
}

// Human is the side a person plays, if any.
func (c *Config) Human() (board.Side, bool, error) {
	s := strings.TrimSpace(c.GetString(ConfigHuman))
	if s == "" || s == "none" {
		return board.Red, false, nil
	}
	side, err := board.ParseSide(s)
	if err != nil {
		return board.Red, false, err
	}
	return side, true, nil
}

// Write saves the settings back to the file they were loaded from.
func (c *Config) Write() error {
	if c.ConfigFileUsed() == "" {
		return fmt.Errorf("%w: no config file to write to", ErrInvalidConfig)
	}
	return c.WriteConfig()
}
