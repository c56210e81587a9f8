// this code is from https://github.com/pzhzqt/goostub
// there is license and copyright notice in licenses/goostub dir

package common

import (
	"strings"

	"github.com/pingcap/errors"
	"github.com/spf13/viper"
)

const EnableDebug bool = false //true

// use on memory virtual storage for sorted runs or not
var EnableOnMemStorage = true

const (
	// size of a data page in byte
	PageSize = 4096
	// number of pages an operator may hold concurrently (buffer budget B)
	DefaultBufferNum = 50
	// number of buckets of a hash index
	BucketSizeOfHashIndex = 1024
	// fixed width of a Varchar attribute in a tuple
	DefaultVarcharSize = 32
	// end temperature of simulated annealing
	SAEndTemperature = 1.0
	// temperature decay ratio of simulated annealing
	SAAlpha    = 0.8
	SAAlphaMax = 0.85
	// bit flags of ShPrintf which are printed
	ActiveLogKindSetting = INFO | WARN | ERROR //| OPTIMIZER_TRACE | EXECUTOR_TRACE | DEBUG_INFO
)

type OptimizerKind string

const (
	OPTIMIZER_II OptimizerKind = "ii"
	OPTIMIZER_SA OptimizerKind = "sa"
)

// Config holds runtime settings of one query processor instance.
type Config struct {
	PageSize     uint32        `mapstructure:"page_size"`
	NumBuffers   uint32        `mapstructure:"num_buffers"`
	Optimizer    OptimizerKind `mapstructure:"optimizer"`
	Seed         int64         `mapstructure:"seed"`
	SAAlpha      float64       `mapstructure:"sa_alpha"`
	RunDir       string        `mapstructure:"run_dir"`
	OnMemStorage bool          `mapstructure:"on_mem_storage"`
}

func NewDefaultConfig() *Config {
	return &Config{
		PageSize:     PageSize,
		NumBuffers:   DefaultBufferNum,
		Optimizer:    OPTIMIZER_II,
		Seed:         1,
		SAAlpha:      SAAlpha,
		RunDir:       "",
		OnMemStorage: EnableOnMemStorage,
	}
}

// LoadConfig reads settings from configPath (any format viper supports)
// and from SAMEHADAQP_* environment variables. Missing keys keep defaults.
// An empty configPath reads the environment only.
func LoadConfig(configPath string) (*Config, error) {
	def := NewDefaultConfig()
	v := viper.New()
	v.SetDefault("page_size", def.PageSize)
	v.SetDefault("num_buffers", def.NumBuffers)
	v.SetDefault("optimizer", string(def.Optimizer))
	v.SetDefault("seed", def.Seed)
	v.SetDefault("sa_alpha", def.SAAlpha)
	v.SetDefault("run_dir", def.RunDir)
	v.SetDefault("on_mem_storage", def.OnMemStorage)
	v.SetEnvPrefix("SAMEHADAQP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Annotatef(ErrConfiguration, "can't read config file %s: %v", configPath, err)
		}
	}

	ret := new(Config)
	if err := v.Unmarshal(ret); err != nil {
		return nil, errors.Annotatef(ErrConfiguration, "can't decode config: %v", err)
	}
	if err := ret.Validate(); err != nil {
		return nil, err
	}
	return ret, nil
}

func (c *Config) Validate() error {
	if c.PageSize == 0 {
		return errors.Annotate(ErrConfiguration, "page_size must be positive")
	}
	if c.NumBuffers < 2 {
		return errors.Annotatef(ErrResource, "num_buffers must be at least 2 but %d", c.NumBuffers)
	}
	if c.Optimizer != OPTIMIZER_II && c.Optimizer != OPTIMIZER_SA {
		return errors.Annotatef(ErrConfiguration, "unknown optimizer %q", c.Optimizer)
	}
	if c.SAAlpha < SAAlpha || c.SAAlpha > SAAlphaMax {
		return errors.Annotatef(ErrConfiguration, "sa_alpha must be in [%v, %v] but %v", SAAlpha, SAAlphaMax, c.SAAlpha)
	}
	return nil
}
