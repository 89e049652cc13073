package config

import (
	"fmt"
	"strings"

	internal "github.com/GT-AcerZhang/helix-linear-wheel/tape"

	"github.com/spf13/viper"
)

// Task names recognized by the reader dispatch.
const (
	TaskPretrain          = "pretrain"
	TaskSeqClassification = "seq_classification"
	TaskClassification    = "classification"
	TaskRegression        = "regression"
)

// Config stores all configuration of the data pipeline.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Model  ModelConfig  `mapstructure:"model"`
	Loader LoaderConfig `mapstructure:"loader"`
}

// ModelConfig describes the training task the batches are prepared for.
type ModelConfig struct {
	Task      string `mapstructure:"task"`
	LabelName string `mapstructure:"labelName"`
}

// LoaderConfig stores data loader related configurations.
type LoaderConfig struct {
	DataDir   string `mapstructure:"dataDir"`
	BatchSize int    `mapstructure:"batchSize"`
	Capacity  int    `mapstructure:"capacity"`
}

// Label returns the archive field name holding labels for this task.
func (mc ModelConfig) Label() string {
	if mc.LabelName == "" {
		return internal.DefaultLabelField
	}
	return mc.LabelName
}

// Validate checks that the configured task is one the dispatch understands.
func (mc ModelConfig) Validate() error {
	switch mc.Task {
	case TaskPretrain, TaskSeqClassification, TaskClassification, TaskRegression:
		return nil
	default:
		return fmt.Errorf("task %q is unsupported", mc.Task)
	}
}

var AppConfig Config

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(configPath string) (*Config, error) {
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("..")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Set default values
	viper.SetDefault("model.task", TaskPretrain)
	viper.SetDefault("model.labelName", internal.DefaultLabelField)
	viper.SetDefault("loader.dataDir", ".")
	viper.SetDefault("loader.batchSize", 32)
	viper.SetDefault("loader.capacity", internal.DefaultLoaderCapacity)

	viper.AutomaticEnv()                                   // Read in environment variables that match
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // e.g. model.labelName becomes MODEL_LABELNAME

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found; defaults will be used.
	}

	err := viper.Unmarshal(&AppConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	return &AppConfig, nil
}
