/*
 * Copyright 2022 Medicines Discovery Catapult
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *     http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package lib

import (
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFlag = "config"

type BaseConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

/**
	InitializeConfig standardises config initialization across the lookup CLI and the analysis server.

	Usage:

	Config is read from a yml file. By default this is located at defaultPath, but it can be overridden
	with the --config flag. Any app-specific flags must be registered on pflag.CommandLine before calling
	this function, because it parses the command line unless the caller already has.

	Keys which exist on defaultConfig but NOT in the config yaml keep their default value.

	Env vars override config keys which viper knows about (i.e. keys present in defaultConfig or the
	yaml file). Nested keys are joined with "_" and uppercased, so lookup.timeout is read from LOOKUP_TIMEOUT.

	Durations may be written as strings ("5s", "1500ms") and are decoded into time.Duration fields.

	targetStruct should be a pointer to a struct which the config can be unmarshalled to. Its
	log_level key sets the global zerolog level.
**/
func InitializeConfig(defaultPath string, defaultConfig map[string]interface{}, targetStruct interface{}) error {
	if pflag.CommandLine.Lookup(configFlag) == nil {
		pflag.String(configFlag, defaultPath, "The config file path.")
	}
	if !pflag.Parsed() {
		pflag.Parse()
	}

	if err := viper.BindPFlag(configFlag, pflag.CommandLine.Lookup(configFlag)); err != nil {
		return err
	}

	for k, v := range defaultConfig {
		viper.SetDefault(k, v)
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	configFile := viper.GetString(configFlag)
	if configFile != "" {
		absPath, err := filepath.Abs(configFile)
		if err != nil {
			return err
		}
		viper.SetConfigName(strings.TrimSuffix(filepath.Base(absPath), filepath.Ext(absPath)))
		viper.AddConfigPath(filepath.Dir(absPath))

		err = viper.ReadInConfig()
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Warn().Str("path", absPath).Msg("config file not found, default settings applied")
		} else if err != nil {
			return err
		}
	}

	var bc BaseConfig
	if err := viper.Unmarshal(&bc); err != nil {
		return err
	}
	if bc.LogLevel != "" {
		lvl, err := zerolog.ParseLevel(bc.LogLevel)
		if err != nil {
			return err
		}
		zerolog.SetGlobalLevel(lvl)
	}

	return viper.Unmarshal(targetStruct)
}
