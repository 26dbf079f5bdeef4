// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitmark-inc/logger"
	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// basic defaults (directories and files are relative to the
// "data_directory" from the configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file
	defaultPidFile       = "registryd.pid"

	defaultDatabaseDirectory = "data"
	defaultDatabaseName      = "registry"

	defaultListen = "127.0.0.1:8130"

	defaultLogDirectory = "log"
	defaultLogFile      = "registryd.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size
)

// LoglevelMap - to hold log levels
type LoglevelMap map[string]string

var defaultLogLevels = LoglevelMap{
	"main":            "info",
	"config":          "info",
	logger.DefaultTag: "critical",
}

// DatabaseType - the account database location
type DatabaseType struct {
	Directory string `gluamapper:"directory"`
	Name      string `gluamapper:"name"`
}

// HTTPType - the client API endpoint
type HTTPType struct {
	Listen string `gluamapper:"listen"`
}

// GenesisAccount - one account funded when the database is created
type GenesisAccount struct {
	Key      string `gluamapper:"key"`
	Lamports uint64 `gluamapper:"lamports"`
}

// LoggerType - rotating log file settings
type LoggerType struct {
	Directory string            `gluamapper:"directory"`
	File      string            `gluamapper:"file"`
	Size      int               `gluamapper:"size"`
	Count     int               `gluamapper:"count"`
	Levels    map[string]string `gluamapper:"levels"`
}

// Configuration - the registryd settings
type Configuration struct {
	DataDirectory string           `gluamapper:"data_directory"`
	PidFile       string           `gluamapper:"pidfile"`
	Database      DatabaseType     `gluamapper:"database"`
	HTTP          HTTPType         `gluamapper:"http"`
	Genesis       []GenesisAccount `gluamapper:"genesis"`
	Logging       LoggerType       `gluamapper:"logging"`
}

// GetConfiguration - read, decode and verify the configuration
func GetConfiguration(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{

		DataDirectory: defaultDataDirectory,
		PidFile:       defaultPidFile,

		Database: DatabaseType{
			Directory: defaultDatabaseDirectory,
			Name:      defaultDatabaseName,
		},

		HTTP: HTTPType{
			Listen: defaultListen,
		},

		Logging: LoggerType{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := ParseConfigurationFile(configurationFileName, options); nil != err {
		return nil, err
	}

	// every genesis key must be a valid base58 32 byte value
	for _, account := range options.Genesis {
		if _, err := decodeAccountKey(account.Key); nil != err {
			return nil, err
		}
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("path: %q is not a directory", options.DataDirectory)
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	mustBeAbsolute := []*string{
		&options.PidFile,
		&options.Database.Directory,
		&options.Logging.Directory,
	}
	for _, f := range mustBeAbsolute {
		*f = ensureAbsolute(options.DataDirectory, *f)
	}

	// fail if the database name is not a simple file name, then place it
	// inside the database directory
	switch filepath.Dir(options.Database.Name) {
	case "", ".":
		options.Database.Name = ensureAbsolute(options.Database.Directory, options.Database.Name)
	default:
		return nil, fmt.Errorf("files: %q is not plain name", options.Database.Name)
	}

	// make absolute and create directories if they do not already exist
	for _, d := range []*string{&options.Database.Directory, &options.Logging.Directory} {
		*d = ensureAbsolute(options.DataDirectory, *d)
		if err := os.MkdirAll(*d, 0o700); nil != err {
			return nil, err
		}
	}

	// done
	return options, nil
}

// GenesisAccounts - the decoded genesis allocation
func (options *Configuration) GenesisAccounts() (map[solana.PublicKey]uint64, error) {
	accounts := make(map[solana.PublicKey]uint64, len(options.Genesis))
	for _, account := range options.Genesis {
		key, err := decodeAccountKey(account.Key)
		if nil != err {
			return nil, err
		}
		accounts[key] = account.Lamports
	}
	return accounts, nil
}

func decodeAccountKey(text string) (solana.PublicKey, error) {
	raw, err := base58.Decode(text)
	if nil != err {
		return solana.PublicKey{}, fmt.Errorf("key: %q is not base58: %s", text, err)
	}
	if solana.PublicKeyLength != len(raw) {
		return solana.PublicKey{}, fmt.Errorf("key: %q decodes to %d bytes, expected %d", text, len(raw), solana.PublicKeyLength)
	}
	return solana.PublicKeyFromBytes(raw), nil
}

// ensure the path is absolute
func ensureAbsolute(directory string, filePath string) string {
	if !filepath.IsAbs(filePath) {
		filePath = filepath.Join(directory, filePath)
	}
	return filepath.Clean(filePath)
}
