package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	App struct {
		Version string `json:"version"`
		LogPath string `json:"log_path"`
	} `json:"app,omitempty"`

	Sync struct {
		EndpointURL      string   `json:"endpoint_url"`
		RequestTimeout   Duration `json:"request_timeout"`
		SchemaPreference string   `json:"schema_preference"`
		AllAccounts      bool     `json:"all_accounts"`
	} `json:"sync,omitempty"`

	Storage struct {
		DataDir      string `json:"data_dir"`
		DocumentPath string `json:"document_path"`
		BackupDir    string `json:"backup_dir"`
		StatePath    string `json:"state_path"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			Version: jsonCfg.App.Version,
			LogPath: jsonCfg.App.LogPath,
		},
		Sync: Sync{
			EndpointURL:      jsonCfg.Sync.EndpointURL,
			RequestTimeout:   time.Duration(jsonCfg.Sync.RequestTimeout),
			SchemaPreference: jsonCfg.Sync.SchemaPreference,
			AllAccounts:      jsonCfg.Sync.AllAccounts,
		},
		Storage: Storage{
			DataDir:      jsonCfg.Storage.DataDir,
			DocumentPath: jsonCfg.Storage.DocumentPath,
			BackupDir:    jsonCfg.Storage.BackupDir,
			StatePath:    jsonCfg.Storage.StatePath,
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
