package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	Profile struct {
		UserName string `json:"user_name"`
		PCName   string `json:"pc_name"`
	} `json:"profile,omitempty"`

	Storage struct {
		StateDir string `json:"state_dir"`
		Backend  struct {
			Kind    string `json:"kind"`
			DSN     string `json:"dsn"`
			DataDir string `json:"data_dir"`
		} `json:"backend,omitempty"`
	} `json:"storage,omitempty"`

	Device struct {
		ImagePath         string   `json:"image_path"`
		BridgeAddress     string   `json:"bridge_address"`
		RequestTimeout    Duration `json:"request_timeout"`
		KeepAliveInterval Duration `json:"keep_alive_interval"`
	} `json:"device,omitempty"`

	Sync struct {
		Mode            string   `json:"mode"`
		ConflictPolicy  string   `json:"conflict_policy"`
		Conduits        []string `json:"conduits"`
		DetectPCChanges bool     `json:"detect_pc_changes"`
	} `json:"sync,omitempty"`

	Workers struct {
		SyncInterval  Duration `json:"sync_interval"`
		WatchDebounce Duration `json:"watch_debounce"`
	} `json:"workers,omitempty"`

	Server struct {
		HTTPAddress string `json:"http_address"`
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
		Profile: Profile{
			UserName: jsonCfg.Profile.UserName,
			PCName:   jsonCfg.Profile.PCName,
		},
		Storage: Storage{
			StateDir: jsonCfg.Storage.StateDir,
			Backend: Backend{
				Kind:    jsonCfg.Storage.Backend.Kind,
				DSN:     jsonCfg.Storage.Backend.DSN,
				DataDir: jsonCfg.Storage.Backend.DataDir,
			},
		},
		Device: Device{
			ImagePath:         jsonCfg.Device.ImagePath,
			BridgeAddress:     jsonCfg.Device.BridgeAddress,
			RequestTimeout:    time.Duration(jsonCfg.Device.RequestTimeout),
			KeepAliveInterval: time.Duration(jsonCfg.Device.KeepAliveInterval),
		},
		Sync: Sync{
			Mode:            jsonCfg.Sync.Mode,
			ConflictPolicy:  jsonCfg.Sync.ConflictPolicy,
			Conduits:        jsonCfg.Sync.Conduits,
			DetectPCChanges: jsonCfg.Sync.DetectPCChanges,
		},
		Workers: Workers{
			SyncInterval:  time.Duration(jsonCfg.Workers.SyncInterval),
			WatchDebounce: time.Duration(jsonCfg.Workers.WatchDebounce),
		},
		Server: Server{
			HTTPAddress: jsonCfg.Server.HTTPAddress,
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
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
