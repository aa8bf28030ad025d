package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Config holds the application configuration.
type Config struct {
	Email struct {
		Server        string   `json:"server"`         // IMAP server address
		Username      string   `json:"username"`       // mailbox user
		Password      string   `json:"password"`       // mailbox password / app token
		TargetSubject string   `json:"target_subject"` // subject keyword of the ops export mail
		CheckInterval Duration `json:"check_interval"` // how often to poll the mailbox
		Enabled       bool     `json:"enabled"`
	} `json:"email"`

	InputFile  string `json:"input_file"` // path of the raw wait-time export
	DataDir    string `json:"data_dir"`   // drop directory for incoming exports
	OutputDir  string `json:"output_dir"` // where the report tables are written
	SheetName  string `json:"sheet_name"` // sheet holding the raw table in xlsx exports
	LogName    string `json:"log_name"`
	LogMaxSize string `json:"log_max_size"`
	Watch      bool   `json:"watch"`    // re-run when a new export lands in DataDir
	Schedule   bool   `json:"schedule"` // re-run on Email.CheckInterval via cron

	SendEmail struct {
		Server   string `json:"server"` // SMTP server address
		Username string `json:"username"`
		Password string `json:"password"`
		To       string `json:"to"`      // report recipient
		Subject  string `json:"subject"` // report mail subject
		Enabled  bool   `json:"enabled"`
	} `json:"send_email"`

	Push struct {
		URL        string `json:"url"` // webhook receiving the run summary
		RetryTimes int    `json:"retry_times"`
		Enabled    bool   `json:"enabled"`
	} `json:"push"`
}

// DataConfig describes the raw export layout.
type DataConfig struct {
	ColumnMap map[string]string `json:"columnMap"` // canonical field -> export header
	Charset   string            `json:"charset"`   // "gbk" for legacy exports, empty for utf-8
	DateFmts  []string          `json:"dateFormats"`
}

var (
	once               sync.Once
	instance           *Config
	dataConfigInstance *DataConfig
	mu                 sync.RWMutex
)

func LoadConfig(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	var err error
	once.Do(func() {
		instance, dataConfigInstance, err = loadConfigs(jsonFolder, jsonFile, dataJsonFile)
	})
	return instance, dataConfigInstance, err
}

func loadConfigs(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	configFile := filepath.Join(jsonFolder, jsonFile)
	dataConfigFile := filepath.Join(jsonFolder, dataJsonFile)

	configData, err := readFile(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("read config file: %w", err)
	}

	dataConfigData, err := readFile(dataConfigFile)
	if err != nil {
		return nil, nil, fmt.Errorf("read data config file: %w", err)
	}

	cfgChan := make(chan *Config, 1)
	dcfgChan := make(chan *DataConfig, 1)
	errChan := make(chan error, 2)

	go parseConfig(configData, cfgChan, errChan)
	go parseDataConfig(dataConfigData, dcfgChan, errChan)

	cfg, dcfg, err := waitForResults(cfgChan, dcfgChan, errChan)
	if err != nil {
		return nil, nil, err
	}

	return cfg, dcfg, nil
}

func readFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", filePath, err)
	}
	return data, nil
}

func parseConfig(data []byte, resultChan chan<- *Config, errChan chan<- error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		errChan <- fmt.Errorf("parse Config: %w", err)
		return
	}
	resultChan <- &cfg
}

func parseDataConfig(data []byte, resultChan chan<- *DataConfig, errChan chan<- error) {
	var dcfg DataConfig
	if err := json.Unmarshal(data, &dcfg); err != nil {
		errChan <- fmt.Errorf("parse DataConfig: %w", err)
		return
	}
	resultChan <- &dcfg
}

func waitForResults(
	cfgChan <-chan *Config,
	dcfgChan <-chan *DataConfig,
	errChan <-chan error,
) (*Config, *DataConfig, error) {
	var (
		cfg    *Config
		dcfg   *DataConfig
		errors []error
	)

	for i := 0; i < 2; i++ {
		select {
		case c := <-cfgChan:
			cfg = c
		case d := <-dcfgChan:
			dcfg = d
		case err := <-errChan:
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return nil, nil, combineErrors(errors)
	}

	if cfg == nil || dcfg == nil {
		return nil, nil, fmt.Errorf("some configuration did not load")
	}

	return cfg, dcfg, nil
}

func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	msg := "configuration loading hit several errors:"
	for _, err := range errs {
		msg = fmt.Sprintf("%s\n- %v", msg, err)
	}
	return fmt.Errorf("%s", msg)
}

// Duration is a wrapper around time.Duration supporting JSON
// serialization as a string ("5m", "1h30m").
type Duration time.Duration

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// GetColumn returns the export header mapped to a canonical field.
// Unmapped fields fall back to the field name itself.
func (dc *DataConfig) GetColumn(field string) string {
	mu.RLock()
	defer mu.RUnlock()
	if dc.ColumnMap == nil {
		return field
	}
	if v, ok := dc.ColumnMap[field]; ok {
		return v
	}
	return field
}

func (dc *DataConfig) SetColumn(field, header string) {
	mu.Lock()
	defer mu.Unlock()
	if dc.ColumnMap == nil {
		dc.ColumnMap = make(map[string]string)
	}
	dc.ColumnMap[field] = header
}
