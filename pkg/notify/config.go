package notify

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// Supported sink types.
	TypeHTTP  = "http"
	TypeQueue = "queue"

	// Supported queue providers.
	QueueProviderAWSSNS = "aws-sns"
	QueueProviderAWSSQS = "aws-sqs"
	QueueProviderGCP    = "gcp"

	httpDefaultMethod         = "POST"
	httpDefaultTimeoutSeconds = 5
)

type configFile struct {
	Sinks []SinkConfig `json:"sinks" yaml:"sinks"`
}

// SinkConfig is a single sink entry declared in the notifiers file.
type SinkConfig struct {
	ID      string           `json:"id" yaml:"id"`
	Type    string           `json:"type" yaml:"type"`
	Enabled *bool            `json:"enabled" yaml:"enabled"`
	Queue   *QueueSinkConfig `json:"queue" yaml:"queue"`
	HTTP    *HTTPSinkConfig  `json:"http" yaml:"http"`
}

// EnabledValue returns the enabled flag defaulting to true.
func (cfg SinkConfig) EnabledValue() bool {
	return cfg.Enabled == nil || *cfg.Enabled
}

// QueueSinkConfig selects a cloud queue provider.
type QueueSinkConfig struct {
	Provider string         `json:"provider" yaml:"provider"`
	SNS      *AWSSNSConfig  `json:"sns" yaml:"sns"`
	SQS      *AWSSQSConfig  `json:"sqs" yaml:"sqs"`
	GCP      *GCPTopicConfig `json:"gcp" yaml:"gcp"`
}

// AWSSNSConfig holds AWS SNS topic settings.
type AWSSNSConfig struct {
	TopicARN        string `json:"topic_arn" yaml:"topic_arn"`
	Region          string `json:"region" yaml:"region"`
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
}

// AWSSQSConfig holds AWS SQS queue settings.
type AWSSQSConfig struct {
	QueueURL        string `json:"uri" yaml:"uri"`
	Region          string `json:"region" yaml:"region"`
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
}

// GCPTopicConfig holds Pub/Sub topic settings.
type GCPTopicConfig struct {
	ProjectID       string `json:"project_id" yaml:"project_id"`
	Topic           string `json:"topic" yaml:"topic"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`
}

// HTTPSinkConfig holds webhook settings.
type HTTPSinkConfig struct {
	URL            string            `json:"url" yaml:"url"`
	Method         string            `json:"method" yaml:"method"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// LoadConfig reads the notifiers file, expanding ${ENV} references before
// decoding. YAML and JSON are both accepted.
func LoadConfig(path string) ([]SinkConfig, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("notifiers file path is empty")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read notifiers file: %w", err)
	}
	expanded := []byte(os.ExpandEnv(string(raw)))

	file, err := decodeConfig(expanded, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(file.Sinks) == 0 {
		return nil, errors.New("notifiers file contains no sinks")
	}

	seen := make(map[string]struct{}, len(file.Sinks))
	out := make([]SinkConfig, 0, len(file.Sinks))
	for i, cfg := range file.Sinks {
		cfg = sanitizeSinkConfig(cfg)
		if err := validateSinkConfig(cfg); err != nil {
			return nil, fmt.Errorf("sinks[%d]: %w", i, err)
		}
		if _, dup := seen[cfg.ID]; dup {
			return nil, fmt.Errorf("duplicate sink id %q", cfg.ID)
		}
		seen[cfg.ID] = struct{}{}
		out = append(out, cfg)
	}
	return out, nil
}

func decodeConfig(data []byte, ext string) (configFile, error) {
	var file configFile
	switch strings.ToLower(strings.TrimSpace(ext)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return configFile{}, fmt.Errorf("decode yaml notifiers: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &file); err != nil {
			return configFile{}, fmt.Errorf("decode json notifiers: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &file); err != nil {
			return configFile{}, errors.New("notifiers file format not recognized (expected YAML or JSON)")
		}
	}
	return file, nil
}

func sanitizeSinkConfig(cfg SinkConfig) SinkConfig {
	cfg.ID = strings.TrimSpace(cfg.ID)
	cfg.Type = strings.ToLower(strings.TrimSpace(cfg.Type))

	if cfg.Queue != nil {
		qc := *cfg.Queue
		qc.Provider = strings.ToLower(strings.TrimSpace(qc.Provider))
		cfg.Queue = &qc
	}
	if cfg.HTTP != nil {
		hc := *cfg.HTTP
		hc.URL = strings.TrimSpace(hc.URL)
		hc.Method = strings.ToUpper(strings.TrimSpace(hc.Method))
		if hc.Method == "" {
			hc.Method = httpDefaultMethod
		}
		if hc.TimeoutSeconds <= 0 {
			hc.TimeoutSeconds = httpDefaultTimeoutSeconds
		}
		cfg.HTTP = &hc
	}
	return cfg
}

func validateSinkConfig(cfg SinkConfig) error {
	if cfg.ID == "" {
		return errors.New("id is required")
	}
	switch cfg.Type {
	case TypeHTTP:
		if cfg.HTTP == nil || cfg.HTTP.URL == "" {
			return fmt.Errorf("http.url is required for sink %q", cfg.ID)
		}
	case TypeQueue:
		if cfg.Queue == nil {
			return fmt.Errorf("queue config required for sink %q", cfg.ID)
		}
		switch cfg.Queue.Provider {
		case QueueProviderAWSSNS:
			if cfg.Queue.SNS == nil || cfg.Queue.SNS.TopicARN == "" || cfg.Queue.SNS.Region == "" {
				return fmt.Errorf("sns.topic_arn and sns.region are required for sink %q", cfg.ID)
			}
		case QueueProviderAWSSQS:
			if cfg.Queue.SQS == nil || cfg.Queue.SQS.QueueURL == "" || cfg.Queue.SQS.Region == "" {
				return fmt.Errorf("sqs.uri and sqs.region are required for sink %q", cfg.ID)
			}
		case QueueProviderGCP:
			if cfg.Queue.GCP == nil || cfg.Queue.GCP.ProjectID == "" || cfg.Queue.GCP.Topic == "" {
				return fmt.Errorf("gcp.project_id and gcp.topic are required for sink %q", cfg.ID)
			}
		default:
			return fmt.Errorf("queue provider %q not supported for sink %q", cfg.Queue.Provider, cfg.ID)
		}
	case "":
		return fmt.Errorf("type is required for sink %q", cfg.ID)
	default:
		return fmt.Errorf("type %q not supported for sink %q", cfg.Type, cfg.ID)
	}
	return nil
}
