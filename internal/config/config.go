package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/text/language"

	"ytdub/internal/translator"
	"ytdub/internal/tts"
)

// Engine selects the translation endpoint family.
type Engine string

const (
	// EngineLocal is a locally-hosted inference server (Ollama). No
	// credential required.
	EngineLocal Engine = "local"
	// EngineRemote is a hosted chat-completion API. Credential required.
	EngineRemote Engine = "remote"
)

// Config holds all application configuration, threaded explicitly into each
// component.
//
// Environment Variables:
//
// Engine / LLM:
//   - ENGINE: "local" (Ollama) or "remote" (default: local)
//   - LLM_API_KEY: API key, required for remote engines
//   - LLM_API_URL: endpoint URL (defaults per engine)
//   - LLM_MODEL: model name (defaults per engine)
//   - LLM_TIMEOUT: per-call timeout in seconds (default: 180)
//   - LLM_MAX_RETRIES: extra attempts on connectivity errors (default: 2)
//
// Translation:
//   - TRANSLATION_STYLE: "faithful" | "natural" (default: natural)
//   - TRANSLATION_TONE: "lecture" | "casual" | "formal" (default: lecture)
//   - SOURCE_LANG: preferred caption language (default: en)
//   - MAX_PARALLEL: concurrent chunk translations (default: 3)
//   - CHUNK_DURATION: chunk length in seconds (default: 60)
//   - SOFT_CHAR_LIMIT / HARD_CHAR_LIMIT: chunk size bounds (1500 / 2000)
//
// Output / TTS:
//   - OUTPUT_DIR: dubbing output root (default: ~/Dubbing)
//   - TTS_VOICE: synthesis voice id (default: ko-KR-SunHiNeural)
//   - TTS_RATE: speed adjustment (default: +0%)
//
// Serve mode:
//   - HTTP_ADDR: API listen address (default: :8686)
//   - DB_PATH: sqlite job store path (default: <OUTPUT_DIR>/ytdub.db)
//   - WORKER_COUNT: queue workers (default: 1)
//   - SWEEP_CRON: unfinished-job sweep schedule (default: every 30 min)
type Config struct {
	Engine    Engine          `json:"engine"`
	LLM       LLMConfig       `json:"llm"`
	Translate TranslateConfig `json:"translate"`
	TTS       TTSConfig       `json:"tts"`
	Output    OutputConfig    `json:"output"`
	Serve     ServeConfig     `json:"serve"`
}

type LLMConfig struct {
	APIKey     string `json:"api_key"`
	APIURL     string `json:"api_url"`
	Model      string `json:"model"`
	Timeout    int    `json:"timeout"`
	MaxRetries int    `json:"max_retries"`
}

type TranslateConfig struct {
	Style          translator.Style `json:"style"`
	Tone           translator.Tone  `json:"tone"`
	SourceLanguage language.Tag     `json:"source_language"`
	MaxParallel    int              `json:"max_parallel"`
	ChunkDuration  int              `json:"chunk_duration"`
	SoftCharLimit  int              `json:"soft_char_limit"`
	HardCharLimit  int              `json:"hard_char_limit"`
}

type TTSConfig struct {
	Voice string `json:"voice"`
	Rate  string `json:"rate"`
}

type OutputConfig struct {
	Dir string `json:"dir"`
}

type ServeConfig struct {
	Addr        string `json:"addr"`
	DBPath      string `json:"db_path"`
	WorkerCount int    `json:"worker_count"`
	SweepCron   string `json:"sweep_cron"`
}

// Option is a function type for configuring Config.
type Option func(*Config)

// WithEngine overrides the engine choice. URL and model defaults follow the
// engine unless the environment pinned them explicitly.
func WithEngine(engine Engine) Option {
	return func(c *Config) {
		c.Engine = engine
		if os.Getenv("LLM_API_URL") == "" {
			if engine == EngineRemote {
				c.LLM.APIURL = "https://api.z.ai/api/coding/paas/v4"
			} else {
				c.LLM.APIURL = "http://localhost:11434/v1"
			}
		}
		if os.Getenv("LLM_MODEL") == "" {
			if engine == EngineRemote {
				c.LLM.Model = "GLM-4.6"
			} else {
				c.LLM.Model = "gemma3:latest"
			}
		}
	}
}

// WithVoice overrides the TTS voice.
func WithVoice(voice string) Option {
	return func(c *Config) {
		c.TTS.Voice = voice
	}
}

// NewFromEnv creates a Config from environment variables and options.
func NewFromEnv(opts ...Option) (*Config, error) {
	engine := Engine(getEnvString("ENGINE", string(EngineLocal)))

	defaultURL := "http://localhost:11434/v1"
	defaultModel := "gemma3:latest"
	if engine == EngineRemote {
		defaultURL = "https://api.z.ai/api/coding/paas/v4"
		defaultModel = "GLM-4.6"
	}

	home, _ := os.UserHomeDir()
	outputDir := getEnvString("OUTPUT_DIR", filepath.Join(home, "Dubbing"))

	config := &Config{
		Engine: engine,
		LLM: LLMConfig{
			APIKey:     getEnvString("LLM_API_KEY", ""),
			APIURL:     getEnvString("LLM_API_URL", defaultURL),
			Model:      getEnvString("LLM_MODEL", defaultModel),
			Timeout:    getEnvInt("LLM_TIMEOUT", 180),
			MaxRetries: getEnvInt("LLM_MAX_RETRIES", 2),
		},
		Translate: TranslateConfig{
			Style:          translator.Style(getEnvString("TRANSLATION_STYLE", string(translator.StyleNatural))),
			Tone:           translator.Tone(getEnvString("TRANSLATION_TONE", string(translator.ToneLecture))),
			SourceLanguage: language.Make(getEnvString("SOURCE_LANG", "en")),
			MaxParallel:    getEnvInt("MAX_PARALLEL", 3),
			ChunkDuration:  getEnvInt("CHUNK_DURATION", 60),
			SoftCharLimit:  getEnvInt("SOFT_CHAR_LIMIT", 1500),
			HardCharLimit:  getEnvInt("HARD_CHAR_LIMIT", 2000),
		},
		TTS: TTSConfig{
			Voice: getEnvString("TTS_VOICE", "ko-KR-SunHiNeural"),
			Rate:  getEnvString("TTS_RATE", "+0%"),
		},
		Output: OutputConfig{
			Dir: outputDir,
		},
		Serve: ServeConfig{
			Addr:        getEnvString("HTTP_ADDR", ":8686"),
			DBPath:      getEnvString("DB_PATH", filepath.Join(outputDir, "ytdub.db")),
			WorkerCount: getEnvInt("WORKER_COUNT", 1),
			SweepCron:   getEnvString("SWEEP_CRON", "0 */30 * * * *"),
		},
	}

	for _, opt := range opts {
		opt(config)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the precondition each engine family needs, naming the
// missing one.
func (c *Config) Validate() error {
	switch c.Engine {
	case EngineLocal:
	case EngineRemote:
		if c.LLM.APIKey == "" {
			return fmt.Errorf("LLM_API_KEY is required for the remote engine")
		}
	default:
		return fmt.Errorf("unknown engine %q (want local or remote)", c.Engine)
	}

	if c.LLM.Model == "" {
		return fmt.Errorf("LLM_MODEL is not set")
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("OUTPUT_DIR is not set")
	}
	if !tts.IsKnownVoice(c.TTS.Voice) {
		return fmt.Errorf("unknown TTS voice %q (see the voices command for the catalog)", c.TTS.Voice)
	}
	return nil
}

// getEnvString gets a string value from environment variables with default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment variables with default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
