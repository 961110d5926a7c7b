package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"

	"github.com/frontend-future/clip-jolt/pkg/errs"
)

type Config struct {
	LogLevel string

	RabbitMqHost     string
	RabbitMqPort     string
	RabbitMqUser     string
	RabbitMqPassword string
	ListenQueue      string
	WriteQueue       string
	ReelWorkers      int

	RendiAPIKey      string
	RendiBaseURL     string
	RendiVCPUCount   int
	RendiMaxRunSecs  int
	PollIntervalSecs int
	PollMaxAttempts  int

	StorageType     string
	R2AccountId     string
	R2AccessKey     string
	R2SecretKey     string
	R2Bucket        string
	R2PublicDomain  string
	UploadKeyPrefix string

	OpenAIAPIKey   string
	OpenAIBaseURL  string
	TextModel      string
	FallbackModel  string
	TextGenRetries int

	BRollPath     string
	AudioFolder   string
	FontPath      string
	OutputDir     string
	RenderCommand string

	VideoDuration   int
	LevelAppearTime float64

	FFmpeg   string
	FFprobe  string
	UseCloud bool

	Stages struct {
		Generate string
		Process  string
		Deliver  string
	}
	Status struct {
		Pending string
		Success string
		Fail    string
	}
}

func Load() Config {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("Could not load the .env file")
	}

	c := Config{}
	c.LogLevel = cast.ToString(getOrReturnDefault("LOG_LEVEL", "debug"))

	c.RabbitMqHost = cast.ToString(getOrReturnDefault("RABBITMQ_HOST", "localhost"))
	c.RabbitMqPort = cast.ToString(getOrReturnDefault("RABBITMQ_PORT", "5672"))
	c.RabbitMqUser = cast.ToString(getOrReturnDefault("RABBITMQ_USER", "user"))
	c.RabbitMqPassword = cast.ToString(getOrReturnDefault("RABBITMQ_PASSWORD", "secret"))
	c.ListenQueue = cast.ToString(getOrReturnDefault("LISTEN_QUEUE", "reel_jobs"))
	c.WriteQueue = cast.ToString(getOrReturnDefault("WRITE_QUEUE", "reel_status"))
	c.ReelWorkers = cast.ToInt(getOrReturnDefault("REEL_WORKERS", 1))

	c.RendiAPIKey = cast.ToString(getOrReturnDefault("RENDI_API_KEY", ""))
	c.RendiBaseURL = cast.ToString(getOrReturnDefault("RENDI_BASE_URL", "https://api.rendi.dev"))
	c.RendiVCPUCount = cast.ToInt(getOrReturnDefault("RENDI_VCPU_COUNT", 4))
	c.RendiMaxRunSecs = cast.ToInt(getOrReturnDefault("RENDI_MAX_RUN_SECONDS", 300))
	c.PollIntervalSecs = cast.ToInt(getOrReturnDefault("POLL_INTERVAL_SECONDS", 5))
	c.PollMaxAttempts = cast.ToInt(getOrReturnDefault("POLL_MAX_ATTEMPTS", 120))

	c.StorageType = cast.ToString(getOrReturnDefault("STORAGE_TYPE", "s3"))
	c.R2AccountId = cast.ToString(getOrReturnDefault("R2_ACCOUNT_ID", ""))
	c.R2AccessKey = cast.ToString(getOrReturnDefault("R2_ACCESS_KEY_ID", ""))
	c.R2SecretKey = cast.ToString(getOrReturnDefault("R2_SECRET_ACCESS_KEY", ""))
	c.R2Bucket = cast.ToString(getOrReturnDefault("R2_BUCKET_NAME", ""))
	c.R2PublicDomain = cast.ToString(getOrReturnDefault("R2_PUBLIC_DOMAIN", ""))
	c.UploadKeyPrefix = cast.ToString(getOrReturnDefault("UPLOAD_KEY_PREFIX", "reel-temp"))

	c.OpenAIAPIKey = cast.ToString(getOrReturnDefault("OPENAI_API_KEY", ""))
	c.OpenAIBaseURL = cast.ToString(getOrReturnDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"))
	c.TextModel = cast.ToString(getOrReturnDefault("TEXT_MODEL", "gpt-4o"))
	c.FallbackModel = cast.ToString(getOrReturnDefault("TEXT_FALLBACK_MODEL", "gpt-4o-mini"))
	c.TextGenRetries = cast.ToInt(getOrReturnDefault("TEXT_GEN_RETRIES", 2))

	c.BRollPath = cast.ToString(getOrReturnDefault("BROLL_PATH", "assets/video/bRoll.MOV"))
	c.AudioFolder = cast.ToString(getOrReturnDefault("AUDIO_FOLDER", "assets/audio"))
	c.FontPath = cast.ToString(getOrReturnDefault("FONT_PATH", "assets/fonts/Inter.ttf"))
	c.OutputDir = cast.ToString(getOrReturnDefault("OUTPUT_DIR", "generated"))
	c.RenderCommand = cast.ToString(getOrReturnDefault("RENDER_COMMAND", "snippet-render"))

	c.VideoDuration = cast.ToInt(getOrReturnDefault("VIDEO_DURATION", 7))
	c.LevelAppearTime = cast.ToFloat64(getOrReturnDefault("LEVEL_APPEAR_TIME", 2))

	c.FFmpeg = cast.ToString(getOrReturnDefault("FFMPEG", "ffmpeg"))
	c.FFprobe = cast.ToString(getOrReturnDefault("FFPROBE", "ffprobe"))
	c.UseCloud = cast.ToBool(getOrReturnDefault("USE_CLOUD", true))

	c.Stages = struct {
		Generate string
		Process  string
		Deliver  string
	}{
		Generate: "generate",
		Process:  "process",
		Deliver:  "deliver",
	}

	c.Status = struct {
		Pending string
		Success string
		Fail    string
	}{
		Pending: "pending",
		Success: "success",
		Fail:    "fail",
	}

	return c
}

// Validate - checks that every credential the cloud pipeline needs is
// present. Runs before any remote call so a misconfigured process fails
// immediately, naming the variable.
func (c *Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"RENDI_API_KEY", c.RendiAPIKey},
		{"R2_ACCOUNT_ID", c.R2AccountId},
		{"R2_ACCESS_KEY_ID", c.R2AccessKey},
		{"R2_SECRET_ACCESS_KEY", c.R2SecretKey},
		{"R2_BUCKET_NAME", c.R2Bucket},
	}

	for _, r := range required {
		if r.value == "" {
			return &errs.ConfigurationError{Variable: r.name}
		}
	}

	return nil
}

func getOrReturnDefault(key string, defaultValue interface{}) interface{} {
	_, exists := os.LookupEnv(key)
	if exists {
		return os.Getenv(key)
	}

	return defaultValue
}
