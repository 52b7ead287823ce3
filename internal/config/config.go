package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

// Evolution 为进化算法的默认参数，命令行工具和 API 共用
type Evolution struct {
	Generations    int    `env:"GENERATIONS" envDefault:"10000"`
	PopulationSize int    `env:"POPULATION_SIZE" envDefault:"50"`
	TournamentSize int    `env:"TOURNAMENT_SIZE" envDefault:"5"`
	NumberRuns     int    `env:"NUMBER_RUNS" envDefault:"1"`
	Crossover      string `env:"CROSSOVER" envDefault:"fix"`
	Mutation       string `env:"MUTATION" envDefault:"single"`
	MaxNumberRuns  int    `env:"MAX_NUMBER_RUNS" envDefault:"32"`
}

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
		MaxUploadSize   int64  `env:"MAX_UPLOAD_SIZE" envDefault:"10485760"` // 10 MiB
	} `envPrefix:"SERVER_"`
	Database struct {
		DSN                string `env:"DSN,required"`
		ConnectTimeout     int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout       int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		TransactionTimeout int    `env:"TRANSACTION_TIMEOUT" envDefault:"20"`
		MaxOpenConns       int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns       int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime        int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	InitialAdmin struct {
		Username string `env:"USERNAME" envDefault:"admin"`
		Password string `env:"PASSWORD,required"`
		FullName string `env:"FULL_NAME" envDefault:"管理员"`
		Email    string `env:"EMAIL,required"`
	} `envPrefix:"INITIAL_ADMIN_"`
	JWT struct {
		Expiration int    `env:"EXPIRATION" envDefault:"336"` // 小时，14 天
		Secret     string `env:"SECRET,required"`
	} `envPrefix:"JWT_"`
	Seed struct {
		User struct {
			Password string `env:"PASSWORD" envDefault:"password"`
		} `envPrefix:"USER_"`
		EmailDomain string `env:"EMAIL_DOMAIN" envDefault:"example.com"`
	} `envPrefix:"SEED_"`
	Email struct {
		SMTP struct {
			Username    string `env:"USERNAME"`
			Password    string `env:"PASSWORD"`
			Host        string `env:"HOST"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
	RabbitMQ struct {
		DSN             string `env:"DSN,required"`
		PublishTimeout  int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
		SimulationQueue string `env:"SIMULATION_QUEUE" envDefault:"simulation_queue"`
		EmailQueue      string `env:"EMAIL_QUEUE" envDefault:"email_queue"`
	} `envPrefix:"RABBITMQ_"`
	Redis struct {
		Host               string `env:"HOST" envDefault:"localhost"`
		Port               int    `env:"PORT" envDefault:"6379"`
		Password           string `env:"PASSWORD"`
		ConnectTimeout     int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		OperationTimeout   int    `env:"OPERATION_TIMEOUT" envDefault:"2"`
		ProgressExpiration int    `env:"PROGRESS_EXPIRATION" envDefault:"1440"` // 分钟
	} `envPrefix:"REDIS_"`
	Worker struct {
		Concurrency      int    `env:"CONCURRENCY" envDefault:"0"` // 0 表示使用 CPU 核数
		ProgressInterval int    `env:"PROGRESS_INTERVAL" envDefault:"100"`
		MetricsPort      string `env:"METRICS_PORT" envDefault:"9100"`
	} `envPrefix:"WORKER_"`
	NewUser struct {
		PasswordLength int `env:"PASSWORD_LENGTH" envDefault:"12"`
	} `envPrefix:"NEW_USER_"`
	Evolution Evolution `envPrefix:"EVOLUTION_"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := parse(cfg, env.Options{}); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadEvolutionConfig 只读取进化算法相关的配置，供不依赖数据库的命令行工具使用
func LoadEvolutionConfig() (*Evolution, error) {
	cfg := &Evolution{}
	if err := parse(cfg, env.Options{Prefix: "EVOLUTION_"}); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parse(v any, opts env.Options) error {
	if err := env.ParseWithOptions(v, opts); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// 只返回第一个错误使得日志更清晰
			return aggErr.Errors[0]
		}
		return err
	}
	return nil
}
