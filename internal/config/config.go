package config

import (
	"fmt"
	"time"
	_ "time/tzdata" // NOTIFY_TIME_ZONE должен резолвиться и в минимальном образе

	"github.com/kelseyhightower/envconfig"
)

// Config собирает все секции окружения сервиса.
type Config struct {
	App          AppConfig
	DB           DBConfig
	Acceptance   AcceptanceConfig
	Mail         MailConfig
	Notification NotificationConfig
	Kafka        KafkaConfig
}

type AppConfig struct {
	Env      string `envconfig:"APP_ENV" default:"development"`
	GRPCAddr string `envconfig:"CORE_GRPC_ADDR" default:":50051"`
}

// Пороги подтверждения.
type AcceptanceConfig struct {
	// Минимальный запас между "сейчас" и временем встречи.
	MinLead time.Duration `envconfig:"ACCEPTANCE_MIN_LEAD" default:"6h"`
	// Длительность любой подтверждённой консультации.
	MeetingDuration time.Duration `envconfig:"MEETING_DURATION" default:"1h"`
	// Общий бюджет на письма и событие после коммита.
	NotifyTimeout time.Duration `envconfig:"NOTIFY_TIMEOUT" default:"30s"`
}

func (c AcceptanceConfig) Validate() error {
	if c.MinLead <= 0 {
		return fmt.Errorf("invalid acceptance config: min lead must be positive, got %s", c.MinLead)
	}
	if c.MeetingDuration <= 0 {
		return fmt.Errorf("invalid acceptance config: meeting duration must be positive, got %s", c.MeetingDuration)
	}
	if c.NotifyTimeout <= 0 {
		return fmt.Errorf("invalid acceptance config: notify timeout must be positive, got %s", c.NotifyTimeout)
	}
	return nil
}

type MailConfig struct {
	Host          string `envconfig:"SMTP_HOST" default:"localhost"`
	Port          int    `envconfig:"SMTP_PORT" default:"587"`
	Username      string `envconfig:"SMTP_USERNAME"`
	Password      string `envconfig:"SMTP_PASSWORD"`
	SenderAddress string `envconfig:"MAIL_SENDER_ADDRESS" default:"noreply@consultation.local"`
}

// NotificationConfig: часовой пояс и реквизиты для оплаты в письмах.
type NotificationConfig struct {
	TimeZone       string `envconfig:"NOTIFY_TIME_ZONE" default:"Asia/Tokyo"`
	BankName       string `envconfig:"PAYMENT_BANK_NAME"`
	BankCode       string `envconfig:"PAYMENT_BANK_CODE"`
	BranchName     string `envconfig:"PAYMENT_BRANCH_NAME"`
	BranchCode     string `envconfig:"PAYMENT_BRANCH_CODE"`
	AccountType    string `envconfig:"PAYMENT_ACCOUNT_TYPE" default:"ordinary"`
	AccountNumber  string `envconfig:"PAYMENT_ACCOUNT_NUMBER"`
	AccountHolder  string `envconfig:"PAYMENT_ACCOUNT_HOLDER"`
	InquiryAddress string `envconfig:"INQUIRY_ADDRESS"`
}

// Location разрешает NOTIFY_TIME_ZONE.
func (c NotificationConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid notification config: time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

type KafkaConfig struct {
	// Если пусто, публикация событий отключена.
	Brokers           []string `envconfig:"KAFKA_BROKERS"`
	ConsultationTopic string   `envconfig:"KAFKA_CONSULTATION_TOPIC" default:"consultation.accepted"`
}

func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

func LoadAcceptanceConfig() (*AcceptanceConfig, error) {
	var cfg AcceptanceConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process acceptance env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load читает все секции. Каждая секция плоская, поэтому обрабатывается отдельно.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg.App); err != nil {
		return nil, fmt.Errorf("process app env: %w", err)
	}

	dbCfg, err := LoadDBConfig()
	if err != nil {
		return nil, err
	}
	cfg.DB = *dbCfg

	accCfg, err := LoadAcceptanceConfig()
	if err != nil {
		return nil, err
	}
	cfg.Acceptance = *accCfg

	if err := envconfig.Process("", &cfg.Mail); err != nil {
		return nil, fmt.Errorf("process mail env: %w", err)
	}
	if err := envconfig.Process("", &cfg.Notification); err != nil {
		return nil, fmt.Errorf("process notification env: %w", err)
	}
	if _, err := cfg.Notification.Location(); err != nil {
		return nil, err
	}
	if err := envconfig.Process("", &cfg.Kafka); err != nil {
		return nil, fmt.Errorf("process kafka env: %w", err)
	}

	return &cfg, nil
}
