package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port              string        `envconfig:"PORT" default:"8080"`
	AWSRegion         string        `envconfig:"AWS_REGION" default:"us-east-1"`
	OrdersTableName   string        `envconfig:"ORDERS_TABLE" default:"Orders"`
	ProductsTableName string        `envconfig:"PRODUCTS_TABLE" default:"Products"`
	ReportsBucket     string        `envconfig:"REPORTS_BUCKET" default:"storefront-reports"`
	FrontendURL       string        `envconfig:"FRONTEND_URL" default:"http://localhost:5173"`
	StoreBackend      string        `envconfig:"STORE_BACKEND" default:"memory"` // memory | aws
	StateMachineARN   string        `envconfig:"STATE_MACHINE_ARN" default:""`
	KafkaBrokers      string        `envconfig:"KAFKA_BROKERS" default:""`
	RequestTimeout    time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`
	ExecutionTimeout  time.Duration `envconfig:"EXECUTION_TIMEOUT" default:"60s"`
	OrderIDLength     int           `envconfig:"ORDER_ID_LENGTH" default:"8"`
	PresignTTL        time.Duration `envconfig:"PRESIGN_TTL" default:"1h"`
	LogLevel          string        `envconfig:"LOG_LEVEL" default:"info"`
	DynamoDBEndpoint  string        `envconfig:"DYNAMODB_ENDPOINT" default:""` // DynamoDB Local endpoint
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
