package config

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const DEVELOPMENT = "development"

type Configuration struct {
	AppName string
	Env     string
	Port    int

	GCPProjectID       string
	GCPProjectLocation string
	GCPCredentialsFile string

	TaskQueue               string
	TaskBaseURL             string
	TaskServiceAccountEmail string

	EmergeAPIHost  string
	EmergeAPIToken string

	HubspotAccessToken  string
	HubspotClientSecret string

	SchedulerJobName string
}

var conf *Configuration
var initiated bool = false

// Init loads the configuration and sets up logging. Allowed only once.
func Init(configuration *Configuration) error {
	if initiated {
		return errors.New("Config already initialized.")
	}

	conf = configuration
	initLogging()
	initiated = true

	log.WithFields(log.Fields{"app_name": conf.AppName,
		"env": conf.Env}).Info("Initialized config.")
	return nil
}

func initLogging() {
	log.SetFormatter(&log.JSONFormatter{})
	if IsDevelopment() {
		log.SetLevel(log.DebugLevel)
	}
}

func GetConfig() *Configuration {
	return conf
}

func IsDevelopment() bool {
	return conf.Env == DEVELOPMENT
}
