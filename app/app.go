package main

import (
	"context"
	"flag"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	C "intellifi/config"
	H "intellifi/handler"
	"intellifi/integration/emerge"
	"intellifi/integration/hubspot"
	mid "intellifi/middleware"
	"intellifi/services/cloudtasks"
	"intellifi/services/firestore"
	"intellifi/task/hubspotsync"
)

func main() {
	env := flag.String("env", C.DEVELOPMENT, "")
	port := flag.Int("api_http_port", 8080, "Port for the http server.")

	gcpProjectID := flag.String("gcp_project_id", "", "GCP project id.")
	gcpProjectLocation := flag.String("gcp_project_location", "us-central1", "GCP project location.")
	gcpCredentialsFile := flag.String("gcp_credentials_file", "", "Service account credentials file. Uses ADC when empty.")

	taskQueue := flag.String("task_queue", "hubspot-sync", "Cloud tasks queue name.")
	taskBaseURL := flag.String("task_base_url", "", "Base url worker tasks are dispatched to.")
	taskServiceAccountEmail := flag.String("task_service_account_email", "", "Service account for task OIDC tokens.")

	emergeAPIHost := flag.String("emerge_api_host", "https://emerge.intelifi.com", "Emerge API host.")
	emergeAPIToken := flag.String("emerge_api_token", "", "Emerge API token.")

	hubspotAccessToken := flag.String("hubspot_access_token", "", "Hubspot private app access token.")
	hubspotClientSecret := flag.String("hubspot_client_secret", "", "Hubspot app client secret for signature verification.")

	schedulerJobName := flag.String("scheduler_job_name", "intellifi_companies_sync",
		"Cloud scheduler job allowed to trigger the companies sync.")

	flag.Parse()

	config := &C.Configuration{
		AppName:                 "hubspot_sync_api",
		Env:                     *env,
		Port:                    *port,
		GCPProjectID:            *gcpProjectID,
		GCPProjectLocation:      *gcpProjectLocation,
		GCPCredentialsFile:      *gcpCredentialsFile,
		TaskQueue:               *taskQueue,
		TaskBaseURL:             *taskBaseURL,
		TaskServiceAccountEmail: *taskServiceAccountEmail,
		EmergeAPIHost:           *emergeAPIHost,
		EmergeAPIToken:          *emergeAPIToken,
		HubspotAccessToken:      *hubspotAccessToken,
		HubspotClientSecret:     *hubspotClientSecret,
		SchedulerJobName:        *schedulerJobName,
	}
	if err := C.Init(config); err != nil {
		log.WithError(err).Fatal("Failed to initialize config.")
	}

	ctx := context.Background()

	var clientOpts []option.ClientOption
	if config.GCPCredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(config.GCPCredentialsFile))
	}

	enqueuer, err := cloudtasks.NewEnqueuer(ctx, config.GCPProjectID,
		config.GCPProjectLocation, config.TaskQueue, config.TaskBaseURL,
		config.TaskServiceAccountEmail, clientOpts...)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize cloud tasks enqueuer.")
	}
	defer enqueuer.Close()

	store, err := firestore.NewStore(ctx, config.GCPProjectID, clientOpts...)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize firestore store.")
	}
	defer store.Close()

	hubspotClient := hubspot.NewClient(config.HubspotAccessToken)
	emergeClient := emerge.NewClient(config.EmergeAPIHost, config.EmergeAPIToken)

	engine, err := hubspotsync.NewEngine(hubspotClient, emergeClient, enqueuer, store)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize sync engine.")
	}

	if !C.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(mid.Logger(), mid.Recovery())

	H.Init(&H.Dependencies{
		Engine:           engine,
		Tasks:            enqueuer,
		Store:            store,
		WebhookSecret:    config.HubspotClientSecret,
		SchedulerJobName: config.SchedulerJobName,
	})
	H.InitRoutes(r)

	log.WithFields(log.Fields{"port": config.Port}).Info("Starting http server.")
	if err := r.Run(":" + strconv.Itoa(config.Port)); err != nil {
		log.WithError(err).Fatal("Http server exited.")
	}
}
