package cloudtasks

import (
	"context"
	"encoding/json"
	"fmt"

	tasks "cloud.google.com/go/cloudtasks/apiv2"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
	taskspb "google.golang.org/genproto/googleapis/cloud/tasks/v2"
)

// Enqueuer pushes HTTP tasks onto a cloud tasks queue. Tasks carry an
// OIDC token so the worker endpoints can require authenticated callers.
type Enqueuer struct {
	client              *tasks.Client
	project             string
	location            string
	queue               string
	baseURL             string
	serviceAccountEmail string
}

func NewEnqueuer(ctx context.Context, project, location, queue, baseURL,
	serviceAccountEmail string, opts ...option.ClientOption) (*Enqueuer, error) {

	client, err := tasks.NewClient(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to create cloud tasks client.")
	}

	return &Enqueuer{
		client:              client,
		project:             project,
		location:            location,
		queue:               queue,
		baseURL:             baseURL,
		serviceAccountEmail: serviceAccountEmail,
	}, nil
}

// Enqueue creates one HTTP POST task for the relative URI with the JSON
// encoded payload as body.
func (e *Enqueuer) Enqueue(relativeURI string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "Failed to marshal task payload.")
	}

	queuePath := fmt.Sprintf("projects/%s/locations/%s/queues/%s",
		e.project, e.location, e.queue)

	request := &taskspb.CreateTaskRequest{
		Parent: queuePath,
		Task: &taskspb.Task{
			MessageType: &taskspb.Task_HttpRequest{
				HttpRequest: &taskspb.HttpRequest{
					HttpMethod: taskspb.HttpMethod_POST,
					Url:        e.baseURL + "/" + relativeURI,
					Headers:    map[string]string{"Content-Type": "application/json"},
					Body:       body,
					AuthorizationHeader: &taskspb.HttpRequest_OidcToken{
						OidcToken: &taskspb.OidcToken{
							ServiceAccountEmail: e.serviceAccountEmail,
							Audience:            e.baseURL,
						},
					},
				},
			},
		},
	}

	_, err = e.client.CreateTask(context.Background(), request)
	if err != nil {
		return errors.Wrapf(err, "Failed to enqueue task for %s.", relativeURI)
	}
	return nil
}

func (e *Enqueuer) Close() error {
	return e.client.Close()
}
