package handler

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"

	"intellifi/model/model"
)

const (
	testWebhookSecret    = "test-client-secret"
	testSchedulerJobName = "intellifi_companies_sync"
)

// fakeSyncEngine records calls and returns canned errors per operation.
type fakeSyncEngine struct {
	companyRequests  []*model.CompanySyncRequest
	dealRequests     []*model.DealSyncRequest
	lineItemRequests []*model.LineItemSyncRequest
	batchRuns        []bool

	billing *model.EmergeCompanyBillingInfo

	companyErr  error
	dealErr     error
	lineItemErr error
	batchErr    error
	billingErr  error
}

func (f *fakeSyncEngine) SyncCompany(request *model.CompanySyncRequest) error {
	f.companyRequests = append(f.companyRequests, request)
	return f.companyErr
}

func (f *fakeSyncEngine) AssociateCustomerDeal(request *model.DealSyncRequest) error {
	f.dealRequests = append(f.dealRequests, request)
	return f.dealErr
}

func (f *fakeSyncEngine) SyncLineItems(request *model.LineItemSyncRequest) error {
	f.lineItemRequests = append(f.lineItemRequests, request)
	return f.lineItemErr
}

func (f *fakeSyncEngine) SyncAllCompanies(force bool) error {
	f.batchRuns = append(f.batchRuns, force)
	return f.batchErr
}

func (f *fakeSyncEngine) GetCompanyBillingInfo(request *model.CompanySyncRequest) (*model.EmergeCompanyBillingInfo, error) {
	if f.billingErr != nil {
		return nil, f.billingErr
	}
	if f.billing != nil {
		return f.billing, nil
	}
	return &model.EmergeCompanyBillingInfo{}, nil
}

type enqueuedTask struct {
	uri     string
	payload interface{}
}

type fakeTasks struct {
	enqueued []enqueuedTask
	err      error
}

func (f *fakeTasks) Enqueue(relativeURI string, payload interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.enqueued = append(f.enqueued, enqueuedTask{uri: relativeURI, payload: payload})
	return nil
}

type fakeStore struct {
	lineItemSyncEnabled bool
	lastRunDate         string
}

func (f *fakeStore) LineItemSyncEnabled() (bool, error) { return f.lineItemSyncEnabled, nil }
func (f *fakeStore) GetLastRunDate() (string, error)    { return f.lastRunDate, nil }
func (f *fakeStore) SetLastRunDate(date string) error {
	f.lastRunDate = date
	return nil
}

func newTestRouter(engine *fakeSyncEngine, tasks *fakeTasks,
	store *fakeStore) *gin.Engine {

	gin.SetMode(gin.TestMode)

	if engine == nil {
		engine = &fakeSyncEngine{}
	}
	if tasks == nil {
		tasks = &fakeTasks{}
	}
	if store == nil {
		store = &fakeStore{}
	}

	Init(&Dependencies{
		Engine:           engine,
		Tasks:            tasks,
		Store:            store,
		WebhookSecret:    testWebhookSecret,
		SchedulerJobName: testSchedulerJobName,
	})

	r := gin.New()
	InitRoutes(r)
	return r
}

// signRequest sets the hubspot v3 signature headers the way hubspot
// computes them for the request.
func signRequest(req *http.Request, body []byte, secret string) {
	timestamp := "1686825000000"
	message := req.Method + "https://" + req.Host + req.URL.RequestURI() +
		string(body) + timestamp

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))

	req.Header.Set("X-HubSpot-Signature-v3",
		base64.StdEncoding.EncodeToString(mac.Sum(nil)))
	req.Header.Set("X-HubSpot-Request-Timestamp", timestamp)
}

func signedRequest(method, target string, body []byte) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Host = "example.com"
	signRequest(req, body, testWebhookSecret)
	return req
}
