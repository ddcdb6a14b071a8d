package emerge

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"intellifi/model/model"
)

const (
	customersPageSize = 500

	sinceDateLayout = "01-02-2006"
)

// Client calls the emerge customer and billing API.
type Client struct {
	host       string
	apiToken   string
	httpClient *http.Client
}

func NewClient(host, apiToken string) *Client {
	return &Client{
		host:       host,
		apiToken:   apiToken,
		httpClient: &http.Client{Timeout: 1 * time.Minute},
	}
}

func (c *Client) doRequest(endpoint string, params url.Values, result interface{}) error {
	requestURL := c.host + endpoint
	if len(params) > 0 {
		requestURL = requestURL + "?" + params.Encode()
	}

	req, err := http.NewRequest(http.MethodGet, requestURL, nil)
	if err != nil {
		return errors.Wrap(err, "Failed to build emerge request.")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "Failed request to emerge endpoint %s.", endpoint)
	}
	defer resp.Body.Close()

	respBody, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "Failed to read emerge response from %s.", endpoint)
	}

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("Emerge request to %s failed with status %d: %s.",
			endpoint, resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return errors.Wrapf(err, "Failed to decode emerge response from %s.", endpoint)
	}
	return nil
}

// GetCustomersSince pages through all customers modified on or after the
// given date.
func (c *Client) GetCustomersSince(since time.Time) ([]model.EmergeCompanyInfo, error) {
	customers := make([]model.EmergeCompanyInfo, 0)

	skip := 0
	for {
		params := url.Values{}
		params.Set("since", since.Format(sinceDateLayout))
		params.Set("skip", strconv.Itoa(skip))
		params.Set("take", strconv.Itoa(customersPageSize))

		var page []model.EmergeCompanyInfo
		if err := c.doRequest("/api/v1/customers", params, &page); err != nil {
			return nil, err
		}
		customers = append(customers, page...)

		if len(page) < customersPageSize {
			break
		}
		skip += customersPageSize
	}

	return customers, nil
}

// GetCustomerBillingInfo returns the billing snapshot for the customer's
// reporting month.
func (c *Client) GetCustomerBillingInfo(emergeCompanyID int64,
	year, month int) (*model.EmergeCompanyBillingInfo, error) {

	params := url.Values{}
	params.Set("year", strconv.Itoa(year))
	params.Set("month", strconv.Itoa(month))

	var billing model.EmergeCompanyBillingInfo
	endpoint := fmt.Sprintf("/api/v1/customers/%d/billing", emergeCompanyID)
	if err := c.doRequest(endpoint, params, &billing); err != nil {
		return nil, err
	}
	return &billing, nil
}
