package hubspot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"intellifi/model/model"
)

const (
	baseURL = "https://api.hubapi.com"

	searchLimit = 100

	// User defined association label between a customer deal and its
	// company, provisioned in the portal.
	associationTypeCustomerDeal = 279
	// Hubspot defined association types.
	associationTypeDealToCompany  = 5
	associationTypeDealToLineItem = 20
)

// Client is a thin typed wrapper over the hubspot v3 and v4 CRM APIs.
type Client struct {
	accessToken string
	httpClient  *http.Client
}

func NewClient(accessToken string) *Client {
	return &Client{
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: 1 * time.Minute},
	}
}

func (c *Client) doRequest(method, endpoint string, params url.Values,
	payload interface{}, result interface{}) error {

	requestURL := baseURL + endpoint
	if len(params) > 0 {
		requestURL = requestURL + "?" + params.Encode()
	}

	var body *bytes.Buffer = bytes.NewBuffer(nil)
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return errors.Wrap(err, "Failed to marshal hubspot request payload.")
		}
		body = bytes.NewBuffer(encoded)
	}

	req, err := http.NewRequest(method, requestURL, body)
	if err != nil {
		return errors.Wrap(err, "Failed to build hubspot request.")
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "Failed request to hubspot endpoint %s.", endpoint)
	}
	defer resp.Body.Close()

	respBody, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "Failed to read hubspot response from %s.", endpoint)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode > http.StatusIMUsed {
		log.WithFields(log.Fields{"endpoint": endpoint,
			"status": resp.StatusCode}).Error("Hubspot request failed.")
		return errors.Errorf("Hubspot request to %s failed with status %d: %s.",
			endpoint, resp.StatusCode, string(respBody))
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return errors.Wrapf(err, "Failed to decode hubspot response from %s.", endpoint)
		}
	}
	return nil
}

type searchFilter struct {
	PropertyName string `json:"propertyName"`
	Operator     string `json:"operator"`
	Value        string `json:"value"`
}

type searchFilterGroup struct {
	Filters []searchFilter `json:"filters"`
}

type searchRequest struct {
	FilterGroups []searchFilterGroup `json:"filterGroups"`
	Properties   []string            `json:"properties,omitempty"`
	Limit        int                 `json:"limit"`
}

func equalitySearch(property, value string, properties []string) *searchRequest {
	return &searchRequest{
		FilterGroups: []searchFilterGroup{{Filters: []searchFilter{
			{PropertyName: property, Operator: "EQ", Value: value}}}},
		Properties: properties,
		Limit:      searchLimit,
	}
}

// SearchCompaniesByEmergeID returns all companies carrying the given
// emerge company id, ordered by the portal's default search ordering.
func (c *Client) SearchCompaniesByEmergeID(emergeCompanyID int64) (*model.HubspotCompanySearchResponse, error) {
	request := equalitySearch("emerge_company_id",
		fmt.Sprintf("%d", emergeCompanyID), []string{"name", "emerge_company_id"})

	var response model.HubspotCompanySearchResponse
	err := c.doRequest(http.MethodPost, "/crm/v3/objects/companies/search",
		nil, request, &response)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// SearchCompaniesByName returns all companies with exactly the given name.
func (c *Client) SearchCompaniesByName(name string) (*model.HubspotCompanySearchResponse, error) {
	request := equalitySearch("name", name, []string{"name", "emerge_company_id"})

	var response model.HubspotCompanySearchResponse
	err := c.doRequest(http.MethodPost, "/crm/v3/objects/companies/search",
		nil, request, &response)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// SearchDealsByName returns all deals with exactly the given deal name.
func (c *Client) SearchDealsByName(name string) (*model.HubspotDealSearchResponse, error) {
	request := equalitySearch("dealname", name,
		[]string{"dealname", "original_closed_won_deal"})

	var response model.HubspotDealSearchResponse
	err := c.doRequest(http.MethodPost, "/crm/v3/objects/deals/search",
		nil, request, &response)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// CreateCompany creates a company with only a name and returns the new
// record.
func (c *Client) CreateCompany(name string) (*model.HubspotCompany, error) {
	payload := map[string]interface{}{
		"properties": model.HubspotCompanyProperties{Name: name},
	}

	var company model.HubspotCompany
	err := c.doRequest(http.MethodPost, "/crm/v3/objects/companies",
		nil, payload, &company)
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// UpdateCompany patches the company's properties.
func (c *Client) UpdateCompany(companyID string, update *model.HubspotCompanyUpdate) error {
	payload := map[string]interface{}{"properties": update}
	return c.doRequest(http.MethodPatch,
		"/crm/v3/objects/companies/"+companyID, nil, payload, nil)
}

// MergeCompanies merges the duplicate company into the keeper. The merged
// record's id stops resolving after the merge.
func (c *Client) MergeCompanies(mergeID, keepID string) error {
	payload := map[string]string{
		"primaryObjectId": keepID,
		"objectIdToMerge": mergeID,
	}
	return c.doRequest(http.MethodPost,
		"/crm/v3/objects/companies/merge", nil, payload, nil)
}

// GetDeal reads a deal with the requested properties and inline
// association lists.
func (c *Client) GetDeal(dealID string, properties,
	associations []string) (*model.HubspotDeal, error) {

	params := url.Values{}
	for _, property := range properties {
		params.Add("properties", property)
	}
	for _, association := range associations {
		params.Add("associations", association)
	}

	var deal model.HubspotDeal
	err := c.doRequest(http.MethodGet, "/crm/v3/objects/deals/"+dealID,
		params, nil, &deal)
	if err != nil {
		return nil, err
	}
	return &deal, nil
}

// UpdateDeal patches the deal's properties.
func (c *Client) UpdateDeal(dealID string, update *model.HubspotDealUpdate) error {
	payload := map[string]interface{}{"properties": update}
	return c.doRequest(http.MethodPatch,
		"/crm/v3/objects/deals/"+dealID, nil, payload, nil)
}

type associationBatchReadRequest struct {
	Inputs []model.HubspotAssociationFrom `json:"inputs"`
}

// GetCompaniesForDeal reads the deal to company associations for one deal.
func (c *Client) GetCompaniesForDeal(dealID string) (*model.HubspotAssociationBatchReadResponse, error) {
	request := &associationBatchReadRequest{
		Inputs: []model.HubspotAssociationFrom{{ID: dealID}},
	}

	var response model.HubspotAssociationBatchReadResponse
	err := c.doRequest(http.MethodPost,
		"/crm/v4/associations/deals/companies/batch/read", nil, request, &response)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

type associationSpec struct {
	AssociationCategory string `json:"associationCategory"`
	AssociationTypeID   int    `json:"associationTypeId"`
}

// AssociateCompanyWithDeal links the company to the deal with the default
// deal to company association.
func (c *Client) AssociateCompanyWithDeal(dealID, companyID string) error {
	payload := []associationSpec{{
		AssociationCategory: "HUBSPOT_DEFINED",
		AssociationTypeID:   associationTypeDealToCompany,
	}}
	endpoint := fmt.Sprintf("/crm/v4/objects/deals/%s/associations/companies/%s",
		dealID, companyID)
	return c.doRequest(http.MethodPut, endpoint, nil, payload, nil)
}

// AssociateCustomerCompanyWithDeal links the company to the customer deal
// with the portal's customer deal association label.
func (c *Client) AssociateCustomerCompanyWithDeal(dealID, companyID string) error {
	payload := []associationSpec{{
		AssociationCategory: "USER_DEFINED",
		AssociationTypeID:   associationTypeCustomerDeal,
	}}
	endpoint := fmt.Sprintf("/crm/v4/objects/deals/%s/associations/companies/%s",
		dealID, companyID)
	return c.doRequest(http.MethodPut, endpoint, nil, payload, nil)
}

type lineItemBatchReadRequest struct {
	Inputs     []model.HubspotAssociationFrom `json:"inputs"`
	Properties []string                       `json:"properties"`
}

type lineItemBatchResponse struct {
	Results []model.HubspotLineItem `json:"results"`
}

// GetLineItems reads the given line items with their product linkage and
// price.
func (c *Client) GetLineItems(lineItemIDs []string) ([]model.HubspotLineItem, error) {
	inputs := make([]model.HubspotAssociationFrom, 0, len(lineItemIDs))
	for _, id := range lineItemIDs {
		inputs = append(inputs, model.HubspotAssociationFrom{ID: id})
	}
	request := &lineItemBatchReadRequest{
		Inputs:     inputs,
		Properties: []string{"hs_product_id", "price", "hs_sku", "name"},
	}

	var response lineItemBatchResponse
	err := c.doRequest(http.MethodPost,
		"/crm/v3/objects/line_items/batch/read", nil, request, &response)
	if err != nil {
		return nil, err
	}
	return response.Results, nil
}

type lineItemInput struct {
	Properties model.HubspotLineItemProperties `json:"properties"`
}

type lineItemBatchCreateRequest struct {
	Inputs []lineItemInput `json:"inputs"`
}

// CreateLineItems creates the line items and returns the created records.
func (c *Client) CreateLineItems(lineItems []model.HubspotLineItemProperties) ([]model.HubspotLineItem, error) {
	inputs := make([]lineItemInput, 0, len(lineItems))
	for i := range lineItems {
		inputs = append(inputs, lineItemInput{Properties: lineItems[i]})
	}
	request := &lineItemBatchCreateRequest{Inputs: inputs}

	var response lineItemBatchResponse
	err := c.doRequest(http.MethodPost,
		"/crm/v3/objects/line_items/batch/create", nil, request, &response)
	if err != nil {
		return nil, err
	}
	return response.Results, nil
}

type lineItemUpdateInput struct {
	ID         string                          `json:"id"`
	Properties model.HubspotLineItemProperties `json:"properties"`
}

type lineItemBatchUpdateRequest struct {
	Inputs []lineItemUpdateInput `json:"inputs"`
}

// UpdateLineItems patches the given line items.
func (c *Client) UpdateLineItems(lineItems []model.HubspotLineItem) error {
	inputs := make([]lineItemUpdateInput, 0, len(lineItems))
	for i := range lineItems {
		inputs = append(inputs, lineItemUpdateInput{
			ID: lineItems[i].ID, Properties: lineItems[i].Properties})
	}
	request := &lineItemBatchUpdateRequest{Inputs: inputs}

	return c.doRequest(http.MethodPost,
		"/crm/v3/objects/line_items/batch/update", nil, request, nil)
}

type lineItemBatchArchiveRequest struct {
	Inputs []model.HubspotAssociationFrom `json:"inputs"`
}

// DeleteLineItems archives the given line items.
func (c *Client) DeleteLineItems(lineItemIDs []string) error {
	inputs := make([]model.HubspotAssociationFrom, 0, len(lineItemIDs))
	for _, id := range lineItemIDs {
		inputs = append(inputs, model.HubspotAssociationFrom{ID: id})
	}
	request := &lineItemBatchArchiveRequest{Inputs: inputs}

	return c.doRequest(http.MethodPost,
		"/crm/v3/objects/line_items/batch/archive", nil, request, nil)
}

type associationEndpoint struct {
	ID string `json:"id"`
}

type associationBatchCreateInput struct {
	From  associationEndpoint `json:"from"`
	To    associationEndpoint `json:"to"`
	Types []associationSpec   `json:"types"`
}

type associationBatchCreateRequest struct {
	Inputs []associationBatchCreateInput `json:"inputs"`
}

// AssociateLineItemsWithDeal links the line items to the deal.
func (c *Client) AssociateLineItemsWithDeal(lineItemIDs []string, dealID string) error {
	inputs := make([]associationBatchCreateInput, 0, len(lineItemIDs))
	for _, id := range lineItemIDs {
		inputs = append(inputs, associationBatchCreateInput{
			From: associationEndpoint{ID: id},
			To:   associationEndpoint{ID: dealID},
			Types: []associationSpec{{
				AssociationCategory: "HUBSPOT_DEFINED",
				AssociationTypeID:   associationTypeDealToLineItem,
			}},
		})
	}
	request := &associationBatchCreateRequest{Inputs: inputs}

	return c.doRequest(http.MethodPost,
		"/crm/v4/associations/line_items/deals/batch/create", nil, request, nil)
}

// GetAllProducts pages through the product catalog with the tier price
// columns.
func (c *Client) GetAllProducts() ([]model.HubspotProduct, error) {
	products := make([]model.HubspotProduct, 0)

	after := ""
	for {
		params := url.Values{}
		params.Set("limit", "100")
		params.Set("properties", "name,price,tier_2,tier_3,hs_sku")
		if after != "" {
			params.Set("after", after)
		}

		var page model.HubspotProductListResponse
		err := c.doRequest(http.MethodGet, "/crm/v3/objects/products",
			params, nil, &page)
		if err != nil {
			return nil, err
		}
		products = append(products, page.Results...)

		if page.Paging == nil || page.Paging.Next.After == "" {
			break
		}
		after = page.Paging.Next.After
	}

	return products, nil
}

// GetOwnerByEmail returns the owner registered for the email, or nil when
// no owner matches.
func (c *Client) GetOwnerByEmail(email string) (*model.HubspotOwner, error) {
	params := url.Values{}
	params.Set("email", email)

	var response model.HubspotOwnerListResponse
	err := c.doRequest(http.MethodGet, "/crm/v3/owners/", params, nil, &response)
	if err != nil {
		return nil, err
	}

	if len(response.Results) == 0 {
		return nil, nil
	}
	return &response.Results[0], nil
}
