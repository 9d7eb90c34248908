// Package tronnode talks to the HTTP API of a Tron full node.
package tronnode

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/resty.v1"

	"github.com/Amr-9/trongen/pkg/generator/tron"
)

const (
	// DefaultTimeout bounds a single node request.
	DefaultTimeout = 5 * time.Second

	// MaxRetryCount is the number of transport retries per request.
	MaxRetryCount = 3

	validateAddressPath = "/wallet/validateaddress"
)

// Client is a minimal full-node API client.
type Client struct {
	BaseURL string

	rest *resty.Client
	log  logrus.FieldLogger
}

// NewClient returns a client for the node at url.
func NewClient(url string, timeout time.Duration) *Client {
	url = strings.TrimRight(url, "/")
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	log := logrus.WithField("node", url)
	rest := resty.New().
		SetHostURL(url).
		SetHeader("Accept", "application/json").
		SetRetryCount(MaxRetryCount).
		SetTimeout(timeout)

	return &Client{
		BaseURL: url,
		rest:    rest,
		log:     log,
	}
}

// ValidateAddressResponse is the node's answer to /wallet/validateaddress.
type ValidateAddressResponse struct {
	Result  bool   `json:"result"`
	Message string `json:"message"`
}

// ValidateAddress asks the node whether address is valid.
func (c *Client) ValidateAddress(address string) (*ValidateAddressResponse, error) {
	resp, err := c.rest.R().
		SetBody(map[string]string{"address": address}).
		Post(validateAddressPath)
	if err != nil {
		return nil, fmt.Errorf("validateaddress request failed, %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("validateaddress request failed, %s (%d), %s",
			resp.Status(), resp.StatusCode(), string(resp.Body()))
	}

	var out ValidateAddressResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("decode validateaddress response failed, %v", err)
	}
	return &out, nil
}

// Validator checks addresses locally and then against a full node.
// Node failures are logged and reported as rejections.
type Validator struct {
	client *Client
}

// NewValidator creates a validator backed by client.
func NewValidator(client *Client) *Validator {
	return &Validator{client: client}
}

// IsWellFormed implements generator.AddressValidator.
func (v *Validator) IsWellFormed(address string) bool {
	return tron.IsAddress(address)
}

// IsAcceptedByNetwork implements generator.AddressValidator.
func (v *Validator) IsAcceptedByNetwork(address string) bool {
	res, err := v.client.ValidateAddress(address)
	if err != nil {
		v.client.log.WithError(err).WithField("address", address).Warn("node validation failed")
		return false
	}
	if !res.Result {
		v.client.log.WithFields(logrus.Fields{
			"address": address,
			"message": res.Message,
		}).Debug("address rejected by node")
	}
	return res.Result
}
