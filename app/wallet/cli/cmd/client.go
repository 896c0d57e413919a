package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ardanlabs/powledger/business/web/errs"
)

// client talks to the v1 api of a node.
type client struct {
	url  string
	http *http.Client
}

func newClient(url string) client {
	return client{
		url:  url,
		http: &http.Client{Timeout: 5 * time.Minute},
	}
}

func (c client) get(path string, out any) error {
	return c.do(http.MethodGet, path, nil, out)
}

func (c client) post(path string, body any, out any) error {
	return c.do(http.MethodPost, path, body, out)
}

func (c client) delete(path string, out any) error {
	return c.do(http.MethodDelete, path, nil, out)
}

func (c client) do(method string, path string, body any, out any) error {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.url+path, r)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var er errs.Response
		if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
			return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
		}
		if len(er.Fields) > 0 {
			return fmt.Errorf("%s: %v", er.Error, er.Fields)
		}
		return fmt.Errorf("%s", er.Error)
	}

	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
