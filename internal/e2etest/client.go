package e2etest

import (
	"context"
	"fmt"
	"github.com/PuerkitoBio/goquery"
	"github.com/myrjola/reelcheck/internal/errors"
	"io"
	"log/slog"
	"net/http"
	neturl "net/url"
	"strings"
	"time"
)

// Client drives the web server like a browser without JavaScript would: it keeps cookies, follows redirects and
// submits forms with their current values.
type Client struct {
	client *http.Client
	url    string
}

func NewClient(url string) (*Client, error) {
	jar, err := newUnsafeCookieJar()
	if err != nil {
		return nil, errors.Wrap(err, "create unsafe cookie jar")
	}
	return &Client{
		client: &http.Client{Jar: jar}, //nolint:exhaustruct // zero timeout, the check can take minutes.
		url:    url,
	}, nil
}

// WaitForReady calls the specified endpoint until it gets a HTTP 200 Success
// response or until the context is cancelled or the 1-second timeout is reached.
func (c *Client) WaitForReady(ctx context.Context, urlPath string) error {
	timeout := 1 * time.Second
	startTime := time.Now()
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	for {
		if req, err = c.newRequestWithContext(ctx, http.MethodGet, urlPath, nil); err != nil {
			return errors.Wrap(err, "create request")
		}

		if resp, err = c.client.Do(req); err == nil {
			if resp.StatusCode == http.StatusOK {
				if err = resp.Body.Close(); err != nil {
					return errors.Wrap(err, "close response body")
				}
				return nil
			}
			if err = resp.Body.Close(); err != nil {
				return errors.Wrap(err, "close response body")
			}
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "context cancelled")
		default:
			if time.Since(startTime) >= timeout {
				return errors.New("timeout waiting for endpoint to be ready")
			}
			time.Sleep(100 * time.Millisecond) //nolint:mnd // 100ms
		}
	}
}

// Get fetches a URL and returns the response.
func (c *Client) Get(ctx context.Context, urlPath string) (*http.Response, error) {
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	if req, err = c.newRequestWithContext(ctx, http.MethodGet, urlPath, nil); err != nil {
		return nil, errors.Wrap(err, "create request with context")
	}
	if resp, err = c.client.Do(req); err != nil {
		return nil, errors.Wrap(err, "do request")
	}
	return resp, nil
}

// GetDoc fetches a URL and returns a goquery document.
func (c *Client) GetDoc(ctx context.Context, urlPath string) (*goquery.Document, error) {
	var (
		err  error
		resp *http.Response
	)
	if resp, err = c.Get(ctx, urlPath); err != nil {
		return nil, errors.Wrap(err, "client get")
	}
	return readDoc(resp, http.StatusOK)
}

// readDoc parses the response body after checking the status code. The body is closed.
func readDoc(resp *http.Response, wantStatus int) (*goquery.Document, error) {
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != wantStatus {
		return nil, errors.New("unexpected status code",
			slog.Int("status", resp.StatusCode), slog.Int("want", wantStatus),
			slog.String("url", resp.Request.URL.String()))
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "create document from reader")
	}
	return doc, nil
}

// newRequestWithContext creates a new HTTP request to the server that respects the given context.
func (c *Client) newRequestWithContext(
	ctx context.Context,
	method, urlPath string,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url+urlPath, body)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	return req, nil
}

// Login submits the login form and returns the dashboard document.
func (c *Client) Login(ctx context.Context, email, password string) (*goquery.Document, error) {
	doc, err := c.SubmitForm(ctx, "/login", "/login", neturl.Values{
		"email":    {email},
		"password": {password},
	})
	if err != nil {
		return nil, errors.Wrap(err, "submit login form", slog.String("email", email))
	}
	return doc, nil
}

// Logout submits the logout form of the dashboard and returns the login page document.
func (c *Client) Logout(ctx context.Context) (*goquery.Document, error) {
	doc, err := c.SubmitForm(ctx, "/dashboard", "/logout", nil)
	if err != nil {
		return nil, errors.Wrap(err, "submit logout form")
	}
	return doc, nil
}

// StartNewTest opens an empty new-test form.
func (c *Client) StartNewTest(ctx context.Context) (*goquery.Document, error) {
	doc, err := c.SubmitForm(ctx, "/dashboard", "/dashboard/new", nil)
	if err != nil {
		return nil, errors.Wrap(err, "submit new test form")
	}
	return doc, nil
}

// CheckReel submits reelURL for an authenticity check and returns the dashboard once the verdict is in.
func (c *Client) CheckReel(ctx context.Context, reelURL string) (*goquery.Document, error) {
	doc, err := c.SubmitForm(ctx, "/dashboard", "/dashboard/check", neturl.Values{"url": {reelURL}})
	if err != nil {
		return nil, errors.Wrap(err, "submit check form", slog.String("url", reelURL))
	}
	return doc, nil
}

// SaveEntry submits the feedback form. values override the form's current values.
func (c *Client) SaveEntry(ctx context.Context, values neturl.Values) (*goquery.Document, error) {
	doc, err := c.SubmitForm(ctx, "/dashboard", "/dashboard/save", values)
	if err != nil {
		return nil, errors.Wrap(err, "submit feedback form")
	}
	return doc, nil
}

// SelectEntry opens the entry with entryID from the sidebar.
func (c *Client) SelectEntry(ctx context.Context, entryID string) (*goquery.Document, error) {
	doc, err := c.SubmitForm(ctx, "/dashboard", "/dashboard/entries/"+entryID, nil)
	if err != nil {
		return nil, errors.Wrap(err, "submit entry form", slog.String("entry_id", entryID))
	}
	return doc, nil
}

// SubmitForm submits the form with action formActionURLPath found at formURLPath and returns the document the
// browser ends up at. It expects HTTP 200.
func (c *Client) SubmitForm(
	ctx context.Context,
	formURLPath string,
	formActionURLPath string,
	values neturl.Values,
) (*goquery.Document, error) {
	return c.SubmitFormExpect(ctx, formURLPath, formActionURLPath, values, http.StatusOK)
}

// SubmitFormExpect is SubmitForm with a custom expected status code.
//
// The form's current values are submitted with values overriding them. A nil slice in values removes the field,
// which is how a checkbox is unchecked.
func (c *Client) SubmitFormExpect(
	ctx context.Context,
	formURLPath string,
	formActionURLPath string,
	values neturl.Values,
	wantStatus int,
) (*goquery.Document, error) {
	var (
		doc *goquery.Document
		err error
	)
	if doc, err = c.GetDoc(ctx, formURLPath); err != nil {
		return nil, errors.Wrap(err, "get document", slog.String("url", formURLPath))
	}

	formSelector := fmt.Sprintf("form[action='%s']", formActionURLPath)
	form := doc.Find(formSelector)
	if form.Length() != 1 {
		return nil, errors.New("form not found", slog.String("selector", formSelector),
			slog.Int("matches", form.Length()))
	}
	formData := FormValues(form)
	if _, ok := formData["csrf_token"]; !ok {
		return nil, errors.New("csrf_token not found in form", slog.String("selector", formSelector))
	}
	for name, v := range values {
		if v == nil {
			formData.Del(name)
			continue
		}
		formData[name] = v
	}

	var req *http.Request
	if req, err = c.newRequestWithContext(
		ctx, http.MethodPost, formActionURLPath, strings.NewReader(formData.Encode())); err != nil {
		return nil, errors.Wrap(err, "new request with context")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	var resp *http.Response
	if resp, err = c.client.Do(req); err != nil {
		return nil, errors.Wrap(err, "do request")
	}
	return readDoc(resp, wantStatus)
}

// FormValues collects the values a browser would submit for form.
func FormValues(form *goquery.Selection) neturl.Values {
	values := neturl.Values{}
	form.Find("input[name]").Each(func(_ int, s *goquery.Selection) {
		if _, disabled := s.Attr("disabled"); disabled {
			return
		}
		name, _ := s.Attr("name")
		value, hasValue := s.Attr("value")
		switch s.AttrOr("type", "text") {
		case "checkbox", "radio":
			if _, checked := s.Attr("checked"); !checked {
				return
			}
			if !hasValue {
				value = "on"
			}
		case "submit", "button", "reset":
			return
		}
		values.Add(name, value)
	})
	form.Find("select[name]").Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		option := s.Find("option[selected]").First()
		if option.Length() == 0 {
			option = s.Find("option").First()
		}
		if option.Length() == 0 {
			return
		}
		values.Add(name, option.AttrOr("value", strings.TrimSpace(option.Text())))
	})
	form.Find("textarea[name]").Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		values.Add(name, s.Text())
	})
	return values
}
