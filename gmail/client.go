package gmail

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/bassamadnan/mailsort/email"
)

const (
	tokenFile       = "token.json"
	credentialsFile = "credentials.json"
	user            = "me"

	// Fetch from the inbox across all Gmail tabs, drafts excluded.
	inboxQuery = "in:inbox -in:draft"
)

type Client struct {
	srv    *gmailapi.Service
	logger *log.Logger
}

func NewClient(ctx context.Context, logger *log.Logger) (*Client, error) {
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(b, gmailapi.GmailReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}
	httpClient, err := getOAuthClient(oauthConfig)
	if err != nil {
		return nil, err
	}
	srv, err := gmailapi.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %w", err)
	}
	return &Client{srv: srv, logger: logger}, nil
}

func getOAuthClient(config *oauth2.Config) (*http.Client, error) {
	tok, err := tokenFromFile(tokenFile)
	if err != nil {
		tok, err = getTokenFromWeb(config)
		if err != nil {
			return nil, err
		}
		if err := saveToken(tokenFile, tok); err != nil {
			return nil, err
		}
	}
	return config.Client(context.Background(), tok), nil
}

func getTokenFromWeb(config *oauth2.Config) (*oauth2.Token, error) {
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Go to the following link in your browser then type the "+
		"authorization code: \n%v\n", authURL)
	var authCode string
	if _, err := fmt.Scan(&authCode); err != nil {
		return nil, fmt.Errorf("unable to read authorization code: %w", err)
	}
	tok, err := config.Exchange(context.TODO(), authCode)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve token from web: %w", err)
	}
	return tok, nil
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

func saveToken(path string, token *oauth2.Token) error {
	fmt.Printf("Saving credential file to: %s\n", path)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to save oauth token: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

// FetchInbox retrieves up to max recent inbox messages, normalized and ready
// for classification. Any provider failure aborts the whole fetch; there is
// no partial result.
func (c *Client) FetchInbox(ctx context.Context, max int64) ([]email.Message, error) {
	list, err := c.srv.Users.Messages.List(user).
		MaxResults(max).
		Q(inboxQuery).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to list inbox messages: %w", err)
	}

	msgs := make([]email.Message, 0, len(list.Messages))
	for _, m := range list.Messages {
		full, err := c.srv.Users.Messages.Get(user, m.Id).Format("full").Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve full message %s: %w", m.Id, err)
		}
		normalized, err := Normalize(full)
		if err != nil {
			return nil, fmt.Errorf("unable to parse message %s: %w", m.Id, err)
		}
		msgs = append(msgs, normalized)
	}
	c.logger.Info("fetched inbox batch", "requested", max, "returned", len(msgs))
	return msgs, nil
}
