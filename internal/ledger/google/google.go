// Package google writes the payments ledger to a Google Sheets
// spreadsheet, one sheet per year.
package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"golang.org/x/oauth2"
	ggoogle "golang.org/x/oauth2/google"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"acadesk/internal/core"
	ports "acadesk/internal/ledger"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	// Base sheet name without year (e.g. "Payments"); the year of each
	// record is prefixed so one spreadsheet holds multiple years.
	sheetBase string
}

var _ ports.PaymentWriter = (*Client)(nil)

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID plus credentials, either an OAuth
// client and token (GOOGLE_OAUTH_CLIENT_JSON/FILE with
// GOOGLE_OAUTH_TOKEN_JSON/FILE, see cmd/oauth-init) or a service
// account via GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE,
// or GOOGLE_APPLICATION_CREDENTIALS. Optional: GOOGLE_SHEET_NAME
// (default "Payments").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	sheetBase := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetBase == "" {
		sheetBase = "Payments"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetBase:     sheetBase,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	if svc, ok, err := oauthSheetsService(ctx); err != nil {
		return nil, err
	} else if ok {
		return svc, nil
	}

	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing Google credentials (set GOOGLE_OAUTH_CLIENT_JSON/FILE with a token, GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created")
	return service, nil
}

// oauthSheetsService builds the service from an OAuth client plus the
// token saved by oauth-init. Returns ok=false when the OAuth variables
// are not set so the caller can fall through to service accounts.
func oauthSheetsService(ctx context.Context) (*gsheet.Service, bool, error) {
	clientJSON := strings.TrimSpace(os.Getenv("GOOGLE_OAUTH_CLIENT_JSON"))
	clientFile := strings.TrimSpace(os.Getenv("GOOGLE_OAUTH_CLIENT_FILE"))

	var b []byte
	var err error
	switch {
	case clientJSON != "":
		b = []byte(clientJSON)
	case clientFile != "":
		b, err = os.ReadFile(clientFile)
		if err != nil {
			return nil, false, fmt.Errorf("read oauth client file: %w", err)
		}
	default:
		return nil, false, nil
	}

	cfg, err := ggoogle.ConfigFromJSON(b, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, false, fmt.Errorf("parse oauth client: %w", err)
	}

	tok, err := loadOAuthToken()
	if err != nil {
		return nil, false, err
	}

	service, err := gsheet.NewService(ctx,
		goption.WithTokenSource(cfg.TokenSource(ctx, tok)))
	if err != nil {
		return nil, false, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created", "auth", "oauth")
	return service, true, nil
}

func loadOAuthToken() (*oauth2.Token, error) {
	tokenJSON := strings.TrimSpace(os.Getenv("GOOGLE_OAUTH_TOKEN_JSON"))
	tokenFile := strings.TrimSpace(os.Getenv("GOOGLE_OAUTH_TOKEN_FILE"))

	var b []byte
	var err error
	switch {
	case tokenJSON != "":
		b = []byte(tokenJSON)
	case tokenFile != "":
		b, err = os.ReadFile(tokenFile)
		if err != nil {
			return nil, fmt.Errorf("read oauth token file: %w", err)
		}
	default:
		return nil, errors.New("missing oauth token (set GOOGLE_OAUTH_TOKEN_JSON or GOOGLE_OAUTH_TOKEN_FILE, run oauth-init to obtain one)")
	}

	var tok oauth2.Token
	if err := json.Unmarshal(b, &tok); err != nil {
		return nil, fmt.Errorf("parse oauth token: %w", err)
	}
	return &tok, nil
}

// Append writes one paid fee record to the year's payment sheet and
// returns the written range as the row reference.
func (c *Client) Append(ctx context.Context, r core.FeeRecord) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	if !r.Paid() {
		return "", fmt.Errorf("record %s is not paid", r.ID)
	}

	sheetName := yearPrefixedName(c.sheetBase, r.Year.Int())

	// Find the next empty row from the sheet's current height.
	rng := fmt.Sprintf("%s!A:A", sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("get sheet dimensions for %s: %w", sheetName, err)
	}
	nextRow := len(resp.Values) + 1

	paidDate := ""
	if r.PaidDate != nil {
		paidDate = r.PaidDate.Format("2006-01-02")
	}
	method := ""
	if r.PaymentMethod != nil {
		method = string(*r.PaymentMethod)
	}

	dataRange := fmt.Sprintf("%s!A%d:H%d", sheetName, nextRow, nextRow)
	vr := &gsheet.ValueRange{Values: [][]any{{
		r.ID, r.StudentName, r.Batch, string(r.Month), string(r.Year),
		r.Amount, paidDate, method,
	}}}

	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, dataRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("update %s in sheet %s: %w", dataRange, sheetName, err)
	}

	return dataRange, nil
}

// yearPrefixedName returns "<year> <base>" unless base already starts
// with a 4-digit year.
func yearPrefixedName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return base
	}
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}
