package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// GoogleSource reads and writes a Google Sheets document.
type GoogleSource struct {
	svc           *gsheets.Service
	spreadsheetID string
}

// GoogleConfig holds the document id and service account key. Exactly one
// of CredentialsFile and CredentialsJSON is expected.
type GoogleConfig struct {
	SpreadsheetID   string
	CredentialsFile string
	CredentialsJSON string
}

// NewGoogleSource authenticates with a service account key.
func NewGoogleSource(ctx context.Context, cfg GoogleConfig) (*GoogleSource, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("%w: missing spreadsheet id", ErrNotConfigured)
	}
	var cred option.ClientOption
	switch {
	case cfg.CredentialsJSON != "":
		cred = option.WithCredentialsJSON([]byte(cfg.CredentialsJSON))
	case cfg.CredentialsFile != "":
		cred = option.WithCredentialsFile(cfg.CredentialsFile)
	default:
		return nil, fmt.Errorf("%w: missing credentials", ErrNotConfigured)
	}

	svc, err := gsheets.NewService(ctx, cred, option.WithScopes(gsheets.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("sheets client: %w", err)
	}
	return &GoogleSource{svc: svc, spreadsheetID: cfg.SpreadsheetID}, nil
}

// Values implements Source with formatted values.
func (g *GoogleSource) Values(ctx context.Context, readRange string) ([][]string, error) {
	r, err := ParseRange(readRange)
	if err != nil {
		return nil, err
	}
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, r.String()).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", r, err)
	}

	out := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = fmt.Sprint(v)
		}
		out[i] = cells
	}
	return out, nil
}

// Update implements Source. The value is parsed as if typed by a user.
func (g *GoogleSource) Update(ctx context.Context, cell, value string) error {
	body := &gsheets.ValueRange{Values: [][]any{{value}}}
	_, err := g.svc.Spreadsheets.Values.Update(g.spreadsheetID, cell, body).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", cell, err)
	}
	return nil
}
