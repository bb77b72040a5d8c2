package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// SheetsSource reads transaction rows from a Google Sheets range. It is an
// optional ingestion boundary for people who keep their ledger in a
// spreadsheet instead of bank exports.
type SheetsSource struct {
	svc           *gsheet.Service
	spreadsheetID string
	readRange     string
}

// NewSheetsSource creates a source using Service Account credentials from the
// environment: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewSheetsSource(ctx context.Context, spreadsheetID, readRange string) (*SheetsSource, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if strings.TrimSpace(readRange) == "" {
		return nil, errors.New("missing read range")
	}

	credentialsJSON, err := serviceAccountCredentials()
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &SheetsSource{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		readRange:     readRange,
	}, nil
}

// Load fetches the configured range and returns it in the canonical schema.
// The first row of the range is treated as the header row.
func (s *SheetsSource) Load(ctx context.Context) (Table, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.readRange).Context(ctx).Do()
	if err != nil {
		return Table{}, fmt.Errorf("get values %s!%s: %w", s.spreadsheetID, s.readRange, err)
	}
	if len(resp.Values) == 0 {
		return Table{}, ErrEmptyInput
	}

	t := Table{Columns: toStrings(resp.Values[0])}
	for _, row := range resp.Values[1:] {
		t.Rows = append(t.Rows, padRow(toStrings(row), len(t.Columns)))
	}
	return Normalize(t), nil
}

func serviceAccountCredentials() ([]byte, error) {
	inline := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	if inline != "" {
		return []byte(inline), nil
	}

	file := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if file == "" {
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	credentialsJSON, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	return credentialsJSON, nil
}

func toStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = fmt.Sprintf("%v", v)
	}
	return out
}
