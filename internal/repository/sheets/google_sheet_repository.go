package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/vendsim/internal/config"
	"github.com/mamadbah2/vendsim/internal/domain/models"
)

const financialsRange = "Financials!A:E"

// Repository defines the export operations supported by the Google Sheets adapter.
type Repository interface {
	AppendDailyRecord(ctx context.Context, date models.Date, record models.FinancialRecord) error
}

// GoogleSheetRepository implements the Repository interface using the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendDailyRecord appends one day's financial record as a spreadsheet row.
func (r *GoogleSheetRepository) AppendDailyRecord(ctx context.Context, date models.Date, record models.FinancialRecord) error {
	values := []interface{}{
		date.String(),
		record.Revenue.String(),
		record.COGS.String(),
		record.Expenses.String(),
		record.Profit.String(),
	}
	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, financialsRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append row into range %s: %w", financialsRange, err)
	}

	r.logger.Debug("financial row appended to sheet", zap.String("date", date.String()))
	return nil
}
