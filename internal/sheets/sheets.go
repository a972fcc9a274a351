// Package sheets mirrors the consultation ledger into a Google Spreadsheet
// so staff can work from a familiar view. Writes go through the sync_queue
// table and are retried with backoff, keeping intake latency independent of
// the Sheets API.
package sheets

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/rs/zerolog"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"lawdesk/internal/models"
)

// Task types carried on the sync queue.
const (
	TaskUpsert = "upsert"
	TaskDelete = "delete"
)

var ledgerHeader = []interface{}{
	"ID", "유형", "이름", "연락처", "분야", "상태",
	"희망일", "희망시간", "사무소", "접수일시", "수정일시",
}

// Service talks to one spreadsheet tab.
type Service struct {
	srv           *sheets.Service
	logger        *zerolog.Logger
	spreadsheetID string
	sheetName     string

	mu       sync.Mutex
	rowCache map[int64]int // consultation id -> 1-based sheet row
	sheetID  int64
	hasSheet bool
}

func NewService(ctx context.Context, credentialsFile, spreadsheetID, sheetName string, logger *zerolog.Logger) (*Service, error) {
	srv, err := sheets.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}
	if sheetName == "" {
		sheetName = "상담내역"
	}
	return &Service{
		srv:           srv,
		logger:        logger,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		rowCache:      make(map[int64]int),
	}, nil
}

// EnsureHeader writes the ledger header row. Safe to call on every start.
func (s *Service) EnsureHeader(ctx context.Context) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{ledgerHeader}}
	_, err := s.srv.Spreadsheets.Values.
		Update(s.spreadsheetID, s.sheetName+"!A1", vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("write ledger header: %w", err)
	}
	return nil
}

// Upsert writes the consultation's row, updating in place when the id is
// already on the sheet.
func (s *Service) Upsert(ctx context.Context, c *models.Consultation) error {
	row, ok := s.getCachedRow(c.ID)
	if !ok {
		var err error
		row, err = s.findRow(ctx, c.ID)
		if err != nil {
			return err
		}
	}

	vr := &sheets.ValueRange{Values: [][]interface{}{consultationRowValues(c)}}

	if row > 0 {
		rng := fmt.Sprintf("%s!A%d", s.sheetName, row)
		_, err := s.srv.Spreadsheets.Values.
			Update(s.spreadsheetID, rng, vr).
			ValueInputOption("RAW").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("update ledger row %d: %w", row, err)
		}
		s.setCachedRow(c.ID, row)
		return nil
	}

	resp, err := s.srv.Spreadsheets.Values.
		Append(s.spreadsheetID, s.sheetName+"!A:A", vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append ledger row: %w", err)
	}
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		if r, ok := rowFromRange(resp.Updates.UpdatedRange); ok {
			s.setCachedRow(c.ID, r)
		}
	}
	return nil
}

// Remove deletes the consultation's row from the sheet.
func (s *Service) Remove(ctx context.Context, consultationID int64) error {
	row, ok := s.getCachedRow(consultationID)
	if !ok {
		var err error
		row, err = s.findRow(ctx, consultationID)
		if err != nil {
			return err
		}
	}
	if row == 0 {
		return nil
	}

	sheetID, err := s.numericSheetID(ctx)
	if err != nil {
		return err
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(row - 1),
					EndIndex:   int64(row),
				},
			},
		}},
	}
	if _, err := s.srv.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete ledger row %d: %w", row, err)
	}

	// Row numbers below the deleted one shifted; drop the whole cache.
	s.ClearCache()
	return nil
}

// findRow scans the id column for the consultation, returning 0 when absent.
func (s *Service) findRow(ctx context.Context, consultationID int64) (int, error) {
	resp, err := s.srv.Spreadsheets.Values.
		Get(s.spreadsheetID, s.sheetName+"!A2:A").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("read ledger ids: %w", err)
	}

	want := strconv.FormatInt(consultationID, 10)
	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		if fmt.Sprint(row[0]) == want {
			return i + 2, nil
		}
	}
	return 0, nil
}

func (s *Service) numericSheetID(ctx context.Context) (int64, error) {
	s.mu.Lock()
	if s.hasSheet {
		id := s.sheetID
		s.mu.Unlock()
		return id, nil
	}
	s.mu.Unlock()

	doc, err := s.srv.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, sh := range doc.Sheets {
		if sh.Properties != nil && sh.Properties.Title == s.sheetName {
			s.mu.Lock()
			s.sheetID = sh.Properties.SheetId
			s.hasSheet = true
			s.mu.Unlock()
			return sh.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("sheet %q not found", s.sheetName)
}

func (s *Service) getCachedRow(id int64) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rowCache[id]
	return row, ok
}

func (s *Service) setCachedRow(id int64, row int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rowCache[id] = row
}

func (s *Service) deleteCachedRow(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rowCache, id)
}

// ClearCache drops all cached row positions.
func (s *Service) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rowCache = make(map[int64]int)
}

// consultationRowValues builds one ledger row.
func consultationRowValues(c *models.Consultation) []interface{} {
	date := ""
	if !c.PreferredDate.IsZero() {
		date = c.PreferredDate.Format("2006-01-02")
	}
	return []interface{}{
		c.ID,
		c.RequestType,
		c.Name,
		c.Phone,
		c.Category,
		c.Status,
		date,
		c.PreferredTime,
		c.OfficeLocation,
		c.CreatedAt.Format("2006-01-02 15:04:05"),
		c.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

// rowFromRange extracts the row number from an A1 range like "상담내역!A7:K7".
func rowFromRange(rng string) (int, bool) {
	digits := ""
	for i := 0; i < len(rng); i++ {
		ch := rng[i]
		if ch >= '0' && ch <= '9' {
			digits += string(ch)
		} else if digits != "" {
			break
		}
	}
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// mirrorable reports whether a consultation belongs on the ledger. Cancelled
// ones are removed rather than mirrored.
func mirrorable(status string) bool {
	return status != models.StatusCancelled
}
