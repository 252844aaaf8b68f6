package receipt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/salary-tracker/internal/domain/employee"
	"github.com/cmlabs-hris/salary-tracker/internal/domain/settings"
	"github.com/cmlabs-hris/salary-tracker/internal/pkg/storage"
	"github.com/cmlabs-hris/salary-tracker/internal/pkg/validator"
	"github.com/cmlabs-hris/salary-tracker/internal/service/salary"
	"github.com/jung-kurt/gofpdf"
)

const urlExpiry = 24 * time.Hour

type receiptServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	settingsRepo settings.SettingsRepository
	storage      storage.FileStorage
	logger       *slog.Logger
	now          func() time.Time
}

func NewReceiptService(
	employeeRepo employee.EmployeeRepository,
	settingsRepo settings.SettingsRepository,
	fileStorage storage.FileStorage,
	logger *slog.Logger,
	now func() time.Time,
) employee.ReceiptService {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &receiptServiceImpl{
		employeeRepo: employeeRepo,
		settingsRepo: settingsRepo,
		storage:      fileStorage,
		logger:       logger,
		now:          now,
	}
}

// Path is the storage key of an employee's receipt for month.
func Path(employeeID, month string) string {
	return fmt.Sprintf("receipts/%s/%s.pdf", employeeID, month)
}

// Generate implements employee.ReceiptService.
func (s *receiptServiceImpl) Generate(ctx context.Context, employeeID string, month string) (employee.ReceiptResponse, error) {
	if validator.IsEmpty(employeeID) {
		return employee.ReceiptResponse{}, employee.ErrEmployeeIDRequired
	}
	if !validator.IsValidMonth(month) {
		return employee.ReceiptResponse{}, employee.ErrInvalidMonth
	}

	e, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return employee.ReceiptResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	rec, ok := salary.PaymentRecord(e, month)
	if !ok || rec.Status != employee.PaymentStatusPaid {
		return employee.ReceiptResponse{}, employee.ErrPaymentNotRecorded
	}
	appSettings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return employee.ReceiptResponse{}, fmt.Errorf("failed to load settings: %w", err)
	}

	var buf bytes.Buffer
	if err := s.render(&buf, e, rec, string(appSettings.Currency)); err != nil {
		return employee.ReceiptResponse{}, fmt.Errorf("failed to render receipt: %w", err)
	}

	key, err := s.storage.Upload(ctx, &buf, Path(e.ID, month), "application/pdf")
	if err != nil {
		return employee.ReceiptResponse{}, fmt.Errorf("failed to store receipt: %w", err)
	}
	url, err := s.storage.GetURL(ctx, key, urlExpiry)
	if err != nil {
		return employee.ReceiptResponse{}, fmt.Errorf("failed to build receipt url: %w", err)
	}

	s.logger.Info("receipt generated", "employee_id", e.ID, "month", month, "path", key)
	return employee.ReceiptResponse{EmployeeID: e.ID, Month: month, Path: key, URL: url}, nil
}

// Open implements employee.ReceiptService.
func (s *receiptServiceImpl) Open(ctx context.Context, employeeID string, month string) (io.ReadCloser, error) {
	key, err := receiptKey(employeeID, month)
	if err != nil {
		return nil, err
	}
	exists, err := s.storage.Exists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to stat receipt: %w", err)
	}
	if !exists {
		return nil, employee.ErrReceiptNotFound
	}
	rc, err := s.storage.Download(ctx, key)
	if errors.Is(err, storage.ErrFileNotFound) {
		return nil, employee.ErrReceiptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open receipt: %w", err)
	}
	return rc, nil
}

// Remove implements employee.ReceiptService.
func (s *receiptServiceImpl) Remove(ctx context.Context, employeeID string, month string) error {
	key, err := receiptKey(employeeID, month)
	if err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete receipt: %w", err)
	}
	s.logger.Info("receipt removed", "employee_id", employeeID, "month", month, "path", key)
	return nil
}

func receiptKey(employeeID, month string) (string, error) {
	if validator.IsEmpty(employeeID) {
		return "", employee.ErrEmployeeIDRequired
	}
	if !validator.IsValidMonth(month) {
		return "", employee.ErrInvalidMonth
	}
	return Path(employeeID, month), nil
}

func (s *receiptServiceImpl) render(buf *bytes.Buffer, e employee.Employee, rec employee.PaymentRecord, currency string) error {
	monthName, err := salary.MonthName(rec.Month)
	if err != nil {
		return err
	}
	paidOn, err := salary.FormatDate(rec.PaidDate)
	if err != nil {
		paidOn = rec.PaidDate
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Salary receipt "+rec.Month, false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Salary Receipt")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	rows := [][2]string{
		{"Employee", e.Name},
		{"Position", e.Position},
		{"Department", e.Department},
		{"Period", monthName},
		{"Amount", salary.FormatCurrency(rec.Amount, currency)},
		{"Paid on", paidOn},
		{"Receipt no.", rec.ID},
	}
	if rec.Notes != nil && *rec.Notes != "" {
		rows = append(rows, [2]string{"Notes", *rec.Notes})
	}
	for _, row := range rows {
		pdf.CellFormat(40, 8, row[0]+":", "", 0, "L", false, 0, "")
		pdf.Cell(0, 8, row[1])
		pdf.Ln(8)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 6, "Generated "+s.now().UTC().Format("Jan 2, 2006 15:04 MST"))

	return pdf.Output(buf)
}
