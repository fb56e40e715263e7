package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"roomdesk/internal/database"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Bookings"

// Reporter writes booking snapshots to xlsx files under a configured
// directory. Each run produces a full snapshot, not a diff.
type Reporter struct {
	path   string
	logger *zerolog.Logger
}

func NewReporter(path string, logger *zerolog.Logger) *Reporter {
	return &Reporter{
		path:   path,
		logger: logger,
	}
}

func (r *Reporter) WriteBookingsReport(rows []database.BookingExportRow) (string, error) {
	if err := os.MkdirAll(r.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"Booking ID", "User ID", "Hotel", "Room", "Capacity", "Created At", "Updated At"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle)

	for i, row := range rows {
		n := i + 2
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", n), row.BookingID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", n), row.UserID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", n), row.HotelName)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", n), row.RoomName)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", n), row.Capacity)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", n), row.CreatedAt.Format("02.01.2006 15:04"))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("G%d", n), row.UpdatedAt.Format("02.01.2006 15:04"))
	}

	_ = f.SetColWidth(sheetName, "A", "B", 12)
	_ = f.SetColWidth(sheetName, "C", "D", 25)
	_ = f.SetColWidth(sheetName, "E", "E", 10)
	_ = f.SetColWidth(sheetName, "F", "G", 20)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("bookings_export_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(r.path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	r.logger.Info().Str("file_path", filePath).Int("rows", len(rows)).Msg("bookings report created")
	return filePath, nil
}
