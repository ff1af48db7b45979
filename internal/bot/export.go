package bot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"rentoka/internal/gateway"
	"rentoka/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xuri/excelize/v2"
)

// handleExport renders the rental history as an .xlsx file and sends it back
// as a document.
func (b *Bot) handleExport(ctx context.Context, chatID, userID int64) {
	session, err := b.sessions.Get(ctx, userID)
	if err != nil || !session.IsLoggedIn() {
		b.redirectToLogin(ctx, chatID, userID)
		return
	}

	transactions, err := b.gateway.Transactions(ctx, session.Token, session.CustomerID)
	if err != nil {
		if errors.Is(err, gateway.ErrUnauthorized) {
			b.expireAndRedirect(ctx, chatID, userID)
			return
		}
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	if len(transactions) == 0 {
		b.sendMessage(chatID, "Belum ada riwayat sewa untuk diekspor.")
		return
	}

	filePath, err := b.exportToExcel(transactions, userID)
	if err != nil {
		b.logger.Error().Err(err).Int64("user_id", userID).Msg("Export failed")
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	defer os.Remove(filePath)

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(filePath))
	doc.Caption = "Riwayat sewa Rentoka anda 📊"
	if _, err := b.tgService.Send(doc); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send export document")
	}
}

func (b *Bot) exportToExcel(transactions []models.Transaction, userID int64) (string, error) {
	if err := os.MkdirAll(b.config.Exports.Path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Riwayat Sewa"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"ID", "Mobil", "Brand", "Tanggal", "Status", "Total"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, h)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle)

	for i, tx := range transactions {
		row := i + 2
		values := []interface{}{tx.ID, tx.VehicleName, tx.Brand, tx.Date, tx.Status, tx.TotalPrice}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 10)
	_ = f.SetColWidth(sheetName, "B", "F", 20)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("riwayat_%d_%s.xlsx", userID, time.Now().Format("2006-01-02"))
	filePath := filepath.Join(b.config.Exports.Path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	b.logger.Info().Str("file_path", filePath).Msg("Excel file created")
	return filePath, nil
}
