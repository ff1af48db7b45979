package bot

import (
	"fmt"

	"rentoka/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Main menu button labels. These double as routing keys in handleMessage.
const (
	btnBrowse       = "🚗 Mobil Tersedia"
	btnTransactions = "🧾 Riwayat Transaksi"
	btnProfile      = "👤 Profil Saya"
	btnLogin        = "🔑 Sign In"
	btnRegister     = "📝 Sign Up"
	btnLogout       = "🚪 Keluar"
	btnExport       = "📊 Export Riwayat"
	btnCancel       = "❌ Batal"
)

func mainMenuKeyboard(loggedIn bool) tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton

	rows = append(rows, tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(btnBrowse),
	))

	if loggedIn {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnTransactions),
			tgbotapi.NewKeyboardButton(btnProfile),
		))
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnExport),
			tgbotapi.NewKeyboardButton(btnLogout),
		))
	} else {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnLogin),
			tgbotapi.NewKeyboardButton(btnRegister),
		))
	}

	keyboard := tgbotapi.NewReplyKeyboard(rows...)
	keyboard.ResizeKeyboard = true
	return keyboard
}

func vehiclesKeyboard(vehicles []models.Vehicle, page, pageSize int) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	startIdx := page * pageSize
	endIdx := startIdx + pageSize
	if endIdx > len(vehicles) {
		endIdx = len(vehicles)
	}

	for _, v := range vehicles[startIdx:endIdx] {
		label := fmt.Sprintf("%s - Rp %d/hari", v.FullName(), v.RentalPrice)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("vehicle:%d", v.ID)),
		))
	}

	var nav []tgbotapi.InlineKeyboardButton
	if page > 0 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("⬅️", fmt.Sprintf("vehicles_page:%d", page-1)))
	}
	if endIdx < len(vehicles) {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("➡️", fmt.Sprintf("vehicles_page:%d", page+1)))
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func bookingFormKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Continue", "booking_continue"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Tutup", "booking_close"),
		),
	)
}

func paymentMethodsKeyboard(selected string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	for _, method := range models.PaymentMethods {
		label := method
		if method == selected {
			label = "✅ " + method
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "pay_method:"+method),
		))
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Continue", "pay_continue"),
		tgbotapi.NewInlineKeyboardButtonData("⬅️ Kembali", "booking_back"),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func orderConfirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Bayar", "order_pay"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Batalkan", "order_cancel"),
		),
	)
}

func finalCheckKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Ya, bayar & buat pesanan", "final_commit"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✖️ Tutup", "final_dismiss"),
		),
	)
}

func successKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Lihat Riwayat Transaksi", "show_transactions"),
		),
	)
}

func transactionsKeyboard(transactions []models.Transaction) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	for _, t := range transactions {
		if t.Cancellable() {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(
					fmt.Sprintf("Ajukan Pembatalan - %s", t.VehicleName),
					fmt.Sprintf("cancel_tx:%d", t.ID),
				),
			))
		}
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func profileKeyboard() tgbotapi.InlineKeyboardMarkup {
	labels := map[string]string{
		models.FieldName:      "Nama Lengkap",
		models.FieldIDCard:    "Nomor KTP",
		models.FieldPhone:     "No. Handphone",
		models.FieldEmail:     "Email Aktif",
		models.FieldAddress:   "Alamat",
		models.FieldCity:      "Kota",
		models.FieldLatitude:  "Latitude",
		models.FieldLongitude: "Longitude",
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, field := range models.ProfileFields {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ "+labels[field], "edit_profile:"+field),
		))
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
