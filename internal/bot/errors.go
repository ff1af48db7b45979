package bot

import (
	"errors"

	"rentoka/internal/flow"
	"rentoka/internal/gateway"
)

// getErrorMessage maps an error to the text shown to the user. Business
// failures surface the server's reason; everything unexpected collapses into
// the generic system message.
func (b *Bot) getErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	if apiErr := gateway.AsAPIError(err); apiErr != nil {
		return "⚠️ " + apiErr.Message
	}

	switch {
	case errors.Is(err, gateway.ErrUnauthorized):
		return "Sesi anda telah berakhir. Silakan Sign In kembali."

	case errors.Is(err, flow.ErrNoPaymentMethod):
		return "*pilih metode pembayaran terlebih dahulu"

	case errors.Is(err, flow.ErrMissingRentalData):
		return "Mohon lengkapi tanggal sewa, nomor telepon dan nomor KTP terlebih dahulu."

	case errors.Is(err, flow.ErrEmptyReason):
		return "Mohon isi alasan pembatalan."

	case errors.Is(err, flow.ErrPasswordMismatch):
		return "Konfirmasi password tidak cocok!"

	case errors.Is(err, flow.ErrNotCancellable):
		return "Tidak dapat dibatalkan"

	case errors.Is(err, flow.ErrCommitInFlight):
		return "Permintaan sebelumnya masih diproses."

	case errors.Is(err, flow.ErrInvalidTransition):
		return "Aksi tidak tersedia pada langkah ini."
	}

	return "❌ Terjadi kesalahan sistem. Silakan coba lagi."
}
