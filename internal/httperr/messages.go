package httperr

var messages = map[string]string{
	CodeValidation:          "Gönderilen veriler geçersiz.",
	CodeInvalidDate:         "Geçersiz tarih formatı.",
	CodePastDate:            "Geçmiş bir tarih veya saat için randevu oluşturulamaz.",
	CodeNotWorkingDay:       "Personel bu gün çalışmıyor.",
	CodeOutsideWorkingHours: "Randevu saati personelin çalışma saatleri dışında.",
	CodeTimeConflict:        "Bu saatte personelin başka bir randevusu var.",
	CodeSessionExhausted:    "Bu satışta kullanılabilir seans kalmadı.",
	CodeSaleFullyBooked:     "Bu satış için kalan seans sayısı kadar randevu zaten oluşturulmuş.",
	CodeDuplicateClient:     "Bu e-posta veya telefon ile kayıtlı bir müşteri zaten var.",
	CodeAlreadyCompleted:    "Randevu zaten tamamlanmış.",
	CodeAppointmentCanceled: "İptal edilmiş bir randevu tamamlanamaz.",
	CodeInvalidStatus:       "Geçersiz randevu durumu.",
	CodeStaffNotFound:       "Personel bulunamadı veya aktif değil.",
	CodeServiceNotFound:     "Hizmet bulunamadı veya aktif değil.",
	CodeSaleNotFound:        "Satış bulunamadı.",
	CodeAppointmentNotFound: "Randevu bulunamadı.",
	CodeAccountNotFound:     "İşletme bulunamadı.",
	CodeDuplicateWorkingDay: "Aynı gün için birden fazla çalışma saati tanımlanamaz.",
	CodeInvalidWorkingHours: "Çalışma saatleri geçersiz.",
	CodeForbidden:           "Bu işlem için yetkiniz yok.",
	CodeUnauthorized:        "Oturum doğrulanamadı.",
	CodeInternal:            "Sunucu hatası oluştu.",
}

func MessageFor(code string) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return messages[CodeInternal]
}
