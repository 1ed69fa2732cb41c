package utils

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// OrderDeepLink — ссылка на бота, открывающая карточку заказа.
func OrderDeepLink(botUsername string, orderID int64) string {
	return fmt.Sprintf("https://t.me/%s?start=order_%d", botUsername, orderID)
}

// OrderQRCode генерирует PNG с QR-кодом ссылки на заказ.
// Код печатают на объявлениях, чтобы работники записывались сами.
func OrderQRCode(botUsername string, orderID int64) ([]byte, error) {
	link := OrderDeepLink(botUsername, orderID)
	png, err := qrcode.Encode(link, qrcode.Medium, 512)
	if err != nil {
		return nil, fmt.Errorf("OrderQRCode: заказ %d: %w", orderID, err)
	}
	return png, nil
}
