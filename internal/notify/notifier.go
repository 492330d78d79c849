package notify

import "log"

// Notifier: Sipariş hazır olduğunda servis ekibine haber verir.
// Teslimat best-effort'tur; hata döndürse bile sipariş akışı durmaz.
type Notifier interface {
	OrderReady(orderID, tableID uint, itemCount int) error
}

// LogNotifier: Varsayılan bildirim kanalı. Harici push/websocket entegrasyonu
// bağlanana kadar sunucu loguna yazar.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) OrderReady(orderID, tableID uint, itemCount int) error {
	log.Printf("[BILDIRIM] Sipariş hazır: sipariş %d, masa %d, %d kalem", orderID, tableID, itemCount)
	return nil
}
