// Package apperrors, uygulamanın tüm katmanlarında kullanılan tipli hata
// sınıflarını tanımlar. Model katmanı bu hataları döndürür, Fiber'ın merkezi
// ErrorHandler'ı HTTP durum kodlarına çevirir.
package apperrors

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
)

// NotFoundError: Referans verilen kayıt yok veya soft-delete edilmiş.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func NotFound(msg string) *NotFoundError { return &NotFoundError{Message: msg} }

func NotFoundf(format string, args ...any) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError: Mevcut kayıtla çakışma (ör: aynı kalem için aynı parti numarası).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func Conflict(msg string) *ConflictError { return &ConflictError{Message: msg} }

func Conflictf(format string, args ...any) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// BusinessLogicError: İş kuralı ihlali (ör: yetersiz stok). Stok değişmeden
// tekrar denemek anlamsızdır; asla kısmi sonuca indirgenmez.
type BusinessLogicError struct {
	Message string
}

func (e *BusinessLogicError) Error() string { return e.Message }

func BusinessLogic(msg string) *BusinessLogicError { return &BusinessLogicError{Message: msg} }

func BusinessLogicf(format string, args ...any) *BusinessLogicError {
	return &BusinessLogicError{Message: fmt.Sprintf(format, args...)}
}

// DatabaseError: Altta yatan depolama hatasını sarar. Geçici kabul edilir,
// çağıran işlemin tamamını yeniden deneyebilir.
type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *DatabaseError) Unwrap() error { return e.Err }

func Database(op string, err error) *DatabaseError { return &DatabaseError{Op: op, Err: err} }

// ToFiber: Tipli hatayı HTTP durum koduna çevirir.
// NotFound→404, Conflict→409, BusinessLogic→422, Database→500.
func ToFiber(err error) *fiber.Error {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return fiber.NewError(fiber.StatusNotFound, nf.Message)
	}
	var cf *ConflictError
	if errors.As(err, &cf) {
		return fiber.NewError(fiber.StatusConflict, cf.Message)
	}
	var bl *BusinessLogicError
	if errors.As(err, &bl) {
		return fiber.NewError(fiber.StatusUnprocessableEntity, bl.Message)
	}
	var db *DatabaseError
	if errors.As(err, &db) {
		return fiber.NewError(fiber.StatusInternalServerError, "Veritabanı hatası, lütfen tekrar deneyin")
	}
	return nil
}

// ErrorHandler: Fiber uygulamasının merkezi hata işleyicisi.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if fe := ToFiber(err); fe != nil {
		var db *DatabaseError
		if errors.As(err, &db) {
			log.Println("Veritabanı hatası:", err)
		}
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	if e, ok := err.(*fiber.Error); ok {
		return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
	}
	log.Println("Beklenmeyen hata:", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Beklenmeyen sunucu hatası",
	})
}
