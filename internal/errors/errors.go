// errors стандартизирует ответы об ошибках HTTP-слоя qrmenu-backend.
// На вход он принимает ошибку бизнес-логики (сентинелы пакета service),
// а на выход даёт:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей.
//
// Квотные отказы дополнительно несут current/max, чтобы клиент мог показать
// «N из M использовано» без дополнительного запроса; ошибки валидации несут
// карту поле→сообщение.
package errors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pribylovaa/qrmenu-backend/internal/service"
)

// APIError — единый формат для фронта.
// Code — короткий стабильный код для машиночитаемой обработки на FE.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	RequestID string            `json:"request_id,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	Current   *int              `json:"current,omitempty"`
	Max       *int              `json:"max,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP конвертирует ошибку бизнес-логики в HTTP-статус и унифицированный
// ответ для фронта.
//
// Поведение:
//   - err == nil — это программная ошибка вызова: возвращаем 500/internal,
//     чтобы не послать "200 OK" с телом ошибки и не маскировать баг;
//   - нераспознанная ошибка (таймаут стора, сбой кодека) — 500/internal
//     без утечки деталей: детали остаются в серверном логе.
func ToHTTP(err error) (int, ErrorResponse) {
	if err == nil {
		return http.StatusInternalServerError, internalResponse()
	}

	var fieldErrs *service.FieldErrors
	if errors.As(err, &fieldErrs) {
		return http.StatusBadRequest, ErrorResponse{Error: APIError{
			Code:    "validation",
			Message: "validation failed",
			Fields:  fieldErrs.Fields,
		}}
	}

	var quotaErr *service.QuotaError
	if errors.As(err, &quotaErr) {
		status := http.StatusForbidden
		code := "quota_exceeded"
		if errors.Is(err, service.ErrScanLimit) {
			status = http.StatusTooManyRequests
			code = "scan_limit"
		}

		current, max := quotaErr.Current, quotaErr.Max

		return status, ErrorResponse{Error: APIError{
			Code:    code,
			Message: quotaErr.Message,
			Current: &current,
			Max:     &max,
		}}
	}

	status, code, msg := base(err)

	return status, ErrorResponse{Error: APIError{
		Code:    code,
		Message: msg,
	}}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	// Прокидываем request_id для фронта, чтобы он мог репортить баги с привязкой.
	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// base — базовый маппинг сентинелов service -> HTTP/FE-код/сообщение.
//   - ErrValidation -> 400
//   - ErrEmailTaken -> 409
//   - ErrMissingToken/ErrInvalidCredentials/ErrInvalidToken/
//     ErrTokenExpired/ErrTokenRevoked -> 401
//   - ErrAccountSuspended/ErrPermissionDenied/ErrNotOwner -> 403
//   - ErrNotFound -> 404
//   - прочее -> 500/internal
func base(err error) (int, string, string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, "validation", "validation failed"
	case errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict, "email_taken", "email already taken"
	case errors.Is(err, service.ErrMissingToken):
		return http.StatusUnauthorized, "missing_credential", "authentication required"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials", "invalid credentials"
	case errors.Is(err, service.ErrTokenExpired):
		return http.StatusUnauthorized, "token_expired", "token expired"
	case errors.Is(err, service.ErrTokenRevoked):
		return http.StatusUnauthorized, "token_revoked", "token revoked"
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized, "invalid_token", "invalid token"
	case errors.Is(err, service.ErrAccountSuspended):
		return http.StatusForbidden, "account_suspended", "account suspended"
	case errors.Is(err, service.ErrPermissionDenied):
		return http.StatusForbidden, "permission_denied", "permission denied"
	case errors.Is(err, service.ErrNotOwner):
		return http.StatusForbidden, "not_owner", "not resource owner"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not_found", "not found"
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}

func internalResponse() ErrorResponse {
	return ErrorResponse{Error: APIError{
		Code:    "internal",
		Message: "internal error",
	}}
}
